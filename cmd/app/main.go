package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/cache"
	"taskboard/internal/config"
	"taskboard/internal/db"
	httpServer "taskboard/internal/http"
	"taskboard/internal/http/handlers"
	"taskboard/internal/http/middleware"
	"taskboard/internal/logger"
	"taskboard/internal/service"
	"taskboard/internal/store"
	"taskboard/internal/store/gormstore"
	"taskboard/internal/store/memory"
	"taskboard/internal/store/postgres"
	"taskboard/internal/validation"
	"taskboard/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const version = "1.0.0"

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_JSON") == "true")
	cfg := config.Load()
	service.InitJWT(cfg.JWTSecret)

	var (
		taskStore store.TaskStore
		userStore store.UserStore
		pinger    handlers.Pinger
	)
	switch cfg.StoreBackend {
	case config.StorePostgres:
		pool := db.Connect(cfg.DatabaseURL)
		defer pool.Close()
		taskStore = postgres.NewTaskStore(pool)
		userStore = postgres.NewUserStore(pool)
		pinger = pool
	case config.StoreSQLite:
		g := db.OpenSQLite(cfg.SQLitePath)
		taskStore = gormstore.NewTaskStore(g)
		userStore = gormstore.NewUserStore(g)
		pinger = db.GormPinger{DB: g}
	default:
		taskStore = memory.NewTaskStore()
		userStore = memory.NewUserStore()
	}
	logger.Info("store ready", "backend", cfg.StoreBackend)

	redisClient := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	middleware.SetRedisClient(redisClient)
	listing := cache.NewListingCache(redisClient)

	hub := ws.NewHub()
	notifier := service.MultiNotifier{listing, hub}

	tasks := service.NewTaskService(taskStore, notifier, cfg.TaskCeiling, cfg.ListMaxLimit)
	auth := service.NewAuthService(userStore)
	validator := validation.New(validation.Limits{
		TitleMax:       cfg.TitleMaxLen,
		DescriptionMax: cfg.DescMaxLen,
	})

	r := gin.Default()
	r.Use(middleware.Metrics())
	r.Use(corsMiddleware())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := handlers.NewHandler(tasks, auth, validator, listing)
	health := handlers.NewHealthHandler(pinger, version)
	httpServer.RegisterRoutes(r, h, health, hub, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
