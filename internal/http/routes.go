package http

import (
	"time"

	"taskboard/internal/config"
	"taskboard/internal/http/handlers"
	"taskboard/internal/http/middleware"
	"taskboard/internal/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every endpoint onto the engine. Listing is public;
// mutations and the current-user endpoint sit behind the JWT middleware.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, health *handlers.HealthHandler, hub *ws.Hub, cfg *config.Config) {
	apiWindow := time.Duration(cfg.APIRateWindow) * time.Second
	authWindow := time.Duration(cfg.AuthRateWindow) * time.Second

	// Health checks (no rate limiting)
	r.GET("/healthz", health.Liveness)
	r.GET("/readyz", health.Readiness)

	// WebSocket task change feed
	r.GET("/ws", h.WS(hub))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, apiWindow))

	// Auth (stricter window on credential endpoints)
	authRL := middleware.RedisRateLimit(cfg.AuthRateLimit, authWindow)
	v1.POST("/auth/register", authRL, h.Register)
	v1.POST("/auth/login", authRL, h.Login)
	v1.POST("/auth/logout", h.Logout)
	v1.GET("/auth/me", middleware.JWT(), h.Me)

	// Tasks
	v1.GET("/tasks", h.ListTasks)
	v1.POST("/tasks", middleware.JWT(), h.CreateTask)
	v1.PUT("/tasks/:id", middleware.JWT(), h.UpdateTask)
	v1.DELETE("/tasks/:id", middleware.JWT(), h.DeleteTask)
}
