package config

import (
	"os"
	"strconv"

	"taskboard/internal/logger"

	"github.com/joho/godotenv"
)

// Store backend selectors.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

type Config struct {
	AppPort      string
	StoreBackend string
	DatabaseURL  string
	SQLitePath   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string

	// Task limits
	TitleMaxLen   int
	DescMaxLen    int
	TaskCeiling   int
	ListMaxLimit  int

	// Rate limits (requests per window, window in seconds)
	APIRateLimit   int
	APIRateWindow  int
	AuthRateLimit  int
	AuthRateWindow int
}

// Load reads configuration from the environment, with defaults for
// everything except the values the server cannot run without.
func Load() *Config {
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	backend := os.Getenv("STORE_BACKEND")
	if backend == "" {
		backend = StoreMemory
	}
	switch backend {
	case StoreMemory, StoreSQLite, StorePostgres:
	default:
		logger.Fatal("unknown STORE_BACKEND", "backend", backend)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if backend == StorePostgres && dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	sqlitePath := os.Getenv("SQLITE_PATH")
	if sqlitePath == "" {
		sqlitePath = "taskboard.db"
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		AppPort:      port,
		StoreBackend: backend,
		DatabaseURL:  dbURL,
		SQLitePath:   sqlitePath,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       intEnv("REDIS_DB", 0),

		JWTSecret: jwtSecret,

		TitleMaxLen:  intEnv("TASK_TITLE_MAX", 200),
		DescMaxLen:   intEnv("TASK_DESCRIPTION_MAX", 1000),
		TaskCeiling:  intEnv("TASK_CEILING", 100),
		ListMaxLimit: intEnv("TASK_LIST_MAX_LIMIT", 100),

		APIRateLimit:   intEnv("API_RATE_LIMIT", 60),
		APIRateWindow:  intEnv("API_RATE_WINDOW_SECONDS", 60),
		AuthRateLimit:  intEnv("AUTH_RATE_LIMIT", 5),
		AuthRateWindow: intEnv("AUTH_RATE_WINDOW_SECONDS", 60),
	}
}

func intEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
