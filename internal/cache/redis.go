package cache

import (
	"context"
	"time"

	"taskboard/internal/logger"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns a Redis client, or nil when addr is empty or the
// server is unreachable. Callers treat nil as "no cache" and fail open.
func ConnectRedis(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, caching disabled", "addr", addr, "error", err)
		return nil
	}

	logger.Info("redis connected", "addr", addr)
	return client
}

// TaskChanged lets the listing cache act as a service.ChangeNotifier: any
// mutation invalidates every cached page.
func (c *ListingCache) TaskChanged(ctx context.Context, action, taskID string) {
	c.Invalidate(ctx)
}
