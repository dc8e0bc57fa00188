package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"coop-lending/internal/config"
)

const pingTimeout = 5 * time.Second

// OpenRedis connects and pings; the client is closed again when the ping fails.
func OpenRedis(ctx context.Context, addr string, db int) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("redis %s db %d: %w", addr, db, err)
	}
	return r, nil
}

func FromConfig(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	return OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
}

// IdempotencyTTL is how long finished responses are replayed.
func IdempotencyTTL(cfg *config.Config) time.Duration {
	return time.Duration(cfg.IdempTTLSecs) * time.Second
}
