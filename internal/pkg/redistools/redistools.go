package redistools

import (
	"context"
	"fmt"
	"time"

	"github.com/Leopold1975/blog_api/internal/pkg/config"
	"github.com/redis/go-redis/v9"
)

const maxPingDelay = time.Second * 10

// NewClient builds a client from cfg and waits until the server answers,
// backing off linearly between pings.
func NewClient(ctx context.Context, cfg config.RedisCache) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{ //nolint:exhaustruct
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := waitReady(ctx, rdb); err != nil {
		rdb.Close()

		return nil, err
	}

	return rdb, nil
}

func waitReady(ctx context.Context, rdb *redis.Client) error {
	delay := time.Second

	for {
		err := rdb.Ping(ctx).Err()
		if err == nil {
			return nil
		}

		if delay > maxPingDelay {
			return fmt.Errorf("cannot ping redis db error: %w", err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("context error: %w", ctx.Err())
		case <-time.After(delay):
		}

		delay += time.Second
	}
}
