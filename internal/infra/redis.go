package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis connects a go-redis client and fails fast when the server is
// unreachable. Redis carries the invoice/email job queues, so starting
// without it would silently drop every PDF render.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	opts.DialTimeout = 5 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}
