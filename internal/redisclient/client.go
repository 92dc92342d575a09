// Package redisclient connects to the redis that backs the cross-process
// rate gate.
package redisclient

import (
	"time"

	"kdscan/internal/config"

	"github.com/redis/go-redis/v9"
)

// New creates a Redis client from configuration. Timeouts are kept short:
// the gate is polled while queries wait, and a slow redis should surface
// as an error rather than stretch the interval.
func New(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}
