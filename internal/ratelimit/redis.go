package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisGate enforces the interval across processes. A caller passes once it
// manages to create the gate key; the key expires after one interval.
type RedisGate struct {
	rdb      *redis.Client
	key      string
	interval time.Duration
	poll     time.Duration
}

func NewRedisGate(rdb *redis.Client, key string, interval time.Duration) *RedisGate {
	poll := interval / 10
	if poll < 10*time.Millisecond {
		poll = 10 * time.Millisecond
	}
	return &RedisGate{rdb: rdb, key: key, interval: interval, poll: poll}
}

func (g *RedisGate) Acquire(ctx context.Context) error {
	for {
		ok, err := g.rdb.SetNX(ctx, g.key, "1", g.interval).Result()
		if err != nil {
			return fmt.Errorf("ratelimit: redis gate: %w", err)
		}
		if ok {
			return nil
		}
		// sleep until the key is likely gone
		wait := g.poll
		if ttl, err := g.rdb.PTTL(ctx, g.key).Result(); err == nil && ttl > 0 && ttl < wait {
			wait = ttl
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}
