package cmd

import (
	"io"

	"kdscan/internal/config"
	"kdscan/internal/karmadecay"
	"kdscan/internal/ratelimit"
	"kdscan/internal/redisclient"
)

// newClient builds a karmadecay client from configuration. The returned
// closer releases the redis connection when the shared gate is used.
func newClient(cfg config.Config) (*karmadecay.Client, io.Closer, error) {
	timeout, err := cfg.KD.TimeoutDuration()
	if err != nil {
		return nil, nil, err
	}
	fb, err := cfg.KD.ParsedFallback()
	if err != nil {
		return nil, nil, err
	}
	interval, err := cfg.RateLimit.IntervalDuration()
	if err != nil {
		return nil, nil, err
	}

	var closer io.Closer = nopCloser{}
	var limiter ratelimit.Limiter = ratelimit.NewLocal(interval)
	if cfg.RateLimit.Redis {
		rdb := redisclient.New(cfg.Redis)
		limiter = ratelimit.NewRedisGate(rdb, cfg.RateLimit.Key, interval)
		closer = rdb
	}

	return karmadecay.NewClient(karmadecay.Options{
		BaseURL:   cfg.KD.BaseURL,
		UserAgent: cfg.KD.UserAgent,
		Timeout:   timeout,
		Fallback:  fb,
		CacheSize: cfg.KD.CacheSize,
		Limiter:   limiter,
	}), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
