package cmd

import (
	"context"
	"fmt"
	"time"

	"kdscan/internal/redisclient"

	"github.com/spf13/cobra"
)

// pingCmd checks the redis server behind the shared rate gate and reports
// whether the gate key currently holds back the next query.
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Ping the rate-gate Redis and show the gate state",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
		defer cancel()

		res, err := rdb.Ping(ctx).Result()
		if err != nil {
			return fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
		}
		ttl, err := rdb.PTTL(ctx, cfg.RateLimit.Key).Result()
		if err != nil {
			return fmt.Errorf("read gate %s: %w", cfg.RateLimit.Key, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), res)
		fmt.Fprintf(cmd.OutOrStdout(), "gate %s: %s\n", cfg.RateLimit.Key, gateState(ttl))
		return nil
	},
}

// gateState describes a gate key from its PTTL. go-redis reports a missing
// key as -2ns and a key without expiry as -1ns.
func gateState(ttl time.Duration) string {
	switch {
	case ttl > 0:
		return fmt.Sprintf("closed for %s", ttl.Round(time.Millisecond))
	case ttl == -1:
		return "stuck (no expiry set)"
	default:
		return "open"
	}
}

func init() {
	redisCmd.AddCommand(pingCmd)
}
