package cmd

import (
	"testing"
	"time"
)

func TestGateState(t *testing.T) {
	cases := []struct {
		ttl  time.Duration
		want string
	}{
		{-2, "open"},
		{0, "open"},
		{-1, "stuck (no expiry set)"},
		{420 * time.Millisecond, "closed for 420ms"},
		{1500*time.Millisecond + 300*time.Microsecond, "closed for 1.5s"},
	}
	for _, c := range cases {
		if got := gateState(c.ttl); got != c.want {
			t.Errorf("gateState(%v) = %q, want %q", c.ttl, got, c.want)
		}
	}
}
