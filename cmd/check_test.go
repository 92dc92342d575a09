package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kdscan/internal/config"
)

func runCheck(t *testing.T, ctx context.Context, baseURL string) string {
	t.Helper()
	prev := appCfg
	t.Cleanup(func() { appCfg = prev })
	appCfg = config.Config{KD: config.KarmaDecayConfig{BaseURL: baseURL}, RateLimit: config.RateLimitConfig{Interval: "1ms"}}
	appCfg.FillDefaults()

	var buf bytes.Buffer
	checkCmd.SetOut(&buf)
	checkCmd.SetContext(ctx)
	t.Cleanup(func() { checkCmd.SetOut(nil) })
	if err := checkCmd.RunE(checkCmd, []string{"https://i.imgur.com/a.jpg"}); err != nil {
		t.Fatalf("check: %v", err)
	}
	return buf.String()
}

func TestCheckUsesCommandContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(batchPage))
	}))
	defer srv.Close()

	out := runCheck(t, context.Background(), srv.URL)
	if !strings.Contains(out, `"title": "one"`) {
		t.Fatalf("expected a match, got %s", out)
	}

	// a cancelled command context abandons the fetch and reports no matches
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out = runCheck(t, ctx, srv.URL+"/other")
	if !strings.Contains(out, `"matches": []`) {
		t.Fatalf("expected no matches under a cancelled context, got %s", out)
	}
}
