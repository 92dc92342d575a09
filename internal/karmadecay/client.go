// Package karmadecay queries the KarmaDecay reverse image search and turns its
// results page into typed matches.
package karmadecay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kdscan/internal/cache"
	"kdscan/internal/extract"
	"kdscan/internal/model"
	"kdscan/internal/ratelimit"

	"github.com/antchfx/htmlquery"
)

const (
	DefaultBaseURL = "http://karmadecay.com"

	// KarmaDecay answers 401 to generic client user agents.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/67.0.3396.87 Safari/537.36"
	DefaultTimeout   = 15 * time.Second
	DefaultInterval  = time.Second

	toolVersion = "b1"
)

// Options configures a Client. Zero values pick the defaults above.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Fallback  extract.Fallback
	CacheSize int

	// Limiter gates upstream requests; nil means one request per DefaultInterval.
	Limiter    ratelimit.Limiter
	HTTPClient *http.Client
}

// Client is safe for concurrent use. All callers share its cache and limiter.
type Client struct {
	baseURL   string
	userAgent string
	fallback  extract.Fallback
	limiter   ratelimit.Limiter
	cache     *cache.Cache
	client    *http.Client
}

func NewClient(opts Options) *Client {
	if strings.TrimSpace(opts.BaseURL) == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Limiter == nil {
		opts.Limiter = ratelimit.NewLocal(DefaultInterval)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		fallback:  opts.Fallback,
		limiter:   opts.Limiter,
		cache:     cache.New(opts.CacheSize),
		client:    opts.HTTPClient,
	}
}

// Query returns the matches KarmaDecay lists for q. Repeated queries are
// answered from the cache; only misses wait on the limiter and hit the
// network. Failures are logged and reported as an empty result, which is
// not cached.
func (c *Client) Query(ctx context.Context, q model.Query) model.Result {
	res, err := c.cache.GetOrCompute(q, func() (model.Result, error) {
		return c.search(ctx, q)
	})
	if err != nil {
		slog.Warn("karmadecay: query failed", "url", q.URL, "subreddit", q.Subreddit, "error", err)
		return model.Empty(q)
	}
	return res
}

// Check is Query without the less-similar group.
func (c *Client) Check(ctx context.Context, imageURL, subreddit string) []model.Match {
	return c.Query(ctx, model.Query{URL: imageURL, Subreddit: subreddit}).Matches
}

func (c *Client) search(ctx context.Context, q model.Query) (model.Result, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return model.Result{}, fmt.Errorf("rate limit: %w", err)
	}
	body, err := c.fetch(ctx, c.searchURL(q))
	if err != nil {
		return model.Result{}, err
	}
	doc, err := htmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return model.Result{}, fmt.Errorf("parse results page: %w", err)
	}
	res := Classify(doc, IsSameService(q.URL), q.LessSimilar, c.fallback)
	slog.Debug("karmadecay: parsed results", "url", q.URL, "matches", len(res.Matches), "less_similar", len(res.LessSimilar))
	return res, nil
}

func (c *Client) searchURL(q model.Query) string {
	v := url.Values{
		"kdtoolver": {toolVersion},
		"q":         {q.URL},
		"subreddit": {q.Subreddit},
	}
	return c.baseURL + "/search?" + v.Encode()
}

func (c *Client) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("karmadecay: search status %d", resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("karmadecay: read body: %w", err)
	}
	return b, nil
}
