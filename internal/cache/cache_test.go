package cache

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"kdscan/internal/model"
)

func key(i int) model.Query {
	return model.Query{URL: fmt.Sprintf("https://i.imgur.com/%d.jpg", i), Subreddit: "pics"}
}

func result(title string) model.Result {
	return model.Result{Matches: []model.Match{{Title: &title}}}
}

func TestGetOrComputeHit(t *testing.T) {
	c := New(10)
	calls := 0
	compute := func() (model.Result, error) {
		calls++
		return result("first"), nil
	}
	a, err := c.GetOrCompute(key(1), compute)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	b, err := c.GetOrCompute(key(1), compute)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if calls != 1 {
		t.Fatalf("compute ran %d times, want 1", calls)
	}
	if &a.Matches[0] != &b.Matches[0] {
		t.Errorf("second call did not return the cached value")
	}
}

func TestKeysAreNotNormalised(t *testing.T) {
	c := New(10)
	calls := 0
	compute := func() (model.Result, error) {
		calls++
		return result("x"), nil
	}
	base := model.Query{URL: "http://i.imgur.com/a.jpg", Subreddit: "pics"}
	variants := []model.Query{
		base,
		{URL: "http://I.imgur.com/a.jpg", Subreddit: "pics"},
		{URL: base.URL, Subreddit: "Pics"},
		{URL: base.URL, Subreddit: "pics", LessSimilar: true},
	}
	for _, q := range variants {
		if _, err := c.GetOrCompute(q, compute); err != nil {
			t.Fatal(err)
		}
	}
	if calls != len(variants) {
		t.Errorf("compute ran %d times, want %d", calls, len(variants))
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	const size = 3
	c := New(size)
	for i := 0; i < size; i++ {
		c.GetOrCompute(key(i), func() (model.Result, error) { return result("v"), nil })
	}
	// touch 0 so that 1 becomes the oldest
	if _, ok := c.Get(key(0)); !ok {
		t.Fatalf("key 0 missing before eviction")
	}
	c.GetOrCompute(key(size), func() (model.Result, error) { return result("v"), nil })

	if c.Len() != size {
		t.Fatalf("len = %d, want %d", c.Len(), size)
	}
	if _, ok := c.Get(key(1)); ok {
		t.Errorf("key 1 should have been evicted")
	}
	for _, i := range []int{0, 2, size} {
		if _, ok := c.Get(key(i)); !ok {
			t.Errorf("key %d should still be cached", i)
		}
	}
}

func TestErrorsAreNotCached(t *testing.T) {
	c := New(10)
	boom := errors.New("boom")
	if _, err := c.GetOrCompute(key(1), func() (model.Result, error) { return model.Result{}, boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if c.Len() != 0 {
		t.Fatalf("failed result was cached")
	}
	r, err := c.GetOrCompute(key(1), func() (model.Result, error) { return result("ok"), nil })
	if err != nil || len(r.Matches) != 1 {
		t.Fatalf("retry: %+v %v", r, err)
	}
}

func TestConcurrentMissesShareOneCompute(t *testing.T) {
	c := New(10)
	var calls int32
	release := make(chan struct{})
	compute := func() (model.Result, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return result("shared"), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.GetOrCompute(key(1), compute); err != nil {
				t.Errorf("GetOrCompute: %v", err)
			}
		}()
	}
	// let the callers pile up on the in-flight compute
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("compute ran %d times, want 1", n)
	}
}

func TestConcurrentDistinctKeys(t *testing.T) {
	c := New(16)
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.GetOrCompute(key(i%32), func() (model.Result, error) { return result("v"), nil })
			c.Get(key((i + 7) % 32))
		}(i)
	}
	wg.Wait()
	if c.Len() != 16 {
		t.Errorf("len = %d, want 16", c.Len())
	}
}
