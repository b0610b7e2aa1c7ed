package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestViewCache_HitWithinTTL(t *testing.T) {
	cache := NewViewCache[int]()
	calls := 0
	fetch := func(context.Context) (int, error) {
		calls++
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		got, err := cache.Load(context.Background(), "k", time.Minute, fetch)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if got != 42 {
			t.Fatalf("Load = %d", got)
		}
	}
	if calls != 1 {
		t.Errorf("fetch ran %d times, want 1", calls)
	}
}

func TestViewCache_ExpiryRefetches(t *testing.T) {
	cache := NewViewCache[string]()
	now := time.Now()
	cache.now = func() time.Time { return now }

	calls := 0
	fetch := func(context.Context) (string, error) {
		calls++
		return "v", nil
	}

	if _, err := cache.Load(context.Background(), "k", time.Minute, fetch); err != nil {
		t.Fatal(err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := cache.Load(context.Background(), "k", time.Minute, fetch); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("fetch ran %d times, want 2", calls)
	}
}

func TestViewCache_ErrorsAreNotCached(t *testing.T) {
	cache := NewViewCache[int]()
	boom := errors.New("boom")
	calls := 0

	_, err := cache.Load(context.Background(), "k", time.Minute, func(context.Context) (int, error) {
		calls++
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if _, ok := cache.Peek("k"); ok {
		t.Error("error result must not be cached")
	}

	got, err := cache.Load(context.Background(), "k", time.Minute, func(context.Context) (int, error) {
		calls++
		return 7, nil
	})
	if err != nil || got != 7 {
		t.Fatalf("Load = %d, %v", got, err)
	}
	if calls != 2 {
		t.Errorf("fetch ran %d times, want 2", calls)
	}
}

// A slow request that started first must not overwrite the result of a newer
// request that finished before it.
func TestViewCache_LatestRequestWins(t *testing.T) {
	cache := NewViewCache[string]()

	slowStarted := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		got, err := cache.Load(context.Background(), "k", 0, func(context.Context) (string, error) {
			close(slowStarted)
			<-release
			return "old", nil
		})
		if err != nil {
			t.Errorf("slow Load: %v", err)
		}
		// The stale load still gets its own result.
		if got != "old" {
			t.Errorf("slow Load = %q", got)
		}
	}()

	<-slowStarted
	got, err := cache.Load(context.Background(), "k", 0, func(context.Context) (string, error) {
		return "new", nil
	})
	if err != nil || got != "new" {
		t.Fatalf("fast Load = %q, %v", got, err)
	}

	close(release)
	wg.Wait()

	if visible, ok := cache.Peek("k"); !ok || visible != "new" {
		t.Errorf("visible value = %q (%v), want %q", visible, ok, "new")
	}
}

func TestViewCache_Invalidate(t *testing.T) {
	cache := NewViewCache[int]()
	calls := 0
	fetch := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	if _, err := cache.Load(context.Background(), "k", time.Minute, fetch); err != nil {
		t.Fatal(err)
	}
	cache.Invalidate("k")
	got, err := cache.Load(context.Background(), "k", time.Minute, fetch)
	if err != nil {
		t.Fatal(err)
	}
	if got != 2 {
		t.Errorf("Load after Invalidate = %d, want a fresh fetch", got)
	}
}

// A mutation that invalidates while a read is still in flight must win: the
// read finishes with stale data and must not put it back for the TTL.
func TestViewCache_InvalidateSupersedesInFlightLoad(t *testing.T) {
	cache := NewViewCache[string]()

	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		got, err := cache.Load(context.Background(), "k", time.Minute, func(context.Context) (string, error) {
			close(started)
			<-release
			return "pre-mutation", nil
		})
		if err != nil {
			t.Errorf("Load: %v", err)
		}
		if got != "pre-mutation" {
			t.Errorf("Load = %q", got)
		}
	}()

	<-started
	cache.Invalidate("k")
	close(release)
	wg.Wait()

	if v, ok := cache.Peek("k"); ok {
		t.Errorf("superseded load re-cached %q after invalidation", v)
	}
}

func TestViewCache_InvalidatePrefixSupersedesInFlightLoad(t *testing.T) {
	cache := NewViewCache[int]()

	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := cache.Load(context.Background(), "queue:tok:pending:1", time.Minute, func(context.Context) (int, error) {
			close(started)
			<-release
			return 1, nil
		})
		if err != nil {
			t.Errorf("Load: %v", err)
		}
	}()

	<-started
	cache.InvalidatePrefix("queue:tok:")
	close(release)
	wg.Wait()

	if _, ok := cache.Peek("queue:tok:pending:1"); ok {
		t.Error("superseded load re-cached an invalidated queue page")
	}
}

func TestViewCache_InvalidatePrefix(t *testing.T) {
	cache := NewViewCache[int]()
	load := func(key string, val int) {
		if _, err := cache.Load(context.Background(), key, time.Minute, func(context.Context) (int, error) {
			return val, nil
		}); err != nil {
			t.Fatal(err)
		}
	}
	load("queue:tok:pending:1", 1)
	load("queue:tok:pending:2", 2)
	load("stats:tok", 3)

	cache.InvalidatePrefix("queue:tok:")

	if _, ok := cache.Peek("queue:tok:pending:1"); ok {
		t.Error("prefixed key 1 should be invalidated")
	}
	if _, ok := cache.Peek("queue:tok:pending:2"); ok {
		t.Error("prefixed key 2 should be invalidated")
	}
	if v, ok := cache.Peek("stats:tok"); !ok || v != 3 {
		t.Error("unrelated key must survive")
	}
}
