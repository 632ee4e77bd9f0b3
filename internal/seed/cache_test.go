package seed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/user-directory/internal/mocks"
)

func TestCachedSource_SharesFetchAcrossCallers(t *testing.T) {
	inner := mocks.NewMockSource(mocks.SeedUsers())
	cache := NewCachedSource(inner, time.Hour, nil, zerolog.Nop())
	ctx := context.Background()

	first, err := cache.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	second, err := cache.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if inner.CallCount() != 1 {
		t.Errorf("Expected 1 upstream fetch, got %d", inner.CallCount())
	}

	first[0].Name = "Changed Name"
	if second[0].Name == "Changed Name" {
		t.Error("Callers must receive independent copies")
	}
	third, _ := cache.Fetch(ctx)
	if third[0].Name != "Leanne Graham" {
		t.Error("Cached payload was modified through a returned slice")
	}
}

func TestCachedSource_Expires(t *testing.T) {
	inner := mocks.NewMockSource(mocks.SeedUsers())
	cache := NewCachedSource(inner, time.Minute, nil, zerolog.Nop())
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	cache.Fetch(ctx)
	now = now.Add(30 * time.Second)
	cache.Fetch(ctx)
	if inner.CallCount() != 1 {
		t.Errorf("Expected cache hit within TTL, got %d fetches", inner.CallCount())
	}

	now = now.Add(31 * time.Second)
	cache.Fetch(ctx)
	if inner.CallCount() != 2 {
		t.Errorf("Expected refetch after TTL, got %d fetches", inner.CallCount())
	}
}

func TestCachedSource_DoesNotCacheFailures(t *testing.T) {
	inner := mocks.NewMockSource(mocks.SeedUsers())
	inner.FetchErr = errors.New("boom")
	cache := NewCachedSource(inner, time.Hour, nil, zerolog.Nop())
	ctx := context.Background()

	if _, err := cache.Fetch(ctx); err == nil {
		t.Fatal("Expected error")
	}

	inner.FetchErr = nil
	users, err := cache.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch after recovery failed: %v", err)
	}
	if len(users) != 10 {
		t.Errorf("Expected 10 users, got %d", len(users))
	}
	if inner.CallCount() != 2 {
		t.Errorf("Expected 2 upstream fetches, got %d", inner.CallCount())
	}
}

func TestCachedSource_DisabledPassesThrough(t *testing.T) {
	inner := mocks.NewMockSource(mocks.SeedUsers())
	cache := NewCachedSource(inner, 0, nil, zerolog.Nop())
	ctx := context.Background()

	cache.Fetch(ctx)
	cache.Fetch(ctx)

	if inner.CallCount() != 2 {
		t.Errorf("Expected every call to reach the source, got %d", inner.CallCount())
	}
}

func TestCachedSource_Invalidate(t *testing.T) {
	inner := mocks.NewMockSource(mocks.SeedUsers())
	cache := NewCachedSource(inner, time.Hour, nil, zerolog.Nop())
	ctx := context.Background()

	cache.Fetch(ctx)
	cache.Invalidate()
	cache.Fetch(ctx)

	if inner.CallCount() != 2 {
		t.Errorf("Expected refetch after Invalidate, got %d", inner.CallCount())
	}
}

func TestCachedSource_ConcurrentColdStart(t *testing.T) {
	inner := mocks.NewMockSource(mocks.SeedUsers())
	cache := NewCachedSource(inner, time.Hour, nil, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.Fetch(context.Background())
		}()
	}
	wg.Wait()

	if inner.CallCount() != 1 {
		t.Errorf("Expected a single upstream fetch, got %d", inner.CallCount())
	}
}
