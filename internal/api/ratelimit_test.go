package api

import (
	"testing"
	"time"

	"github.com/user-directory/internal/config"
)

func TestClientRateLimiter_PerClient(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newClientRateLimiter(config.RateLimitConfig{RequestsPerSecond: 1, Burst: 1}, func() time.Time { return now })

	if !l.allow("10.0.0.1") {
		t.Error("First request should pass")
	}
	if l.allow("10.0.0.1") {
		t.Error("Second immediate request should be limited")
	}
	if !l.allow("10.0.0.2") {
		t.Error("Other clients have their own budget")
	}

	now = now.Add(time.Second)
	if !l.allow("10.0.0.1") {
		t.Error("Budget should refill after a second")
	}
}

func TestClientRateLimiter_SweepsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newClientRateLimiter(config.RateLimitConfig{RequestsPerSecond: 1, Burst: 1}, func() time.Time { return now })

	l.allow("10.0.0.1")
	now = now.Add(idleLimiterTTL + time.Minute)
	l.allow("10.0.0.2")

	if _, ok := l.clients["10.0.0.1"]; ok {
		t.Error("Idle client should have been swept")
	}
	if len(l.clients) != 1 {
		t.Errorf("Expected 1 tracked client, got %d", len(l.clients))
	}
}

func TestClientRateLimiter_RetryAfter(t *testing.T) {
	l := newClientRateLimiter(config.RateLimitConfig{RequestsPerSecond: 0.5, Burst: 1}, time.Now)
	if got := l.retryAfterSeconds(); got != 2 {
		t.Errorf("Expected 2s retry, got %d", got)
	}
}
