package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiterWithinLimit(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMemoryLimiter(cfg)

	d := m.Allow(context.Background(), "user-1", "login")
	if !d.Allowed {
		t.Fatal("first request should be allowed")
	}
	if d.Limit != 10 {
		t.Errorf("Limit = %d, want 10", d.Limit)
	}
	if d.Remaining != 9 {
		t.Errorf("Remaining = %d, want 9", d.Remaining)
	}
}

func TestMemoryLimiterBurstLimit(t *testing.T) {
	cfg := DefaultConfig()

	now := time.Now()
	m := NewMemoryLimiter(cfg)
	m.now = func() time.Time { return now }

	// Burst limit for chat is 3 per second.
	for i := 0; i < 3; i++ {
		if d := m.Allow(context.Background(), "user-1", "chat"); !d.Allowed {
			t.Fatalf("request %d should be allowed", i)
		}
	}

	d := m.Allow(context.Background(), "user-1", "chat")
	if d.Allowed {
		t.Fatal("fourth same-second request should be rejected")
	}
	if d.RetryAfter != 1 {
		t.Errorf("RetryAfter = %d, want 1", d.RetryAfter)
	}
}

func TestMemoryLimiterRateLimit(t *testing.T) {
	cfg := DefaultConfig()

	now := time.Now()
	m := NewMemoryLimiter(cfg)
	m.now = func() time.Time { return now }

	// Spread requests over the window so the burst check never trips.
	for i := 0; i < 10; i++ {
		now = now.Add(2 * time.Second)
		if d := m.Allow(context.Background(), "user-1", "login"); !d.Allowed {
			t.Fatalf("request %d should be allowed", i)
		}
	}

	now = now.Add(2 * time.Second)
	d := m.Allow(context.Background(), "user-1", "login")
	if d.Allowed {
		t.Fatal("request over the per-minute limit should be rejected")
	}
	if d.RetryAfter <= 0 {
		t.Errorf("RetryAfter = %d, want positive", d.RetryAfter)
	}
}

func TestMemoryLimiterWindowSlides(t *testing.T) {
	cfg := DefaultConfig()

	now := time.Now()
	m := NewMemoryLimiter(cfg)
	m.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		now = now.Add(2 * time.Second)
		m.Allow(context.Background(), "user-1", "login")
	}

	// After the window has passed, requests flow again.
	now = now.Add(cfg.Window + time.Second)
	if d := m.Allow(context.Background(), "user-1", "login"); !d.Allowed {
		t.Fatal("request after window expiry should be allowed")
	}
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	cfg := DefaultConfig()

	now := time.Now()
	m := NewMemoryLimiter(cfg)
	m.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		m.Allow(context.Background(), "user-1", "chat")
	}
	if d := m.Allow(context.Background(), "user-1", "chat"); d.Allowed {
		t.Fatal("user-1 should be burst limited")
	}

	if d := m.Allow(context.Background(), "user-2", "chat"); !d.Allowed {
		t.Fatal("user-2 must not share user-1's budget")
	}
}

func TestUnknownEndpointUsesDefaultLimits(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.rateLimit("nonexistent"); got != 100 {
		t.Errorf("rateLimit = %d, want default 100", got)
	}
	if got := cfg.burstLimit("nonexistent"); got != 10 {
		t.Errorf("burstLimit = %d, want default 10", got)
	}
}
