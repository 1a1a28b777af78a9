package badger

import (
	"context"
	"testing"
	"time"
)

func newTestCache(t *testing.T) *StatsCache {
	t.Helper()

	db, err := New("")
	if err != nil {
		t.Fatalf("Failed to open badger: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewStatsCache(db, time.Minute)
}

func TestStatsCache_GetSet(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	if _, ok, err := cache.Get(ctx, "alice", "starred"); err != nil || ok {
		t.Fatalf("Expected miss, got ok=%v err=%v", ok, err)
	}

	if err := cache.Set(ctx, "alice", "starred", 7); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok, err := cache.Get(ctx, "alice", "starred")
	if err != nil || !ok {
		t.Fatalf("Expected hit, got ok=%v err=%v", ok, err)
	}
	if value != 7 {
		t.Errorf("Expected 7, got %d", value)
	}
}

func TestStatsCache_InvalidateIsPerUser(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	for _, user := range []string{"alice", "alice2", "bob"} {
		if err := cache.Set(ctx, user, "newest", 42); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := cache.Invalidate(ctx, "alice"); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}

	if _, ok, _ := cache.Get(ctx, "alice", "newest"); ok {
		t.Error("Expected alice's entry to be dropped")
	}
	for _, user := range []string{"alice2", "bob"} {
		if _, ok, _ := cache.Get(ctx, user, "newest"); !ok {
			t.Errorf("Expected %s's entry to survive", user)
		}
	}
}
