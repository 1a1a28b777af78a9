package repository

import (
	"context"
)

// Stat names held by a StatsCache
const (
	StatStarredCount = "starred"
	StatNewestItemID = "newest"
)

// StatsCache caches derived per-user values that are expensive to recompute
type StatsCache interface {
	// Get returns a cached value; the boolean is false on a miss
	Get(ctx context.Context, userID, stat string) (int64, bool, error)

	// Set stores a value
	Set(ctx context.Context, userID, stat string, value int64) error

	// Invalidate drops every cached value of the user
	Invalidate(ctx context.Context, userID string) error
}
