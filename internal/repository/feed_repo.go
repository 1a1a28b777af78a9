package repository

import (
	"context"

	"github.com/amiyamandal-dev/newsreader/internal/domain"
)

// FeedRepository defines the interface for feed persistence
type FeedRepository interface {
	// FindAllByUser retrieves the user's visible feeds with their unread counts
	FindAllByUser(ctx context.Context, userID string) ([]*domain.Feed, error)

	// GetByID retrieves a feed owned by userID that is neither deleted nor in a deleted folder
	GetByID(ctx context.Context, id int64, userID string) (*domain.Feed, error)

	// GetByURL retrieves the user's active feed subscribed to url
	GetByURL(ctx context.Context, userID, url string) (*domain.Feed, error)

	// Insert stores a new feed and assigns its ID
	Insert(ctx context.Context, feed *domain.Feed) error
}
