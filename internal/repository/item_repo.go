package repository

import (
	"context"

	"github.com/amiyamandal-dev/newsreader/internal/domain"
)

// ItemRepository defines the interface for item persistence. Every method is
// scoped to the items of feeds owned by the given user.
type ItemRepository interface {
	// Find retrieves items matching the query, newest first
	Find(ctx context.Context, query *domain.ItemQuery) ([]*domain.Item, error)

	// NewestID returns the highest visible item id of the user
	NewestID(ctx context.Context, userID string) (int64, error)

	// CountStarred counts the user's starred items
	CountStarred(ctx context.Context, userID string) (int, error)

	// SetUnread updates the unread flag of one item in a single conditional statement
	SetUnread(ctx context.Context, id int64, userID string, unread bool, lastModified int64) error

	// SetStarred updates the starred flag of the item addressed by feed and guid hash
	SetStarred(ctx context.Context, feedID int64, guidHash, userID string, starred bool, lastModified int64) error

	// MarkRead marks every unread item in scope with id <= scope.NewestID as read
	MarkRead(ctx context.Context, scope *domain.ReadScope, lastModified int64) (int64, error)

	// Insert stores a new item. Returns false when the feed already has the guid hash.
	Insert(ctx context.Context, item *domain.Item) (bool, error)
}
