package service

import (
	"context"

	"github.com/amiyamandal-dev/newsreader/internal/domain"
)

// FolderManager is the folder API consumed by the HTTP handlers
type FolderManager interface {
	FindAll(ctx context.Context, userID string) ([]*domain.Folder, error)
	Create(ctx context.Context, name, userID string) (*domain.Folder, error)
	Delete(ctx context.Context, folderID int64, userID string) error
	Rename(ctx context.Context, folderID int64, name, userID string) error
	PurgeDeleted(ctx context.Context, userID string, finalPurge bool) error
	Open(ctx context.Context, folderID int64, opened bool, userID string) error
	Restore(ctx context.Context, folderID int64, userID string) (*domain.Folder, error)
}

// ItemStateEngine is the item API consumed by the HTTP handlers and the bulk coordinator
type ItemStateEngine interface {
	FindAll(ctx context.Context, filter *domain.ItemListFilter, userID string) ([]*domain.Item, error)
	FindAllNew(ctx context.Context, filter *domain.ItemUpdatedFilter, userID string) ([]*domain.Item, error)
	GetNewestItemID(ctx context.Context, userID string) (int64, error)
	StarredCount(ctx context.Context, userID string) (int, error)
	Read(ctx context.Context, itemID int64, isRead bool, userID string) error
	ReadAll(ctx context.Context, newestItemID int64, userID string) error
	ReadFeed(ctx context.Context, feedID, newestItemID int64, userID string) error
	ReadFolder(ctx context.Context, folderID, newestItemID int64, userID string) error
	Star(ctx context.Context, feedID int64, guidHash string, isStarred bool, userID string) error
}

// BulkCoordinator applies one state change to many items, best effort
type BulkCoordinator interface {
	ReadMultiple(ctx context.Context, itemIDs []int64, isRead bool, userID string)
	StarMultiple(ctx context.Context, refs []domain.ItemRef, isStarred bool, userID string)
}

// FeedLister lists a user's subscriptions
type FeedLister interface {
	FindAll(ctx context.Context, userID string) ([]*domain.Feed, error)
}

// Settings reads and writes per-user reader preferences
type Settings interface {
	ShowAll(ctx context.Context, userID string) (bool, error)
	SetShowAll(ctx context.Context, userID string, showAll bool) error
	LastViewed(ctx context.Context, userID string) (domain.FeedType, int64, error)
	SetLastViewed(ctx context.Context, userID string, feedType domain.FeedType, id int64) error
}

var (
	_ FolderManager   = (*FolderService)(nil)
	_ ItemStateEngine = (*ItemService)(nil)
	_ BulkCoordinator = (*BulkService)(nil)
	_ FeedLister      = (*FeedService)(nil)
	_ Settings        = (*SettingsService)(nil)
)
