package service

import (
	"context"
	"fmt"
	"time"

	"github.com/amiyamandal-dev/newsreader/internal/domain"
	"github.com/amiyamandal-dev/newsreader/internal/repository"
	"github.com/amiyamandal-dev/newsreader/pkg/logger"
)

// ItemOptions bounds the page sizes handed out by the item service
type ItemOptions struct {
	DefaultBatchSize int
	MaxBatchSize     int
}

// ItemService handles item queries and read/starred state
type ItemService struct {
	itemRepo   repository.ItemRepository
	feedRepo   repository.FeedRepository
	folderRepo repository.FolderRepository
	stats      repository.StatsCache
	opts       ItemOptions
	logger     *logger.Logger
	now        func() time.Time
}

// NewItemService creates a new item service. stats may be nil.
func NewItemService(
	itemRepo repository.ItemRepository,
	feedRepo repository.FeedRepository,
	folderRepo repository.FolderRepository,
	stats repository.StatsCache,
	opts ItemOptions,
	logger *logger.Logger,
) *ItemService {
	if stats == nil {
		stats = noopStats{}
	}
	if opts.DefaultBatchSize <= 0 {
		opts.DefaultBatchSize = domain.DefaultBatchSize
	}

	return &ItemService{
		itemRepo:   itemRepo,
		feedRepo:   feedRepo,
		folderRepo: folderRepo,
		stats:      stats,
		opts:       opts,
		logger:     logger.WithComponent("item-service"),
		now:        time.Now,
	}
}

// FindAll returns one page of items, newest first
func (s *ItemService) FindAll(ctx context.Context, filter *domain.ItemListFilter, userID string) ([]*domain.Item, error) {
	if !filter.Type.Valid() {
		return nil, domain.NewValidationError("type", fmt.Sprintf("unknown feed type %d", int(filter.Type)))
	}
	if filter.Offset < 0 {
		return nil, domain.NewValidationError("offset", "offset can not be negative")
	}
	if filter.BatchSize < 0 {
		return nil, domain.NewValidationError("batchSize", "batch size can not be negative")
	}

	limit := filter.BatchSize
	if limit == 0 {
		limit = s.opts.DefaultBatchSize
	}
	if s.opts.MaxBatchSize > 0 && limit > s.opts.MaxBatchSize {
		limit = s.opts.MaxBatchSize
	}

	query := s.baseQuery(userID, filter.Type, filter.RangeID, filter.ShowAll)
	query.BeforeID = filter.Offset
	query.Limit = limit

	return s.itemRepo.Find(ctx, query)
}

// FindAllNew returns every item modified after the client's watermark
func (s *ItemService) FindAllNew(ctx context.Context, filter *domain.ItemUpdatedFilter, userID string) ([]*domain.Item, error) {
	if !filter.Type.Valid() {
		return nil, domain.NewValidationError("type", fmt.Sprintf("unknown feed type %d", int(filter.Type)))
	}
	if filter.LastModified < 0 {
		return nil, domain.NewValidationError("lastModified", "watermark can not be negative")
	}

	query := s.baseQuery(userID, filter.Type, filter.RangeID, filter.ShowAll)
	query.ModifiedFrom = filter.LastModified

	return s.itemRepo.Find(ctx, query)
}

// baseQuery applies the type scope and the read filter shared by both listings.
// Starred listings ignore the read filter.
func (s *ItemService) baseQuery(userID string, feedType domain.FeedType, rangeID int64, showAll bool) *domain.ItemQuery {
	if !feedType.UsesRangeID() {
		rangeID = 0
	}

	return &domain.ItemQuery{
		UserID:     userID,
		Type:       feedType,
		RangeID:    rangeID,
		UnreadOnly: !showAll && feedType != domain.FeedTypeStarred,
	}
}

// GetNewestItemID returns the highest visible item id of the user, or a
// NotFoundError when there are no items
func (s *ItemService) GetNewestItemID(ctx context.Context, userID string) (int64, error) {
	return s.loadStat(ctx, userID, repository.StatNewestItemID, func(ctx context.Context) (int64, error) {
		return s.itemRepo.NewestID(ctx, userID)
	})
}

// StarredCount counts the user's starred items
func (s *ItemService) StarredCount(ctx context.Context, userID string) (int, error) {
	count, err := s.loadStat(ctx, userID, repository.StatStarredCount, func(ctx context.Context) (int64, error) {
		n, err := s.itemRepo.CountStarred(ctx, userID)
		return int64(n), err
	})
	return int(count), err
}

// Read sets the read state of one item
func (s *ItemService) Read(ctx context.Context, itemID int64, isRead bool, userID string) error {
	return s.itemRepo.SetUnread(ctx, itemID, userID, !isRead, s.modified())
}

// ReadAll marks every item up to the watermark as read
func (s *ItemService) ReadAll(ctx context.Context, newestItemID int64, userID string) error {
	return s.markRead(ctx, &domain.ReadScope{
		UserID:   userID,
		Type:     domain.FeedTypeSubscriptions,
		NewestID: newestItemID,
	})
}

// ReadFeed marks the items of one feed up to the watermark as read
func (s *ItemService) ReadFeed(ctx context.Context, feedID, newestItemID int64, userID string) error {
	if _, err := s.feedRepo.GetByID(ctx, feedID, userID); err != nil {
		return err
	}

	return s.markRead(ctx, &domain.ReadScope{
		UserID:   userID,
		Type:     domain.FeedTypeFeed,
		RangeID:  feedID,
		NewestID: newestItemID,
	})
}

// ReadFolder marks the items of every feed in a folder up to the watermark as read
func (s *ItemService) ReadFolder(ctx context.Context, folderID, newestItemID int64, userID string) error {
	folder, err := s.folderRepo.GetByID(ctx, folderID, userID)
	if err != nil {
		return err
	}
	if folder.IsDeleted() {
		return domain.NewNotFoundError("folder", folderID)
	}

	return s.markRead(ctx, &domain.ReadScope{
		UserID:   userID,
		Type:     domain.FeedTypeFolder,
		RangeID:  folderID,
		NewestID: newestItemID,
	})
}

func (s *ItemService) markRead(ctx context.Context, scope *domain.ReadScope) error {
	if scope.NewestID < 0 {
		return domain.NewValidationError("newestItemId", "watermark can not be negative")
	}

	marked, err := s.itemRepo.MarkRead(ctx, scope, s.modified())
	if err != nil {
		s.logger.Error("Failed to mark items read", "user_id", scope.UserID, "scope", scope.Type.String(), "error", err)
		return err
	}

	s.logger.Debug("Marked items read", "user_id", scope.UserID, "scope", scope.Type.String(), "count", marked)
	return nil
}

// Star sets the starred state of the item addressed by feed and guid hash
func (s *ItemService) Star(ctx context.Context, feedID int64, guidHash string, isStarred bool, userID string) error {
	if guidHash == "" {
		return domain.NewValidationError("guidHash", "guid hash can not be empty")
	}

	if err := s.itemRepo.SetStarred(ctx, feedID, guidHash, userID, isStarred, s.modified()); err != nil {
		return err
	}

	s.invalidate(ctx, userID)
	return nil
}

// AddItem stores a freshly ingested item as unread and unstarred. Returns
// false when the feed already holds an item with the same guid.
func (s *ItemService) AddItem(ctx context.Context, userID string, item *domain.Item) (bool, error) {
	if item.GUID == "" {
		return false, domain.NewValidationError("guid", "item guid can not be empty")
	}

	item.GUIDHash = domain.HashGUID(item.GUID)
	item.LastModified = s.modified()
	item.Unread = true
	item.Starred = false

	created, err := s.itemRepo.Insert(ctx, item)
	if err != nil {
		return false, err
	}

	if created {
		s.invalidate(ctx, userID)
	}
	return created, nil
}

// modified returns the lastModified stamp for a state change
func (s *ItemService) modified() int64 {
	return s.now().UnixMicro()
}

// loadStat serves a stat from the cache, computing and storing it on a miss.
// Writers invalidate after they commit, so a writer landing between load and
// Set is caught by loading again: a changed value drops the entry.
func (s *ItemService) loadStat(ctx context.Context, userID, stat string, load func(ctx context.Context) (int64, error)) (int64, error) {
	if v, ok := s.cached(ctx, userID, stat); ok {
		return v, nil
	}

	v, err := load(ctx)
	if err != nil {
		return 0, err
	}
	if !s.store(ctx, userID, stat, v) {
		return v, nil
	}

	again, err := load(ctx)
	if err != nil || again != v {
		s.logger.Debug("Stat changed while caching", "user_id", userID, "stat", stat)
		s.invalidate(ctx, userID)
	}
	if err != nil {
		return 0, err
	}
	return again, nil
}

func (s *ItemService) cached(ctx context.Context, userID, stat string) (int64, bool) {
	v, ok, err := s.stats.Get(ctx, userID, stat)
	if err != nil {
		s.logger.Warn("Stats cache read failed", "user_id", userID, "stat", stat, "error", err)
		return 0, false
	}
	return v, ok
}

// store reports whether a value was actually cached
func (s *ItemService) store(ctx context.Context, userID, stat string, value int64) bool {
	if _, ok := s.stats.(noopStats); ok {
		return false
	}
	if err := s.stats.Set(ctx, userID, stat, value); err != nil {
		s.logger.Warn("Stats cache write failed", "user_id", userID, "stat", stat, "error", err)
		return false
	}
	return true
}

func (s *ItemService) invalidate(ctx context.Context, userID string) {
	if err := s.stats.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("Stats cache invalidation failed", "user_id", userID, "error", err)
	}
}

// noopStats is used when the stats cache is disabled
type noopStats struct{}

func (noopStats) Get(context.Context, string, string) (int64, bool, error) { return 0, false, nil }
func (noopStats) Set(context.Context, string, string, int64) error         { return nil }
func (noopStats) Invalidate(context.Context, string) error                 { return nil }
