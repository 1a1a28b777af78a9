package service

import (
	"context"

	"github.com/amiyamandal-dev/newsreader/internal/domain"
	"github.com/amiyamandal-dev/newsreader/pkg/logger"
)

// BulkService applies a client batch one item at a time. A failing element
// is logged and skipped; the batch itself never fails.
type BulkService struct {
	items  ItemStateEngine
	logger *logger.Logger
}

// NewBulkService creates a new bulk service
func NewBulkService(items ItemStateEngine, logger *logger.Logger) *BulkService {
	return &BulkService{
		items:  items,
		logger: logger.WithComponent("bulk-service"),
	}
}

// ReadMultiple sets the read state of every listed item, in order
func (s *BulkService) ReadMultiple(ctx context.Context, itemIDs []int64, isRead bool, userID string) {
	for _, id := range itemIDs {
		if err := s.items.Read(ctx, id, isRead, userID); err != nil {
			s.logger.Debug("Skipped item in bulk read", "user_id", userID, "item_id", id, "error", err)
		}
	}
}

// StarMultiple sets the starred state of every listed item, in order
func (s *BulkService) StarMultiple(ctx context.Context, refs []domain.ItemRef, isStarred bool, userID string) {
	for _, ref := range refs {
		if err := s.items.Star(ctx, ref.FeedID, ref.GUIDHash, isStarred, userID); err != nil {
			s.logger.Debug("Skipped item in bulk star", "user_id", userID, "feed_id", ref.FeedID, "guid_hash", ref.GUIDHash, "error", err)
		}
	}
}
