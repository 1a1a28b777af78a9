package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amiyamandal-dev/newsreader/internal/domain"
	"github.com/amiyamandal-dev/newsreader/internal/repository"
	"github.com/amiyamandal-dev/newsreader/pkg/logger"
)

// FeedService handles feed-related business logic
type FeedService struct {
	feedRepo repository.FeedRepository
	tx       repository.Transactor
	logger   *logger.Logger
}

// NewFeedService creates a new feed service
func NewFeedService(
	feedRepo repository.FeedRepository,
	tx repository.Transactor,
	logger *logger.Logger,
) *FeedService {
	return &FeedService{
		feedRepo: feedRepo,
		tx:       tx,
		logger:   logger.WithComponent("feed-service"),
	}
}

// FindAll lists the user's active feeds with unread counts
func (s *FeedService) FindAll(ctx context.Context, userID string) ([]*domain.Feed, error) {
	return s.feedRepo.FindAllByUser(ctx, userID)
}

// Subscribe returns the user's feed for url, creating it when missing. The
// boolean reports whether a new feed was created.
func (s *FeedService) Subscribe(ctx context.Context, feed *domain.Feed) (*domain.Feed, bool, error) {
	if err := feed.Validate(); err != nil {
		return nil, false, err
	}

	var (
		result  *domain.Feed
		created bool
	)

	err := s.tx.WithinUserTx(ctx, feed.UserID, func(ctx context.Context) error {
		existing, err := s.feedRepo.GetByURL(ctx, feed.UserID, feed.URL)
		if err == nil {
			result = existing
			return nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("failed to look up feed: %w", err)
		}

		if feed.CreatedAt.IsZero() {
			feed.CreatedAt = time.Now()
		}
		if err := s.feedRepo.Insert(ctx, feed); err != nil {
			return err
		}

		result, created = feed, true
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to subscribe", "user_id", feed.UserID, "url", feed.URL, "error", err)
		return nil, false, err
	}

	if created {
		s.logger.Info("Feed created", "user_id", feed.UserID, "feed_id", result.ID, "url", result.URL)
	}

	return result, created, nil
}
