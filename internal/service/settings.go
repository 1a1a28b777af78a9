package service

import (
	"context"
	"strconv"

	"github.com/amiyamandal-dev/newsreader/internal/domain"
	"github.com/amiyamandal-dev/newsreader/internal/repository"
)

// SettingsService stores reader preferences as strings per user
type SettingsService struct {
	repo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// ShowAll reports whether read items are listed. Unset means false.
func (s *SettingsService) ShowAll(ctx context.Context, userID string) (bool, error) {
	value, err := s.repo.GetValue(ctx, userID, domain.SettingShowAll)
	if err != nil {
		return false, err
	}
	return value == "1", nil
}

// SetShowAll stores the showAll preference
func (s *SettingsService) SetShowAll(ctx context.Context, userID string, showAll bool) error {
	value := "0"
	if showAll {
		value = "1"
	}
	return s.repo.SetValue(ctx, userID, domain.SettingShowAll, value)
}

// LastViewed returns the feed the user looked at last. Users without a
// stored view, or with a corrupt one, start on all subscriptions.
func (s *SettingsService) LastViewed(ctx context.Context, userID string) (domain.FeedType, int64, error) {
	rawType, err := s.repo.GetValue(ctx, userID, domain.SettingLastViewedFeedType)
	if err != nil {
		return 0, 0, err
	}
	rawID, err := s.repo.GetValue(ctx, userID, domain.SettingLastViewedFeedID)
	if err != nil {
		return 0, 0, err
	}

	feedType, err := domain.ParseFeedType(rawType)
	if err != nil {
		return domain.FeedTypeSubscriptions, 0, nil
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		id = 0
	}

	return feedType, id, nil
}

// SetLastViewed remembers the feed the user is looking at
func (s *SettingsService) SetLastViewed(ctx context.Context, userID string, feedType domain.FeedType, id int64) error {
	if err := s.repo.SetValue(ctx, userID, domain.SettingLastViewedFeedID, strconv.FormatInt(id, 10)); err != nil {
		return err
	}
	return s.repo.SetValue(ctx, userID, domain.SettingLastViewedFeedType, strconv.Itoa(int(feedType)))
}
