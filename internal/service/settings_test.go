package service

import (
	"context"
	"testing"

	"github.com/amiyamandal-dev/newsreader/internal/domain"
)

func TestSettingsService(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	showAll, err := env.Settings.ShowAll(ctx, "alice")
	if err != nil {
		t.Fatalf("ShowAll failed: %v", err)
	}
	if showAll {
		t.Error("Expected showAll to default to false")
	}

	feedType, id, err := env.Settings.LastViewed(ctx, "alice")
	if err != nil {
		t.Fatalf("LastViewed failed: %v", err)
	}
	if feedType != domain.FeedTypeSubscriptions || id != 0 {
		t.Errorf("Expected subscriptions view, got %s/%d", feedType, id)
	}

	if err := env.Settings.SetShowAll(ctx, "alice", true); err != nil {
		t.Fatalf("SetShowAll failed: %v", err)
	}
	if err := env.Settings.SetLastViewed(ctx, "alice", domain.FeedTypeFolder, 12); err != nil {
		t.Fatalf("SetLastViewed failed: %v", err)
	}

	showAll, err = env.Settings.ShowAll(ctx, "alice")
	if err != nil {
		t.Fatalf("ShowAll failed: %v", err)
	}
	if !showAll {
		t.Error("Expected showAll to be stored")
	}

	feedType, id, err = env.Settings.LastViewed(ctx, "alice")
	if err != nil {
		t.Fatalf("LastViewed failed: %v", err)
	}
	if feedType != domain.FeedTypeFolder || id != 12 {
		t.Errorf("Expected folder/12, got %s/%d", feedType, id)
	}

	// Preferences are per user
	if showAll, _ := env.Settings.ShowAll(ctx, "bob"); showAll {
		t.Error("Expected bob's showAll to be unset")
	}
}

func TestFeedService_SubscribeIsIdempotent(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	first, created, err := env.Feeds.Subscribe(ctx, &domain.Feed{UserID: "alice", URL: "https://example.com/a.xml"})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if !created {
		t.Error("Expected first subscription to create the feed")
	}

	second, created, err := env.Feeds.Subscribe(ctx, &domain.Feed{UserID: "alice", URL: "https://example.com/a.xml"})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if created || second.ID != first.ID {
		t.Errorf("Expected existing feed %d, got %d (created=%v)", first.ID, second.ID, created)
	}

	if _, _, err := env.Feeds.Subscribe(ctx, &domain.Feed{UserID: "alice"}); err == nil {
		t.Error("Expected feed without url to be rejected")
	}

	feeds, err := env.Feeds.FindAll(ctx, "alice")
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(feeds) != 1 {
		t.Errorf("Expected 1 feed, got %d", len(feeds))
	}
}
