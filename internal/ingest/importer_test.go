package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/amiyamandal-dev/newsreader/internal/domain"
	"github.com/amiyamandal-dev/newsreader/pkg/logger"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Blog</title>
    <link>https://example.com/</link>
    <description>Posts</description>
    <item>
      <title>Second post</title>
      <link>https://example.com/2</link>
      <guid>https://example.com/2</guid>
      <description>Newer</description>
      <pubDate>Tue, 02 Jan 2024 10:00:00 GMT</pubDate>
    </item>
    <item>
      <title>First post</title>
      <link>https://example.com/1</link>
      <guid>https://example.com/1</guid>
      <description>Older</description>
      <pubDate>Mon, 01 Jan 2024 10:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

type fakeFeeds struct {
	feeds map[string]*domain.Feed
}

func (f *fakeFeeds) Subscribe(ctx context.Context, feed *domain.Feed) (*domain.Feed, bool, error) {
	if existing, ok := f.feeds[feed.URL]; ok {
		return existing, false, nil
	}
	feed.ID = int64(len(f.feeds) + 1)
	f.feeds[feed.URL] = feed
	return feed, true, nil
}

type fakeItems struct {
	seen  map[string]bool
	added []*domain.Item
}

func (f *fakeItems) AddItem(ctx context.Context, userID string, item *domain.Item) (bool, error) {
	if f.seen[item.GUID] {
		return false, nil
	}
	f.seen[item.GUID] = true
	f.added = append(f.added, item)
	return true, nil
}

type fakeFolders struct {
	folders []*domain.Folder
	created []string
}

func (f *fakeFolders) FindAll(ctx context.Context, userID string) ([]*domain.Folder, error) {
	return f.folders, nil
}

func (f *fakeFolders) Create(ctx context.Context, name, userID string) (*domain.Folder, error) {
	f.created = append(f.created, name)
	folder := &domain.Folder{ID: int64(100 + len(f.created)), Name: name}
	f.folders = append(f.folders, folder)
	return folder, nil
}

func newTestImporter() (*Importer, *fakeFeeds, *fakeItems, *fakeFolders) {
	feeds := &fakeFeeds{feeds: map[string]*domain.Feed{}}
	items := &fakeItems{seen: map[string]bool{}}
	folders := &fakeFolders{}
	return NewImporter(feeds, items, folders, logger.NewNop()), feeds, items, folders
}

func TestImporter_Import(t *testing.T) {
	im, _, items, _ := newTestImporter()

	result, err := im.Import(context.Background(), "alice", strings.NewReader(sampleRSS), Options{})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if !result.FeedCreated || result.Feed.URL != "https://example.com/" || result.Feed.Title != "Example Blog" {
		t.Errorf("Unexpected feed %+v", result.Feed)
	}
	if result.Added != 2 || result.Skipped != 0 {
		t.Errorf("Expected 2 added, got %d added %d skipped", result.Added, result.Skipped)
	}

	// Oldest entry is stored first
	if items.added[0].Title != "First post" || items.added[1].Title != "Second post" {
		t.Errorf("Unexpected insertion order %q %q", items.added[0].Title, items.added[1].Title)
	}
	if items.added[0].Body != "Older" || items.added[0].PubDate.Day() != 1 {
		t.Errorf("Unexpected item %+v", items.added[0])
	}
	if items.added[0].FeedID != result.Feed.ID {
		t.Errorf("Expected feed id %d, got %d", result.Feed.ID, items.added[0].FeedID)
	}
}

func TestImporter_ImportTwiceSkipsDuplicates(t *testing.T) {
	im, _, _, _ := newTestImporter()
	ctx := context.Background()

	if _, err := im.Import(ctx, "alice", strings.NewReader(sampleRSS), Options{}); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	result, err := im.Import(ctx, "alice", strings.NewReader(sampleRSS), Options{})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.FeedCreated {
		t.Error("Expected the existing feed to be reused")
	}
	if result.Added != 0 || result.Skipped != 2 {
		t.Errorf("Expected 2 skipped, got %d added %d skipped", result.Added, result.Skipped)
	}
}

func TestImporter_Folder(t *testing.T) {
	im, _, _, folders := newTestImporter()
	folders.folders = []*domain.Folder{{ID: 7, Name: "Tech"}}
	ctx := context.Background()

	result, err := im.Import(ctx, "alice", strings.NewReader(sampleRSS), Options{Folder: " Tech "})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Feed.FolderID == nil || *result.Feed.FolderID != 7 {
		t.Errorf("Expected folder 7, got %v", result.Feed.FolderID)
	}
	if len(folders.created) != 0 {
		t.Errorf("Expected no folder to be created, got %v", folders.created)
	}

	result, err = im.Import(ctx, "alice", strings.NewReader(sampleRSS), Options{FeedURL: "https://example.com/other.xml", Folder: "News"})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(folders.created) != 1 || folders.created[0] != "News" {
		t.Errorf("Expected folder News to be created, got %v", folders.created)
	}
	if result.Feed.URL != "https://example.com/other.xml" {
		t.Errorf("Expected the url override, got %s", result.Feed.URL)
	}
}

func TestImporter_InvalidDocument(t *testing.T) {
	im, _, _, _ := newTestImporter()

	_, err := im.Import(context.Background(), "alice", strings.NewReader("plain text, not a feed"), Options{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Expected a validation error, got %v", err)
	}
}
