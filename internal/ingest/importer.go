package ingest

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/amiyamandal-dev/newsreader/internal/domain"
	"github.com/amiyamandal-dev/newsreader/pkg/logger"
)

// FeedSubscriber finds or creates a user's feed by url
type FeedSubscriber interface {
	Subscribe(ctx context.Context, feed *domain.Feed) (*domain.Feed, bool, error)
}

// ItemAdder stores a new item, reporting false for a duplicate guid
type ItemAdder interface {
	AddItem(ctx context.Context, userID string, item *domain.Item) (bool, error)
}

// FolderResolver lists and creates folders
type FolderResolver interface {
	FindAll(ctx context.Context, userID string) ([]*domain.Folder, error)
	Create(ctx context.Context, name, userID string) (*domain.Folder, error)
}

// Options controls a single import
type Options struct {
	// FeedURL overrides the url found in the document
	FeedURL string
	// Folder is the name of the folder new feeds are filed under. It is
	// created when missing. Empty leaves the feed at the top level.
	Folder string
}

// Result summarizes an import
type Result struct {
	Feed        *domain.Feed
	FeedCreated bool
	Added       int
	Skipped     int
}

// Importer loads RSS, Atom and JSON feed documents into a user's account
type Importer struct {
	parser  *gofeed.Parser
	feeds   FeedSubscriber
	items   ItemAdder
	folders FolderResolver
	logger  *logger.Logger
	now     func() time.Time
}

// NewImporter creates a new importer
func NewImporter(feeds FeedSubscriber, items ItemAdder, folders FolderResolver, logger *logger.Logger) *Importer {
	return &Importer{
		parser:  gofeed.NewParser(),
		feeds:   feeds,
		items:   items,
		folders: folders,
		logger:  logger.WithComponent("importer"),
		now:     time.Now,
	}
}

// Import parses the document in r and stores its items for userID. Items
// already known to the feed are skipped.
func (im *Importer) Import(ctx context.Context, userID string, r io.Reader, opts Options) (*Result, error) {
	parsed, err := im.parser.Parse(r)
	if err != nil {
		return nil, domain.NewValidationError("document", fmt.Sprintf("not a feed: %v", err))
	}

	url := feedURL(parsed, opts.FeedURL)
	if url == "" {
		return nil, domain.NewValidationError("url", "feed document carries no url")
	}

	feed := &domain.Feed{
		UserID: userID,
		URL:    url,
		Title:  strings.TrimSpace(parsed.Title),
	}
	if opts.Folder != "" {
		folderID, err := im.resolveFolder(ctx, userID, opts.Folder)
		if err != nil {
			return nil, err
		}
		feed.FolderID = &folderID
	}

	stored, created, err := im.feeds.Subscribe(ctx, feed)
	if err != nil {
		return nil, err
	}

	result := &Result{Feed: stored, FeedCreated: created}

	// Oldest first, so newer entries get higher ids
	for i := len(parsed.Items) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		item := im.toItem(stored.ID, parsed.Items[i])
		if item.GUID == "" {
			result.Skipped++
			continue
		}

		added, err := im.items.AddItem(ctx, userID, item)
		if err != nil {
			return result, fmt.Errorf("failed to add item %q: %w", item.GUID, err)
		}
		if added {
			result.Added++
		} else {
			result.Skipped++
		}
	}

	im.logger.Info("Feed imported",
		"user_id", userID,
		"feed_id", stored.ID,
		"created", created,
		"added", result.Added,
		"skipped", result.Skipped,
	)

	return result, nil
}

func (im *Importer) resolveFolder(ctx context.Context, userID, name string) (int64, error) {
	name = strings.TrimSpace(name)

	folders, err := im.folders.FindAll(ctx, userID)
	if err != nil {
		return 0, err
	}
	for _, f := range folders {
		if f.Name == name {
			return f.ID, nil
		}
	}

	folder, err := im.folders.Create(ctx, name, userID)
	if err != nil {
		return 0, err
	}
	return folder.ID, nil
}

func (im *Importer) toItem(feedID int64, entry *gofeed.Item) *domain.Item {
	guid := strings.TrimSpace(entry.GUID)
	if guid == "" {
		guid = strings.TrimSpace(entry.Link)
	}

	pubDate := entry.PublishedParsed
	if pubDate == nil {
		pubDate = entry.UpdatedParsed
	}
	if pubDate == nil {
		now := im.now()
		pubDate = &now
	}

	body := entry.Content
	if body == "" {
		body = entry.Description
	}

	return &domain.Item{
		FeedID:  feedID,
		GUID:    guid,
		URL:     entry.Link,
		Title:   strings.TrimSpace(entry.Title),
		Author:  authorName(entry),
		Body:    body,
		PubDate: pubDate.UTC(),
	}
}

func feedURL(parsed *gofeed.Feed, override string) string {
	for _, candidate := range []string{override, parsed.FeedLink, parsed.Link} {
		if c := strings.TrimSpace(candidate); c != "" {
			return c
		}
	}
	return ""
}

func authorName(entry *gofeed.Item) string {
	if entry.Author != nil && entry.Author.Name != "" {
		return entry.Author.Name
	}
	for _, a := range entry.Authors {
		if a != nil && a.Name != "" {
			return a.Name
		}
	}
	return ""
}
