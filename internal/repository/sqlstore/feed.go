package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/amiyamandal-dev/newsreader/internal/domain"
)

// feedColumns selects a feed together with its unread count; the first
// placeholder is the unread flag
const feedColumns = `feeds.id, feeds.user_id, feeds.url, feeds.title, feeds.folder_id, feeds.deleted_at, feeds.created_at,
	(SELECT COUNT(*) FROM items WHERE items.feed_id = feeds.id AND items.unread = ?)`

// visibleFeeds hides deleted feeds and feeds in a deleted folder, matching
// the visibility of their items. The single placeholder is the owner.
const visibleFeeds = `
	FROM feeds
	LEFT JOIN folders ON folders.id = feeds.folder_id
	WHERE feeds.user_id = ?
		AND feeds.deleted_at IS NULL
		AND (feeds.folder_id IS NULL OR folders.deleted_at IS NULL)`

func scanFeed(row scanner) (*domain.Feed, error) {
	var feed domain.Feed
	var folderID, deletedAt sql.NullInt64
	var createdAt int64

	err := row.Scan(
		&feed.ID,
		&feed.UserID,
		&feed.URL,
		&feed.Title,
		&folderID,
		&deletedAt,
		&createdAt,
		&feed.UnreadCount,
	)
	if err != nil {
		return nil, err
	}

	if folderID.Valid {
		feed.FolderID = &folderID.Int64
	}
	feed.DeletedAt = nullableUnix(deletedAt)
	feed.CreatedAt = time.Unix(createdAt, 0).UTC()

	return &feed, nil
}

// FeedRepo implements the FeedRepository interface
type FeedRepo struct {
	db *DB
}

// NewFeedRepo creates a new feed repository
func NewFeedRepo(db *DB) *FeedRepo {
	return &FeedRepo{db: db}
}

// FindAllByUser retrieves the user's visible feeds with their unread counts
func (r *FeedRepo) FindAllByUser(ctx context.Context, userID string) ([]*domain.Feed, error) {
	query := fmt.Sprintf(`SELECT %s %s ORDER BY feeds.title, feeds.id`, feedColumns, visibleFeeds)

	rows, err := r.db.query(ctx, query, true, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feeds: %w", err)
	}
	defer rows.Close()

	feeds := make([]*domain.Feed, 0)
	for rows.Next() {
		feed, err := scanFeed(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feed: %w", err)
		}
		feeds = append(feeds, feed)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feeds: %w", err)
	}

	return feeds, nil
}

// GetByID retrieves a visible feed owned by userID
func (r *FeedRepo) GetByID(ctx context.Context, id int64, userID string) (*domain.Feed, error) {
	query := fmt.Sprintf(`SELECT %s %s AND feeds.id = ?`, feedColumns, visibleFeeds)

	feed, err := scanFeed(r.db.queryRow(ctx, query, true, userID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("feed", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed: %w", err)
	}

	return feed, nil
}

// GetByURL retrieves the user's active feed subscribed to url. Feeds in a
// deleted folder are still returned since they hold the url's unique slot.
func (r *FeedRepo) GetByURL(ctx context.Context, userID, url string) (*domain.Feed, error) {
	query := fmt.Sprintf(`SELECT %s FROM feeds WHERE feeds.user_id = ? AND feeds.url = ? AND feeds.deleted_at IS NULL`, feedColumns)

	feed, err := scanFeed(r.db.queryRow(ctx, query, true, userID, url))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("feed", nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed by url: %w", err)
	}

	return feed, nil
}

// Insert stores a new feed and assigns its ID
func (r *FeedRepo) Insert(ctx context.Context, feed *domain.Feed) error {
	query := `
		INSERT INTO feeds (user_id, url, title, folder_id, deleted_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	var folderID any
	if feed.FolderID != nil {
		folderID = *feed.FolderID
	}

	err := r.db.queryRow(ctx, query,
		feed.UserID,
		feed.URL,
		feed.Title,
		folderID,
		unixOrNil(feed.DeletedAt),
		feed.CreatedAt.Unix(),
	).Scan(&feed.ID)

	if isUniqueViolation(err) {
		return domain.NewConflictError("feed", feed.URL)
	}
	if err != nil {
		return fmt.Errorf("failed to create feed: %w", err)
	}

	return nil
}
