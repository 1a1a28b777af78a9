package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amiyamandal-dev/newsreader/internal/domain"
)

const itemColumns = `items.id, items.feed_id, items.guid, items.guid_hash, items.url, items.title,
	items.author, items.body, items.pub_date, items.last_modified, items.unread, items.starred`

// visibleItems joins items to their feeds and hides feeds that are deleted
// or sit in a deleted folder. The single placeholder is the owner.
const visibleItems = `
	FROM items
	JOIN feeds ON feeds.id = items.feed_id
	LEFT JOIN folders ON folders.id = feeds.folder_id
	WHERE feeds.user_id = ?
		AND feeds.deleted_at IS NULL
		AND (feeds.folder_id IS NULL OR folders.deleted_at IS NULL)`

// visibleFeedIDs is the subquery form of visibleItems used by updates
const visibleFeedIDs = `
	SELECT feeds.id FROM feeds
	LEFT JOIN folders ON folders.id = feeds.folder_id
	WHERE feeds.user_id = ?
		AND feeds.deleted_at IS NULL
		AND (feeds.folder_id IS NULL OR folders.deleted_at IS NULL)`

func scanItem(row scanner) (*domain.Item, error) {
	var item domain.Item
	var pubDate int64

	err := row.Scan(
		&item.ID,
		&item.FeedID,
		&item.GUID,
		&item.GUIDHash,
		&item.URL,
		&item.Title,
		&item.Author,
		&item.Body,
		&pubDate,
		&item.LastModified,
		&item.Unread,
		&item.Starred,
	)
	if err != nil {
		return nil, err
	}

	item.PubDate = time.Unix(pubDate, 0).UTC()
	return &item, nil
}

// ItemRepo implements the ItemRepository interface
type ItemRepo struct {
	db *DB
}

// NewItemRepo creates a new item repository
func NewItemRepo(db *DB) *ItemRepo {
	return &ItemRepo{db: db}
}

// scopeCondition restricts a visibility query to the feed or folder of a
// range-scoped feed type
func scopeCondition(t domain.FeedType, rangeID int64) (string, []any) {
	switch t {
	case domain.FeedTypeFeed:
		return ` AND feeds.id = ?`, []any{rangeID}
	case domain.FeedTypeFolder:
		return ` AND feeds.folder_id = ?`, []any{rangeID}
	case domain.FeedTypeStarred:
		return ` AND items.starred = ?`, []any{true}
	default:
		return "", nil
	}
}

// Find retrieves items matching the query, newest first
func (r *ItemRepo) Find(ctx context.Context, q *domain.ItemQuery) ([]*domain.Item, error) {
	var b strings.Builder
	b.WriteString(`SELECT `)
	b.WriteString(itemColumns)
	b.WriteString(visibleItems)
	args := []any{q.UserID}

	cond, condArgs := scopeCondition(q.Type, q.RangeID)
	b.WriteString(cond)
	args = append(args, condArgs...)

	if q.UnreadOnly {
		b.WriteString(` AND items.unread = ?`)
		args = append(args, true)
	}
	if q.BeforeID > 0 {
		b.WriteString(` AND items.id < ?`)
		args = append(args, q.BeforeID)
	}
	if q.ModifiedFrom > 0 {
		b.WriteString(` AND items.last_modified > ?`)
		args = append(args, q.ModifiedFrom)
	}

	b.WriteString(` ORDER BY items.id DESC`)
	if q.Limit > 0 {
		b.WriteString(` LIMIT ?`)
		args = append(args, q.Limit)
	}

	rows, err := r.db.query(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

// NewestID returns the highest visible item id of the user
func (r *ItemRepo) NewestID(ctx context.Context, userID string) (int64, error) {
	var newest sql.NullInt64
	if err := r.db.queryRow(ctx, `SELECT MAX(items.id)`+visibleItems, userID).Scan(&newest); err != nil {
		return 0, fmt.Errorf("failed to get newest item id: %w", err)
	}

	if !newest.Valid {
		return 0, domain.NewNotFoundError("item", nil)
	}

	return newest.Int64, nil
}

// CountStarred counts the user's starred items
func (r *ItemRepo) CountStarred(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.queryRow(ctx, `SELECT COUNT(*)`+visibleItems+` AND items.starred = ?`, userID, true).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count starred items: %w", err)
	}

	return count, nil
}

// SetUnread updates the unread flag of one item in a single conditional statement
func (r *ItemRepo) SetUnread(ctx context.Context, id int64, userID string, unread bool, lastModified int64) error {
	rowsAffected, err := r.db.exec(ctx,
		`UPDATE items SET unread = ?, last_modified = ? WHERE id = ? AND feed_id IN (`+visibleFeedIDs+`)`,
		unread, lastModified, id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	if rowsAffected == 0 {
		return domain.NewNotFoundError("item", id)
	}

	return nil
}

// SetStarred updates the starred flag of the item addressed by feed and guid hash
func (r *ItemRepo) SetStarred(ctx context.Context, feedID int64, guidHash, userID string, starred bool, lastModified int64) error {
	rowsAffected, err := r.db.exec(ctx,
		`UPDATE items SET starred = ?, last_modified = ? WHERE feed_id = ? AND guid_hash = ? AND feed_id IN (`+visibleFeedIDs+`)`,
		starred, lastModified, feedID, guidHash, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	if rowsAffected == 0 {
		return domain.NewNotFoundError("item", fmt.Sprintf("%d/%s", feedID, guidHash))
	}

	return nil
}

// MarkRead marks every unread item in scope with id <= scope.NewestID as read
func (r *ItemRepo) MarkRead(ctx context.Context, scope *domain.ReadScope, lastModified int64) (int64, error) {
	var sub strings.Builder
	sub.WriteString(visibleFeedIDs)
	subArgs := []any{scope.UserID}

	switch scope.Type {
	case domain.FeedTypeFeed:
		sub.WriteString(` AND feeds.id = ?`)
		subArgs = append(subArgs, scope.RangeID)
	case domain.FeedTypeFolder:
		sub.WriteString(` AND feeds.folder_id = ?`)
		subArgs = append(subArgs, scope.RangeID)
	}

	query := `UPDATE items SET unread = ?, last_modified = ? WHERE unread = ? AND id <= ?`
	args := []any{false, lastModified, true, scope.NewestID}
	if scope.Type == domain.FeedTypeStarred {
		query += ` AND starred = ?`
		args = append(args, true)
	}
	query += ` AND feed_id IN (` + sub.String() + `)`
	args = append(args, subArgs...)

	marked, err := r.db.exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to mark items read: %w", err)
	}

	return marked, nil
}

// Insert stores a new item. Returns false when the feed already has the guid hash.
func (r *ItemRepo) Insert(ctx context.Context, item *domain.Item) (bool, error) {
	query := `
		INSERT INTO items (feed_id, guid, guid_hash, url, title, author, body, pub_date, last_modified, unread, starred)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (feed_id, guid_hash) DO NOTHING
		RETURNING id
	`

	err := r.db.queryRow(ctx, query,
		item.FeedID,
		item.GUID,
		item.GUIDHash,
		item.URL,
		item.Title,
		item.Author,
		item.Body,
		item.PubDate.Unix(),
		item.LastModified,
		item.Unread,
		item.Starred,
	).Scan(&item.ID)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create item: %w", err)
	}

	return true, nil
}
