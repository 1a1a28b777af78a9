package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/amiyamandal-dev/newsreader/internal/domain"
)

const folderColumns = `id, user_id, name, parent_id, opened, deleted_at`

// scanner interface for scanning rows
type scanner interface {
	Scan(dest ...any) error
}

func scanFolder(row scanner) (*domain.Folder, error) {
	var folder domain.Folder
	var parentID, deletedAt sql.NullInt64

	err := row.Scan(
		&folder.ID,
		&folder.UserID,
		&folder.Name,
		&parentID,
		&folder.Opened,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		folder.ParentID = &parentID.Int64
	}
	folder.DeletedAt = nullableUnix(deletedAt)

	return &folder, nil
}

// FolderRepo implements the FolderRepository interface
type FolderRepo struct {
	db *DB
}

// NewFolderRepo creates a new folder repository
func NewFolderRepo(db *DB) *FolderRepo {
	return &FolderRepo{db: db}
}

// FindAllByUser retrieves the user's active folders ordered by name
func (r *FolderRepo) FindAllByUser(ctx context.Context, userID string) ([]*domain.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM folders WHERE user_id = ? AND deleted_at IS NULL ORDER BY name, id`, folderColumns)

	rows, err := r.db.query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer rows.Close()

	folders := make([]*domain.Folder, 0)
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating folders: %w", err)
	}

	return folders, nil
}

// GetByID retrieves a folder owned by userID, soft-deleted or not
func (r *FolderRepo) GetByID(ctx context.Context, id int64, userID string) (*domain.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM folders WHERE id = ? AND user_id = ?`, folderColumns)

	folder, err := scanFolder(r.db.queryRow(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("folder", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get folder: %w", err)
	}

	return folder, nil
}

// FindActiveByName retrieves the user's active folder with exactly this name
func (r *FolderRepo) FindActiveByName(ctx context.Context, userID, name string) (*domain.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM folders WHERE user_id = ? AND name = ? AND deleted_at IS NULL`, folderColumns)

	folder, err := scanFolder(r.db.queryRow(ctx, query, userID, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("folder", nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find folder by name: %w", err)
	}

	return folder, nil
}

// Insert stores a new folder and assigns its ID
func (r *FolderRepo) Insert(ctx context.Context, folder *domain.Folder) error {
	query := `
		INSERT INTO folders (user_id, name, parent_id, opened, deleted_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`

	var parentID any
	if folder.ParentID != nil {
		parentID = *folder.ParentID
	}

	err := r.db.queryRow(ctx, query,
		folder.UserID,
		folder.Name,
		parentID,
		folder.Opened,
		unixOrNil(folder.DeletedAt),
	).Scan(&folder.ID)

	if isUniqueViolation(err) {
		return domain.NewConflictError("folder", folder.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}

	return nil
}

// Rename changes the name of an active folder
func (r *FolderRepo) Rename(ctx context.Context, id int64, userID, name string) error {
	rowsAffected, err := r.db.exec(ctx,
		`UPDATE folders SET name = ? WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		name, id, userID,
	)
	if isUniqueViolation(err) {
		return domain.NewConflictError("folder", name)
	}
	if err != nil {
		return fmt.Errorf("failed to rename folder: %w", err)
	}

	if rowsAffected == 0 {
		return domain.NewNotFoundError("folder", id)
	}

	return nil
}

// SetOpened updates the UI flag of an active folder
func (r *FolderRepo) SetOpened(ctx context.Context, id int64, userID string, opened bool) error {
	rowsAffected, err := r.db.exec(ctx,
		`UPDATE folders SET opened = ? WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		opened, id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update folder: %w", err)
	}

	if rowsAffected == 0 {
		return domain.NewNotFoundError("folder", id)
	}

	return nil
}

// SoftDelete marks an active folder as deleted at the given time
func (r *FolderRepo) SoftDelete(ctx context.Context, id int64, userID string, at time.Time) error {
	rowsAffected, err := r.db.exec(ctx,
		`UPDATE folders SET deleted_at = ? WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		at.Unix(), id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}

	if rowsAffected == 0 {
		return domain.NewNotFoundError("folder", id)
	}

	return nil
}

// Restore clears the deletion mark of a soft-deleted folder
func (r *FolderRepo) Restore(ctx context.Context, folder *domain.Folder) error {
	rowsAffected, err := r.db.exec(ctx,
		`UPDATE folders SET deleted_at = NULL WHERE id = ? AND user_id = ? AND deleted_at IS NOT NULL`,
		folder.ID, folder.UserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError("folder", folder.Name)
		}
		return fmt.Errorf("failed to restore folder: %w", err)
	}

	if rowsAffected == 0 {
		return domain.NewNotFoundError("folder", folder.ID)
	}

	return nil
}

// PurgeDeleted permanently removes the user's soft-deleted folders. Feeds and
// items inside them go with them through ON DELETE CASCADE.
func (r *FolderRepo) PurgeDeleted(ctx context.Context, userID, name string) (int64, error) {
	query := `DELETE FROM folders WHERE user_id = ? AND deleted_at IS NOT NULL`
	args := []any{userID}
	if name != "" {
		query += ` AND name = ?`
		args = append(args, name)
	}

	removed, err := r.db.exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to purge folders: %w", err)
	}

	return removed, nil
}

// UsersWithDeleted lists the users owning at least one soft-deleted folder
func (r *FolderRepo) UsersWithDeleted(ctx context.Context) ([]string, error) {
	rows, err := r.db.query(ctx, `SELECT DISTINCT user_id FROM folders WHERE deleted_at IS NOT NULL ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users with deleted folders: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		users = append(users, userID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}
