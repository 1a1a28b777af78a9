package repository

import (
	"context"
	"time"

	"github.com/amiyamandal-dev/newsreader/internal/domain"
)

// FolderRepository defines the interface for folder persistence. It stores and
// retrieves rows; uniqueness and lifecycle rules belong to the service layer.
type FolderRepository interface {
	// FindAllByUser retrieves the user's active folders ordered by name
	FindAllByUser(ctx context.Context, userID string) ([]*domain.Folder, error)

	// GetByID retrieves a folder owned by userID, soft-deleted or not
	GetByID(ctx context.Context, id int64, userID string) (*domain.Folder, error)

	// FindActiveByName retrieves the user's active folder with exactly this name
	FindActiveByName(ctx context.Context, userID, name string) (*domain.Folder, error)

	// Insert stores a new folder and assigns its ID
	Insert(ctx context.Context, folder *domain.Folder) error

	// Rename changes the name of an active folder
	Rename(ctx context.Context, id int64, userID, name string) error

	// SetOpened updates the UI flag of an active folder
	SetOpened(ctx context.Context, id int64, userID string, opened bool) error

	// SoftDelete marks an active folder as deleted at the given time
	SoftDelete(ctx context.Context, id int64, userID string, at time.Time) error

	// Restore clears the deletion mark of a soft-deleted folder. The folder's
	// name is reported when an active folder already holds it.
	Restore(ctx context.Context, folder *domain.Folder) error

	// PurgeDeleted permanently removes the user's soft-deleted folders,
	// restricted to one name when name is not empty. Returns the number of rows removed.
	PurgeDeleted(ctx context.Context, userID, name string) (int64, error)

	// UsersWithDeleted lists the users owning at least one soft-deleted folder
	UsersWithDeleted(ctx context.Context) ([]string, error)
}
