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

// FolderService handles folder naming and lifecycle rules
type FolderService struct {
	folderRepo repository.FolderRepository
	tx         repository.Transactor
	stats      repository.StatsCache
	logger     *logger.Logger
	now        func() time.Time
}

// NewFolderService creates a new folder service. Deleting or restoring a
// folder changes which items are visible, so the item stats cache is dropped
// for the user. stats may be nil.
func NewFolderService(
	folderRepo repository.FolderRepository,
	tx repository.Transactor,
	stats repository.StatsCache,
	logger *logger.Logger,
) *FolderService {
	if stats == nil {
		stats = noopStats{}
	}

	return &FolderService{
		folderRepo: folderRepo,
		tx:         tx,
		stats:      stats,
		logger:     logger.WithComponent("folder-service"),
		now:        time.Now,
	}
}

// FindAll returns the user's active folders ordered by name
func (s *FolderService) FindAll(ctx context.Context, userID string) ([]*domain.Folder, error) {
	return s.folderRepo.FindAllByUser(ctx, userID)
}

// Create creates a folder. Soft-deleted folders with the same name are purged
// first so the name can be reused.
func (s *FolderService) Create(ctx context.Context, name, userID string) (*domain.Folder, error) {
	name, err := domain.NormalizeFolderName(name)
	if err != nil {
		return nil, err
	}

	folder := &domain.Folder{
		UserID: userID,
		Name:   name,
		Opened: true,
	}

	err = s.tx.WithinUserTx(ctx, userID, func(ctx context.Context) error {
		if _, err := s.folderRepo.PurgeDeleted(ctx, userID, name); err != nil {
			return err
		}

		if err := s.ensureNameFree(ctx, userID, name, 0); err != nil {
			return err
		}

		return s.folderRepo.Insert(ctx, folder)
	})
	if err != nil {
		if _, ok := domain.KindOf(err); !ok {
			s.logger.Error("Failed to create folder", "user_id", userID, "name", name, "error", err)
		}
		return nil, err
	}

	s.logger.Info("Folder created", "user_id", userID, "folder_id", folder.ID)

	return folder, nil
}

// Delete soft-deletes an active folder. Its feeds and items are left alone.
func (s *FolderService) Delete(ctx context.Context, folderID int64, userID string) error {
	if err := s.folderRepo.SoftDelete(ctx, folderID, userID, s.now()); err != nil {
		return err
	}

	s.invalidate(ctx, userID)
	s.logger.Info("Folder deleted", "user_id", userID, "folder_id", folderID)

	return nil
}

// Rename renames an active folder. Renaming to the current name is a no-op.
func (s *FolderService) Rename(ctx context.Context, folderID int64, name, userID string) error {
	name, err := domain.NormalizeFolderName(name)
	if err != nil {
		return err
	}

	return s.tx.WithinUserTx(ctx, userID, func(ctx context.Context) error {
		folder, err := s.activeFolder(ctx, folderID, userID)
		if err != nil {
			return err
		}

		if folder.Name == name {
			return nil
		}

		if err := s.ensureNameFree(ctx, userID, name, folderID); err != nil {
			return err
		}

		return s.folderRepo.Rename(ctx, folderID, userID, name)
	})
}

// PurgeDeleted permanently removes every soft-deleted folder of the user.
// finalPurge only marks maintenance passes in the log.
func (s *FolderService) PurgeDeleted(ctx context.Context, userID string, finalPurge bool) error {
	removed, err := s.folderRepo.PurgeDeleted(ctx, userID, "")
	if err != nil {
		s.logger.Error("Failed to purge folders", "user_id", userID, "error", err)
		return err
	}

	if removed > 0 || finalPurge {
		s.logger.Info("Purged deleted folders", "user_id", userID, "removed", removed, "final", finalPurge)
	}

	return nil
}

// Open stores whether the folder is expanded in the client
func (s *FolderService) Open(ctx context.Context, folderID int64, opened bool, userID string) error {
	return s.folderRepo.SetOpened(ctx, folderID, userID, opened)
}

// Restore undoes a soft delete
func (s *FolderService) Restore(ctx context.Context, folderID int64, userID string) (*domain.Folder, error) {
	var folder *domain.Folder

	err := s.tx.WithinUserTx(ctx, userID, func(ctx context.Context) error {
		var err error
		folder, err = s.folderRepo.GetByID(ctx, folderID, userID)
		if err != nil {
			return err
		}
		if !folder.IsDeleted() {
			return domain.NewNotFoundError("deleted folder", folderID)
		}

		if err := s.ensureNameFree(ctx, userID, folder.Name, folderID); err != nil {
			return err
		}

		return s.folderRepo.Restore(ctx, folder)
	})
	if err != nil {
		return nil, err
	}

	folder.DeletedAt = nil
	s.invalidate(ctx, userID)
	s.logger.Info("Folder restored", "user_id", userID, "folder_id", folderID)

	return folder, nil
}

func (s *FolderService) activeFolder(ctx context.Context, folderID int64, userID string) (*domain.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID, userID)
	if err != nil {
		return nil, err
	}
	if folder.IsDeleted() {
		return nil, domain.NewNotFoundError("folder", folderID)
	}
	return folder, nil
}

// ensureNameFree fails with a ConflictError when an active folder other than
// exceptID already uses name
func (s *FolderService) ensureNameFree(ctx context.Context, userID, name string, exceptID int64) error {
	existing, err := s.folderRepo.FindActiveByName(ctx, userID, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check folder name: %w", err)
	}

	if existing.ID != exceptID {
		return domain.NewConflictError("folder", name)
	}
	return nil
}

func (s *FolderService) invalidate(ctx context.Context, userID string) {
	if err := s.stats.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("Stats cache invalidation failed", "user_id", userID, "error", err)
	}
}
