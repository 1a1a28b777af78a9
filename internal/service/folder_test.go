package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/amiyamandal-dev/newsreader/internal/domain"
)

func TestFolderService_CreateDuplicateConflicts(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	folder, err := env.Folders.Create(ctx, "  Tech ", "alice")
	if err != nil {
		t.Fatalf("Failed to create folder: %v", err)
	}
	if folder.Name != "Tech" {
		t.Errorf("Expected trimmed name, got %q", folder.Name)
	}

	_, err = env.Folders.Create(ctx, "Tech", "alice")
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Expected ConflictError, got %v", err)
	}
	if got := domain.Translate(err).Category; got != domain.CategoryConflict {
		t.Errorf("Expected conflict category, got %s", got)
	}

	folders, err := env.Folders.FindAll(ctx, "alice")
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(folders) != 1 {
		t.Errorf("Expected exactly one folder, got %d", len(folders))
	}
}

func TestFolderService_CreateRejectsEmptyName(t *testing.T) {
	env := setupTestEnv(t)

	for _, name := range []string{"", "   "} {
		_, err := env.Folders.Create(context.Background(), name, "alice")
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Expected validation error for %q, got %v", name, err)
		}
	}
}

func TestFolderService_DeleteThenRenameIsNotFound(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	folder, err := env.Folders.Create(ctx, "News", "alice")
	if err != nil {
		t.Fatalf("Failed to create folder: %v", err)
	}

	if err := env.Folders.Delete(ctx, folder.ID, "alice"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var notFound *domain.NotFoundError
	if err := env.Folders.Rename(ctx, folder.ID, "Other", "alice"); !errors.As(err, &notFound) {
		t.Errorf("Expected NotFoundError, got %v", err)
	}
	if err := env.Folders.Delete(ctx, folder.ID, "alice"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected second delete to be not found, got %v", err)
	}
}

func TestFolderService_CreateAfterSoftDelete(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	old, err := env.Folders.Create(ctx, "Tech", "alice")
	if err != nil {
		t.Fatalf("Failed to create folder: %v", err)
	}
	if err := env.Folders.Delete(ctx, old.ID, "alice"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if err := env.Folders.PurgeDeleted(ctx, "alice", false); err != nil {
		t.Fatalf("PurgeDeleted failed: %v", err)
	}
	folder, err := env.Folders.Create(ctx, "Tech", "alice")
	if err != nil {
		t.Fatalf("Expected create after soft delete to succeed, got %v", err)
	}
	if folder.DeletedAt != nil {
		t.Errorf("Expected active folder, got deletedAt %v", folder.DeletedAt)
	}
	if folder.ID == old.ID {
		t.Error("Expected a new folder id")
	}
}

func TestFolderService_CreateReclaimsDeletedNameWithoutPurge(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	old, err := env.Folders.Create(ctx, "Tech", "alice")
	if err != nil {
		t.Fatalf("Failed to create folder: %v", err)
	}
	if err := env.Folders.Delete(ctx, old.ID, "alice"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := env.Folders.Create(ctx, "Tech", "alice"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// The deleted folder with the reclaimed name is gone for good
	if _, err := env.Folders.Restore(ctx, old.ID, "alice"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected purged folder to be not found, got %v", err)
	}
}

func TestFolderService_Rename(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	tech, err := env.Folders.Create(ctx, "Tech", "alice")
	if err != nil {
		t.Fatalf("Failed to create folder: %v", err)
	}
	if _, err := env.Folders.Create(ctx, "News", "alice"); err != nil {
		t.Fatalf("Failed to create folder: %v", err)
	}

	tests := []struct {
		name    string
		newName string
		userID  string
		wantErr error
	}{
		{"same name", "Tech", "alice", nil},
		{"taken name", "News", "alice", domain.ErrConflict},
		{"empty name", " ", "alice", domain.ErrValidation},
		{"foreign folder", "Mine", "bob", domain.ErrNotFound},
		{"case change", "tech", "alice", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.Folders.Rename(ctx, tech.ID, tt.newName, tt.userID)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Expected success, got %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFolderService_RestoreAndOpen(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	folder, err := env.Folders.Create(ctx, "Tech", "alice")
	if err != nil {
		t.Fatalf("Failed to create folder: %v", err)
	}

	if _, err := env.Folders.Restore(ctx, folder.ID, "alice"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected restoring an active folder to be not found, got %v", err)
	}

	if err := env.Folders.Delete(ctx, folder.ID, "alice"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := env.Folders.Open(ctx, folder.ID, false, "alice"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected opening a deleted folder to be not found, got %v", err)
	}

	restored, err := env.Folders.Restore(ctx, folder.ID, "alice")
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if restored.IsDeleted() {
		t.Error("Expected restored folder to be active")
	}

	if err := env.Folders.Open(ctx, folder.ID, false, "alice"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	folders, err := env.Folders.FindAll(ctx, "alice")
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(folders) != 1 || folders[0].Opened {
		t.Errorf("Expected one collapsed folder, got %+v", folders)
	}
}

func TestFolderService_RestoreConflictsWithNewFolder(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	first, err := env.Folders.Create(ctx, "Tech", "alice")
	if err != nil {
		t.Fatalf("Failed to create folder: %v", err)
	}
	if err := env.Folders.Delete(ctx, first.ID, "alice"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	second, err := env.Folders.Create(ctx, "Other", "alice")
	if err != nil {
		t.Fatalf("Failed to create folder: %v", err)
	}
	if err := env.Folders.Rename(ctx, second.ID, "Tech", "alice"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}

	_, err = env.Folders.Restore(ctx, first.ID, "alice")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("Expected conflict, got %v", err)
	}
	if !strings.Contains(err.Error(), `"Tech"`) {
		t.Errorf("Expected conflict to name the folder, got %q", err.Error())
	}
}

func TestFolderService_ConcurrentCreate(t *testing.T) {
	const attempts = 8
	env := setupFileTestEnv(t, attempts)
	ctx := context.Background()

	errs := make([]error, attempts)
	start := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = env.Folders.Create(ctx, "Race", "alice")
		}(i)
	}
	close(start)
	wg.Wait()

	created := 0
	for i, err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrConflict):
		default:
			// A lock or busy error here means creates were not serialized
			t.Errorf("Attempt %d failed with a non-conflict error: %v", i, err)
		}
	}
	if created != 1 {
		t.Errorf("Expected exactly one successful create, got %d", created)
	}

	folders, err := env.Folders.FindAll(ctx, "alice")
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(folders) != 1 || folders[0].Name != "Race" {
		t.Errorf("Expected a single Race folder, got %+v", folders)
	}
}

func TestFolderService_PurgeDeletedIgnoresActive(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	keep, err := env.Folders.Create(ctx, "Keep", "alice")
	if err != nil {
		t.Fatalf("Failed to create folder: %v", err)
	}
	drop, err := env.Folders.Create(ctx, "Drop", "alice")
	if err != nil {
		t.Fatalf("Failed to create folder: %v", err)
	}
	if err := env.Folders.Delete(ctx, drop.ID, "alice"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	for _, final := range []bool{true, false} {
		if err := env.Folders.PurgeDeleted(ctx, "alice", final); err != nil {
			t.Fatalf("PurgeDeleted(%v) failed: %v", final, err)
		}
	}

	folders, err := env.Folders.FindAll(ctx, "alice")
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(folders) != 1 || folders[0].ID != keep.ID {
		t.Errorf("Expected only %d to remain, got %+v", keep.ID, folders)
	}
}
