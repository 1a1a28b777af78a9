package domain

import (
	"strings"
	"time"
)

// Folder groups a user's feeds. Only one level is used; ParentID is carried
// but never traversed.
type Folder struct {
	ID        int64      `json:"id" db:"id"`
	UserID    string     `json:"-" db:"user_id"`
	Name      string     `json:"name" db:"name"`
	ParentID  *int64     `json:"parentId,omitempty" db:"parent_id"`
	Opened    bool       `json:"opened" db:"opened"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}

// IsDeleted reports whether the folder is soft-deleted
func (f *Folder) IsDeleted() bool {
	return f.DeletedAt != nil
}

// NormalizeFolderName trims the name and rejects empty results. Names are
// compared case-sensitively after trimming.
func NormalizeFolderName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", NewValidationError("name", "folder name can not be empty")
	}
	if len(trimmed) > MaxFolderNameLength {
		return "", NewValidationError("name", "folder name is too long")
	}
	return trimmed, nil
}

// MaxFolderNameLength bounds folder names in bytes
const MaxFolderNameLength = 255

// FolderCreateRequest represents a request to create a folder
type FolderCreateRequest struct {
	Name string `json:"name" binding:"max=255"`
}

// FolderRenameRequest represents a request to rename a folder
type FolderRenameRequest struct {
	Name string `json:"name" binding:"max=255"`
}
