package domain

import (
	"time"
)

// Feed is a subscribed content source owned by one user
type Feed struct {
	ID          int64      `json:"id" db:"id"`
	UserID      string     `json:"-" db:"user_id"`
	URL         string     `json:"url" db:"url"`
	Title       string     `json:"title" db:"title"`
	FolderID    *int64     `json:"folderId" db:"folder_id"`
	UnreadCount int        `json:"unreadCount" db:"-"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
	CreatedAt   time.Time  `json:"added" db:"created_at"`
}

// Validate validates the feed fields
func (f *Feed) Validate() error {
	if f.URL == "" {
		return NewValidationError("url", "feed url can not be empty")
	}
	if f.UserID == "" {
		return NewValidationError("userId", "feed owner is required")
	}
	return nil
}
