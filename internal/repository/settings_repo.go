package repository

import (
	"context"
)

// SettingsRepository stores per-user preference values
type SettingsRepository interface {
	// GetValue returns the stored value, or "" when the key was never set
	GetValue(ctx context.Context, userID, key string) (string, error)

	// SetValue stores a value, replacing any previous one
	SetValue(ctx context.Context, userID, key, value string) error
}
