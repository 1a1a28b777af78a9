package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SettingsRepo implements the SettingsRepository interface
type SettingsRepo struct {
	db *DB
}

// NewSettingsRepo creates a new settings repository
func NewSettingsRepo(db *DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// GetValue returns the stored value, or "" when the key was never set
func (r *SettingsRepo) GetValue(ctx context.Context, userID, key string) (string, error) {
	var value string
	err := r.db.queryRow(ctx,
		`SELECT value FROM user_settings WHERE user_id = ? AND key = ?`,
		userID, key,
	).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}

	return value, nil
}

// SetValue stores a value, replacing any previous one
func (r *SettingsRepo) SetValue(ctx context.Context, userID, key, value string) error {
	_, err := r.db.exec(ctx, `
		INSERT INTO user_settings (user_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT (user_id, key) DO UPDATE SET value = excluded.value
	`, userID, key, value)
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}

	return nil
}
