package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cutout/internal/settings"
)

const settingsKey = "studio"

// LoadSettings returns the persisted settings document, or the provided
// defaults when none has been saved yet.
func (s *Store) LoadSettings(ctx context.Context, defaults settings.Settings) (settings.Settings, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE name = ?`, settingsKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return defaults, nil
	}
	if err != nil {
		return defaults, fmt.Errorf("load settings: %w", err)
	}

	loaded := defaults
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		return defaults, fmt.Errorf("decode settings: %w", err)
	}
	return loaded, nil
}

// SaveSettings persists the settings document, replacing any previous value.
func (s *Store) SaveSettings(ctx context.Context, value settings.Settings) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.execWithoutResultRetry(
		ctx,
		`INSERT INTO settings (name, value, updated_at) VALUES (?, ?, ?)
         ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		settingsKey,
		string(encoded),
		time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
