package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_settings_store.go -package=mocks ytnote/internal/storage SettingsStore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

const (
	keyGoogleCloudAPIKey = "google_cloud_api_key"
	keyFolder            = "folder"
	keyChapterFormat     = "chapter_format"
	keyHashtagFormat     = "hashtag_format"
	keyTemplate          = "template"
	keyCreatePaths       = "create_paths"
)

// SettingsStore defines the interface for settings persistence.
type SettingsStore interface {
	// Get returns the saved settings. Keys that were never saved take their default value.
	Get(ctx context.Context) (Settings, error)
	// Save persists every field of s.
	Save(ctx context.Context, s Settings) error
}

// SettingsRepo stores settings as key/value rows.
// It implements the SettingsStore interface.
type SettingsRepo struct {
	db       *sql.DB
	defaults Settings
}

// NewSettingsRepo creates a new SettingsRepo. defaults fill in keys that have
// never been saved.
func NewSettingsRepo(db *sql.DB, defaults Settings) *SettingsRepo {
	return &SettingsRepo{db: db, defaults: defaults}
}

// Get returns the saved settings merged over the defaults.
func (r *SettingsRepo) Get(ctx context.Context) (Settings, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return Settings{}, fmt.Errorf("failed to query settings: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	s := r.defaults
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Settings{}, fmt.Errorf("failed to scan setting: %w", err)
		}

		switch key {
		case keyGoogleCloudAPIKey:
			s.GoogleCloudAPIKey = value
		case keyFolder:
			s.Folder = value
		case keyChapterFormat:
			s.ChapterFormat = value
		case keyHashtagFormat:
			s.HashtagFormat = value
		case keyTemplate:
			s.Template = value
		case keyCreatePaths:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Settings{}, fmt.Errorf("invalid %s value %q: %w", key, value, err)
			}
			s.CreatePaths = b
		}
	}

	if err := rows.Err(); err != nil {
		return Settings{}, fmt.Errorf("failed to iterate settings: %w", err)
	}

	return s, nil
}

// Save writes all settings in a single transaction.
func (r *SettingsRepo) Save(ctx context.Context, s Settings) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	values := map[string]string{
		keyGoogleCloudAPIKey: s.GoogleCloudAPIKey,
		keyFolder:            s.Folder,
		keyChapterFormat:     s.ChapterFormat,
		keyHashtagFormat:     s.HashtagFormat,
		keyTemplate:          s.Template,
		keyCreatePaths:       strconv.FormatBool(s.CreatePaths),
	}

	now := time.Now().UTC()
	for key, value := range values {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, value, now,
		)
		if err != nil {
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settings: %w", err)
	}
	return nil
}
