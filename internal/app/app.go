// Package app builds the dependencies shared by the API server and the CLI.
package app

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"ytnote/internal/config"
	"ytnote/internal/service"
	"ytnote/internal/storage"
	"ytnote/internal/template"
	"ytnote/internal/vault"
	"ytnote/internal/youtube"
)

// App holds the initialized dependencies of one process.
type App struct {
	DB       *sql.DB
	Vault    *vault.Manager
	Notes    service.NoteService
	Settings service.SettingsService
}

// NewLogger builds the process logger from the configured level and format.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// New opens the database, runs migrations, opens the vault and builds the services.
// The caller must Close the returned App.
func New(cfg *config.Config) (*App, error) {
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Database initialized", "path", cfg.DBPath)

	vaultManager, err := vault.NewManager(cfg.VaultPath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open vault: %w", err)
	}
	slog.Debug("Vault opened", "root", vaultManager.Root())

	settingsRepo := storage.NewSettingsRepo(db, cfg.DefaultSettings())
	noteRepo := storage.NewNoteRepo(db)

	videos := youtube.NewClient(youtube.Options{
		Endpoint: cfg.YouTubeAPIEndpoint,
		Retry:    cfg.RetryConfig(),
	})

	return &App{
		DB:       db,
		Vault:    vaultManager,
		Notes:    service.NewNoteService(videos, vaultManager, settingsRepo, noteRepo, template.NewRenderer()),
		Settings: service.NewSettingsService(settingsRepo, vaultManager),
	}, nil
}

// Close releases the database.
func (a *App) Close() error {
	return a.DB.Close()
}
