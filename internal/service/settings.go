package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_settings_service.go -package=mocks -mock_names=SettingsService=MockSettingsService ytnote/internal/service SettingsService

import (
	"context"

	"ytnote/internal/contextutil"
	"ytnote/internal/storage"
	"ytnote/internal/vault"
)

// UpdateSettingsRequest replaces the saved settings. A nil GoogleCloudAPIKey
// keeps the saved key.
type UpdateSettingsRequest struct {
	GoogleCloudAPIKey *string `json:"google_cloud_api_key" validate:"omitempty,max=256"`
	Folder            string  `json:"folder" validate:"required,max=1024"`
	ChapterFormat     string  `json:"chapter_format" validate:"required,max=4096"`
	HashtagFormat     string  `json:"hashtag_format" validate:"required,max=1024"`
	Template          string  `json:"template" validate:"required,max=65536"`
	CreatePaths       bool    `json:"create_paths"`
}

// SettingsService manages the note settings.
type SettingsService interface {
	// Get returns the current settings.
	Get(ctx context.Context) (storage.Settings, error)
	// Update validates and saves req, returning the saved settings.
	Update(ctx context.Context, req UpdateSettingsRequest) (storage.Settings, error)
	// Folders lists the vault folders notes can be saved to.
	Folders(ctx context.Context) ([]string, error)
}

// settingsService implements SettingsService.
type settingsService struct {
	store storage.SettingsStore
	vault Vault
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(store storage.SettingsStore, v Vault) SettingsService {
	return &settingsService{
		store: store,
		vault: v,
	}
}

// Get returns the current settings.
func (s *settingsService) Get(ctx context.Context) (storage.Settings, error) {
	settings, err := s.store.Get(ctx)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to load settings", "error", err)
		return storage.Settings{}, WrapError(err, "failed to load settings")
	}
	return settings, nil
}

// Update saves req. The folder must already exist in the vault.
func (s *settingsService) Update(ctx context.Context, req UpdateSettingsRequest) (storage.Settings, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := validateStruct(req); err != nil {
		logger.WarnContext(ctx, "invalid settings update", "error", err)
		return storage.Settings{}, err
	}

	folder := vault.NormalizeFolder(req.Folder)
	if !s.vault.FolderExists(folder) {
		logger.WarnContext(ctx, "settings folder not in vault", "folder", folder)
		return storage.Settings{}, &ValidationError{
			Field:   "folder",
			Message: "is not a folder of the vault",
		}
	}

	current, err := s.store.Get(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load settings", "error", err)
		return storage.Settings{}, WrapError(err, "failed to load settings")
	}

	updated := storage.Settings{
		GoogleCloudAPIKey: current.GoogleCloudAPIKey,
		Folder:            folder,
		ChapterFormat:     req.ChapterFormat,
		HashtagFormat:     req.HashtagFormat,
		Template:          req.Template,
		CreatePaths:       req.CreatePaths,
	}
	if req.GoogleCloudAPIKey != nil {
		updated.GoogleCloudAPIKey = *req.GoogleCloudAPIKey
	}

	if err := s.store.Save(ctx, updated); err != nil {
		logger.ErrorContext(ctx, "failed to save settings", "error", err)
		return storage.Settings{}, WrapError(err, "failed to save settings")
	}

	logger.InfoContext(ctx, "settings updated", "folder", updated.Folder, "create_paths", updated.CreatePaths)
	return updated, nil
}

// Folders lists the vault folders.
func (s *settingsService) Folders(ctx context.Context) ([]string, error) {
	folders, err := s.vault.Folders(ctx)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list folders", "error", err)
		return nil, WrapError(err, "failed to list folders")
	}
	return folders, nil
}
