package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"ytnote/internal/contextutil"
	"ytnote/internal/service"
	"ytnote/internal/storage"
)

// SettingsHandler handles the settings and folder API.
type SettingsHandler struct {
	settings service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settings service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settings: settings,
	}
}

// SettingsResponse represents the settings. The API key is masked.
type SettingsResponse struct {
	GoogleCloudAPIKey string `json:"google_cloud_api_key"`
	APIKeySet         bool   `json:"api_key_set"`
	Folder            string `json:"folder"`
	ChapterFormat     string `json:"chapter_format"`
	HashtagFormat     string `json:"hashtag_format"`
	Template          string `json:"template"`
	CreatePaths       bool   `json:"create_paths"`
}

// UpdateSettingsRequest represents the HTTP request payload for saving settings.
// Omitting google_cloud_api_key keeps the saved key.
type UpdateSettingsRequest struct {
	GoogleCloudAPIKey *string `json:"google_cloud_api_key,omitempty"`
	Folder            string  `json:"folder"`
	ChapterFormat     string  `json:"chapter_format"`
	HashtagFormat     string  `json:"hashtag_format"`
	Template          string  `json:"template"`
	CreatePaths       bool    `json:"create_paths"`
}

// FoldersResponse lists the vault folders.
type FoldersResponse struct {
	Folders []string `json:"folders"`
}

func toSettingsResponse(s storage.Settings) SettingsResponse {
	return SettingsResponse{
		GoogleCloudAPIKey: maskSecret(s.GoogleCloudAPIKey),
		APIKeySet:         s.GoogleCloudAPIKey != "",
		Folder:            s.Folder,
		ChapterFormat:     s.ChapterFormat,
		HashtagFormat:     s.HashtagFormat,
		Template:          s.Template,
		CreatePaths:       s.CreatePaths,
	}
}

// maskSecret hides all but the last four characters of long secrets.
func maskSecret(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) <= 8:
		return strings.Repeat("*", len(s))
	default:
		return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
	}
}

// Get handles GET /api/v1/settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	settings, err := h.settings.Get(ctx)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to load settings")
		return
	}

	writeJSON(ctx, w, http.StatusOK, toSettingsResponse(settings))
}

// Put handles PUT /api/v1/settings.
func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	settings, err := h.settings.Update(ctx, service.UpdateSettingsRequest{
		GoogleCloudAPIKey: req.GoogleCloudAPIKey,
		Folder:            req.Folder,
		ChapterFormat:     req.ChapterFormat,
		HashtagFormat:     req.HashtagFormat,
		Template:          req.Template,
		CreatePaths:       req.CreatePaths,
	})
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to save settings")
		return
	}

	writeJSON(ctx, w, http.StatusOK, toSettingsResponse(settings))
}

// Folders handles GET /api/v1/folders.
func (h *SettingsHandler) Folders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	folders, err := h.settings.Folders(ctx)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list folders")
		return
	}

	writeJSON(ctx, w, http.StatusOK, FoldersResponse{Folders: folders})
}
