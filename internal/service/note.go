package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_video_fetcher.go -package=mocks ytnote/internal/service VideoFetcher
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vault.go -package=mocks ytnote/internal/service Vault
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_note_service.go -package=mocks -mock_names=NoteService=MockNoteService ytnote/internal/service NoteService

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"ytnote/internal/contextutil"
	"ytnote/internal/parser"
	"ytnote/internal/storage"
	"ytnote/internal/template"
	"ytnote/internal/vault"
	"ytnote/internal/youtube"
)

// VideoFetcher loads video metadata.
// This interface is defined from the service layer's perspective (consumer-first).
type VideoFetcher interface {
	// FetchVideo returns the metadata and thumbnail of a video.
	FetchVideo(ctx context.Context, apiKey, videoID string) (*youtube.Video, error)
}

// Vault is the Obsidian vault notes are written to.
type Vault interface {
	// Folders lists the vault folders, root first.
	Folders(ctx context.Context) ([]string, error)
	// FolderExists reports whether a vault folder exists.
	FolderExists(folder string) bool
	// AttachmentFolder resolves the attachment folder for the active note.
	AttachmentFolder(activeNote string) (string, error)
	// WriteNote creates a note without overwriting and returns its path.
	WriteNote(folder, name, content string, createPaths bool) (string, error)
	// WriteAttachment creates an attachment without overwriting and returns its path.
	WriteAttachment(folder, name string, data []byte, createPaths bool) (string, error)
	// ReadNote returns the contents of a note.
	ReadNote(relPath string) ([]byte, error)
	// RemoveFile deletes a file written earlier.
	RemoveFile(relPath string) error
}

// CreateNoteRequest asks for a note about one YouTube video.
type CreateNoteRequest struct {
	URL string `json:"url" validate:"required,max=2048"`
	// ActiveNote is the vault-relative note the user is working in. Attachment
	// folders relative to the current note resolve against it; when empty the
	// new note itself is used.
	ActiveNote string `json:"active_note" validate:"max=1024"`
}

// Note is a note created by the service.
type Note struct {
	ID            string
	VideoID       string
	Title         string
	Path          string
	ThumbnailPath string
	CreatedAt     time.Time
}

// NotePreview is a note rendered to HTML.
type NotePreview struct {
	Note Note
	HTML string
}

// NoteService creates notes from YouTube videos and reads them back.
type NoteService interface {
	// CreateNote fetches the video behind req.URL and writes its note to the vault.
	CreateNote(ctx context.Context, req CreateNoteRequest) (Note, error)
	// GetNote returns a created note by ID.
	GetNote(ctx context.Context, id string) (Note, error)
	// ListNotes returns the most recently created notes, newest first.
	ListNotes(ctx context.Context, limit int) ([]Note, error)
	// PreviewNote renders a created note to HTML.
	PreviewNote(ctx context.Context, id string) (NotePreview, error)
}

// noteService implements NoteService.
type noteService struct {
	videos   VideoFetcher
	vault    Vault
	settings storage.SettingsStore
	notes    storage.NoteStore
	renderer *template.Renderer
}

// NewNoteService creates a new NoteService.
func NewNoteService(videos VideoFetcher, v Vault, settings storage.SettingsStore, notes storage.NoteStore, renderer *template.Renderer) NoteService {
	return &noteService{
		videos:   videos,
		vault:    v,
		settings: settings,
		notes:    notes,
		renderer: renderer,
	}
}

// CreateNote writes the thumbnail and note for the video behind req.URL and
// records the note. A thumbnail written for a note that then fails is removed.
func (s *noteService) CreateNote(ctx context.Context, req CreateNoteRequest) (Note, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := validateStruct(req); err != nil {
		logger.WarnContext(ctx, "invalid create note request", "error", err)
		return Note{}, err
	}

	videoID, ok := parser.ExtractVideoID(req.URL)
	if !ok {
		logger.WarnContext(ctx, "no video id in url", "url", req.URL)
		return Note{}, &ValidationError{
			Field:   "url",
			Message: "is not a YouTube video URL",
		}
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load settings", "error", err)
		return Note{}, WrapError(err, "failed to load settings")
	}
	if settings.GoogleCloudAPIKey == "" {
		return Note{}, &ValidationError{
			Field:   "google_cloud_api_key",
			Message: "is not configured",
		}
	}

	video, err := s.videos.FetchVideo(ctx, settings.GoogleCloudAPIKey, videoID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to fetch video", "video_id", videoID, "error", err)
		return Note{}, mapFetchError(err)
	}

	baseName := strings.TrimSpace(parser.SanitizeFilename(video.Title))
	if baseName == "" {
		baseName = video.ID
	}
	noteName := baseName + ".md"

	activeNote := req.ActiveNote
	if activeNote == "" {
		activeNote = vault.JoinPath(settings.Folder, noteName)
	}

	thumbPath, cleanup, err := s.saveThumbnail(ctx, video, baseName, activeNote, settings.CreatePaths)
	if err != nil {
		return Note{}, err
	}

	created := time.Now()
	content, err := s.renderer.Render(template.NoteData{
		Title:         video.Title,
		ChannelName:   video.ChannelTitle,
		Subscribers:   video.Subscribers,
		Duration:      video.Duration,
		PublishedAt:   video.PublishedAt,
		Description:   video.Description,
		URL:           video.URL(),
		ThumbnailPath: thumbPath,
		Created:       created,
	}, template.Formats{
		Template:      settings.Template,
		ChapterFormat: settings.ChapterFormat,
		HashtagFormat: settings.HashtagFormat,
	})
	if err == nil {
		err = template.CheckFrontmatter(content)
	}
	if err != nil {
		cleanup()
		logger.WarnContext(ctx, "failed to render note", "video_id", videoID, "error", err)
		return Note{}, &ValidationError{
			Field:   "template",
			Message: err.Error(),
		}
	}

	relPath, err := s.vault.WriteNote(settings.Folder, noteName, content, settings.CreatePaths)
	if err != nil {
		cleanup()
		logger.WarnContext(ctx, "failed to write note", "folder", settings.Folder, "name", noteName, "error", err)
		return Note{}, mapVaultError(err, "folder")
	}

	record := &storage.NoteRecord{
		VideoID:       video.ID,
		Title:         video.Title,
		RelPath:       relPath,
		ThumbnailPath: thumbPath,
		CreatedAt:     created.UTC(),
	}
	if err := s.notes.Create(ctx, record); err != nil {
		// The note is in the vault; only the history entry is missing.
		logger.ErrorContext(ctx, "failed to record note", "path", relPath, "error", err)
		return Note{}, WrapError(err, "note written but not recorded")
	}

	logger.InfoContext(ctx, "note created", "video_id", video.ID, "path", relPath, "thumbnail", thumbPath)
	return noteFromRecord(*record), nil
}

// saveThumbnail stores the video thumbnail next to the active note's
// attachments. The returned cleanup removes it again.
func (s *noteService) saveThumbnail(ctx context.Context, video *youtube.Video, baseName, activeNote string, createPaths bool) (string, func(), error) {
	logger := contextutil.LoggerFromContext(ctx)
	noop := func() {}

	if len(video.Thumbnail.Data) == 0 {
		return "", noop, nil
	}

	folder, err := s.vault.AttachmentFolder(activeNote)
	if err != nil {
		logger.WarnContext(ctx, "failed to resolve attachment folder", "active_note", activeNote, "error", err)
		return "", noop, mapVaultError(err, "active_note")
	}

	name := baseName + thumbnailExt(video.Thumbnail.URL)
	relPath, err := s.vault.WriteAttachment(folder, name, video.Thumbnail.Data, createPaths)
	if errors.Is(err, vault.ErrFileExists) {
		existing := vault.JoinPath(folder, name)
		logger.InfoContext(ctx, "reusing existing thumbnail", "path", existing)
		return existing, noop, nil
	}
	if err != nil {
		logger.WarnContext(ctx, "failed to write thumbnail", "folder", folder, "error", err)
		return "", noop, mapVaultError(err, "active_note")
	}

	return relPath, func() {
		if err := s.vault.RemoveFile(relPath); err != nil {
			logger.WarnContext(ctx, "failed to remove thumbnail", "path", relPath, "error", err)
		}
	}, nil
}

// thumbnailExt returns the file extension of a thumbnail URL, ".jpg" when it has none.
func thumbnailExt(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ".jpg"
	}
	ext := strings.ToLower(path.Ext(u.Path))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return ext
	default:
		return ".jpg"
	}
}

// GetNote returns a created note by ID.
func (s *noteService) GetNote(ctx context.Context, id string) (Note, error) {
	record, err := s.getRecord(ctx, id)
	if err != nil {
		return Note{}, err
	}
	return noteFromRecord(*record), nil
}

// ListNotes returns up to limit notes, newest first. Zero means no limit.
func (s *noteService) ListNotes(ctx context.Context, limit int) ([]Note, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if limit < 0 {
		return nil, &ValidationError{
			Field:   "limit",
			Message: "cannot be negative",
		}
	}

	records, err := s.notes.List(ctx, limit)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list notes", "error", err)
		return nil, WrapError(err, "failed to list notes")
	}

	notes := make([]Note, 0, len(records))
	for _, r := range records {
		notes = append(notes, noteFromRecord(r))
	}
	return notes, nil
}

// PreviewNote reads a created note from the vault and renders it to HTML.
func (s *noteService) PreviewNote(ctx context.Context, id string) (NotePreview, error) {
	logger := contextutil.LoggerFromContext(ctx)

	record, err := s.getRecord(ctx, id)
	if err != nil {
		return NotePreview{}, err
	}

	content, err := s.vault.ReadNote(record.RelPath)
	if err != nil {
		logger.WarnContext(ctx, "failed to read note", "path", record.RelPath, "error", err)
		return NotePreview{}, mapVaultError(err, "path")
	}

	html, err := s.renderer.RenderHTML(content)
	if err != nil {
		logger.ErrorContext(ctx, "failed to render note", "path", record.RelPath, "error", err)
		return NotePreview{}, WrapError(err, "failed to render note")
	}

	return NotePreview{
		Note: noteFromRecord(*record),
		HTML: html,
	}, nil
}

func (s *noteService) getRecord(ctx context.Context, id string) (*storage.NoteRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &ValidationError{
			Field:   "id",
			Message: "cannot be empty",
		}
	}

	record, err := s.notes.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("note %s: %w", id, ErrNotFound)
	}
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to load note", "id", id, "error", err)
		return nil, WrapError(err, "failed to load note")
	}
	return record, nil
}

func noteFromRecord(r storage.NoteRecord) Note {
	return Note{
		ID:            r.ID,
		VideoID:       r.VideoID,
		Title:         r.Title,
		Path:          r.RelPath,
		ThumbnailPath: r.ThumbnailPath,
		CreatedAt:     r.CreatedAt,
	}
}

// mapFetchError converts YouTube client errors to service errors.
func mapFetchError(err error) error {
	switch {
	case errors.Is(err, youtube.ErrVideoNotFound):
		return fmt.Errorf("video: %w", ErrNotFound)
	case errors.Is(err, youtube.ErrMissingAPIKey):
		return &ValidationError{Field: "google_cloud_api_key", Message: "is not configured"}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrExternalService, err)
	}
}

// mapVaultError converts vault errors to service errors. field names the
// request field a path problem is reported against.
func mapVaultError(err error, field string) error {
	switch {
	case errors.Is(err, vault.ErrFileExists):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, vault.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, vault.ErrFolderNotFound),
		errors.Is(err, vault.ErrNoActiveNote),
		errors.Is(err, vault.ErrPathEscapesVault):
		return &ValidationError{Field: field, Message: err.Error()}
	default:
		return WrapError(err, "vault operation failed")
	}
}
