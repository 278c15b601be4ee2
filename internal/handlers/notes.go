package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"ytnote/internal/contextutil"
	"ytnote/internal/service"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// NotesHandler handles the note API.
type NotesHandler struct {
	notes service.NoteService
}

// NewNotesHandler creates a new NotesHandler.
func NewNotesHandler(notes service.NoteService) *NotesHandler {
	return &NotesHandler{
		notes: notes,
	}
}

// CreateNoteRequest represents the HTTP request payload for creating a note.
type CreateNoteRequest struct {
	URL        string `json:"url"`
	ActiveNote string `json:"active_note,omitempty"`
}

// NoteResponse represents a created note.
type NoteResponse struct {
	ID            string `json:"id"`
	VideoID       string `json:"video_id"`
	Title         string `json:"title"`
	Path          string `json:"path"`
	ThumbnailPath string `json:"thumbnail_path,omitempty"`
	CreatedAt     string `json:"created_at"`
	PreviewURL    string `json:"preview_url"`
}

// NoteListResponse represents a page of notes.
type NoteListResponse struct {
	Notes []NoteResponse `json:"notes"`
}

func toNoteResponse(n service.Note) NoteResponse {
	return NoteResponse{
		ID:            n.ID,
		VideoID:       n.VideoID,
		Title:         n.Title,
		Path:          n.Path,
		ThumbnailPath: n.ThumbnailPath,
		CreatedAt:     n.CreatedAt.UTC().Format(time.RFC3339),
		PreviewURL:    "/notes/" + n.ID,
	}
}

// Create handles POST /api/v1/notes.
func (h *NotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	note, err := h.notes.CreateNote(ctx, service.CreateNoteRequest{
		URL:        strings.TrimSpace(req.URL),
		ActiveNote: strings.TrimSpace(req.ActiveNote),
	})
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to create note")
		return
	}

	writeJSON(ctx, w, http.StatusCreated, toNoteResponse(note))
}

// List handles GET /api/v1/notes.
func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxListLimit {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and "+strconv.Itoa(maxListLimit))
			return
		}
		limit = n
	}

	notes, err := h.notes.ListNotes(ctx, limit)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list notes")
		return
	}

	resp := NoteListResponse{Notes: make([]NoteResponse, 0, len(notes))}
	for _, n := range notes {
		resp.Notes = append(resp.Notes, toNoteResponse(n))
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// Get handles GET /api/v1/notes/{id}.
func (h *NotesHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	note, err := h.notes.GetNote(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to load note")
		return
	}

	writeJSON(ctx, w, http.StatusOK, toNoteResponse(note))
}
