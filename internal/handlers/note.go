package handlers

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ytnote/internal/contextutil"
	"ytnote/internal/service"
)

// NoteHandler serves created notes as rendered HTML pages.
type NoteHandler struct {
	notes    service.NoteService
	template *template.Template
}

// notePageData holds template data for rendered note pages.
type notePageData struct {
	Title    string
	Path     string
	VideoURL string
	Content  template.HTML
}

var notePage = template.Must(template.New("note").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    :root {
      color-scheme: light dark;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 860px;
      line-height: 1.65;
    }
    header {
      margin-bottom: 1.5rem;
      border-bottom: 1px solid rgba(127, 127, 127, 0.3);
      padding-bottom: 1rem;
    }
    h1 {
      margin: 0;
      font-size: 1.8rem;
    }
    .meta {
      color: #888;
      font-size: 0.9rem;
      margin-top: 0.4rem;
    }
    article img {
      max-width: 100%;
    }
    pre {
      padding: 1rem;
      overflow-x: auto;
      border-radius: 8px;
      background: rgba(127, 127, 127, 0.12);
    }
    a {
      color: #e0282e;
    }
    @media (max-width: 640px) {
      body {
        padding: 1rem;
      }
    }
  </style>
</head>
<body>
  <header>
    <h1>{{.Title}}</h1>
    <p class="meta">{{.Path}}{{if .VideoURL}} &middot; <a href="{{.VideoURL}}">Watch on YouTube</a>{{end}}</p>
  </header>
  <article>{{.Content}}</article>
</body>
</html>`))

// NewNoteHandler creates a new handler for note previews.
func NewNoteHandler(notes service.NoteService) *NoteHandler {
	return &NoteHandler{
		notes:    notes,
		template: notePage,
	}
}

// ServeHTTP handles GET /notes/{id}.
func (h *NoteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	id := chi.URLParam(r, "id")
	preview, err := h.notes.PreviewNote(ctx, id)
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			http.Error(w, "invalid note id", http.StatusBadRequest)
		case errors.Is(err, service.ErrNotFound):
			http.Error(w, "note not found", http.StatusNotFound)
		default:
			logger.ErrorContext(ctx, "failed to preview note", "id", id, "error", err)
			http.Error(w, "failed to render note", http.StatusInternalServerError)
		}
		return
	}

	pageData := notePageData{
		Title:   preview.Note.Title,
		Path:    preview.Note.Path,
		Content: template.HTML(preview.HTML),
	}
	if preview.Note.VideoID != "" {
		pageData.VideoURL = "https://www.youtube.com/watch?v=" + preview.Note.VideoID
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.template.Execute(w, pageData); err != nil {
		logger.ErrorContext(ctx, "failed to execute note template", "id", id, "error", err)
		http.Error(w, "failed to render note", http.StatusInternalServerError)
		return
	}
}
