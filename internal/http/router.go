package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ytnote/internal/handlers"
	"ytnote/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	NoteService     service.NoteService
	SettingsService service.SettingsService
	DB              handlers.Pinger
	VaultRoot       string
	// RequestTimeout bounds each request; zero disables the limit.
	RequestTimeout time.Duration
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)
	if deps.RequestTimeout > 0 {
		r.Use(middleware.Timeout(deps.RequestTimeout))
	}

	notesHandler := handlers.NewNotesHandler(deps.NoteService)
	settingsHandler := handlers.NewSettingsHandler(deps.SettingsService)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.DB, deps.VaultRoot))

		r.Route("/v1", func(r chi.Router) {
			r.Post("/notes", notesHandler.Create)
			r.Get("/notes", notesHandler.List)
			r.Get("/notes/{id}", notesHandler.Get)

			r.Get("/settings", settingsHandler.Get)
			r.Put("/settings", settingsHandler.Put)
			r.Get("/folders", settingsHandler.Folders)
		})
	})

	r.Method(http.MethodGet, "/notes/{id}", handlers.NewNoteHandler(deps.NoteService))

	return r
}
