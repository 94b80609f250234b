package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"smartnotes/internal/handlers"
	"smartnotes/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Notes     service.NoteService
	Searcher  handlers.Searcher
	Reindexer handlers.Reindexer

	DB       handlers.Pinger
	Coverage handlers.CoverageReporter
	// VectorStore is nil unless an external vector backend is configured.
	VectorStore handlers.CollectionChecker

	CORSOrigins []string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS(deps.CORSOrigins))

	notesHandler := handlers.NewNotesHandler(deps.Notes)
	noteHandler := handlers.NewNoteHandler(deps.Notes)
	searchHandler := handlers.NewSearchHandler(deps.Searcher)
	indexHandler := handlers.NewIndexHandler(deps.Reindexer)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Coverage, deps.VectorStore)

	// Register API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)

		r.Get("/notes", notesHandler.List)
		r.Post("/notes", notesHandler.Create)
		r.Get("/notes/{id}", notesHandler.Get)
		r.Put("/notes/{id}", notesHandler.Update)
		r.Delete("/notes/{id}", notesHandler.Delete)

		r.Method(http.MethodPost, "/search", searchHandler)
		r.Method(http.MethodPost, "/index", indexHandler)
	})

	// Rendered notes for browsers
	r.Method(http.MethodGet, "/notes/{id}", noteHandler)

	return r
}
