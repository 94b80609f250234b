package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"smartnotes/internal/contextutil"
	"smartnotes/internal/service"
	"smartnotes/internal/storage"
)

// maxBodyBytes bounds note and search request bodies.
const maxBodyBytes = 1 << 20

// NotesHandler serves the JSON note API.
type NotesHandler struct {
	notes service.NoteService
}

// NewNotesHandler creates a new NotesHandler.
func NewNotesHandler(notes service.NoteService) *NotesHandler {
	return &NotesHandler{notes: notes}
}

// NoteRequest is the payload for creating a note.
//
// swagger:model NoteRequest
type NoteRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	IsPublic bool   `json:"is_public"`
	Tags     string `json:"tags"`
}

// UpdateNoteRequest replaces a note's fields. Version must equal the
// version the client last read.
//
// swagger:model UpdateNoteRequest
type UpdateNoteRequest struct {
	NoteRequest
	Version int `json:"version"`
}

// DeleteResponse confirms a deletion.
type DeleteResponse struct {
	Message   string `json:"message"`
	DeletedID string `json:"deleted_id"`
}

func (r NoteRequest) input() service.NoteInput {
	return service.NoteInput{
		Title:    r.Title,
		Content:  r.Content,
		IsPublic: r.IsPublic,
		Tags:     r.Tags,
	}
}

// List handles GET /api/v1/notes.
//
// swagger:route GET /api/v1/notes listNotes
//
// # List notes, most recently updated first
//
// Query parameters: skip (default 0), limit (default 20), public_only.
func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	query := r.URL.Query()
	skip, err := intParam(query.Get("skip"))
	if err != nil {
		logger.WarnContext(ctx, "invalid skip parameter", "error", err)
		writeError(w, http.StatusBadRequest, "skip must be an integer")
		return
	}
	limit, err := intParam(query.Get("limit"))
	if err != nil {
		logger.WarnContext(ctx, "invalid limit parameter", "error", err)
		writeError(w, http.StatusBadRequest, "limit must be an integer")
		return
	}
	publicOnly := false
	if raw := query.Get("public_only"); raw != "" {
		publicOnly, err = strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "public_only must be a boolean")
			return
		}
	}

	notes, err := h.notes.List(ctx, storage.ListFilter{PublicOnly: publicOnly}, skip, limit)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list notes")
		return
	}
	writeJSON(ctx, w, http.StatusOK, notes)
}

// Create handles POST /api/v1/notes. Indexing happens in the background.
func (h *NotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req NoteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	note, err := h.notes.Create(ctx, req.input())
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to create note")
		return
	}
	writeJSON(ctx, w, http.StatusCreated, note)
}

// Get handles GET /api/v1/notes/{id}. Every read counts as a view.
func (h *NotesHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	note, err := h.notes.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to get note")
		return
	}
	writeJSON(ctx, w, http.StatusOK, note)
}

// Update handles PUT /api/v1/notes/{id}.
//
// swagger:route PUT /api/v1/notes/{id} updateNote
//
// # Update a note with optimistic concurrency
//
// responses:
//
//	'200': Note
//	'400': ErrorResponse
//	'404': ErrorResponse
//	'409': ErrorResponse
func (h *NotesHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req UpdateNoteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	note, err := h.notes.Update(ctx, chi.URLParam(r, "id"), req.input(), req.Version)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to update note")
		return
	}
	writeJSON(ctx, w, http.StatusOK, note)
}

// Delete handles DELETE /api/v1/notes/{id}.
func (h *NotesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := h.notes.Delete(ctx, id); err != nil {
		handleServiceError(w, ctx, err, "Failed to delete note")
		return
	}
	writeJSON(ctx, w, http.StatusOK, DeleteResponse{
		Message:   "Note deleted successfully",
		DeletedID: id,
	})
}

// intParam parses an optional integer query parameter. Empty means zero.
func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
