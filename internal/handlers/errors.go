package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"smartnotes/internal/contextutil"
	"smartnotes/internal/indexer"
	"smartnotes/internal/service"
)

// ErrorResponse represents an error response.
//
// swagger:model ErrorResponse
type ErrorResponse struct {
	Error string `json:"error"`
	// Field names the offending request field for validation errors.
	Field string `json:"field,omitempty"`
}

// writeJSON encodes v with the given status code.
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}

// handleServiceError maps service, indexer and context errors to HTTP status codes.
func handleServiceError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		logger.WarnContext(ctx, "validation error", "field", validationErr.Field, "error", err)
		writeJSON(ctx, w, http.StatusBadRequest, ErrorResponse{
			Error: validationErr.Message,
			Field: validationErr.Field,
		})
		return
	}

	var indexingErr *indexer.IndexingError
	var storageErr *service.StorageError

	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "Note not found")
	case errors.Is(err, service.ErrVersionConflict):
		logger.WarnContext(ctx, "version conflict", "error", err)
		writeError(w, http.StatusConflict, "Note was modified by another user. Please refresh.")
	case errors.Is(err, context.DeadlineExceeded):
		logger.WarnContext(ctx, "request timed out", "error", err)
		writeError(w, http.StatusGatewayTimeout, "Request timed out")
	case errors.Is(err, context.Canceled):
		logger.InfoContext(ctx, "request cancelled", "error", err)
		writeError(w, http.StatusServiceUnavailable, "Request cancelled")
	case errors.Is(err, service.ErrExternalService):
		logger.ErrorContext(ctx, "external service error", "error", err)
		writeError(w, http.StatusBadGateway, "Embedding service unavailable")
	case errors.As(err, &indexingErr):
		logger.ErrorContext(ctx, "indexing failure", "note_id", indexingErr.NoteID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to index note")
	case errors.As(err, &storageErr):
		logger.ErrorContext(ctx, "storage failure", "op", storageErr.Op, "error", err)
		writeError(w, http.StatusServiceUnavailable, "Storage unavailable")
	default:
		logger.ErrorContext(ctx, "unexpected error", "error", err)
		writeError(w, http.StatusInternalServerError, defaultMsg)
	}
}
