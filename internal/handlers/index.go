package handlers

import (
	"context"
	"net/http"
	"sync/atomic"

	"smartnotes/internal/contextutil"
)

// Reindexer rebuilds the chunk index for every note.
type Reindexer interface {
	IndexAll(ctx context.Context) error
}

// IndexHandler handles HTTP requests for triggering re-indexing.
type IndexHandler struct {
	reindexer Reindexer
	running   atomic.Bool
	// done is signalled after each background run; used by tests.
	done func()
}

// NewIndexHandler creates a new IndexHandler.
func NewIndexHandler(reindexer Reindexer) *IndexHandler {
	return &IndexHandler{reindexer: reindexer}
}

// IndexResponse represents the response from the index endpoint.
type IndexResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ServeHTTP handles HTTP requests for triggering re-indexing.
// At most one full re-index runs at a time.
func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if !h.running.CompareAndSwap(false, true) {
		writeError(w, http.StatusConflict, "Indexing already in progress")
		return
	}

	logger.InfoContext(ctx, "re-indexing triggered via API")

	// Use background context so indexing continues after HTTP request completes
	go func() {
		if h.done != nil {
			defer h.done()
		}
		defer h.running.Store(false)
		indexCtx := contextutil.WithLogger(context.Background(), logger)
		if err := h.reindexer.IndexAll(indexCtx); err != nil {
			logger.ErrorContext(indexCtx, "re-indexing completed with errors", "error", err)
		} else {
			logger.InfoContext(indexCtx, "re-indexing completed successfully")
		}
	}()

	writeJSON(ctx, w, http.StatusAccepted, IndexResponse{
		Message: "Indexing started. Check server logs for progress.",
		Status:  "accepted",
	})
}
