package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"smartnotes/internal/contextutil"
	"smartnotes/internal/indexer"
)

// Pinger reports database reachability. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// CoverageReporter reports index coverage.
type CoverageReporter interface {
	CoverageStats(ctx context.Context) (*indexer.IndexingCoverageStats, error)
}

// CollectionChecker reports whether the external vector collection exists.
type CollectionChecker interface {
	CollectionExists(ctx context.Context) (bool, error)
}

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	db                 Pinger
	coverage           CoverageReporter
	vectorStore        CollectionChecker
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler. vectorStore may be nil when
// vectors are only kept in SQLite.
func NewHealthHandler(db Pinger, coverage CoverageReporter, vectorStore CollectionChecker) *HealthHandler {
	return &HealthHandler{
		db:                 db,
		coverage:           coverage,
		vectorStore:        vectorStore,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
//
// swagger:model HealthResponse
type HealthResponse struct {
	// Overall health status: "healthy", "degraded", or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is degraded or unhealthy)
	Issues []string `json:"issues,omitempty"`

	NoteCount      int `json:"note_count"`
	EmbeddingCount int `json:"embedding_count"`

	// Index coverage, absent when it could not be computed
	Coverage *indexer.IndexingCoverageStats `json:"coverage,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks.
//
// Returns 200 OK if healthy, 503 Service Unavailable if degraded or unhealthy.
//
// swagger:route GET /api/v1/health healthCheck
//
// # Health check endpoint
//
// Returns the health status of the database, the chunk index and, when
// configured, the external vector store.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// Create context with timeout for health checks
	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string
	response := HealthResponse{}

	dbOK := true
	if err := h.db.PingContext(checkCtx); err != nil {
		logger.WarnContext(ctx, "database health check failed", "error", err)
		checks["database"] = "error"
		issues = append(issues, "database_unavailable")
		dbOK = false
	} else {
		checks["database"] = "ok"
	}

	if dbOK {
		stats, err := h.coverage.CoverageStats(checkCtx)
		if err != nil {
			logger.WarnContext(ctx, "coverage stats failed", "error", err)
			checks["index"] = "error"
			issues = append(issues, "index_stats_unavailable")
		} else {
			checks["index"] = "ok"
			response.NoteCount = stats.Notes
			response.EmbeddingCount = stats.Chunks
			response.Coverage = stats
		}
	}

	if h.vectorStore != nil {
		if h.checkVectorStore(checkCtx, logger) {
			checks["vector_store"] = "ok"
		} else {
			checks["vector_store"] = "error"
			issues = append(issues, "vector_store_unavailable")
		}
	}

	// Determine overall status
	status := "healthy"
	httpStatus := http.StatusOK
	switch {
	case !dbOK:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	case len(issues) > 0:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	response.Status = status
	response.Timestamp = time.Now().UTC().Format(time.RFC3339)
	response.Checks = checks
	if len(issues) > 0 {
		response.Issues = issues
	}

	writeJSON(ctx, w, httpStatus, response)
}

// checkVectorStore checks if the vector store is accessible.
func (h *HealthHandler) checkVectorStore(ctx context.Context, logger *slog.Logger) bool {
	exists, err := h.vectorStore.CollectionExists(ctx)
	if err != nil {
		logger.WarnContext(ctx, "vector store health check failed", "error", err)
		return false
	}
	if !exists {
		logger.WarnContext(ctx, "vector store collection does not exist")
		return false
	}
	return true
}
