package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"smartnotes/internal/contextutil"
	"smartnotes/internal/search"
)

// Searcher runs ranked note searches.
// This interface is defined from the handler's perspective (consumer-first).
type Searcher interface {
	Search(ctx context.Context, req search.Request) (*search.Response, error)
}

// SearchHandler handles HTTP requests for note search.
type SearchHandler struct {
	searcher Searcher
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searcher Searcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

// SearchRequest represents the HTTP request payload for search.
//
// swagger:model SearchRequest
type SearchRequest struct {
	Query string `json:"query"`
	// keyword (default), semantic or hybrid
	SearchType string `json:"search_type"`
	// 1..50, default 10
	Limit int `json:"limit"`
	// Omit note content from results when false. Defaults to true.
	IncludeContent *bool `json:"include_content,omitempty"`
}

// SearchResponse represents the HTTP response payload for search.
//
// swagger:model SearchResponse
type SearchResponse struct {
	Results    []search.Result `json:"results"`
	TotalFound int             `json:"total_found"`
	// Wall-clock search time in seconds.
	SearchTime float64 `json:"search_time"`
	SearchType string  `json:"search_type"`
}

// ServeHTTP handles HTTP requests for note search.
//
// swagger:route POST /api/v1/search searchNotes
//
// # Search notes
//
// Ranks notes by keyword frequency, embedding similarity, or a weighted blend
// of both. An empty query returns no results.
//
// ---
// consumes:
// - application/json
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Ranked results
//	  schema:
//	    "$ref": "#/definitions/SearchResponse"
//	'400':
//	  description: Invalid query, search_type or limit
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'502':
//	  description: Embedding service unavailable
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'503':
//	  description: Storage unavailable
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'504':
//	  description: Search timed out
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.searcher.Search(ctx, search.Request{
		Query: req.Query,
		Mode:  search.Mode(req.SearchType),
		Limit: req.Limit,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to search notes")
		return
	}

	results := resp.Results
	if req.IncludeContent != nil && !*req.IncludeContent {
		results = make([]search.Result, len(resp.Results))
		for i, res := range resp.Results {
			res.Note.Content = ""
			results[i] = res
		}
	}

	writeJSON(ctx, w, http.StatusOK, SearchResponse{
		Results:    results,
		TotalFound: resp.TotalFound,
		SearchTime: resp.Elapsed.Seconds(),
		SearchType: string(resp.Mode),
	})
}
