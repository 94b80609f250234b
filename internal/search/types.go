package search

import (
	"fmt"
	"time"

	"smartnotes/internal/storage"
)

// Mode selects how notes are scored.
type Mode string

const (
	ModeKeyword  Mode = "keyword"
	ModeSemantic Mode = "semantic"
	ModeHybrid   Mode = "hybrid"
)

const (
	// DefaultLimit is used when a request leaves Limit at zero.
	DefaultLimit = 10
	// MaxLimit is the largest accepted Limit.
	MaxLimit = 50
	// MaxQueryLength is the longest accepted query, in characters.
	MaxQueryLength = 500
	// matchedChunksPerNote caps Result.MatchedChunks.
	matchedChunksPerNote = 3
)

// ParseMode converts a request string to a Mode. Empty means keyword.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeKeyword, nil
	case ModeKeyword, ModeSemantic, ModeHybrid:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown search mode %q", s)
	}
}

// Weights combine keyword and semantic scores in hybrid mode.
type Weights struct {
	Keyword  float64
	Semantic float64
}

// DefaultWeights favour semantic similarity.
var DefaultWeights = Weights{Keyword: 0.3, Semantic: 0.7}

// Request is a search query.
type Request struct {
	Query string `json:"query"`
	Mode  Mode   `json:"search_type"`
	Limit int    `json:"limit"`
}

// Result is one ranked note.
type Result struct {
	Note          storage.Note `json:"note"`
	Score         float64      `json:"relevance_score"`
	MatchedChunks []string     `json:"matched_chunks"`
}

// Response holds ranked results. TotalFound counts every matching note
// before truncation to the request limit.
type Response struct {
	Results    []Result      `json:"results"`
	TotalFound int           `json:"total_found"`
	Elapsed    time.Duration `json:"-"`
	Mode       Mode          `json:"search_type"`
}
