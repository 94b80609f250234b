package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vectorstore.go -package=mocks smartnotes/internal/vectorstore Searcher,Mirror

import (
	"context"

	"smartnotes/internal/storage"
)

// ChunkMatch is a stored chunk scored against a query vector.
type ChunkMatch struct {
	ChunkID    int64
	NoteID     string
	ChunkIndex int
	Text       string
	Score      float64
}

// Searcher scores stored chunk vectors against a query vector.
type Searcher interface {
	// Search returns up to k chunks ordered by descending similarity.
	// k <= 0 asks for every stored chunk.
	Search(ctx context.Context, query []float32, k int) ([]ChunkMatch, error)
}

// Mirror keeps a secondary copy of each note's chunk vectors in sync with
// the chunk table. SQLite stays the source of truth.
type Mirror interface {
	// ReplaceNote swaps the mirrored vectors of noteID for chunks.
	ReplaceNote(ctx context.Context, noteID string, chunks []storage.Chunk) error
	// DeleteNote removes every mirrored vector of noteID.
	DeleteNote(ctx context.Context, noteID string) error
}
