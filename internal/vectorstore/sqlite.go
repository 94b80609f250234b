package vectorstore

import (
	"context"
	"fmt"
	"sort"

	"smartnotes/internal/storage"
)

// SQLiteSearcher scores every chunk vector stored in the chunk table.
// It is exact and needs no external service.
type SQLiteSearcher struct {
	chunks storage.ChunkStore
}

// NewSQLiteSearcher creates a searcher over the chunk store.
func NewSQLiteSearcher(chunks storage.ChunkStore) *SQLiteSearcher {
	return &SQLiteSearcher{chunks: chunks}
}

// Search computes the cosine similarity of query against every stored chunk.
func (s *SQLiteSearcher) Search(ctx context.Context, query []float32, k int) ([]ChunkMatch, error) {
	var matches []ChunkMatch
	err := s.chunks.ScanVectors(ctx, func(c storage.Chunk) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		matches = append(matches, ChunkMatch{
			ChunkID:    c.ID,
			NoteID:     c.NoteID,
			ChunkIndex: c.ChunkIndex,
			Text:       c.Text,
			Score:      CosineSimilarity(query, c.Embedding),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan chunk vectors: %w", err)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if k > 0 && len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}
