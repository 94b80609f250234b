package indexer

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"unicode/utf8"

	"smartnotes/internal/storage"
)

const (
	// ChunkerVersion is the version identifier for the chunker implementation.
	// Update this when chunking logic changes significantly.
	ChunkerVersion = "sentence-v1"
	// TokensPerRune is an approximation for token counting (4 chars per token).
	TokensPerRune = 4.0
)

// IndexingCoverageStats describes the current state of the chunk index.
type IndexingCoverageStats struct {
	// Notes is the total number of stored notes.
	Notes int `json:"notes"`
	// NotesWith0Chunks is the number of notes not yet indexed (invisible to semantic search).
	NotesWith0Chunks int `json:"notes_with_0_chunks"`
	// Chunks is the number of stored chunk rows.
	Chunks int `json:"chunks"`
	// DistinctHashes is the number of distinct chunk texts; Chunks - DistinctHashes rows share a vector.
	DistinctHashes int `json:"distinct_hashes"`
	// ChunkTokenStats contains statistics about token counts per chunk.
	ChunkTokenStats ChunkTokenStats `json:"chunk_token_stats"`
	ChunkerVersion  string          `json:"chunker_version"`
	EmbeddingModel  string          `json:"embedding_model"`
	// IndexVersion is a hash identifying the index build (chunker + embedding model + params).
	IndexVersion string `json:"index_version"`
}

// ChunkTokenStats contains statistics about token counts in chunks.
type ChunkTokenStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

// CoverageStats computes indexing coverage statistics from the database.
// It needs the SQLite-backed repositories.
func (p *Pipeline) CoverageStats(ctx context.Context) (*IndexingCoverageStats, error) {
	chunkRepo, ok := p.chunkRepo.(*storage.ChunkRepo)
	if !ok {
		return nil, fmt.Errorf("chunkRepo is not *storage.ChunkRepo, cannot query stats")
	}
	db := chunkRepo.DB()

	stats := &IndexingCoverageStats{
		ChunkerVersion: ChunkerVersion,
		EmbeddingModel: p.embedder.ModelInfo(),
		IndexVersion:   IndexVersion(p.embedder.ModelInfo(), p.embedder.Dimension(), p.maxChunkSize),
	}

	err := db.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM notes),
		(SELECT COUNT(*) FROM notes WHERE id NOT IN (SELECT DISTINCT note_id FROM chunks)),
		(SELECT COUNT(*) FROM chunks),
		(SELECT COUNT(DISTINCT chunk_hash) FROM chunks)`).
		Scan(&stats.Notes, &stats.NotesWith0Chunks, &stats.Chunks, &stats.DistinctHashes)
	if err != nil {
		return nil, fmt.Errorf("failed to query coverage counts: %w", err)
	}

	tokenCounts, err := chunkTokenCounts(ctx, db)
	if err != nil {
		return nil, err
	}
	stats.ChunkTokenStats = computeTokenStats(tokenCounts)

	return stats, nil
}

// IndexVersion hashes the parameters that determine stored chunks and vectors.
// A change means existing chunks should be rebuilt with IndexAll.
func IndexVersion(embeddingModel string, dim, maxChunkSize int) string {
	input := fmt.Sprintf("%s|%s|dim=%d|maxChunkSize=%d", ChunkerVersion, embeddingModel, dim, maxChunkSize)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])[:16] // 16 hex chars = 64 bits
}

// chunkTokenCounts estimates the token count of every stored chunk.
func chunkTokenCounts(ctx context.Context, db *sql.DB) ([]int, error) {
	rows, err := db.QueryContext(ctx, "SELECT chunk_text FROM chunks")
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var counts []int
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		// Estimate tokens from rune count (approximation: ~4 chars per token)
		tokenCount := int(math.Round(float64(utf8.RuneCountInString(text)) / TokensPerRune))
		if tokenCount < 1 {
			tokenCount = 1
		}
		counts = append(counts, tokenCount)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return counts, nil
}

// computeTokenStats computes min, max, mean, and p95 from token counts.
func computeTokenStats(tokenCounts []int) ChunkTokenStats {
	if len(tokenCounts) == 0 {
		return ChunkTokenStats{}
	}

	// Sort for percentile calculation
	sorted := make([]int, len(tokenCounts))
	copy(sorted, tokenCounts)
	sort.Ints(sorted)

	min := sorted[0]
	max := sorted[len(sorted)-1]

	// Compute mean
	sum := 0
	for _, count := range tokenCounts {
		sum += count
	}
	mean := float64(sum) / float64(len(tokenCounts))

	// Compute p95
	p95Index := int(math.Ceil(float64(len(sorted)) * 0.95))
	if p95Index >= len(sorted) {
		p95Index = len(sorted) - 1
	}
	p95 := sorted[p95Index]

	return ChunkTokenStats{
		Min:  min,
		Max:  max,
		Mean: math.Round(mean*100) / 100, // Round to 2 decimal places
		P95:  p95,
	}
}

