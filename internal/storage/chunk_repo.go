package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_store.go -package=mocks smartnotes/internal/storage ChunkStore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ChunkStore defines the interface for chunk storage operations.
// It exclusively owns chunk rows.
type ChunkStore interface {
	// ReplaceChunks deletes every chunk of noteID and inserts chunks in one
	// transaction. Readers see either the old set or the new set.
	ReplaceChunks(ctx context.Context, noteID string, chunks []Chunk) error
	// FindByHash returns any stored chunk with the given content hash.
	// Returns ErrNotFound if none exists.
	FindByHash(ctx context.Context, hash string) (*Chunk, error)
	// DeleteForNote deletes all chunks for a given note ID.
	DeleteForNote(ctx context.Context, noteID string) error
	// ListByNote returns the chunks of a note ordered by chunk_index.
	ListByNote(ctx context.Context, noteID string) ([]Chunk, error)
	// ScanVectors calls fn for every stored chunk, embedding included.
	ScanVectors(ctx context.Context, fn func(Chunk) error) error
}

// ChunkRepo provides methods for chunk operations.
// It implements the ChunkStore interface.
type ChunkRepo struct {
	db *sql.DB
}

// NewChunkRepo creates a new ChunkRepo.
func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// DB returns the underlying database handle.
func (r *ChunkRepo) DB() *sql.DB {
	return r.db
}

// ReplaceChunks deletes the note's chunks and inserts the new set atomically.
// Chunk NoteID fields are overwritten with noteID; IDs and CreatedAt are set
// on the passed slice after a successful commit.
func (r *ChunkRepo) ReplaceChunks(ctx context.Context, noteID string, chunks []Chunk) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := deleteChunksForNote(ctx, tx, noteID); err != nil {
		return fmt.Errorf("failed to delete chunks by note: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO chunks (note_id, chunk_text, embedding, chunk_index, chunk_hash, created_at) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare chunk insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	ts := now()
	ids := make([]int64, len(chunks))
	for i, c := range chunks {
		vec, err := EncodeEmbedding(c.Embedding)
		if err != nil {
			return err
		}
		res, err := stmt.ExecContext(ctx, noteID, c.Text, vec, c.ChunkIndex, c.Hash, ts)
		if err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", c.ChunkIndex, err)
		}
		if ids[i], err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read chunk id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chunks: %w", err)
	}

	for i := range chunks {
		chunks[i].ID = ids[i]
		chunks[i].NoteID = noteID
		chunks[i].CreatedAt = ts
	}
	return nil
}

// FindByHash returns the oldest stored chunk with the given hash.
func (r *ChunkRepo) FindByHash(ctx context.Context, hash string) (*Chunk, error) {
	c, err := scanChunk(r.db.QueryRowContext(ctx,
		"SELECT "+chunkColumns+" FROM chunks WHERE chunk_hash = ? ORDER BY id LIMIT 1", hash))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk by hash: %w", err)
	}
	return &c, nil
}

// DeleteForNote deletes all chunks for a given note ID.
func (r *ChunkRepo) DeleteForNote(ctx context.Context, noteID string) error {
	if err := deleteChunksForNote(ctx, r.db, noteID); err != nil {
		return fmt.Errorf("failed to delete chunks by note: %w", err)
	}
	return nil
}

// ListByNote returns the chunks of a note ordered by chunk_index.
// Returns an empty slice if no chunks exist (not an error).
func (r *ChunkRepo) ListByNote(ctx context.Context, noteID string) ([]Chunk, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+chunkColumns+" FROM chunks WHERE note_id = ? ORDER BY chunk_index", noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	chunks := []Chunk{}
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return chunks, nil
}

// ScanVectors streams every stored chunk to fn.
// Iteration stops at the first error returned by fn.
func (r *ChunkRepo) ScanVectors(ctx context.Context, fn func(Chunk) error) error {
	rows, err := r.db.QueryContext(ctx, "SELECT "+chunkColumns+" FROM chunks ORDER BY note_id, chunk_index")
	if err != nil {
		return fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return fmt.Errorf("failed to scan chunk: %w", err)
		}
		if err := fn(c); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}
	return nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// deleteChunksForNote is the only statement that removes chunk rows. It runs
// on the pool for DeleteForNote, inside ReplaceChunks' transaction, and inside
// NoteRepo.Delete's transaction so a note and its chunks disappear together.
func deleteChunksForNote(ctx context.Context, ex execer, noteID string) error {
	_, err := ex.ExecContext(ctx, "DELETE FROM chunks WHERE note_id = ?", noteID)
	return err
}

const chunkColumns = "id, note_id, chunk_index, chunk_text, chunk_hash, embedding, created_at"

func scanChunk(row rowScanner) (Chunk, error) {
	var c Chunk
	var raw string
	if err := row.Scan(&c.ID, &c.NoteID, &c.ChunkIndex, &c.Text, &c.Hash, &raw, &c.CreatedAt); err != nil {
		return Chunk{}, err
	}
	vec, err := DecodeEmbedding(raw)
	if err != nil {
		return Chunk{}, err
	}
	c.Embedding = vec
	return c, nil
}

// EncodeEmbedding serializes a vector as a JSON array. encoding/json formats
// float32 values with 32-bit precision, so decoding yields identical values.
func EncodeEmbedding(vec []float32) (string, error) {
	if vec == nil {
		vec = []float32{}
	}
	b, err := json.Marshal(vec)
	if err != nil {
		return "", fmt.Errorf("failed to encode embedding: %w", err)
	}
	return string(b), nil
}

// DecodeEmbedding parses a vector produced by EncodeEmbedding.
func DecodeEmbedding(raw string) ([]float32, error) {
	var vec []float32
	if err := json.Unmarshal([]byte(raw), &vec); err != nil {
		return nil, fmt.Errorf("failed to decode embedding: %w", err)
	}
	return vec, nil
}
