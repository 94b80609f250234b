package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"smartnotes/internal/contextutil"
	"smartnotes/internal/embedding"
	"smartnotes/internal/storage"
	"smartnotes/internal/vectorstore"
)

// IndexingError reports a failed indexing pass for one note. The note's
// previous chunk set is left untouched when it is returned.
type IndexingError struct {
	NoteID string
	Err    error
}

func (e *IndexingError) Error() string {
	return fmt.Sprintf("indexing note %s: %v", e.NoteID, e.Err)
}

func (e *IndexingError) Unwrap() error {
	return e.Err
}

// Pipeline chunks notes, embeds new chunks and replaces a note's stored
// chunk set in a single transaction.
type Pipeline struct {
	noteRepo     storage.NoteStore
	chunkRepo    storage.ChunkStore
	embedder     embedding.Embedder
	mirror       vectorstore.Mirror
	maxChunkSize int
}

// NewPipeline creates a new indexing pipeline. mirror may be nil.
func NewPipeline(
	noteRepo storage.NoteStore,
	chunkRepo storage.ChunkStore,
	embedder embedding.Embedder,
	mirror vectorstore.Mirror,
	maxChunkSize int,
) *Pipeline {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}
	return &Pipeline{
		noteRepo:     noteRepo,
		chunkRepo:    chunkRepo,
		embedder:     embedder,
		mirror:       mirror,
		maxChunkSize: maxChunkSize,
	}
}

// HashText returns the content hash used as the chunk dedup key.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Index rebuilds the chunk set of one note from its title and content.
// Chunks whose hash is already stored reuse the stored vector; only new
// chunk texts reach the embedder. Nothing is written until every vector is
// available, so any failure leaves the previous chunk set in place.
func (p *Pipeline) Index(ctx context.Context, noteID, title, content string) error {
	logger := contextutil.LoggerFromContext(ctx)

	pieces := Chunk(title+sentenceDelimiter+content, p.maxChunkSize)
	chunks := make([]storage.Chunk, len(pieces))
	vectors := make(map[string][]float32, len(pieces))
	var embedded, reused int

	for i, text := range pieces {
		hash := HashText(text)
		vec, ok := vectors[hash]
		if ok {
			reused++
		} else {
			var fresh bool
			var err error
			vec, fresh, err = p.vectorFor(ctx, hash, text)
			if err != nil {
				return &IndexingError{NoteID: noteID, Err: err}
			}
			if fresh {
				embedded++
			} else {
				reused++
			}
			vectors[hash] = vec
		}

		chunks[i] = storage.Chunk{
			NoteID:     noteID,
			ChunkIndex: i,
			Text:       text,
			Hash:       hash,
			Embedding:  vec,
		}
	}

	if err := p.chunkRepo.ReplaceChunks(ctx, noteID, chunks); err != nil {
		return &IndexingError{NoteID: noteID, Err: err}
	}

	if p.mirror != nil {
		if err := p.mirror.ReplaceNote(ctx, noteID, chunks); err != nil {
			logger.WarnContext(ctx, "failed to mirror chunks", "note_id", noteID, "error", err)
		}
	}

	logger.InfoContext(ctx, "indexed note",
		"note_id", noteID,
		"chunks", len(chunks),
		"embedded", embedded,
		"reused", reused,
	)
	return nil
}

// vectorFor returns the stored vector for hash, or embeds text when no chunk
// with a matching hash and dimension exists. fresh reports an embedder call.
func (p *Pipeline) vectorFor(ctx context.Context, hash, text string) (vec []float32, fresh bool, err error) {
	existing, err := p.chunkRepo.FindByHash(ctx, hash)
	switch {
	case err == nil && len(existing.Embedding) == p.embedder.Dimension():
		return existing.Embedding, false, nil
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		return nil, false, fmt.Errorf("failed to look up chunk hash: %w", err)
	}

	vec, err = p.embedder.Embed(ctx, text)
	if err != nil {
		return nil, false, fmt.Errorf("failed to embed chunk: %w", err)
	}
	if len(vec) != p.embedder.Dimension() {
		return nil, false, fmt.Errorf("embedding has size %d, expected %d", len(vec), p.embedder.Dimension())
	}
	return vec, true, nil
}

// Remove drops the mirrored vectors of a deleted note. SQLite chunk rows are
// removed together with the note by the note repository.
func (p *Pipeline) Remove(ctx context.Context, noteID string) {
	if p.mirror == nil {
		return
	}
	if err := p.mirror.DeleteNote(ctx, noteID); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to delete mirrored chunks", "note_id", noteID, "error", err)
	}
}

// IndexAll re-indexes every stored note.
// Errors for individual notes are logged but don't stop the indexing process.
func (p *Pipeline) IndexAll(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	var notes []storage.Note
	if err := p.noteRepo.Scan(ctx, func(n storage.Note) error {
		notes = append(notes, n)
		return nil
	}); err != nil {
		return fmt.Errorf("failed to scan notes: %w", err)
	}

	logger.InfoContext(ctx, "starting indexing", "total_notes", len(notes))

	var successCount, errorCount int
	for _, note := range notes {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := p.Index(ctx, note.ID, note.Title, note.Content); err != nil {
			errorCount++
			logger.ErrorContext(ctx, "failed to index note", "note_id", note.ID, "error", err)
			continue
		}
		successCount++
	}

	logger.InfoContext(ctx, "indexing completed", "total_notes", len(notes), "success", successCount, "errors", errorCount)

	if errorCount > 0 {
		return fmt.Errorf("indexing completed with %d errors", errorCount)
	}
	return nil
}
