package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"smartnotes/internal/config"
	"smartnotes/internal/indexer"
	"smartnotes/internal/search"
	"smartnotes/internal/service"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DBPath:               filepath.Join(t.TempDir(), "notes.db"),
		ChunkMaxSize:         20,
		Embedder:             config.EmbedderHash,
		EmbeddingDim:         384,
		VectorBackend:        config.VectorBackendSQLite,
		HybridKeywordWeight:  0.3,
		HybridSemanticWeight: 0.7,
		SearchTimeout:        5 * time.Second,
	}
}

func TestNew_EndToEnd(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = a.Close() }()

	if a.Qdrant != nil {
		t.Error("Qdrant store created for sqlite backend")
	}

	queue := indexer.NewQueue(a.Pipeline, 2, 16, nil)
	queue.Start()
	notes := service.NewNoteService(a.Notes, queue, a.Pipeline)

	note, err := notes.Create(ctx, service.NoteInput{
		Title:   "Shopping",
		Content: "Buy milk. Buy eggs. Buy bread.",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Stop drains queued jobs.
	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := queue.Stop(stopCtx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	chunks, err := a.Chunks.ListByNote(ctx, note.ID)
	if err != nil {
		t.Fatalf("ListByNote() error = %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}

	for _, mode := range []search.Mode{search.ModeKeyword, search.ModeSemantic, search.ModeHybrid} {
		resp, err := a.Ranker.Search(ctx, search.Request{Query: "Shopping", Mode: mode})
		if err != nil {
			t.Fatalf("Search(%s) error = %v", mode, err)
		}
		if resp.TotalFound != 1 || resp.Results[0].Note.ID != note.ID {
			t.Errorf("Search(%s) = %+v", mode, resp)
		}
	}

	count, err := a.QueryLog.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("query log has %d rows, want 3", count)
	}

	stats, err := a.Pipeline.CoverageStats(ctx)
	if err != nil {
		t.Fatalf("CoverageStats() error = %v", err)
	}
	if stats.Notes != 1 || stats.Chunks != 2 || stats.EmbeddingModel != "hash-sha256-384" {
		t.Errorf("stats = %+v", stats)
	}
}

func TestNew_InvalidEmbedder(t *testing.T) {
	cfg := testConfig(t)
	cfg.Embedder = "word2vec"

	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatal("New() expected error for unknown embedder")
	}
}
