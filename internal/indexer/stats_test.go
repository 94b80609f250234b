package indexer

import (
	"context"
	"testing"

	"go.uber.org/mock/gomock"

	"smartnotes/internal/embedding"
	storage_mocks "smartnotes/internal/storage/mocks"
)

func TestCoverageStats(t *testing.T) {
	notes, chunks := newTestRepos(t)
	p := NewPipeline(notes, chunks, embedding.NewHashEmbedder(8), nil, 10)
	ctx := context.Background()

	stats, err := p.CoverageStats(ctx)
	if err != nil {
		t.Fatalf("CoverageStats() error = %v", err)
	}
	if stats.Notes != 0 || stats.Chunks != 0 || stats.NotesWith0Chunks != 0 {
		t.Errorf("empty database stats = %+v", stats)
	}
	if stats.ChunkerVersion != ChunkerVersion {
		t.Errorf("ChunkerVersion = %s, want %s", stats.ChunkerVersion, ChunkerVersion)
	}
	if len(stats.IndexVersion) != 16 {
		t.Errorf("IndexVersion = %q, want 16 hex chars", stats.IndexVersion)
	}

	a := mustCreate(t, notes, "Groceries", "Buy milk. Call mom.")
	b := mustCreate(t, notes, "Errands", "Buy milk. Walk dog.")
	mustCreate(t, notes, "Unindexed", "Nothing yet")
	for _, n := range []struct{ id, title, content string }{
		{a.ID, a.Title, a.Content},
		{b.ID, b.Title, b.Content},
	} {
		if err := p.Index(ctx, n.id, n.title, n.content); err != nil {
			t.Fatalf("Index() error = %v", err)
		}
	}

	stats, err = p.CoverageStats(ctx)
	if err != nil {
		t.Fatalf("CoverageStats() error = %v", err)
	}
	if stats.Notes != 3 {
		t.Errorf("Notes = %d, want 3", stats.Notes)
	}
	if stats.NotesWith0Chunks != 1 {
		t.Errorf("NotesWith0Chunks = %d, want 1", stats.NotesWith0Chunks)
	}
	if stats.Chunks != 6 {
		t.Errorf("Chunks = %d, want 6", stats.Chunks)
	}
	if stats.DistinctHashes != 5 {
		t.Errorf("DistinctHashes = %d, want 5", stats.DistinctHashes)
	}
	if stats.ChunkTokenStats.Min < 1 || stats.ChunkTokenStats.Max < stats.ChunkTokenStats.Min {
		t.Errorf("unexpected token stats %+v", stats.ChunkTokenStats)
	}
	if stats.EmbeddingModel != "hash-sha256-8" {
		t.Errorf("EmbeddingModel = %s", stats.EmbeddingModel)
	}
}

func TestCoverageStats_RequiresSQLiteRepos(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p := NewPipeline(storage_mocks.NewMockNoteStore(ctrl), storage_mocks.NewMockChunkStore(ctrl), embedding.NewHashEmbedder(8), nil, 200)
	if _, err := p.CoverageStats(context.Background()); err == nil {
		t.Error("CoverageStats() should return error with non-SQLite repos")
	}
}

func TestIndexVersion(t *testing.T) {
	base := IndexVersion("hash-sha256-384", 384, 200)
	if base != IndexVersion("hash-sha256-384", 384, 200) {
		t.Error("IndexVersion() should be deterministic")
	}
	if base == IndexVersion("hash-sha256-384", 384, 100) {
		t.Error("IndexVersion() should change with chunk size")
	}
	if base == IndexVersion("openai-text-embedding-3-small", 384, 200) {
		t.Error("IndexVersion() should change with embedding model")
	}
}

func TestComputeTokenStats(t *testing.T) {
	tests := []struct {
		name        string
		tokenCounts []int
		want        ChunkTokenStats
	}{
		{
			name:        "empty",
			tokenCounts: []int{},
			want:        ChunkTokenStats{},
		},
		{
			name:        "single value",
			tokenCounts: []int{10},
			want: ChunkTokenStats{
				Min:  10,
				Max:  10,
				Mean: 10.0,
				P95:  10,
			},
		},
		{
			name:        "multiple values",
			tokenCounts: []int{5, 10, 15, 20, 25},
			want: ChunkTokenStats{
				Min:  5,
				Max:  25,
				Mean: 15.0,
				P95:  25, // 95th percentile of 5 values = index 4 (0-indexed) = 25
			},
		},
		{
			name:        "unsorted values",
			tokenCounts: []int{30, 5, 20, 10, 15},
			want: ChunkTokenStats{
				Min:  5,
				Max:  30,
				Mean: 16.0, // (30+5+20+10+15)/5 = 16
				P95:  30,
			},
		},
		{
			name:        "many values for p95",
			tokenCounts: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
			want: ChunkTokenStats{
				Min:  1,
				Max:  20,
				Mean: 10.5,
				P95:  20, // 95th percentile of 20 values = index 19 = 20
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeTokenStats(tt.tokenCounts)
			if got.Min != tt.want.Min {
				t.Errorf("Min = %d, want %d", got.Min, tt.want.Min)
			}
			if got.Max != tt.want.Max {
				t.Errorf("Max = %d, want %d", got.Max, tt.want.Max)
			}
			if got.Mean != tt.want.Mean {
				t.Errorf("Mean = %f, want %f", got.Mean, tt.want.Mean)
			}
			if got.P95 != tt.want.P95 {
				t.Errorf("P95 = %d, want %d", got.P95, tt.want.P95)
			}
		})
	}
}
