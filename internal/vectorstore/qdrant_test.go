package vectorstore

import (
	"context"
	"testing"

	"github.com/qdrant/go-client/qdrant"

	"smartnotes/internal/storage"
)

func TestGRPCAddress(t *testing.T) {
	tests := []struct {
		name     string
		urlStr   string
		wantErr  bool
		wantHost string
		wantPort int
	}{
		{
			name:     "valid URL",
			urlStr:   "http://localhost:6333",
			wantHost: "localhost",
			wantPort: 6334, // gRPC port is HTTP port + 1
		},
		{
			name:     "URL with custom port",
			urlStr:   "http://qdrant:9000",
			wantHost: "qdrant",
			wantPort: 9001,
		},
		{
			name:    "invalid URL",
			urlStr:  "://invalid",
			wantErr: true,
		},
		{
			name:     "URL without port",
			urlStr:   "http://localhost",
			wantHost: "localhost",
			wantPort: 6334, // Default
		},
		{
			name:     "URL without hostname",
			urlStr:   "http://:6333",
			wantHost: "localhost", // Defaults to localhost
			wantPort: 6334,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port, err := grpcAddress(tt.urlStr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("grpcAddress() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if host != tt.wantHost {
				t.Errorf("Host = %v, want %v", host, tt.wantHost)
			}
			if port != tt.wantPort {
				t.Errorf("Port = %v, want %v", port, tt.wantPort)
			}
		})
	}
}

func TestNewQdrantStore_InvalidURL(t *testing.T) {
	_, err := NewQdrantStore("://invalid", "note_chunks")
	if err == nil {
		t.Error("NewQdrantStore() with invalid URL should return error")
	}
}

func TestQdrantStore_Upsert_EmptyPoints(t *testing.T) {
	// Returns before touching the client
	store := &QdrantStore{collection: "test-collection"}

	if err := store.upsert(context.Background(), nil); err != nil {
		t.Errorf("upsert() with no points should return early without error, got: %v", err)
	}
}

func TestChunkPoints(t *testing.T) {
	chunks := []storage.Chunk{
		{ID: 42, NoteID: "note-1", ChunkIndex: 2, Text: "Buy milk.", Embedding: []float32{0.1, 0.2}},
	}

	points := chunkPoints(chunks)
	if len(points) != 1 {
		t.Fatalf("chunkPoints() returned %d points, want 1", len(points))
	}
	if got := points[0].Id.GetNum(); got != 42 {
		t.Errorf("point ID = %d, want 42", got)
	}

	meta := convertPayloadToMap(points[0].Payload)
	if meta["note_id"] != "note-1" {
		t.Errorf("note_id = %v, want note-1", meta["note_id"])
	}
	if meta["chunk_index"] != int64(2) {
		t.Errorf("chunk_index = %v (%T), want 2", meta["chunk_index"], meta["chunk_index"])
	}
	if meta["chunk_text"] != "Buy milk." {
		t.Errorf("chunk_text = %v, want Buy milk.", meta["chunk_text"])
	}
}

func TestMatchFromPoint(t *testing.T) {
	point := &qdrant.ScoredPoint{
		Id:    qdrant.NewIDNum(7),
		Score: 0.5,
		Payload: qdrant.NewValueMap(map[string]any{
			"note_id":     "note-9",
			"chunk_index": 3,
			"chunk_text":  "hello",
		}),
	}

	got := matchFromPoint(point)
	want := ChunkMatch{ChunkID: 7, NoteID: "note-9", ChunkIndex: 3, Text: "hello", Score: 0.5}
	if got != want {
		t.Errorf("matchFromPoint() = %+v, want %+v", got, want)
	}

	empty := matchFromPoint(&qdrant.ScoredPoint{Score: 0.1})
	if empty.NoteID != "" || empty.ChunkID != 0 {
		t.Errorf("matchFromPoint() without payload = %+v", empty)
	}
}

func TestNoteFilter(t *testing.T) {
	filter := noteFilter("note-1")
	if len(filter.Must) != 1 {
		t.Fatalf("filter has %d conditions, want 1", len(filter.Must))
	}
	field := filter.Must[0].GetField()
	if field.GetKey() != "note_id" || field.GetMatch().GetKeyword() != "note-1" {
		t.Errorf("unexpected condition %v", filter.Must[0])
	}
}

func TestConvertPayloadToMap(t *testing.T) {
	result := convertPayloadToMap(nil)
	if result == nil {
		t.Error("convertPayloadToMap() should return empty map, not nil")
	}
	if len(result) != 0 {
		t.Errorf("convertPayloadToMap() with nil should return empty map, got %d items", len(result))
	}

	nested := convertPayloadToMap(qdrant.NewValueMap(map[string]any{
		"flag": true,
		"list": []any{"a", 1},
	}))
	if nested["flag"] != true {
		t.Errorf("flag = %v, want true", nested["flag"])
	}
	if list, ok := nested["list"].([]any); !ok || len(list) != 2 {
		t.Errorf("list = %v, want two items", nested["list"])
	}
}
