package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func createNote(t *testing.T, repo *NoteRepo, title, content string, public bool) *Note {
	t.Helper()
	note := &Note{Title: title, Content: content, IsPublic: public}
	if err := repo.Create(context.Background(), note); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return note
}

func TestNoteRepo_CreateAndGet(t *testing.T) {
	repo := NewNoteRepo(newTestDB(t))
	ctx := context.Background()

	note := createNote(t, repo, "Shopping", "Buy milk.", true)
	if note.ID == "" {
		t.Fatal("Create() should generate an ID")
	}
	if note.Version != 1 {
		t.Errorf("Create() version = %d, want 1", note.Version)
	}

	got, err := repo.Get(ctx, note.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "Shopping" || got.Content != "Buy milk." || !got.IsPublic {
		t.Errorf("Get() = %+v, want stored fields", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("Get() timestamps should be set")
	}
}

func TestNoteRepo_Get_NotFound(t *testing.T) {
	repo := NewNoteRepo(newTestDB(t))

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestNoteRepo_Update_OptimisticConcurrency(t *testing.T) {
	repo := NewNoteRepo(newTestDB(t))
	ctx := context.Background()

	note := createNote(t, repo, "Title", "v1", false)
	for i := 2; i <= 3; i++ {
		note.Content = "v" + string(rune('0'+i))
		if err := repo.Update(ctx, note, note.Version); err != nil {
			t.Fatalf("Update() to version %d error = %v", i, err)
		}
	}
	if note.Version != 3 {
		t.Fatalf("version = %d, want 3", note.Version)
	}

	tests := []struct {
		name        string
		expected    int
		content     string
		wantErr     error
		wantVersion int
		wantContent string
	}{
		{
			name:        "stale version rejected",
			expected:    2,
			content:     "stale",
			wantErr:     ErrVersionConflict,
			wantVersion: 3,
			wantContent: "v3",
		},
		{
			name:        "current version accepted",
			expected:    3,
			content:     "fresh",
			wantVersion: 4,
			wantContent: "fresh",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update := &Note{ID: note.ID, Title: "Title", Content: tt.content}
			err := repo.Update(ctx, update, tt.expected)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Update() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Update() unexpected error: %v", err)
			}

			stored, err := repo.Get(ctx, note.ID)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if stored.Version != tt.wantVersion {
				t.Errorf("stored version = %d, want %d", stored.Version, tt.wantVersion)
			}
			if stored.Content != tt.wantContent {
				t.Errorf("stored content = %q, want %q", stored.Content, tt.wantContent)
			}
		})
	}
}

func TestNoteRepo_Update_NotFound(t *testing.T) {
	repo := NewNoteRepo(newTestDB(t))

	err := repo.Update(context.Background(), &Note{ID: "missing", Title: "t", Content: "c"}, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestNoteRepo_Delete_RemovesChunks(t *testing.T) {
	db := newTestDB(t)
	repo := NewNoteRepo(db)
	chunks := NewChunkRepo(db)
	ctx := context.Background()

	note := createNote(t, repo, "Title", "Body", false)
	if err := chunks.ReplaceChunks(ctx, note.ID, []Chunk{
		{ChunkIndex: 0, Text: "unique chunk", Hash: "hash-unique", Embedding: []float32{1, 2}},
	}); err != nil {
		t.Fatalf("ReplaceChunks() error = %v", err)
	}

	if err := repo.Delete(ctx, note.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := repo.Get(ctx, note.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if _, err := chunks.FindByHash(ctx, "hash-unique"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByHash() after delete error = %v, want ErrNotFound", err)
	}

	if err := repo.Delete(ctx, note.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestNoteRepo_List(t *testing.T) {
	repo := NewNoteRepo(newTestDB(t))
	ctx := context.Background()

	first := createNote(t, repo, "first", "a", true)
	time.Sleep(2 * time.Millisecond)
	second := createNote(t, repo, "second", "b", false)
	time.Sleep(2 * time.Millisecond)
	third := createNote(t, repo, "third", "c", true)

	tests := []struct {
		name    string
		filter  ListFilter
		offset  int
		limit   int
		wantIDs []string
	}{
		{name: "all newest first", limit: 10, wantIDs: []string{third.ID, second.ID, first.ID}},
		{name: "public only", filter: ListFilter{PublicOnly: true}, limit: 10, wantIDs: []string{third.ID, first.ID}},
		{name: "offset and limit", offset: 1, limit: 1, wantIDs: []string{second.ID}},
		{name: "no limit", wantIDs: []string{third.ID, second.ID, first.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes, err := repo.List(ctx, tt.filter, tt.offset, tt.limit)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(notes) != len(tt.wantIDs) {
				t.Fatalf("List() returned %d notes, want %d", len(notes), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if notes[i].ID != id {
					t.Errorf("List()[%d] = %s, want %s", i, notes[i].Title, id)
				}
			}
		})
	}
}

func TestNoteRepo_IncrementViewsAndCount(t *testing.T) {
	repo := NewNoteRepo(newTestDB(t))
	ctx := context.Background()

	note := createNote(t, repo, "t", "c", false)
	for i := 0; i < 2; i++ {
		if err := repo.IncrementViews(ctx, note.ID); err != nil {
			t.Fatalf("IncrementViews() error = %v", err)
		}
	}
	got, _ := repo.Get(ctx, note.ID)
	if got.ViewCount != 2 {
		t.Errorf("ViewCount = %d, want 2", got.ViewCount)
	}
	if got.Version != 1 {
		t.Errorf("IncrementViews() must not bump version, got %d", got.Version)
	}

	if err := repo.IncrementViews(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("IncrementViews() missing error = %v, want ErrNotFound", err)
	}

	count, err := repo.Count(ctx)
	if err != nil || count != 1 {
		t.Errorf("Count() = %d, %v, want 1", count, err)
	}
}

func TestNoteRepo_Scan(t *testing.T) {
	repo := NewNoteRepo(newTestDB(t))
	ctx := context.Background()

	createNote(t, repo, "a", "a", false)
	createNote(t, repo, "b", "b", false)

	var seen int
	if err := repo.Scan(ctx, func(Note) error { seen++; return nil }); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if seen != 2 {
		t.Errorf("Scan() visited %d notes, want 2", seen)
	}

	stop := errors.New("stop")
	err := repo.Scan(ctx, func(Note) error { return stop })
	if !errors.Is(err, stop) {
		t.Errorf("Scan() error = %v, want callback error", err)
	}
}

func TestNoteRepo_Update_ConcurrentWritersOneWins(t *testing.T) {
	repo := NewNoteRepo(newTestDB(t))
	ctx := context.Background()
	note := createNote(t, repo, "shared", "v1", false)

	const writers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
		others    []error
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			upd := &Note{ID: note.ID, Title: "shared", Content: fmt.Sprintf("writer %d", i)}
			err := repo.Update(ctx, upd, 1)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrVersionConflict):
				conflicts++
			default:
				others = append(others, err)
			}
		}(i)
	}
	wg.Wait()

	if len(others) > 0 {
		t.Fatalf("unexpected errors: %v", others)
	}
	if wins != 1 || conflicts != writers-1 {
		t.Errorf("wins = %d, conflicts = %d, want 1 and %d", wins, conflicts, writers-1)
	}

	stored, err := repo.Get(ctx, note.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.Version != 2 {
		t.Errorf("Version = %d, want 2", stored.Version)
	}
}
