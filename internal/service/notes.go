package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_note_service.go -package=mocks smartnotes/internal/service NoteService

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"smartnotes/internal/contextutil"
	"smartnotes/internal/indexer"
	"smartnotes/internal/storage"
)

const (
	// MaxTitleLength is the longest accepted title, in characters.
	MaxTitleLength = 255
	// DefaultListLimit is used when a list request leaves the limit at zero.
	DefaultListLimit = 20
	// MaxListLimit caps a single list page.
	MaxListLimit = 100
)

// IndexScheduler queues background re-indexing of a note.
// This interface is defined from the service layer's perspective (consumer-first).
type IndexScheduler interface {
	Enqueue(job indexer.Job) bool
}

// IndexRemover drops index data kept outside the chunk table.
type IndexRemover interface {
	Remove(ctx context.Context, noteID string)
}

// NoteInput carries the user-editable fields of a note.
type NoteInput struct {
	Title    string
	Content  string
	IsPublic bool
	Tags     string
}

// NoteService provides note CRUD. Writes schedule background indexing and
// never wait for it.
type NoteService interface {
	// Create stores a new note at version 1.
	Create(ctx context.Context, in NoteInput) (*storage.Note, error)
	// Get returns a note and counts the view.
	Get(ctx context.Context, id string) (*storage.Note, error)
	// Update replaces a note's fields if version matches the stored version.
	Update(ctx context.Context, id string, in NoteInput, version int) (*storage.Note, error)
	// Delete removes a note and all of its chunks.
	Delete(ctx context.Context, id string) error
	// List returns notes ordered by most recently updated.
	List(ctx context.Context, filter storage.ListFilter, skip, limit int) ([]storage.Note, error)
}

// noteService implements NoteService.
type noteService struct {
	notes     storage.NoteStore
	scheduler IndexScheduler
	remover   IndexRemover
}

// NewNoteService creates a new NoteService. remover may be nil.
func NewNoteService(notes storage.NoteStore, scheduler IndexScheduler, remover IndexRemover) NoteService {
	return &noteService{
		notes:     notes,
		scheduler: scheduler,
		remover:   remover,
	}
}

func (s *noteService) Create(ctx context.Context, in NoteInput) (*storage.Note, error) {
	logger := contextutil.LoggerFromContext(ctx)

	in, err := normalize(in)
	if err != nil {
		logger.WarnContext(ctx, "invalid note", "error", err)
		return nil, err
	}

	note := &storage.Note{
		Title:    in.Title,
		Content:  in.Content,
		IsPublic: in.IsPublic,
		Tags:     in.Tags,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		logger.ErrorContext(ctx, "failed to create note", "error", err)
		return nil, storageErr("create note", err)
	}

	s.scheduleIndex(ctx, note)
	logger.InfoContext(ctx, "created note", "note_id", note.ID)
	return note, nil
}

func (s *noteService) Get(ctx context.Context, id string) (*storage.Note, error) {
	if err := s.notes.IncrementViews(ctx, id); err != nil {
		return nil, storageErr("count note view", err)
	}
	note, err := s.notes.Get(ctx, id)
	if err != nil {
		return nil, storageErr("get note", err)
	}
	return note, nil
}

func (s *noteService) Update(ctx context.Context, id string, in NoteInput, version int) (*storage.Note, error) {
	logger := contextutil.LoggerFromContext(ctx)

	in, err := normalize(in)
	if err != nil {
		logger.WarnContext(ctx, "invalid note", "note_id", id, "error", err)
		return nil, err
	}
	if version < 1 {
		return nil, &ValidationError{Field: "version", Message: "must be a positive integer"}
	}

	note := &storage.Note{
		ID:       id,
		Title:    in.Title,
		Content:  in.Content,
		IsPublic: in.IsPublic,
		Tags:     in.Tags,
	}
	if err := s.notes.Update(ctx, note, version); err != nil {
		logger.WarnContext(ctx, "failed to update note", "note_id", id, "version", version, "error", err)
		return nil, storageErr("update note", err)
	}

	s.scheduleIndex(ctx, note)
	logger.InfoContext(ctx, "updated note", "note_id", id, "version", note.Version)
	return note, nil
}

func (s *noteService) Delete(ctx context.Context, id string) error {
	logger := contextutil.LoggerFromContext(ctx)

	if err := s.notes.Delete(ctx, id); err != nil {
		return storageErr("delete note", err)
	}
	if s.remover != nil {
		s.remover.Remove(ctx, id)
	}

	logger.InfoContext(ctx, "deleted note", "note_id", id)
	return nil
}

func (s *noteService) List(ctx context.Context, filter storage.ListFilter, skip, limit int) ([]storage.Note, error) {
	if skip < 0 {
		return nil, &ValidationError{Field: "skip", Message: "must not be negative"}
	}
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit < 1 || limit > MaxListLimit {
		return nil, &ValidationError{Field: "limit", Message: fmt.Sprintf("must be between 1 and %d", MaxListLimit)}
	}

	notes, err := s.notes.List(ctx, filter, skip, limit)
	if err != nil {
		return nil, storageErr("list notes", err)
	}
	return notes, nil
}

// scheduleIndex hands the committed note text to the background indexer.
// A dropped job leaves the note keyword-searchable until the next full reindex.
func (s *noteService) scheduleIndex(ctx context.Context, note *storage.Note) {
	if s.scheduler == nil {
		return
	}
	ok := s.scheduler.Enqueue(indexer.Job{NoteID: note.ID, Title: note.Title, Content: note.Content})
	if !ok {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "indexing not scheduled", "note_id", note.ID)
	}
}

// normalize trims and validates note fields before any store access.
func normalize(in NoteInput) (NoteInput, error) {
	fields := []struct{ name, value string }{
		{"title", in.Title},
		{"content", in.Content},
		{"tags", in.Tags},
	}
	for _, f := range fields {
		if !utf8.ValidString(f.value) {
			return NoteInput{}, &ValidationError{Field: f.name, Message: "must be valid UTF-8"}
		}
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Tags = strings.TrimSpace(in.Tags)

	switch n := utf8.RuneCountInString(in.Title); {
	case n == 0:
		return NoteInput{}, &ValidationError{Field: "title", Message: "cannot be empty"}
	case n > MaxTitleLength:
		return NoteInput{}, &ValidationError{Field: "title", Message: fmt.Sprintf("must be at most %d characters", MaxTitleLength)}
	}
	if in.Content == "" {
		return NoteInput{}, &ValidationError{Field: "content", Message: "cannot be empty"}
	}
	return in, nil
}
