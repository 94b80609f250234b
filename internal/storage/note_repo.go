package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_note_store.go -package=mocks smartnotes/internal/storage NoteStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict is returned when an update's expected version does not
	// match the stored version.
	ErrVersionConflict = errors.New("version conflict")
)

// NoteStore defines the interface for note storage operations.
type NoteStore interface {
	// Create inserts a new note. ID is generated when empty; Version starts at 1.
	Create(ctx context.Context, note *Note) error
	// Get returns a note by ID. Returns ErrNotFound if not found.
	Get(ctx context.Context, id string) (*Note, error)
	// Update overwrites title, content, visibility and tags when the stored
	// version equals expectedVersion, and bumps the version by one.
	Update(ctx context.Context, note *Note, expectedVersion int) error
	// Delete removes a note and all of its chunks.
	Delete(ctx context.Context, id string) error
	// List returns notes ordered by updated_at descending.
	List(ctx context.Context, filter ListFilter, offset, limit int) ([]Note, error)
	// Scan calls fn for every note, most recently updated first.
	Scan(ctx context.Context, fn func(Note) error) error
	// IncrementViews bumps the view counter of a note.
	IncrementViews(ctx context.Context, id string) error
	// Count returns the number of stored notes.
	Count(ctx context.Context) (int, error)
}

// NoteRepo provides methods for note operations.
// It implements the NoteStore interface.
type NoteRepo struct {
	db *sql.DB
}

// NewNoteRepo creates a new NoteRepo.
func NewNoteRepo(db *sql.DB) *NoteRepo {
	return &NoteRepo{db: db}
}

// DB returns the underlying database handle.
func (r *NoteRepo) DB() *sql.DB {
	return r.db
}

const noteColumns = "id, title, content, is_public, tags, version, created_at, updated_at, view_count"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (Note, error) {
	var n Note
	err := row.Scan(&n.ID, &n.Title, &n.Content, &n.IsPublic, &n.Tags, &n.Version, &n.CreatedAt, &n.UpdatedAt, &n.ViewCount)
	return n, err
}

// Create inserts a new note.
func (r *NoteRepo) Create(ctx context.Context, note *Note) error {
	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	ts := now()
	note.Version = 1
	note.CreatedAt = ts
	note.UpdatedAt = ts
	note.ViewCount = 0

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notes (id, title, content, is_public, tags, version, created_at, updated_at, view_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)`,
		note.ID, note.Title, note.Content, note.IsPublic, note.Tags, note.Version, note.CreatedAt, note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}
	return nil
}

// Get returns a note by ID. Returns ErrNotFound if not found.
func (r *NoteRepo) Get(ctx context.Context, id string) (*Note, error) {
	n, err := scanNote(r.db.QueryRowContext(ctx, "SELECT "+noteColumns+" FROM notes WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query note: %w", err)
	}
	return &n, nil
}

// Update compares expectedVersion with the stored version inside one transaction.
// On mismatch nothing is written and ErrVersionConflict is returned.
// On success note is refreshed with the stored row.
func (r *NoteRepo) Update(ctx context.Context, note *Note, expectedVersion int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var stored int
	err = tx.QueryRowContext(ctx, "SELECT version FROM notes WHERE id = ?", note.ID).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read note version: %w", err)
	}
	if stored != expectedVersion {
		return fmt.Errorf("%w: stored version %d, expected %d", ErrVersionConflict, stored, expectedVersion)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE notes SET title = ?, content = ?, is_public = ?, tags = ?, version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`,
		note.Title, note.Content, note.IsPublic, note.Tags, now(), note.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrVersionConflict
	}

	updated, err := scanNote(tx.QueryRowContext(ctx, "SELECT "+noteColumns+" FROM notes WHERE id = ?", note.ID))
	if err != nil {
		return fmt.Errorf("failed to reload note: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit note update: %w", err)
	}
	*note = updated
	return nil
}

// Delete removes the note's chunks and then the note in a single transaction.
// The chunk rows go through the chunk repository's delete statement; sharing
// the transaction keeps chunks.note_id from ever pointing at a missing note.
func (r *NoteRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := deleteChunksForNote(ctx, tx, id); err != nil {
		return fmt.Errorf("failed to delete chunks for note: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit note delete: %w", err)
	}
	return nil
}

// List returns notes ordered by updated_at descending.
// A limit <= 0 returns every note after offset.
func (r *NoteRepo) List(ctx context.Context, filter ListFilter, offset, limit int) ([]Note, error) {
	query := "SELECT " + noteColumns + " FROM notes"
	var args []any
	if filter.PublicOnly {
		query += " WHERE is_public = 1"
	}
	query += " ORDER BY updated_at DESC, id"
	if limit <= 0 {
		limit = -1
	}
	if offset < 0 {
		offset = 0
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	notes := []Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return notes, nil
}

// Scan calls fn for every note, most recently updated first.
// Iteration stops at the first error returned by fn.
func (r *NoteRepo) Scan(ctx context.Context, fn func(Note) error) error {
	rows, err := r.db.QueryContext(ctx, "SELECT "+noteColumns+" FROM notes ORDER BY updated_at DESC, id")
	if err != nil {
		return fmt.Errorf("failed to scan notes: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return fmt.Errorf("failed to scan note: %w", err)
		}
		if err := fn(n); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}
	return nil
}

// IncrementViews bumps the view counter of a note.
func (r *NoteRepo) IncrementViews(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE notes SET view_count = view_count + 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of stored notes.
func (r *NoteRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notes").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count notes: %w", err)
	}
	return count, nil
}
