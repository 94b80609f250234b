package storage

import "time"

// Note is a user note. Version increases by exactly one on every successful update.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsPublic  bool      `json:"is_public"`
	Tags      string    `json:"tags"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ViewCount int       `json:"view_count"`
}

// Chunk is an embedded fragment of a note's text.
type Chunk struct {
	ID         int64     // Autoincrement row ID
	NoteID     string    // Foreign key to notes.id
	ChunkIndex int       // Ordinal position within the note (starts at 0)
	Text       string    // Chunk text content
	Hash       string    // SHA256 hex of Text, dedup key
	Embedding  []float32 // Fixed-dimension vector
	CreatedAt  time.Time
}

// QueryLog is one append-only search telemetry record.
type QueryLog struct {
	Query        string
	QueryType    string
	ResultsCount int
	ResponseTime time.Duration
	CreatedAt    time.Time
}

// ListFilter narrows List results.
type ListFilter struct {
	PublicOnly bool
}
