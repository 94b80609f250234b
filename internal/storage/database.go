package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// New opens a SQLite database connection at the given path.
// It enables foreign keys and WAL mode and sets connection pool settings.
func New(path string) (*sql.DB, error) {
	// DSN options are applied to every pooled connection, a plain PRAGMA
	// would only reach the first one. _txlock=immediate makes read-then-write
	// transactions wait on busy_timeout instead of failing with SQLITE_BUSY.
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate")
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS notes (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			is_public BOOLEAN NOT NULL DEFAULT 0,
			tags TEXT NOT NULL DEFAULT '',
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			view_count INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_notes_updated_public ON notes (updated_at, is_public);`,
		`CREATE TABLE IF NOT EXISTS chunks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			note_id TEXT NOT NULL,
			chunk_text TEXT NOT NULL,
			embedding TEXT NOT NULL,
			chunk_index INTEGER NOT NULL,
			chunk_hash TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (note_id) REFERENCES notes(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_note_id ON chunks (note_id);`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_hash ON chunks (chunk_hash);`,
		`CREATE TABLE IF NOT EXISTS search_queries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL,
			query_type TEXT NOT NULL,
			results_count INTEGER NOT NULL DEFAULT 0,
			response_time REAL NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_search_queries_created ON search_queries (created_at);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

func now() time.Time {
	return time.Now().UTC()
}
