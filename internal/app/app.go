// Package app wires the note storage, indexing and search stack from config.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"smartnotes/internal/config"
	"smartnotes/internal/contextutil"
	"smartnotes/internal/embedding"
	"smartnotes/internal/indexer"
	"smartnotes/internal/search"
	"smartnotes/internal/storage"
	"smartnotes/internal/vectorstore"
)

// App holds the wired stack shared by the API server and the admin CLI.
type App struct {
	Config   *config.Config
	DB       *sql.DB
	Notes    *storage.NoteRepo
	Chunks   *storage.ChunkRepo
	QueryLog *storage.QueryLogRepo
	Embedder embedding.Embedder
	// Qdrant is nil unless VECTOR_BACKEND=qdrant.
	Qdrant   *vectorstore.QdrantStore
	Pipeline *indexer.Pipeline
	Ranker   *search.Ranker
}

// New opens the database, validates the embedder and builds the indexing
// pipeline and ranker. The caller must Close the returned App.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := contextutil.LoggerFromContext(ctx)

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a := &App{Config: cfg, DB: db}

	if err := storage.Migrate(db); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.InfoContext(ctx, "database initialized", "path", cfg.DBPath)

	a.Notes = storage.NewNoteRepo(db)
	a.Chunks = storage.NewChunkRepo(db)
	a.QueryLog = storage.NewQueryLogRepo(db)

	a.Embedder, err = embedding.FromConfig(cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	// Fail fast on a misconfigured embedder
	if err := embedding.ValidateDimension(ctx, a.Embedder); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to validate embedder: %w", err)
	}
	logger.InfoContext(ctx, "embedder validated", "model", a.Embedder.ModelInfo(), "dimension", a.Embedder.Dimension())

	var (
		searcher vectorstore.Searcher = vectorstore.NewSQLiteSearcher(a.Chunks)
		mirror   vectorstore.Mirror
	)
	if cfg.VectorBackend == config.VectorBackendQdrant {
		store, err := vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantCollection)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
		}
		a.Qdrant = store
		if err := store.EnsureCollection(ctx, a.Embedder.Dimension()); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to ensure Qdrant collection: %w", err)
		}
		logger.InfoContext(ctx, "Qdrant collection ready", "collection", cfg.QdrantCollection)
		searcher = store
		mirror = store
	}

	a.Pipeline = indexer.NewPipeline(a.Notes, a.Chunks, a.Embedder, mirror, cfg.ChunkMaxSize)
	a.Ranker = search.NewRanker(
		a.Notes,
		a.Embedder,
		searcher,
		a.QueryLog,
		search.Weights{Keyword: cfg.HybridKeywordWeight, Semantic: cfg.HybridSemanticWeight},
		cfg.SearchTimeout,
	)
	return a, nil
}

// Close releases the database and vector store connections.
func (a *App) Close() error {
	if a.Qdrant != nil {
		if err := a.Qdrant.Close(); err != nil {
			slog.Warn("failed to close Qdrant client", "error", err)
		}
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
