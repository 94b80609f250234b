package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smartnotes/internal/app"
	"smartnotes/internal/config"
	"smartnotes/internal/handlers"
	"smartnotes/internal/http"
	"smartnotes/internal/indexer"
	"smartnotes/internal/service"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API stores notes and searches them by keyword, embedding similarity, or both.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: Smart Notes API
//   description: |
//     Note storage with optimistic concurrency and background chunk indexing.
//     Search ranks notes by keyword frequency, cosine similarity of chunk
//     embeddings, or a weighted blend of both.
//   version: 1.0.0
// schemes:
//   - http
//   - https
// consumes:
//   - application/json
// produces:
//   - application/json

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer func() {
		_ = a.Close()
	}()

	// Background indexing workers outlive the requests that schedule them
	queue := indexer.NewQueue(a.Pipeline, cfg.IndexWorkers, cfg.IndexQueueSize, logger)
	queue.Start()
	slog.Info("Index queue started", "workers", cfg.IndexWorkers, "size", cfg.IndexQueueSize)

	noteService := service.NewNoteService(a.Notes, queue, a.Pipeline)

	deps := &http.Deps{
		Notes:       noteService,
		Searcher:    a.Ranker,
		Reindexer:   a.Pipeline,
		DB:          a.DB,
		Coverage:    a.Pipeline,
		CORSOrigins: cfg.CORSOrigins,
	}
	var vectorStore handlers.CollectionChecker
	if a.Qdrant != nil {
		vectorStore = a.Qdrant
	}
	deps.VectorStore = vectorStore
	router := http.NewRouter(deps)

	addr := ":" + cfg.APIPort
	server := &nethttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Starting API server", "addr", addr, "embedder", a.Embedder.ModelInfo(), "vector_backend", cfg.VectorBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			slog.Error("API server failed", "error", err)
		}
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Failed to shut down API server", "error", err)
	}
	// Requests are drained, so no new jobs can arrive
	if err := queue.Stop(shutdownCtx); err != nil {
		slog.Warn("Index queue did not drain", "pending", queue.Pending(), "error", err)
	}
	slog.Info("Shutdown complete")
}
