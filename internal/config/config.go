package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported embedder implementations.
const (
	EmbedderHash   = "hash"
	EmbedderOpenAI = "openai"
)

// Supported vector search backends.
const (
	VectorBackendSQLite = "sqlite"
	VectorBackendQdrant = "qdrant"
)

// Config holds all configuration for the application.
type Config struct {
	DBPath      string
	APIPort     string
	LogLevel    slog.Level
	LogFormat   string
	CORSOrigins []string

	ChunkMaxSize int

	Embedder           string
	EmbeddingDim       int
	EmbeddingBaseURL   string
	EmbeddingModelName string
	EmbeddingAPIKey    string

	VectorBackend    string
	QdrantURL        string
	QdrantCollection string

	HybridKeywordWeight  float64
	HybridSemanticWeight float64

	IndexWorkers   int
	IndexQueueSize int
	SearchTimeout  time.Duration
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the rest.
// If a .env file exists in the current directory or a parent directory, it is loaded first.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	// Walk up a few levels to find a project-level .env
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		DBPath:             getEnv("DB_PATH", defaultDBPath()),
		APIPort:            getEnv("API_PORT", "8000"),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "text")),
		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		Embedder:           strings.ToLower(getEnv("EMBEDDER", EmbedderHash)),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "https://api.openai.com/v1"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "text-embedding-3-small"),
		EmbeddingAPIKey:    getEnv("EMBEDDING_API_KEY", ""),
		VectorBackend:      strings.ToLower(getEnv("VECTOR_BACKEND", VectorBackendSQLite)),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "note_chunks"),
	}

	level, err := parseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	if cfg.ChunkMaxSize, err = getPositiveInt("CHUNK_MAX_SIZE", 200); err != nil {
		return nil, err
	}
	if cfg.EmbeddingDim, err = getPositiveInt("EMBEDDING_DIM", 384); err != nil {
		return nil, err
	}
	if cfg.IndexWorkers, err = getPositiveInt("INDEX_WORKERS", 2); err != nil {
		return nil, err
	}
	if cfg.IndexQueueSize, err = getPositiveInt("INDEX_QUEUE_SIZE", 256); err != nil {
		return nil, err
	}

	if cfg.HybridKeywordWeight, err = getFloat("HYBRID_KEYWORD_WEIGHT", 0.3); err != nil {
		return nil, err
	}
	if cfg.HybridSemanticWeight, err = getFloat("HYBRID_SEMANTIC_WEIGHT", 0.7); err != nil {
		return nil, err
	}
	if cfg.HybridKeywordWeight < 0 || cfg.HybridSemanticWeight < 0 {
		return nil, fmt.Errorf("hybrid weights must not be negative")
	}
	if cfg.HybridKeywordWeight+cfg.HybridSemanticWeight == 0 {
		return nil, fmt.Errorf("at least one hybrid weight must be greater than 0")
	}

	timeout, err := time.ParseDuration(getEnv("SEARCH_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("SEARCH_TIMEOUT must be a valid duration: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("SEARCH_TIMEOUT must be greater than 0")
	}
	cfg.SearchTimeout = timeout

	switch cfg.Embedder {
	case EmbedderHash:
	case EmbedderOpenAI:
		if cfg.EmbeddingAPIKey == "" {
			return nil, fmt.Errorf("EMBEDDING_API_KEY is required when EMBEDDER=openai")
		}
	default:
		return nil, fmt.Errorf("EMBEDDER must be %q or %q, got %q", EmbedderHash, EmbedderOpenAI, cfg.Embedder)
	}

	switch cfg.VectorBackend {
	case VectorBackendSQLite, VectorBackendQdrant:
	default:
		return nil, fmt.Errorf("VECTOR_BACKEND must be %q or %q, got %q", VectorBackendSQLite, VectorBackendQdrant, cfg.VectorBackend)
	}

	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// defaultDBPath is ~/notes_app/notes.db, falling back to ./data when the home
// directory cannot be resolved.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "./data/notes.db"
	}
	return filepath.Join(home, "notes_app", "notes.db")
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getPositiveInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return v, nil
}

func getFloat(key string, defaultValue float64) (float64, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return v, nil
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error: %w", err)
	}
	return level, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
