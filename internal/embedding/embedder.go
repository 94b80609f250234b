package embedding

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks smartnotes/internal/embedding Embedder

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"smartnotes/internal/config"
)

// DefaultDimension is the vector length produced when none is configured.
const DefaultDimension = 384

// ErrInvalidInput is returned for text that cannot be embedded.
var ErrInvalidInput = errors.New("invalid embedding input")

// Embedder turns text into a fixed-length vector.
// Implementations must be safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
	ModelInfo() string
}

// ValidateDimension embeds a probe string and checks that the returned vector
// has the advertised dimension. cmd/api calls it once at startup.
func ValidateDimension(ctx context.Context, e Embedder) error {
	vec, err := e.Embed(ctx, "dimension probe")
	if err != nil {
		return fmt.Errorf("failed to embed probe text: %w", err)
	}
	if len(vec) != e.Dimension() {
		return fmt.Errorf("embedder %s returned %d dimensions, expected %d", e.ModelInfo(), len(vec), e.Dimension())
	}
	return nil
}

func checkText(text string) error {
	if !utf8.ValidString(text) {
		return fmt.Errorf("%w: text is not valid UTF-8", ErrInvalidInput)
	}
	return nil
}

// FromConfig builds the embedder selected by cfg.Embedder.
func FromConfig(cfg *config.Config) (Embedder, error) {
	switch cfg.Embedder {
	case config.EmbedderHash:
		return NewHashEmbedder(cfg.EmbeddingDim), nil
	case config.EmbedderOpenAI:
		return NewOpenAIEmbedder(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.EmbeddingDim)
	default:
		return nil, fmt.Errorf("unknown embedder %q", cfg.Embedder)
	}
}
