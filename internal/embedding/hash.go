package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// HashEmbedder is a deterministic placeholder embedder. The vector is a
// sequence of standard-normal draws seeded from the SHA-256 of the text, so
// equal texts always map to equal vectors, across calls and restarts.
// It carries no semantic meaning.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder creates a hash embedder producing dim-length vectors.
// A non-positive dim falls back to DefaultDimension.
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = DefaultDimension
	}
	return &HashEmbedder{dim: dim}
}

// Embed returns the vector for text.
func (e *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkText(text); err != nil {
		return nil, err
	}

	sum := sha256.Sum256([]byte(text))
	seed := binary.BigEndian.Uint64(sum[:8])
	rng := rand.New(rand.NewPCG(seed, 0))

	vec := make([]float32, e.dim)
	for i := range vec {
		vec[i] = float32(rng.NormFloat64())
	}
	return vec, nil
}

// Dimension returns the embedding dimension.
func (e *HashEmbedder) Dimension() int {
	return e.dim
}

// ModelInfo returns model information.
func (e *HashEmbedder) ModelInfo() string {
	return fmt.Sprintf("hash-sha256-%d", e.dim)
}
