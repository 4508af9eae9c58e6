// Package mock provides a deterministic embedder for tests and offline use.
package mock

import (
	"context"
	"hash/fnv"
	"math"
)

// DefaultDimensions matches the all-MiniLM-L6-v2 vector size so mock and
// local embedders are interchangeable in fixtures.
const DefaultDimensions = 384

// Embedder generates hash-derived embeddings: the same text always maps to
// the same unit vector. There is no semantic similarity, only identity.
type Embedder struct {
	dims int
}

// New creates a mock embedder with the default dimensionality.
func New() *Embedder {
	return WithDimensions(DefaultDimensions)
}

// WithDimensions creates a mock embedder producing vectors of size dims.
func WithDimensions(dims int) *Embedder {
	return &Embedder{dims: dims}
}

// Embed derives a deterministic unit vector from the text's FNV hash.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	h.Write([]byte(text))

	// LCG seeded by the hash fills the vector reproducibly.
	seed := h.Sum64()
	vec := make([]float32, e.dims)
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float32(int64(seed)) / float32(math.MaxInt64)
	}
	return normalize(vec), nil
}

// Dimensions returns the embedding size.
func (e *Embedder) Dimensions() int {
	return e.dims
}

func normalize(vec []float32) []float32 {
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = float32(math.Sqrt(float64(norm)))
	for i, v := range vec {
		vec[i] = v / norm
	}
	return vec
}
