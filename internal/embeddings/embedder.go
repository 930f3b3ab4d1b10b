package embeddings

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// ErrUnavailable indicates the embedding backend could not produce a
// vector (unreachable, misconfigured, or rejecting requests). Callers
// must treat this as fatal for the operation: substituting empty vectors
// would silently corrupt similarity rankings.
var ErrUnavailable = errors.New("embedding backend unavailable")

// Embedder defines the interface for generating text embeddings.
// The same embedder must be used for both indexing and querying; mixing
// embedding spaces produces meaningless similarity scores.
type Embedder interface {
	// Embed generates embeddings for one or more texts, order-preserving.
	// Implementations may batch internally for throughput.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the number of dimensions in the embedding vectors.
	// Constant for the lifetime of the embedder.
	Dimensions() int

	// Name returns the name/identifier of the embedding model.
	Name() string
}

// EmbedOne embeds a single text.
func EmbedOne(ctx context.Context, e Embedder, text string) ([]float32, error) {
	vecs, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned", ErrUnavailable)
	}
	return vecs[0], nil
}

// Similarity embeds both texts and returns their cosine similarity.
func Similarity(ctx context.Context, e Embedder, a, b string) (float32, error) {
	vecs, err := e.Embed(ctx, []string{a, b})
	if err != nil {
		return 0, err
	}
	if len(vecs) != 2 {
		return 0, fmt.Errorf("%w: expected 2 embeddings, got %d", ErrUnavailable, len(vecs))
	}
	return Cosine(vecs[0], vecs[1]), nil
}

// Cosine returns the cosine similarity (A·B)/(|A||B|) of two vectors.
// Zero-length or zero-norm input yields 0.
func Cosine(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
