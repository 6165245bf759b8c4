// Package semantic is the optional Layer 5 of the pipeline: an embedding
// backed refinement applied after the deterministic score is computed. The
// core never depends on it; the default filter is an identity function and
// every backend degrades to identity when unavailable.
package semantic

import (
	"context"
	"math"

	"github.com/intentlab/intentprint/internal/logging"
)

// Filter refines an already-computed rule-based similarity score. The scorer
// calls it only when the filter is enabled and the deterministic score falls
// inside the ambiguous band; the deterministic breakdown is reported
// unchanged either way.
type Filter interface {
	Refine(ctx context.Context, textA, textB string, score float64) float64
}

// Noop is the default filter: identity.
type Noop struct{}

// Refine returns score unchanged.
func (Noop) Refine(_ context.Context, _, _ string, score float64) float64 { return score }

// Blend weights for the embedding filter. The rule-based score keeps the
// majority share so the deterministic signal stays dominant.
const (
	RuleWeight      = 0.6
	EmbeddingWeight = 0.4
)

// EmbeddingFilter blends the rule-based score with cosine similarity of the
// two texts' embeddings. Any backend failure falls back to the unmodified
// rule-based score; refinement never turns a scorable pair into an error.
type EmbeddingFilter struct {
	embedder Embedder
}

// NewEmbeddingFilter wraps an embedder as a Filter.
func NewEmbeddingFilter(e Embedder) *EmbeddingFilter {
	return &EmbeddingFilter{embedder: e}
}

// Refine blends score with the embedding similarity of the two texts.
func (f *EmbeddingFilter) Refine(ctx context.Context, textA, textB string, score float64) float64 {
	if f.embedder == nil || !f.embedder.Available() {
		return score
	}
	vecs, err := f.embedder.EmbedBatch(ctx, []string{textA, textB})
	if err != nil || len(vecs) != 2 {
		logging.Debug("embedding refine skipped", "error", err)
		return score
	}
	cos := CosineSimilarity(vecs[0], vecs[1])
	// Cosine is [-1, 1]; map to [0, 1] before blending.
	sem := (float64(cos) + 1) / 2
	blended := RuleWeight*score + EmbeddingWeight*sem
	return math.Max(0, math.Min(1, blended))
}
