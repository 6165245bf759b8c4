package semantic

import (
	"context"
	"fmt"
	"sort"

	"github.com/coder/hnsw"
)

// DefaultCandidateThreshold is the cosine similarity above which two indexed
// texts are considered candidate duplicates.
const DefaultCandidateThreshold = 0.80

// neighborK is how many nearest neighbors are examined per indexed text.
const neighborK = 8

// Index is an HNSW-backed candidate index over embedded texts. It prunes the
// O(N²) pairwise space of a batch scan down to pairs whose embeddings are
// close, so the deterministic scorer only runs on plausible duplicates. It is
// a collaborator of the CLI, never of the deterministic core.
//
// Not safe for concurrent use; build it in one goroutine.
type Index struct {
	embedder  Embedder
	graph     *hnsw.Graph[int]
	threshold float32
	size      int
}

// NewIndex creates a candidate index. threshold <= 0 selects
// DefaultCandidateThreshold.
func NewIndex(embedder Embedder, threshold float64) *Index {
	if threshold <= 0 {
		threshold = DefaultCandidateThreshold
	}
	g := hnsw.NewGraph[int]()
	g.Distance = hnsw.CosineDistance
	g.M = 16
	g.EfSearch = 32
	return &Index{
		embedder:  embedder,
		graph:     g,
		threshold: float32(threshold),
	}
}

// IndexTexts embeds all texts in batch and adds them to the graph keyed by
// their slice index.
func (x *Index) IndexTexts(ctx context.Context, texts []string) error {
	if x.embedder == nil || !x.embedder.Available() {
		return fmt.Errorf("semantic: no embedder available")
	}
	vecs, err := x.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("semantic: index embedding: %w", err)
	}
	for i, vec := range vecs {
		if len(vec) == 0 {
			continue
		}
		x.graph.Add(hnsw.MakeNode(i, vec))
		x.size++
	}
	return nil
}

// Len returns how many texts were indexed.
func (x *Index) Len() int { return x.size }

// CandidatePairs returns the (i, j) index pairs, i < j, whose embedding
// similarity meets the threshold, sorted ascending for deterministic
// downstream processing.
func (x *Index) CandidatePairs() [][2]int {
	seen := make(map[[2]int]bool)
	var pairs [][2]int

	for i := 0; i < x.size; i++ {
		vec, ok := x.graph.Lookup(i)
		if !ok {
			continue
		}
		for _, n := range x.graph.Search(vec, neighborK) {
			if n.Key == i || len(n.Value) != len(vec) {
				continue
			}
			// CosineDistance is 0 for identical, 2 for opposite.
			sim := 1 - hnsw.CosineDistance(vec, n.Value)/2
			if sim < x.threshold {
				continue
			}
			p := [2]int{i, n.Key}
			if p[0] > p[1] {
				p[0], p[1] = p[1], p[0]
			}
			if !seen[p] {
				seen[p] = true
				pairs = append(pairs, p)
			}
		}
	}

	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a][0] != pairs[b][0] {
			return pairs[a][0] < pairs[b][0]
		}
		return pairs[a][1] < pairs[b][1]
	})
	return pairs
}
