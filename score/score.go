// Package score combines the pipeline stages into a similarity verdict. This
// is the public entry point of the module: a Scorer canonicalizes,
// fingerprints and tags each text, then blends three deterministic component
// scores into one explainable composite.
//
// The composite blend, the verdict cut points and the ambiguous band are the
// reproducibility contract of the whole system. Given identical inputs and an
// identical vocabulary, Compare returns bit-identical reports across runs and
// across machines; every constant below is therefore part of the public
// behavior.
package score

import (
	"context"
	"math"

	"github.com/intentlab/intentprint/canon"
	"github.com/intentlab/intentprint/fingerprint"
	"github.com/intentlab/intentprint/semantic"
	"github.com/intentlab/intentprint/tag"
	"github.com/intentlab/intentprint/vocab"
)

// Composite blend weights. They sum to 1.
const (
	StructuralWeight   = 0.4
	TagOverlapWeight   = 0.4
	PatternMatchWeight = 0.2
)

// Verdict cut points on the composite score.
const (
	HighThreshold   = 0.85
	MediumThreshold = 0.60
)

// Verdict labels.
const (
	VerdictHigh   = "high_similarity"
	VerdictMedium = "medium_similarity"
	VerdictLow    = "low_similarity"
)

// Ambiguous band: the semantic filter, when enabled, refines only scores in
// [AmbiguousLow, AmbiguousHigh). Outside the band the rule-based result is
// decisive on its own. WithEmbeddingThreshold overrides the lower bound.
const (
	AmbiguousLow  = 0.40
	AmbiguousHigh = 0.85
)

// patternAgreementWeight splits the pattern-match component between
// interaction-pattern equality and vocabulary-pattern overlap.
const patternAgreementWeight = 0.5

// Triple bundles everything the scorer derives from one text. Text is kept
// solely for the optional semantic filter; no deterministic component reads
// it after canonicalization.
type Triple struct {
	Text  string                  `json:"-"`
	Form  canon.Form              `json:"form"`
	Print fingerprint.Fingerprint `json:"fingerprint"`
	Tags  tag.Set                 `json:"tags"`
}

// Breakdown holds the three deterministic component scores. It is reported
// unchanged even when the semantic filter adjusts the composite.
type Breakdown struct {
	Structural   float64 `json:"structural"`
	TagOverlap   float64 `json:"tag_overlap"`
	PatternMatch float64 `json:"pattern_match"`
}

// Explanation is the human-readable rationale. All slices are sorted by
// stable keys so rendering is reproducible.
type Explanation struct {
	MatchedTags     []string `json:"matched_tags"`
	MatchedPatterns []string `json:"matched_patterns"`
	KeySimilarities []string `json:"key_similarities"`
	KeyDifferences  []string `json:"key_differences"`
}

// Report is the outcome of comparing two texts.
type Report struct {
	Score       float64     `json:"similarity_score"`
	Breakdown   Breakdown   `json:"breakdown"`
	Explanation Explanation `json:"explanation"`
	Verdict     string      `json:"verdict"`
}

// Scorer runs the full pipeline over one immutable vocabulary. Safe for
// concurrent use.
type Scorer struct {
	canonicalizer *canon.Canonicalizer
	tagger        *tag.Tagger
	filter        semantic.Filter
	filterOn      bool
	bandLow       float64
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithSemanticFilter enables the post-hoc semantic refinement for composite
// scores inside the ambiguous band.
func WithSemanticFilter(f semantic.Filter) Option {
	return func(s *Scorer) {
		s.filter = f
		s.filterOn = f != nil
	}
}

// WithEmbeddingThreshold moves the lower bound of the ambiguous band: the
// semantic filter only refines composites at or above this value. It has no
// effect unless a filter is enabled. Values are clamped to [0, AmbiguousHigh];
// the upper bound is fixed so a decisive rule-based match is never revised.
func WithEmbeddingThreshold(threshold float64) Option {
	return func(s *Scorer) {
		s.bandLow = math.Max(0, math.Min(threshold, AmbiguousHigh))
	}
}

// New builds a Scorer over the given vocabulary. The vocabulary is validated
// up front; a misauthored rule table fails here, never mid-comparison.
func New(store *vocab.Store, opts ...Option) (*Scorer, error) {
	tagger, err := tag.New(store)
	if err != nil {
		return nil, err
	}
	s := &Scorer{
		canonicalizer: canon.New(store),
		tagger:        tagger,
		filter:        semantic.Noop{},
		bandLow:       AmbiguousLow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Analyze runs the first three pipeline stages on one text.
func (s *Scorer) Analyze(text string) Triple {
	form := s.canonicalizer.Canonicalize(text)
	return Triple{
		Text:  text,
		Form:  form,
		Print: fingerprint.Compute(form),
		Tags:  s.tagger.Tag(form),
	}
}

// Canonicalize exposes the first stage for independent use.
func (s *Scorer) Canonicalize(text string) canon.Form {
	return s.canonicalizer.Canonicalize(text)
}

// Tag exposes the tagging stage for independent use.
func (s *Scorer) Tag(form canon.Form) tag.Set {
	return s.tagger.Tag(form)
}

// Compare runs the full pipeline on both texts and scores the pair. The
// context is consulted only by the optional semantic filter; the
// deterministic pipeline never blocks.
func (s *Scorer) Compare(ctx context.Context, textA, textB string) Report {
	return s.Score(ctx, s.Analyze(textA), s.Analyze(textB))
}

// Score compares two analyzed triples. Symmetric: every component formula is
// order-independent, so Score(a, b) == Score(b, a).
func (s *Scorer) Score(ctx context.Context, a, b Triple) Report {
	structural := round3(fingerprint.Similarity(a.Print, b.Print))
	overlap := round3(tagOverlap(a.Tags, b.Tags))
	pattern := round3(patternMatch(a.Form, b.Form))

	composite := round3(StructuralWeight*structural +
		TagOverlapWeight*overlap +
		PatternMatchWeight*pattern)

	final := composite
	if s.filterOn && composite >= s.bandLow && composite < AmbiguousHigh {
		final = round3(s.filter.Refine(ctx, a.Text, b.Text, composite))
	}

	return Report{
		Score:       final,
		Breakdown:   Breakdown{Structural: structural, TagOverlap: overlap, PatternMatch: pattern},
		Explanation: explain(a, b),
		Verdict:     verdict(final),
	}
}

// tagOverlap is a confidence-weighted Jaccard over each side's full tag set:
// sum of min confidence over shared tags divided by sum of max confidence
// over all tags on either side. Two empty sets overlap perfectly; one empty
// set against a non-empty one does not overlap at all.
func tagOverlap(a, b tag.Set) float64 {
	if len(a.Confidence) == 0 && len(b.Confidence) == 0 {
		return 1
	}
	var num, den float64
	for id, ca := range a.Confidence {
		if cb, ok := b.Confidence[id]; ok {
			num += math.Min(ca, cb)
			den += math.Max(ca, cb)
		} else {
			den += ca
		}
	}
	for id, cb := range b.Confidence {
		if _, ok := a.Confidence[id]; !ok {
			den += cb
		}
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// patternMatch grades structural-shape agreement: half the weight on the
// interaction-pattern label, half on Jaccard overlap of matched vocabulary
// pattern ids (two empty sets count as full overlap).
func patternMatch(a, b canon.Form) float64 {
	agree := 0.0
	if a.InteractionPattern == b.InteractionPattern {
		agree = 1
	}
	return patternAgreementWeight*agree + (1-patternAgreementWeight)*jaccard(a.Patterns, b.Patterns)
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[v] = true
	}
	inter := 0
	union := len(set)
	for _, v := range b {
		if set[v] {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 1
	}
	return float64(inter) / float64(union)
}

func verdict(score float64) string {
	switch {
	case score >= HighThreshold:
		return VerdictHigh
	case score >= MediumThreshold:
		return VerdictMedium
	default:
		return VerdictLow
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
