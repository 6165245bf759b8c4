// Package fingerprint reduces a canonical form to a numeric feature vector
// and compares two such vectors. Everything here is pure arithmetic over
// canonical-form cardinalities; Compute and Similarity are total functions
// with no hidden state.
//
// The complexity formula and the per-feature scaling ranges are part of the
// package contract: changing any constant below is a versioned behavior
// change, not a tuning knob, because stored fingerprints are only comparable
// when produced by identical weights.
package fingerprint

import (
	"math"

	"github.com/intentlab/intentprint/canon"
)

// Complexity score weights.
const (
	RoleWeight       = 1.5 // per extracted role
	ConstraintWeight = 1.0 // per extracted constraint
	MaxComplexity    = 10.0
)

// interactionWeights contributes the interaction pattern's share of the
// complexity score.
var interactionWeights = map[string]float64{
	canon.PatternUnstructured:   0,
	canon.PatternSingleShot:     1.0,
	canon.PatternExampleBased:   2.0,
	canon.PatternStructuredTurn: 2.5,
}

// bucketWeights contributes the metadata complexity bucket's share.
var bucketWeights = map[string]float64{
	canon.ComplexitySimple:   0,
	canon.ComplexityModerate: 2.0,
	canon.ComplexityComplex:  4.0,
}

// Per-feature scaling ranges used by Similarity so no single feature
// dominates the distance.
const (
	densityRange = 4.0 // constraint density rarely exceeds 4 constraints per role
)

// partialLengthCredit is the similarity granted when length buckets differ;
// length is a weak signal and a full zero would overweight it.
const partialLengthCredit = 0.5

// Fingerprint is the structural feature vector of one canonical form.
type Fingerprint struct {
	RoleCount         int     `json:"role_count"`
	ConstraintCount   int     `json:"constraint_count"`
	ConstraintDensity float64 `json:"constraint_density"`
	Complexity        float64 `json:"complexity"`
	HasRoles          bool    `json:"has_roles"`
	HasConstraints    bool    `json:"has_constraints"`

	// Categorical features carried over for comparison.
	Goal               string `json:"goal"`
	InteractionPattern string `json:"interaction_pattern"`
	LengthBucket       string `json:"length_bucket"`
}

// Compute derives the fingerprint of a canonical form.
//
// ConstraintDensity is constraintCount / max(roleCount, 1). The max(...,1)
// denominator is a contract, not a guard: every fingerprint must use the
// same definition or densities are not comparable.
func Compute(form canon.Form) Fingerprint {
	roles := len(form.Roles)
	constraints := len(form.Constraints)

	density := float64(constraints) / math.Max(float64(roles), 1)

	complexity := RoleWeight*float64(roles) +
		ConstraintWeight*float64(constraints) +
		interactionWeights[form.InteractionPattern] +
		bucketWeights[form.Metadata.ComplexityBucket]
	complexity = math.Min(complexity, MaxComplexity)

	return Fingerprint{
		RoleCount:          roles,
		ConstraintCount:    constraints,
		ConstraintDensity:  density,
		Complexity:         complexity,
		HasRoles:           roles > 0,
		HasConstraints:     constraints > 0,
		Goal:               form.Goal,
		InteractionPattern: form.InteractionPattern,
		LengthBucket:       form.Metadata.LengthBucket,
	}
}

// Similarity compares two fingerprints, returning a score in [0, 1]. It is
// symmetric and equals 1 for identical fingerprints.
//
// The score is the unweighted mean of eight per-feature similarities: goal
// equality, length-bucket equality (with partial credit), role and constraint
// count ratios, density and complexity distances scaled by fixed ranges, and
// the two presence flags. The interaction pattern is deliberately absent: the
// scorer weighs it separately as the pattern-match component.
func Similarity(a, b Fingerprint) float64 {
	feats := []float64{
		boolScore(a.Goal == b.Goal),
		eitherOr(a.LengthBucket == b.LengthBucket, 1, partialLengthCredit),
		countSimilarity(a.RoleCount, b.RoleCount),
		countSimilarity(a.ConstraintCount, b.ConstraintCount),
		clamp01(1 - math.Abs(a.ConstraintDensity-b.ConstraintDensity)/densityRange),
		clamp01(1 - math.Abs(a.Complexity-b.Complexity)/MaxComplexity),
		boolScore(a.HasRoles == b.HasRoles),
		boolScore(a.HasConstraints == b.HasConstraints),
	}
	sum := 0.0
	for _, f := range feats {
		sum += f
	}
	return sum / float64(len(feats))
}

// countSimilarity compares two cardinalities: matching emptiness is a perfect
// match, one-sided emptiness is a complete miss, otherwise the ratio of the
// smaller to the larger.
func countSimilarity(a, b int) float64 {
	switch {
	case a == 0 && b == 0:
		return 1
	case a == 0 || b == 0:
		return 0
	}
	return 1 - math.Abs(float64(a-b))/math.Max(float64(a), float64(b))
}

func boolScore(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

func eitherOr(cond bool, yes, no float64) float64 {
	if cond {
		return yes
	}
	return no
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
