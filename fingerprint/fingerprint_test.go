package fingerprint

import (
	"math"
	"testing"

	"github.com/intentlab/intentprint/canon"
)

func TestCompute(t *testing.T) {
	form := canon.Form{
		Kind:               canon.KindPrompt,
		Roles:              []string{"sheldon"},
		Constraints:        []string{"catchphrase_required"},
		Goal:               "roleplay",
		InteractionPattern: canon.PatternUnstructured,
		Metadata: canon.Metadata{
			LengthBucket:     canon.LengthShort,
			ComplexityBucket: canon.ComplexityModerate,
		},
	}

	fp := Compute(form)

	if fp.RoleCount != 1 || fp.ConstraintCount != 1 {
		t.Errorf("counts = %d/%d, want 1/1", fp.RoleCount, fp.ConstraintCount)
	}
	if fp.ConstraintDensity != 1.0 {
		t.Errorf("ConstraintDensity = %v, want 1.0", fp.ConstraintDensity)
	}
	// 1.5*1 + 1.0*1 + 0 (unstructured) + 2 (moderate)
	if fp.Complexity != 4.5 {
		t.Errorf("Complexity = %v, want 4.5", fp.Complexity)
	}
	if !fp.HasRoles || !fp.HasConstraints {
		t.Errorf("presence flags = %v/%v, want true/true", fp.HasRoles, fp.HasConstraints)
	}
}

func TestComputeEmptyForm(t *testing.T) {
	fp := Compute(canon.Form{
		Kind:               canon.KindPrompt,
		Goal:               canon.GoalUnknown,
		InteractionPattern: canon.PatternUnstructured,
		Metadata: canon.Metadata{
			LengthBucket:     canon.LengthShort,
			ComplexityBucket: canon.ComplexitySimple,
		},
	})

	if fp.ConstraintDensity != 0 {
		t.Errorf("ConstraintDensity = %v, want 0 (max(roles,1) denominator)", fp.ConstraintDensity)
	}
	if fp.Complexity != 0 {
		t.Errorf("Complexity = %v, want 0", fp.Complexity)
	}
}

func TestComputeComplexityCeiling(t *testing.T) {
	form := canon.Form{
		Roles:              []string{"a", "b", "c", "d"},
		Constraints:        []string{"c1", "c2", "c3", "c4", "c5"},
		InteractionPattern: canon.PatternStructuredTurn,
		Metadata:           canon.Metadata{ComplexityBucket: canon.ComplexityComplex},
	}
	if fp := Compute(form); fp.Complexity != MaxComplexity {
		t.Errorf("Complexity = %v, want capped at %v", fp.Complexity, MaxComplexity)
	}
}

func TestSimilarityIdentity(t *testing.T) {
	forms := []canon.Form{
		{},
		{
			Roles:              []string{"pirate"},
			Constraints:        []string{"prohibition", "requirement"},
			Goal:               "roleplay",
			InteractionPattern: canon.PatternSingleShot,
			Metadata:           canon.Metadata{LengthBucket: canon.LengthMedium, ComplexityBucket: canon.ComplexityComplex},
		},
	}
	for _, f := range forms {
		fp := Compute(f)
		if got := Similarity(fp, fp); got != 1.0 {
			t.Errorf("Similarity(x, x) = %v, want 1.0 for %+v", got, f)
		}
	}
}

func TestSimilaritySymmetricAndBounded(t *testing.T) {
	a := Compute(canon.Form{
		Roles:              []string{"sheldon"},
		Constraints:        []string{"catchphrase_required"},
		Goal:               "roleplay",
		InteractionPattern: canon.PatternUnstructured,
		Metadata:           canon.Metadata{LengthBucket: canon.LengthShort, ComplexityBucket: canon.ComplexityModerate},
	})
	b := Compute(canon.Form{
		Goal:               "summarization",
		InteractionPattern: canon.PatternSingleShot,
		Metadata:           canon.Metadata{LengthBucket: canon.LengthShort, ComplexityBucket: canon.ComplexityModerate},
	})

	ab, ba := Similarity(a, b), Similarity(b, a)
	if ab != ba {
		t.Errorf("Similarity not symmetric: %v vs %v", ab, ba)
	}
	if ab < 0 || ab > 1 || math.IsNaN(ab) {
		t.Errorf("Similarity out of bounds: %v", ab)
	}
	// goal 0 + length 1 + roles 0 + constraints 0 + density 0.75 +
	// complexity 0.85 + hasRoles 0 + hasConstraints 0, over 8 features
	if want := 0.325; math.Abs(ab-want) > 1e-9 {
		t.Errorf("Similarity = %v, want %v", ab, want)
	}
}

func TestCountSimilarity(t *testing.T) {
	tests := []struct {
		a, b     int
		expected float64
	}{
		{0, 0, 1},
		{0, 3, 0},
		{3, 0, 0},
		{2, 2, 1},
		{1, 2, 0.5},
		{2, 4, 0.5},
		{3, 4, 0.75},
	}
	for _, tt := range tests {
		if got := countSimilarity(tt.a, tt.b); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("countSimilarity(%d, %d) = %v, want %v", tt.a, tt.b, got, tt.expected)
		}
	}
}
