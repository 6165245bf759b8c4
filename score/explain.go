package score

import (
	"fmt"
	"math"
	"sort"

	"github.com/intentlab/intentprint/canon"
)

// complexityGap is the complexity difference past which the gap itself is
// worth calling out in the explanation.
const complexityGap = 3.0

// explain builds the human-readable rationale for a pair. Every list is
// sorted or derived in a fixed field order so the same pair always renders
// the same explanation.
func explain(a, b Triple) Explanation {
	ex := Explanation{
		MatchedTags:     intersect(a.Tags.All(), b.Tags.All()),
		MatchedPatterns: intersect(a.Form.Patterns, b.Form.Patterns),
	}

	sims := &ex.KeySimilarities
	diffs := &ex.KeyDifferences

	if a.Form.Kind == b.Form.Kind {
		add(sims, "same kind: %s", a.Form.Kind)
	} else {
		add(diffs, "different kinds: %s vs %s", a.Form.Kind, b.Form.Kind)
	}

	switch {
	case a.Form.Goal == b.Form.Goal && a.Form.Goal != canon.GoalUnknown:
		add(sims, "same goal: %s", a.Form.Goal)
	case a.Form.Goal != b.Form.Goal:
		add(diffs, "different goals: %s vs %s", a.Form.Goal, b.Form.Goal)
	}

	if a.Form.InteractionPattern == b.Form.InteractionPattern {
		add(sims, "same interaction pattern: %s", a.Form.InteractionPattern)
	} else {
		add(diffs, "different interaction patterns: %s vs %s",
			a.Form.InteractionPattern, b.Form.InteractionPattern)
	}

	if shared := intersect(a.Form.Roles, b.Form.Roles); len(shared) > 0 {
		add(sims, "shared roles: %s", joinList(shared))
	}
	if ra, rb := len(a.Form.Roles), len(b.Form.Roles); ra != rb {
		add(diffs, "role count differs: %d vs %d", ra, rb)
	}

	if shared := intersect(a.Form.Constraints, b.Form.Constraints); len(shared) > 0 {
		add(sims, "shared constraints: %s", joinList(shared))
	}
	if ca, cb := len(a.Form.Constraints), len(b.Form.Constraints); ca != cb {
		add(diffs, "constraint count differs: %d vs %d", ca, cb)
	}

	if len(ex.MatchedTags) > 0 {
		add(sims, "shared intent tags: %s", joinList(ex.MatchedTags))
	}

	if gap := math.Abs(a.Print.Complexity - b.Print.Complexity); gap > complexityGap {
		add(diffs, "complexity gap: %.1f vs %.1f", a.Print.Complexity, b.Print.Complexity)
	}

	return ex
}

func add(dst *[]string, format string, args ...any) {
	*dst = append(*dst, fmt.Sprintf(format, args...))
}

// intersect returns the sorted intersection of two string slices.
func intersect(a, b []string) []string {
	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[v] = true
	}
	var out []string
	seen := make(map[string]bool)
	for _, v := range b {
		if set[v] && !seen[v] {
			out = append(out, v)
			seen[v] = true
		}
	}
	sort.Strings(out)
	return out
}

func joinList(items []string) string {
	out := ""
	for i, v := range items {
		if i > 0 {
			out += ", "
		}
		out += v
	}
	return out
}
