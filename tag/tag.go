// Package tag matches canonical forms against the intent-tag rule table and
// produces a confidence-weighted tag set.
//
// Keywords are matched against the canonical descriptor's identifiers (roles,
// constraints, goal, interaction pattern, matched pattern ids), never against
// raw text. Two texts that canonicalize to the same form therefore always
// carry the same tags, which is what makes tag overlap a phrasing-invariant
// similarity signal.
package tag

import (
	"math"
	"sort"
	"strings"

	"github.com/intentlab/intentprint/canon"
	"github.com/intentlab/intentprint/vocab"
)

// Confidence blend and thresholds. The blend is fixed by contract: 0.6 of the
// score comes from the keyword hit ratio and 0.4 from the required-field
// bonus, which is always full for a candidate because eligibility requires
// every field of the rule's parent chain to be populated.
const (
	KeywordWeight = 0.6
	FieldWeight   = 0.4

	PrimaryThreshold   = 0.70
	SecondaryThreshold = 0.40
)

// Set is the tagging result for one canonical form. Primary and Secondary
// are ordered by descending confidence, ties broken by the rule's declaration
// order in the vocabulary.
type Set struct {
	Primary    []string           `json:"primary_tags"`
	Secondary  []string           `json:"secondary_tags"`
	Confidence map[string]float64 `json:"confidence"`
}

// All returns primary and secondary tags as one ordered slice.
func (s Set) All() []string {
	out := make([]string, 0, len(s.Primary)+len(s.Secondary))
	out = append(out, s.Primary...)
	out = append(out, s.Secondary...)
	return out
}

// Tagger evaluates a validated rule table against canonical forms. Safe for
// concurrent use; rules are compiled once in New.
type Tagger struct {
	rules []compiledRule
}

type compiledRule struct {
	vocab.TagRule
	order    int
	required []string // own required fields plus the parent chain's
}

// New compiles the store's tag rules. It fails fast with a
// *vocab.ConfigError when a rule references an unknown canonical-form field
// or a broken parent chain, so a misauthored vocabulary can never silently
// no-op a rule at evaluation time.
func New(store *vocab.Store) (*Tagger, error) {
	if err := store.Validate(); err != nil {
		return nil, err
	}
	t := &Tagger{}
	for i, r := range store.Tags {
		t.rules = append(t.rules, compiledRule{
			TagRule:  r,
			order:    i,
			required: store.RequiredChain(r.ID),
		})
	}
	return t, nil
}

// Tag evaluates every rule against the form. It is deterministic and never
// fails; a form matching nothing yields an empty Set.
func (t *Tagger) Tag(form canon.Form) Set {
	evidence := evidenceWords(form)

	type scored struct {
		id    string
		order int
		conf  float64
	}
	var candidates []scored

	for _, r := range t.rules {
		if !eligible(form, r.required) {
			continue
		}
		ratio := keywordRatio(evidence, r.Keywords)
		// A rule with keywords needs at least one hit; required fields
		// alone establish eligibility, not a match.
		if len(r.Keywords) > 0 && ratio == 0 {
			continue
		}
		conf := round3(KeywordWeight*ratio + FieldWeight)
		if conf < SecondaryThreshold {
			continue
		}
		candidates = append(candidates, scored{id: r.ID, order: r.order, conf: conf})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].conf != candidates[j].conf {
			return candidates[i].conf > candidates[j].conf
		}
		return candidates[i].order < candidates[j].order
	})

	set := Set{}
	if len(candidates) > 0 {
		set.Confidence = make(map[string]float64, len(candidates))
	}
	for _, c := range candidates {
		set.Confidence[c.id] = c.conf
		if c.conf >= PrimaryThreshold {
			set.Primary = append(set.Primary, c.id)
		} else {
			set.Secondary = append(set.Secondary, c.id)
		}
	}
	return set
}

// eligible reports whether every required field in the rule's chain is
// populated on the form.
func eligible(form canon.Form, required []string) bool {
	for _, f := range required {
		if !form.Field(f) {
			return false
		}
	}
	return true
}

// evidenceWords collects the word set of the canonical descriptor:
// identifiers split on underscores plus the identifiers themselves.
func evidenceWords(form canon.Form) map[string]bool {
	words := make(map[string]bool)
	add := func(id string) {
		if id == "" || id == canon.GoalUnknown {
			return
		}
		words[id] = true
		for _, w := range strings.FieldsFunc(id, func(r rune) bool { return r == '_' || r == ' ' }) {
			words[w] = true
		}
	}
	add(form.Kind)
	add(form.Goal)
	add(form.InteractionPattern)
	for _, r := range form.Roles {
		add(r)
	}
	for _, c := range form.Constraints {
		add(c)
	}
	for _, p := range form.Patterns {
		add(p)
	}
	return words
}

// keywordRatio is hit count over configured keyword count. A multi-word
// keyword hits when all of its words are present in the evidence.
func keywordRatio(evidence map[string]bool, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	hits := 0
	for _, kw := range keywords {
		if keywordHit(evidence, strings.ToLower(kw)) {
			hits++
		}
	}
	return float64(hits) / float64(len(keywords))
}

func keywordHit(evidence map[string]bool, kw string) bool {
	if evidence[kw] {
		return true
	}
	parts := strings.FieldsFunc(kw, func(r rune) bool { return r == '_' || r == ' ' })
	if len(parts) < 2 {
		return false
	}
	for _, p := range parts {
		if !evidence[p] {
			return false
		}
	}
	return true
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
