// Package vocab provides the immutable rule tables that drive the intent
// pipeline: intent-tag rules, structural-pattern rules, and synonym groups.
//
// Tables are loaded once, validated once, and treated as read-only for the
// lifetime of the process. Every rule keeps its declaration order so that
// tie-breaking is stable across runs: two candidates with equal confidence are
// ranked by the order their rules appear in the vocabulary, never by map
// iteration order.
package vocab

import "fmt"

// Form field names a tag rule may reference in its "required" list.
const (
	FieldRoles              = "roles"
	FieldConstraints        = "constraints"
	FieldGoal               = "goal"
	FieldInteractionPattern = "interaction_pattern"
	FieldKind               = "kind"
)

// knownFields is the closed set of canonical-form fields rules may require.
var knownFields = map[string]bool{
	FieldRoles:              true,
	FieldConstraints:        true,
	FieldGoal:               true,
	FieldInteractionPattern: true,
	FieldKind:               true,
}

// KnownField reports whether name is a canonical-form field that rules may
// reference.
func KnownField(name string) bool {
	return knownFields[name]
}

// TagRule describes one intent tag: which form fields must be populated for
// the tag to be eligible, and which keywords raise its confidence.
type TagRule struct {
	ID          string
	Description string
	Required    []string // form fields that must be non-empty
	Keywords    []string // tokens/phrases that strengthen the match
	Parent      string   // optional parent tag id; "" for root tags
}

// PatternRule describes one structural pattern recognized by indicator tokens.
type PatternRule struct {
	ID          string
	Description string
	Indicators  []string
}

// SynonymGroup rewrites every member phrase to the group's canonical key
// during text normalization.
type SynonymGroup struct {
	Key      string
	Synonyms []string
}

// Store is the process-wide immutable vocabulary. Slices preserve declaration
// order; the maps are lookup conveniences over the same rules.
type Store struct {
	Tags     []TagRule
	Patterns []PatternRule
	Synonyms []SynonymGroup

	tagByID map[string]int // id -> index into Tags
}

// NewStore builds a Store from already-parsed rule slices and validates it.
func NewStore(tags []TagRule, patterns []PatternRule, synonyms []SynonymGroup) (*Store, error) {
	s := &Store{Tags: tags, Patterns: patterns, Synonyms: synonyms}
	s.index()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) index() {
	s.tagByID = make(map[string]int, len(s.Tags))
	for i, t := range s.Tags {
		s.tagByID[t.ID] = i
	}
}

// TagByID returns the tag rule with the given id.
func (s *Store) TagByID(id string) (TagRule, bool) {
	i, ok := s.tagByID[id]
	if !ok {
		return TagRule{}, false
	}
	return s.Tags[i], true
}

// Validate checks every rule for authoring bugs: unknown required fields,
// missing ids, dangling or cyclic parent references, and empty synonym groups.
// It fails fast with a *ConfigError so a bad vocabulary never silently
// no-ops a rule at evaluation time.
func (s *Store) Validate() error {
	if s.tagByID == nil {
		s.index()
	}
	for _, t := range s.Tags {
		if t.ID == "" {
			return &ConfigError{Table: "intent_tags", Reason: "rule with empty id"}
		}
		if len(t.Required) == 0 && len(t.Keywords) == 0 {
			return &ConfigError{Table: "intent_tags", Rule: t.ID, Reason: "rule has neither required fields nor keywords"}
		}
		for _, f := range t.Required {
			if !KnownField(f) {
				return &ConfigError{Table: "intent_tags", Rule: t.ID, Field: f, Reason: "unknown canonical-form field"}
			}
		}
		if t.Parent != "" {
			if _, ok := s.tagByID[t.Parent]; !ok {
				return &ConfigError{Table: "intent_tags", Rule: t.ID, Reason: fmt.Sprintf("parent %q not declared", t.Parent)}
			}
		}
	}
	// Parent chains must be acyclic.
	for _, t := range s.Tags {
		seen := map[string]bool{t.ID: true}
		for cur := t.Parent; cur != ""; {
			if seen[cur] {
				return &ConfigError{Table: "intent_tags", Rule: t.ID, Reason: "cyclic parent chain"}
			}
			seen[cur] = true
			next, ok := s.tagByID[cur]
			if !ok {
				break
			}
			cur = s.Tags[next].Parent
		}
	}
	for _, p := range s.Patterns {
		if p.ID == "" {
			return &ConfigError{Table: "structural_patterns", Reason: "rule with empty id"}
		}
		if len(p.Indicators) == 0 {
			return &ConfigError{Table: "structural_patterns", Rule: p.ID, Reason: "rule has no indicators"}
		}
	}
	for _, g := range s.Synonyms {
		if g.Key == "" {
			return &ConfigError{Table: "synonyms", Reason: "group with empty key"}
		}
		if len(g.Synonyms) == 0 {
			return &ConfigError{Table: "synonyms", Rule: g.Key, Reason: "group has no synonyms"}
		}
	}
	return nil
}

// RequiredChain returns the union of a tag's required fields and those of its
// ancestors, in stable order (ancestors first, duplicates removed). A child
// tag cannot match unless its whole chain is satisfied.
func (s *Store) RequiredChain(id string) []string {
	var chain []TagRule
	for cur := id; cur != ""; {
		i, ok := s.tagByID[cur]
		if !ok {
			break
		}
		chain = append(chain, s.Tags[i])
		cur = s.Tags[i].Parent
		if len(chain) > len(s.Tags) { // cycle guard; Validate rejects these
			break
		}
	}
	seen := make(map[string]bool)
	var out []string
	for i := len(chain) - 1; i >= 0; i-- {
		for _, f := range chain[i].Required {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out
}

// ConfigError reports a vocabulary authoring bug. It is raised at load or
// construction time and is fatal to that load.
type ConfigError struct {
	Table  string // which rule table
	Rule   string // offending rule id, if known
	Field  string // offending field name, if applicable
	Reason string
}

func (e *ConfigError) Error() string {
	msg := "vocab: " + e.Table
	if e.Rule != "" {
		msg += "/" + e.Rule
	}
	if e.Field != "" {
		msg += " field " + e.Field
	}
	return msg + ": " + e.Reason
}
