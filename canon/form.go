// Package canon converts free-form prompt text into a canonical intent
// descriptor. Canonicalization is the first pipeline stage and the only stage
// that reads raw text: everything downstream (fingerprinting, tagging,
// scoring) is derived from the Form alone.
//
// Canonicalize is total. Any input, including the empty string, non-ASCII
// text, or pathologically long text, produces a well-defined Form; input is
// truncated at MaxTokens tokens before processing.
package canon

// MaxTokens is the hard ceiling on input size. Text beyond this many
// whitespace-separated tokens is dropped before any extraction runs.
const MaxTokens = 2048

// Kind values.
const (
	KindPrompt      = "prompt"
	KindDataset     = "dataset"
	KindInstruction = "instruction"
)

// Interaction pattern labels, in classification priority order.
const (
	PatternStructuredTurn = "structured_turn"
	PatternExampleBased   = "example_based"
	PatternSingleShot     = "single_shot"
	PatternUnstructured   = "unstructured"
)

// GoalUnknown is the sentinel goal when no goal keyword matched.
const GoalUnknown = "unknown"

// Length bucket cut points, in tokens.
const (
	shortMaxTokens  = 50
	mediumMaxTokens = 200
)

// Length bucket labels.
const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

// Complexity bucket cut points over the raw structure count
// (roles + constraints + distinct goal-keyword hits + matched patterns).
const (
	simpleMaxStructure   = 2
	moderateMaxStructure = 5
)

// Complexity bucket labels.
const (
	ComplexitySimple   = "simple"
	ComplexityModerate = "moderate"
	ComplexityComplex  = "complex"
)

// Metadata holds the derived scalar descriptors of a Form.
type Metadata struct {
	LengthBucket     string `json:"length_bucket"`
	ComplexityBucket string `json:"complexity_bucket"`
}

// Form is the canonical intent descriptor extracted from one text.
//
// Roles, Constraints and Patterns are deduplicated and sorted so that equal
// intents produce byte-identical Forms regardless of phrasing order. A Form
// is immutable once produced.
type Form struct {
	Kind               string   `json:"kind"`
	Roles              []string `json:"roles"`
	Constraints        []string `json:"constraints"`
	Goal               string   `json:"goal"`
	InteractionPattern string   `json:"interaction_pattern"`
	Patterns           []string `json:"patterns"` // matched structural-pattern rule ids
	Metadata           Metadata `json:"metadata"`
}

// HasRoles reports whether any role was extracted.
func (f Form) HasRoles() bool { return len(f.Roles) > 0 }

// HasConstraints reports whether any constraint was extracted.
func (f Form) HasConstraints() bool { return len(f.Constraints) > 0 }

// Field returns whether the named canonical-form field is populated. Field
// names are the ones tag rules may list as required; Goal counts as populated
// only when a goal was actually inferred.
func (f Form) Field(name string) bool {
	switch name {
	case "roles":
		return len(f.Roles) > 0
	case "constraints":
		return len(f.Constraints) > 0
	case "goal":
		return f.Goal != "" && f.Goal != GoalUnknown
	case "interaction_pattern":
		return f.InteractionPattern != ""
	case "kind":
		return f.Kind != ""
	}
	return false
}
