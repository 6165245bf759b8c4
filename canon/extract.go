package canon

import (
	"regexp"
	"strings"
)

// roleRegexps match role-assignment phrases on normalized text. The synonym
// table already rewrites most variants ("you are", "pretend to be") onto
// "act as", but the variants stay listed here so custom vocabularies without
// that synonym group still extract roles.
var roleRegexps = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:act as|you are|pretend to be|playing)(?: a| an| the)? ([a-z][a-z0-9'-]*)`),
	regexp.MustCompile(`\brole(?:play)? as(?: a| an| the)? ([a-z][a-z0-9'-]*)`),
	regexp.MustCompile(`\bpersona: ?([a-z][a-z0-9'-]*)`),
}

// properNounRe finds capitalized multi-word spans ("Sheldon Cooper") before
// lowercasing; single capitalized words are too noisy to treat as personas.
var properNounRe = regexp.MustCompile(`\b[A-Z][a-z]+(?: [A-Z][a-z]+)+\b`)

// assignPersonas rewrites capitalized persona spans, captured from the text
// before lowercasing, into role-assignment clauses. Capitalization is the
// only signal normalization destroys, so the rewrite has to happen here for
// role extraction to read normalized text alone. Spans already covered by a
// role-assignment phrase are left as they are.
func (c *Canonicalizer) assignPersonas(normalized string, spans []string) string {
	if len(spans) == 0 {
		return normalized
	}
	assigned := make(map[string]bool)
	for _, re := range roleRegexps {
		for _, m := range re.FindAllStringSubmatch(normalized, -1) {
			assigned[m[1]] = true
		}
	}
	for _, span := range spans {
		lower := strings.ToLower(span)
		first := strings.Fields(lower)[0]
		if assigned[first] {
			continue
		}
		rewritten := strings.Replace(normalized, lower, "act as "+lower, 1)
		if rewritten == normalized {
			continue
		}
		normalized = rewritten
		assigned[first] = true
	}
	return normalized
}

// extractRoles pulls role identifiers from role-assignment phrases in the
// normalized text. Each match is reduced to its first token and
// synonym-normalized.
func (c *Canonicalizer) extractRoles(normalized string) []string {
	var roles []string
	for _, re := range roleRegexps {
		for _, m := range re.FindAllStringSubmatch(normalized, -1) {
			roles = append(roles, c.normalizeRole(m[1]))
		}
	}
	return sortedSet(roles)
}

// normalizeRole rewrites a role token to its synonym-group key when it is a
// member of one.
func (c *Canonicalizer) normalizeRole(token string) string {
	token = strings.Trim(token, "'-")
	for _, g := range c.store.Synonyms {
		for _, m := range g.Synonyms {
			if strings.ToLower(m) == token {
				return strings.ToLower(g.Key)
			}
		}
	}
	return token
}

// Controlled constraint vocabulary. Each sentence yields at most one
// constraint; detection order is the priority order below and unrecognized
// clauses are dropped, never invented.
const (
	ConstraintCatchphrase = "catchphrase_required"
	ConstraintProhibition = "prohibition"
	ConstraintRequirement = "requirement"
	ConstraintStrict      = "strict_behavior"
	ConstraintExclusivity = "exclusivity"
)

var (
	prohibitionMarkers = []string{"never", "cannot", "can not", "forbidden", "should not", "do not", "don't"}
	requirementMarkers = []string{"must", "required", "require"}
	strictMarkers      = []string{"always", "strictly"}
	exclusivityMarkers = []string{"only"}
)

func extractConstraints(sentences []sentence) []string {
	var out []string
	for _, s := range sentences {
		if id := constraintFor(s); id != "" {
			out = append(out, id)
		}
	}
	return sortedSet(out)
}

func constraintFor(s sentence) string {
	// A demanded catchphrase shows up either literally ("use the
	// catchphrase X") or as an exclaimed imperative ("Always use Bazinga!").
	if containsWord(s.text, "catchphrase") || (s.term == "!" && containsWord(s.text, "use")) {
		return ConstraintCatchphrase
	}
	if containsAnyWord(s.text, prohibitionMarkers) {
		return ConstraintProhibition
	}
	if containsAnyWord(s.text, requirementMarkers) {
		return ConstraintRequirement
	}
	if containsAnyWord(s.text, strictMarkers) {
		return ConstraintStrict
	}
	if containsAnyWord(s.text, exclusivityMarkers) {
		return ConstraintExclusivity
	}
	return ""
}

// goalEntry is one goal in the closed goal vocabulary. Declaration order is
// the tie-break order for the keyword vote.
type goalEntry struct {
	id       string
	keywords []string
}

var goalVocabulary = []goalEntry{
	{"roleplay", []string{"act as", "roleplay", "persona", "character", "playing"}},
	{"summarization", []string{"summarize", "summary", "condense", "recap"}},
	{"generation", []string{"write", "create", "generate", "compose"}},
	{"question_answering", []string{"answer", "explain", "respond"}},
	{"extraction", []string{"extract", "parse", "identify"}},
}

// inferGoal votes each goal by its distinct matched keywords. Most hits wins,
// ties go to the earlier declaration, zero hits yields GoalUnknown. The total
// distinct-hit count feeds the complexity bucket.
func inferGoal(normalized string) (goal string, totalHits int) {
	best := -1
	goal = GoalUnknown
	for _, g := range goalVocabulary {
		hits := 0
		for _, kw := range g.keywords {
			if containsPhrase(normalized, kw) {
				hits++
			}
		}
		totalHits += hits
		if hits > best && hits > 0 {
			best = hits
			goal = g.id
		}
	}
	return goal, totalHits
}

var turnMarkers = []string{"user:", "assistant:", "human:", "ai:"}
var exampleMarkers = []string{"example:", "input:"}

// classifyPattern picks the interaction-pattern label by first-match priority:
// explicit turns, then few-shot examples, then single-sentence instructions,
// else unstructured. Empty text is unstructured.
func classifyPattern(normalized string, sentenceCount int) string {
	for _, m := range turnMarkers {
		if strings.Contains(normalized, m) {
			return PatternStructuredTurn
		}
	}
	for _, m := range exampleMarkers {
		if strings.Contains(normalized, m) {
			return PatternExampleBased
		}
	}
	if sentenceCount == 1 {
		return PatternSingleShot
	}
	return PatternUnstructured
}

// datasetMarkerThreshold: more than this many example/input markers means the
// text is a dataset rather than a single prompt.
const datasetMarkerThreshold = 2

var imperativeVerbs = map[string]bool{
	"summarize": true, "write": true, "create": true, "list": true,
	"extract": true, "explain": true, "answer": true, "translate": true,
	"generate": true, "describe": true, "classify": true, "rewrite": true,
}

func classifyKind(normalized string, sentences []sentence) string {
	markers := 0
	for _, m := range exampleMarkers {
		markers += strings.Count(normalized, m)
	}
	if markers > datasetMarkerThreshold {
		return KindDataset
	}
	if len(sentences) == 1 {
		fields := strings.Fields(sentences[0].text)
		if len(fields) > 0 && imperativeVerbs[fields[0]] {
			return KindInstruction
		}
	}
	return KindPrompt
}

// matchPatterns returns the ids of every vocabulary pattern rule with at
// least one indicator present in the normalized text.
func (c *Canonicalizer) matchPatterns(normalized string) []string {
	var out []string
	for _, p := range c.store.Patterns {
		for _, ind := range p.Indicators {
			if containsPhrase(normalized, strings.ToLower(ind)) {
				out = append(out, p.ID)
				break
			}
		}
	}
	return sortedSet(out)
}

func lengthBucket(tokens int) string {
	switch {
	case tokens < shortMaxTokens:
		return LengthShort
	case tokens < mediumMaxTokens:
		return LengthMedium
	default:
		return LengthLong
	}
}

func complexityBucket(structure int) string {
	switch {
	case structure < simpleMaxStructure:
		return ComplexitySimple
	case structure < moderateMaxStructure:
		return ComplexityModerate
	default:
		return ComplexityComplex
	}
}

// containsPhrase matches a keyword against text: plain substring match when
// the keyword carries punctuation (turn markers like "user:"), whole-word
// match otherwise so "bullet" never matches inside "bulletin".
func containsPhrase(text, phrase string) bool {
	for _, r := range phrase {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == ' ') {
			return strings.Contains(text, phrase)
		}
	}
	return containsWord(text, phrase)
}

func containsAnyWord(text string, words []string) bool {
	for _, w := range words {
		if containsWord(text, w) {
			return true
		}
	}
	return false
}

// containsWord reports whether text contains word (which may be a multi-word
// phrase) bounded by non-alphanumeric characters on both sides.
func containsWord(text, word string) bool {
	idx := strings.Index(text, word)
	for idx >= 0 {
		leftOK := idx == 0 || !isAlphaNum(text[idx-1])
		end := idx + len(word)
		rightOK := end >= len(text) || !isAlphaNum(text[end])
		if leftOK && rightOK {
			return true
		}
		next := strings.Index(text[idx+1:], word)
		if next < 0 {
			return false
		}
		idx = idx + 1 + next
	}
	return false
}

func isAlphaNum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
