package canon

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/intentlab/intentprint/vocab"
)

// Canonicalizer turns raw text into a Form using the rule tables of a single
// immutable vocabulary. It is safe for concurrent use; all state is compiled
// once in New.
type Canonicalizer struct {
	store *vocab.Store
	syn   []synRule
}

// synRule is one compiled synonym rewrite: any member phrase matching re is
// replaced by the group's canonical key.
type synRule struct {
	re  *regexp.Regexp
	key string
}

// New builds a Canonicalizer over the given vocabulary.
func New(store *vocab.Store) *Canonicalizer {
	c := &Canonicalizer{store: store}
	for _, g := range store.Synonyms {
		// Longest member first so "take on the role of" wins over a
		// shorter overlapping phrase in the same group.
		members := append([]string(nil), g.Synonyms...)
		sort.Slice(members, func(i, j int) bool { return len(members[i]) > len(members[j]) })
		for _, m := range members {
			re, err := regexp.Compile(`\b` + regexp.QuoteMeta(strings.ToLower(m)) + `\b`)
			if err != nil {
				continue
			}
			c.syn = append(c.syn, synRule{re: re, key: strings.ToLower(g.Key)})
		}
	}
	return c
}

// Canonicalize extracts the canonical intent descriptor from text. It never
// fails: text with no detectable structure yields a Form with empty role and
// constraint sets and Goal "unknown".
func (c *Canonicalizer) Canonicalize(text string) Form {
	truncated := truncate(text, MaxTokens)
	normalized := c.normalize(truncated)
	sentences := splitSentences(normalized)

	roles := c.extractRoles(normalized)
	constraints := extractConstraints(sentences)
	goal, goalHits := inferGoal(normalized)
	patterns := c.matchPatterns(normalized)
	pattern := classifyPattern(normalized, len(sentences))

	structure := len(roles) + len(constraints) + goalHits + len(patterns)

	return Form{
		Kind:               classifyKind(normalized, sentences),
		Roles:              roles,
		Constraints:        constraints,
		Goal:               goal,
		InteractionPattern: pattern,
		Patterns:           patterns,
		Metadata: Metadata{
			LengthBucket:     lengthBucket(len(strings.Fields(normalized))),
			ComplexityBucket: complexityBucket(structure),
		},
	}
}

// Normalize lowercases, strips punctuation noise, collapses whitespace,
// applies synonym-group substitution and rewrites capitalized persona spans
// into role-assignment clauses. It is idempotent: normalizing already
// normalized text is a no-op, which is what makes "Act as X" and "You are X"
// canonicalize identically and keeps every later stage off the raw text.
func (c *Canonicalizer) Normalize(text string) string {
	return c.normalize(truncate(text, MaxTokens))
}

func (c *Canonicalizer) normalize(text string) string {
	spans := properNounRe.FindAllString(text, -1)
	s := strings.ToLower(text)
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return r
		case r == '.' || r == '!' || r == '?' || r == ':' || r == ';' || r == '\'' || r == '-':
			return r
		default:
			return ' '
		}
	}, s)
	s = strings.Join(strings.Fields(s), " ")
	for _, rule := range c.syn {
		s = rule.re.ReplaceAllString(s, rule.key)
	}
	return c.assignPersonas(s, spans)
}

// truncate caps text at n whitespace-separated tokens.
func truncate(text string, n int) string {
	fields := strings.Fields(text)
	if len(fields) <= n {
		return text
	}
	return strings.Join(fields[:n], " ")
}

// sentenceRe captures runs of non-terminator text with an optional trailing
// terminator, so constraint extraction can see how each sentence ended.
var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]?`)

// sentence is one normalized sentence plus its terminator ("" when the text
// just ran out).
type sentence struct {
	text string
	term string
}

func splitSentences(normalized string) []sentence {
	var out []sentence
	for _, m := range sentenceRe.FindAllString(normalized, -1) {
		term := ""
		body := m
		if n := len(m); n > 0 {
			switch m[n-1] {
			case '.', '!', '?':
				term = m[n-1:]
				body = m[:n-1]
			}
		}
		body = strings.TrimSpace(body)
		if body == "" {
			continue
		}
		out = append(out, sentence{text: body, term: term})
	}
	return out
}

// sortedSet deduplicates and sorts, returning nil for the empty set.
func sortedSet(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
