package vocab

// Default returns the built-in vocabulary. It is constructed fresh on every
// call so callers can never mutate shared state; the pipeline holds exactly
// one Store per process.
//
// Tag keywords are matched against the canonical descriptor (role,
// constraint, goal and pattern identifiers), not against raw text, so two
// phrasings that canonicalize identically always tag identically. Keywords
// are therefore written in the identifier vocabulary. Declaration order is
// the tie-break order everywhere downstream; edit with care.
func Default() *Store {
	s, err := NewStore(defaultTags(), defaultPatterns(), defaultSynonyms())
	if err != nil {
		// The built-in tables are covered by the test suite; a failure
		// here is a programming error, not a runtime condition.
		panic(err)
	}
	return s
}

func defaultTags() []TagRule {
	return []TagRule{
		{
			ID:          "persona_adoption",
			Description: "the prompt asks the model to assume a named persona",
			Required:    []string{FieldRoles},
			Keywords:    []string{"roleplay", "persona", "character"},
		},
		{
			ID:          "character_impersonation",
			Description: "persona adoption bound to behavioral constraints such as a catchphrase",
			Required:    []string{FieldConstraints},
			Keywords:    []string{"catchphrase", "impersonation", "mannerisms"},
			Parent:      "persona_adoption",
		},
		{
			ID:          "strict_rules",
			Description: "the prompt imposes hard behavioral rules",
			Required:    []string{FieldConstraints},
			Keywords:    []string{"strict_behavior", "prohibition", "requirement", "exclusivity"},
		},
		{
			ID:          "summarization",
			Description: "the prompt asks for a condensed version of some content",
			Required:    []string{FieldGoal},
			Keywords:    []string{"summarization", "summary"},
		},
		{
			ID:          "data_extraction",
			Description: "the prompt asks for structured data pulled out of text",
			Required:    []string{FieldGoal},
			Keywords:    []string{"extraction", "parsing"},
		},
		{
			ID:          "creative_generation",
			Description: "the prompt asks for new content to be written",
			Required:    []string{FieldGoal},
			Keywords:    []string{"generation", "creation"},
		},
		{
			ID:          "question_answering",
			Description: "the prompt asks for an answer or explanation",
			Required:    []string{FieldGoal},
			Keywords:    []string{"question_answering", "explanation"},
		},
		{
			ID:          "format_directive",
			Description: "the prompt dictates an output shape",
			Required:    []string{FieldConstraints},
			Keywords:    []string{"list_output", "template_fill", "exclusivity"},
		},
		{
			ID:          "dialogue_dataset",
			Description: "multi-turn conversation data rather than a single instruction",
			Required:    []string{FieldKind, FieldInteractionPattern},
			Keywords:    []string{"dataset", "structured_turn", "example_based"},
		},
	}
}

func defaultPatterns() []PatternRule {
	return []PatternRule{
		{
			ID:          "dialogue_structure",
			Description: "explicit conversation turns",
			Indicators:  []string{"user:", "assistant:", "human:", "ai:"},
		},
		{
			ID:          "example_driven",
			Description: "few-shot style examples",
			Indicators:  []string{"example:", "input:", "output:"},
		},
		{
			ID:          "list_output",
			Description: "list-shaped output requested",
			Indicators:  []string{"bullet", "numbered", "list of"},
		},
		{
			ID:          "template_fill",
			Description: "fill-in-the-blanks template",
			Indicators:  []string{"template", "placeholder", "fill in"},
		},
		{
			ID:          "conditional_branching",
			Description: "behavior depends on runtime conditions",
			Indicators:  []string{"if the user", "when asked", "otherwise", "in that case"},
		},
	}
}

func defaultSynonyms() []SynonymGroup {
	return []SynonymGroup{
		{Key: "act as", Synonyms: []string{"you are", "pretend to be", "play the role of", "behave as", "take on the role of"}},
		{Key: "catchphrase", Synonyms: []string{"signature phrase", "catch phrase", "signature line", "trademark phrase"}},
		{Key: "never", Synonyms: []string{"do not ever", "under no circumstances", "at no point"}},
		{Key: "must", Synonyms: []string{"have to", "need to", "are required to"}},
		{Key: "summarize", Synonyms: []string{"sum up", "tl;dr", "give a summary of"}},
		{Key: "extract", Synonyms: []string{"pull out", "dig out"}},
	}
}
