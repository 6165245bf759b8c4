package vocab

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// File names expected by LoadDir.
const (
	TagsFile     = "intent_tags.json"
	PatternsFile = "patterns.json"
	SynonymsFile = "synonyms.json"
)

// tagRecord mirrors the on-disk tag rule shape:
//
//	{"tag_id": {"description": "...", "rules": {"required": [...], "keywords": [...]}, "parent": null}}
type tagRecord struct {
	Description string `json:"description"`
	Rules       struct {
		Required []string `json:"required"`
		Keywords []string `json:"keywords"`
	} `json:"rules"`
	Parent *string `json:"parent"`
}

// patternRecord mirrors the on-disk pattern rule shape.
type patternRecord struct {
	Description string   `json:"description"`
	Indicators  []string `json:"indicators"`
}

// LoadDir loads the three vocabulary files from dir and returns a validated
// Store. Missing files fall back to the built-in defaults for that table, so a
// vocabulary directory may override only one table.
func LoadDir(dir string) (*Store, error) {
	def := Default()
	tags, patterns, synonyms := def.Tags, def.Patterns, def.Synonyms

	if data, err := readOptional(filepath.Join(dir, TagsFile)); err != nil {
		return nil, err
	} else if data != nil {
		tags, err = ParseTags(data)
		if err != nil {
			return nil, err
		}
	}
	if data, err := readOptional(filepath.Join(dir, PatternsFile)); err != nil {
		return nil, err
	} else if data != nil {
		patterns, err = ParsePatterns(data)
		if err != nil {
			return nil, err
		}
	}
	if data, err := readOptional(filepath.Join(dir, SynonymsFile)); err != nil {
		return nil, err
	} else if data != nil {
		synonyms, err = ParseSynonyms(data)
		if err != nil {
			return nil, err
		}
	}
	return NewStore(tags, patterns, synonyms)
}

func readOptional(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("vocab: read %s: %w", path, err)
	}
	return data, nil
}

// ParseTags decodes an intent-tag table, preserving declaration order.
func ParseTags(data []byte) ([]TagRule, error) {
	var rules []TagRule
	err := eachKey(data, "intent_tags", func(id string, raw json.RawMessage) error {
		var rec tagRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return &ConfigError{Table: "intent_tags", Rule: id, Reason: "malformed rule record: " + err.Error()}
		}
		if len(rec.Rules.Required) == 0 && len(rec.Rules.Keywords) == 0 {
			return &ConfigError{Table: "intent_tags", Rule: id, Reason: "missing rules.required and rules.keywords"}
		}
		parent := ""
		if rec.Parent != nil {
			parent = *rec.Parent
		}
		rules = append(rules, TagRule{
			ID:          id,
			Description: rec.Description,
			Required:    rec.Rules.Required,
			Keywords:    rec.Rules.Keywords,
			Parent:      parent,
		})
		return nil
	})
	return rules, err
}

// ParsePatterns decodes a structural-pattern table, preserving declaration order.
func ParsePatterns(data []byte) ([]PatternRule, error) {
	var rules []PatternRule
	err := eachKey(data, "structural_patterns", func(id string, raw json.RawMessage) error {
		var rec patternRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return &ConfigError{Table: "structural_patterns", Rule: id, Reason: "malformed rule record: " + err.Error()}
		}
		if len(rec.Indicators) == 0 {
			return &ConfigError{Table: "structural_patterns", Rule: id, Reason: "missing indicators"}
		}
		rules = append(rules, PatternRule{ID: id, Description: rec.Description, Indicators: rec.Indicators})
		return nil
	})
	return rules, err
}

// ParseSynonyms decodes a synonym table, preserving declaration order.
func ParseSynonyms(data []byte) ([]SynonymGroup, error) {
	var groups []SynonymGroup
	err := eachKey(data, "synonyms", func(key string, raw json.RawMessage) error {
		var members []string
		if err := json.Unmarshal(raw, &members); err != nil {
			return &ConfigError{Table: "synonyms", Rule: key, Reason: "group is not a string array: " + err.Error()}
		}
		if len(members) == 0 {
			return &ConfigError{Table: "synonyms", Rule: key, Reason: "group has no synonyms"}
		}
		groups = append(groups, SynonymGroup{Key: key, Synonyms: members})
		return nil
	})
	return groups, err
}

// eachKey walks a top-level JSON object invoking fn for every key in the
// order it appears in the file. encoding/json's map decoding would lose that
// order, and declaration order is the tie-break contract for the whole
// pipeline, so the object is walked token by token instead.
func eachKey(data []byte, table string, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return &ConfigError{Table: table, Reason: "invalid JSON: " + err.Error()}
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return &ConfigError{Table: table, Reason: "top level is not an object"}
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return &ConfigError{Table: table, Reason: "invalid JSON: " + err.Error()}
		}
		key, ok := keyTok.(string)
		if !ok {
			return &ConfigError{Table: table, Reason: "non-string key"}
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return &ConfigError{Table: table, Rule: key, Reason: "invalid JSON value: " + err.Error()}
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}
	return nil
}
