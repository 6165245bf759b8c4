package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/intentlab/intentprint/score"
	"github.com/intentlab/intentprint/semantic"
	"github.com/intentlab/intentprint/vocab"
)

// Shared lipgloss styles for report rendering.
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#58a6ff"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8b949e"))
	highStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f85149"))
	mediumStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#d29922"))
	lowStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3fb950"))
	snippetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#484f58")).Italic(true)
)

// dataDir returns ~/.intentprint/, creating it if needed.
func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("failed to get home directory: %v", err)
	}
	dir := filepath.Join(home, ".intentprint")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("failed to create data directory: %v", err)
	}
	return dir
}

// dbPath returns the path to the report database.
func dbPath() string {
	return filepath.Join(dataDir(), "reports.db")
}

// loadVocab loads the vocabulary from the -vocab flag value, the
// INTENTPRINT_VOCAB directory, or the builtin tables, in that order.
func loadVocab(dir string) *vocab.Store {
	if dir == "" {
		dir = os.Getenv("INTENTPRINT_VOCAB")
	}
	if dir == "" {
		return vocab.Default()
	}
	store, err := vocab.LoadDir(dir)
	if err != nil {
		log.Fatalf("failed to load vocabulary from %s: %v", dir, err)
	}
	return store
}

// newScorer builds a scorer, wiring the semantic filter when requested and an
// embedding backend is reachable. threshold moves the lower bound of the
// ambiguous band the filter acts on.
func newScorer(vocabDir string, withSemantic bool, threshold float64) *score.Scorer {
	store := loadVocab(vocabDir)

	var opts []score.Option
	if withSemantic {
		if embedder := semantic.NewEmbedderFromEnv(); embedder != nil {
			opts = append(opts,
				score.WithSemanticFilter(semantic.NewEmbeddingFilter(embedder)),
				score.WithEmbeddingThreshold(threshold))
		} else {
			fmt.Fprintln(os.Stderr, "note: no embedding backend reachable, semantic filter disabled")
		}
	}

	scorer, err := score.New(store, opts...)
	if err != nil {
		log.Fatalf("invalid vocabulary: %v", err)
	}
	return scorer
}

// verdictStyle picks the render style for a verdict label.
func verdictStyle(verdict string) lipgloss.Style {
	switch verdict {
	case score.VerdictHigh:
		return highStyle
	case score.VerdictMedium:
		return mediumStyle
	}
	return lowStyle
}

// renderReport prints a scored report in the shared layout.
func renderReport(r score.Report) {
	fmt.Printf("  %s %s  %s %.3f\n",
		labelStyle.Render("verdict:"), verdictStyle(r.Verdict).Render(r.Verdict),
		labelStyle.Render("score:"), r.Score)
	fmt.Printf("  %s structural %.3f  tag_overlap %.3f  pattern_match %.3f\n",
		labelStyle.Render("breakdown:"),
		r.Breakdown.Structural, r.Breakdown.TagOverlap, r.Breakdown.PatternMatch)

	if len(r.Explanation.MatchedTags) > 0 {
		fmt.Printf("  %s %s\n", labelStyle.Render("shared tags:"),
			strings.Join(r.Explanation.MatchedTags, ", "))
	}
	if len(r.Explanation.MatchedPatterns) > 0 {
		fmt.Printf("  %s %s\n", labelStyle.Render("shared patterns:"),
			strings.Join(r.Explanation.MatchedPatterns, ", "))
	}
	for _, s := range r.Explanation.KeySimilarities {
		fmt.Printf("    + %s\n", s)
	}
	for _, d := range r.Explanation.KeyDifferences {
		fmt.Printf("    - %s\n", d)
	}
}

// truncate shortens a string to max runes, appending "..." if truncated.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
