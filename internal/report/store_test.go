package report

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/intentlab/intentprint/score"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "reports.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleReports() []score.PairReport {
	return []score.PairReport{
		{
			I: 0, J: 1,
			Report: score.Report{
				Score:     0.93,
				Verdict:   score.VerdictHigh,
				Breakdown: score.Breakdown{Structural: 1, TagOverlap: 1, PatternMatch: 0.65},
				Explanation: score.Explanation{
					MatchedTags:     []string{"persona_adoption"},
					KeySimilarities: []string{"same goal: roleplay"},
				},
			},
		},
		{
			I: 0, J: 2,
			Report: score.Report{
				Score:     0.61,
				Verdict:   score.VerdictMedium,
				Breakdown: score.Breakdown{Structural: 0.7, TagOverlap: 0.5, PatternMatch: 0.55},
			},
		},
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	st := openTestStore(t)
	texts := []string{"prompt a", "prompt b", "prompt c"}

	runID, err := st.SaveRun("sample.json", 0.6, texts, sampleReports())
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if runID == "" {
		t.Fatal("SaveRun returned empty run id")
	}

	runs, err := st.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	run := runs[0]
	if run.ID != runID || run.Dataset != "sample.json" || run.Threshold != 0.6 {
		t.Errorf("run = %+v", run)
	}
	if run.Texts != 3 || run.Pairs != 2 {
		t.Errorf("counts = %d texts / %d pairs, want 3/2", run.Texts, run.Pairs)
	}

	pairs, err := st.PairsForRun(runID)
	if err != nil {
		t.Fatalf("PairsForRun: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("pairs = %d, want 2", len(pairs))
	}
	// Ordered by score descending.
	if pairs[0].Score < pairs[1].Score {
		t.Errorf("pairs not ordered by score: %v, %v", pairs[0].Score, pairs[1].Score)
	}
	top := pairs[0]
	if top.I != 0 || top.J != 1 || top.Verdict != score.VerdictHigh {
		t.Errorf("top pair = %+v", top)
	}
	if top.Breakdown.PatternMatch != 0.65 {
		t.Errorf("Breakdown.PatternMatch = %v, want 0.65", top.Breakdown.PatternMatch)
	}
	if len(top.Explanation.MatchedTags) != 1 || top.Explanation.MatchedTags[0] != "persona_adoption" {
		t.Errorf("Explanation = %+v, want matched tag to round-trip", top.Explanation)
	}
	if top.SnippetA != "prompt a" || top.SnippetB != "prompt b" {
		t.Errorf("snippets = %q / %q", top.SnippetA, top.SnippetB)
	}
}

func TestSaveRunTruncatesSnippets(t *testing.T) {
	st := openTestStore(t)
	long := strings.Repeat("x", 500)

	runID, err := st.SaveRun("long.json", 0.5, []string{long, long},
		[]score.PairReport{{I: 0, J: 1, Report: score.Report{Score: 0.9, Verdict: score.VerdictHigh}}})
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	pairs, err := st.PairsForRun(runID)
	if err != nil {
		t.Fatalf("PairsForRun: %v", err)
	}
	if len(pairs[0].SnippetA) >= 500 {
		t.Errorf("snippet not truncated: %d bytes", len(pairs[0].SnippetA))
	}
}

func TestListRunsEmpty(t *testing.T) {
	st := openTestStore(t)
	runs, err := st.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("runs = %v, want none", runs)
	}
}
