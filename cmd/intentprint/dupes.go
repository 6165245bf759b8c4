package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/intentlab/intentprint/internal/dataset"
	"github.com/intentlab/intentprint/internal/report"
	"github.com/intentlab/intentprint/score"
	"github.com/intentlab/intentprint/semantic"
)

func runDupes() {
	fs := flag.NewFlagSet("dupes", flag.ExitOnError)
	vocabDir := fs.String("vocab", "", "Vocabulary directory (default: builtin tables)")
	threshold := fs.Float64("threshold", score.MediumThreshold, "Minimum score to report a pair")
	workers := fs.Int("workers", 0, "Scoring workers (default: NumCPU)")
	limit := fs.Int("limit", 0, "Only scan the first N conversations (0 = all)")
	top := fs.Int("top", 20, "Pairs to print")
	save := fs.Bool("save", false, "Persist the run to the report database")
	withSemantic := fs.Bool("semantic", false, "Refine ambiguous scores with embeddings")
	embThreshold := fs.Float64("embedding-threshold", score.AmbiguousLow,
		"Lowest composite score the semantic filter refines")
	prefilter := fs.Bool("prefilter", false, "Use embedding index to preselect candidate pairs")
	fs.Parse(os.Args[1:])

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: intentprint dupes [flags] <dataset.json>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	convs, err := dataset.Load(path)
	if err != nil {
		log.Fatalf("load dataset: %v", err)
	}
	if *limit > 0 && *limit < len(convs) {
		convs = convs[:*limit]
	}
	texts := dataset.UserTexts(convs)
	fmt.Printf("Loaded %d conversations from %s\n", len(texts), path)

	scorer := newScorer(*vocabDir, *withSemantic, *embThreshold)
	ctx := context.Background()

	t0 := time.Now()
	var results []score.PairReport
	if *prefilter {
		results = prefilteredScan(ctx, scorer, texts, *threshold)
	} else {
		results = scorer.Batch(ctx, texts, *threshold, *workers)
	}
	dur := time.Since(t0)

	fmt.Printf("Scored in %v: %d pairs at or above %.2f\n\n",
		dur.Round(time.Millisecond), len(results), *threshold)

	shown := *top
	if shown > len(results) {
		shown = len(results)
	}
	for _, r := range results[:shown] {
		fmt.Printf("%s #%d vs #%d\n",
			headerStyle.Render(fmt.Sprintf("[%.3f]", r.Score)), r.I, r.J)
		fmt.Printf("  A: %s\n", snippetStyle.Render(truncate(texts[r.I], 70)))
		fmt.Printf("  B: %s\n", snippetStyle.Render(truncate(texts[r.J], 70)))
		renderReport(r.Report)
		fmt.Println()
	}

	if *save {
		st, err := report.Open(dbPath())
		if err != nil {
			log.Fatalf("open report database: %v", err)
		}
		defer st.Close()
		runID, err := st.SaveRun(path, *threshold, texts, results)
		if err != nil {
			log.Fatalf("save run: %v", err)
		}
		fmt.Printf("Saved run %s (%d pairs). Browse with 'intentprint review'.\n", runID, len(results))
	}
}

// prefilteredScan uses the embedding index to preselect semantically close
// candidate pairs, then scores only those. Falls back to the exhaustive scan
// when no embedding backend is reachable.
func prefilteredScan(ctx context.Context, scorer *score.Scorer, texts []string, threshold float64) []score.PairReport {
	embedder := semantic.NewEmbedderFromEnv()
	if embedder == nil {
		fmt.Fprintln(os.Stderr, "note: no embedding backend reachable, scanning all pairs")
		return scorer.Batch(ctx, texts, threshold, 0)
	}

	idx := semantic.NewIndex(embedder, semantic.DefaultCandidateThreshold)
	if err := idx.IndexTexts(ctx, texts); err != nil {
		fmt.Fprintf(os.Stderr, "note: embedding index failed (%v), scanning all pairs\n", err)
		return scorer.Batch(ctx, texts, threshold, 0)
	}

	candidates := idx.CandidatePairs()
	fmt.Printf("Prefilter: %d candidate pairs of %d total\n",
		len(candidates), len(texts)*(len(texts)-1)/2)

	triples := make(map[int]score.Triple)
	triple := func(i int) score.Triple {
		t, ok := triples[i]
		if !ok {
			t = scorer.Analyze(texts[i])
			triples[i] = t
		}
		return t
	}

	var out []score.PairReport
	for _, pair := range candidates {
		i, j := pair[0], pair[1]
		r := scorer.Score(ctx, triple(i), triple(j))
		if r.Score >= threshold {
			out = append(out, score.PairReport{I: i, J: j, Report: r})
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Score != out[b].Score {
			return out[a].Score > out[b].Score
		}
		if out[a].I != out[b].I {
			return out[a].I < out[b].I
		}
		return out[a].J < out[b].J
	})
	return out
}
