package score

import (
	"context"
	"runtime"
	"sort"
	"sync"
)

// PairReport is one scored pair from a batch run. I and J index into the
// input slice, always with I < J.
type PairReport struct {
	I      int `json:"i"`
	J      int `json:"j"`
	Report `json:"report"`
}

// Batch scores every unordered pair of texts and returns the pairs whose
// composite score is at least threshold, sorted by score descending (index
// order breaks ties). workers <= 0 uses one worker per CPU.
//
// Each text is analyzed once up front; only the pair arithmetic fans out.
// Workers write to disjoint slots of a preallocated result slice, so no
// locking is needed on the hot path.
func (s *Scorer) Batch(ctx context.Context, texts []string, threshold float64, workers int) []PairReport {
	n := len(texts)
	if n < 2 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	triples := make([]Triple, n)
	for i, t := range texts {
		triples[i] = s.Analyze(t)
	}

	type job struct{ i, j, slot int }
	total := n * (n - 1) / 2
	jobs := make(chan job, workers)
	results := make([]PairReport, total)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for jb := range jobs {
				results[jb.slot] = PairReport{
					I:      jb.i,
					J:      jb.j,
					Report: s.Score(ctx, triples[jb.i], triples[jb.j]),
				}
			}
		}()
	}

	slot := 0
feed:
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			select {
			case <-ctx.Done():
				break feed
			case jobs <- job{i: i, j: j, slot: slot}:
				slot++
			}
		}
	}
	close(jobs)
	wg.Wait()

	// slot counts the pairs actually dispatched; on cancellation the tail
	// of results is zero-valued and excluded here.
	kept := results[:slot]
	out := make([]PairReport, 0, len(kept))
	for _, r := range kept {
		if r.Score >= threshold {
			out = append(out, r)
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
