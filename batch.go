package glossa

import (
	"context"
	"sync"
)

// BatchResult is the outcome of one item of a batch.
type BatchResult struct {
	Index  int     // Position of the input in the batch
	Input  string  // Raw input text
	Result *Result // Nil when Err is set
	Err    error
}

// TranslateBatch translates texts with up to workers concurrent backend
// calls. Results are returned in input order; a failing item does not stop
// the others. Cancelling ctx marks the remaining items with ctx.Err().
func (t *Translator) TranslateBatch(ctx context.Context, texts []string, workers int) []BatchResult {
	results := make([]BatchResult, len(texts))
	if len(texts) == 0 {
		return results
	}

	if workers <= 0 {
		workers = 1
	}
	if workers > len(texts) {
		workers = len(texts)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := t.Translate(ctx, texts[i])
				results[i] = BatchResult{Index: i, Input: texts[i], Result: res, Err: err}
			}
		}()
	}

	for i := range texts {
		select {
		case <-ctx.Done():
			results[i] = BatchResult{Index: i, Input: texts[i], Err: ctx.Err()}
			continue
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return results
}

// BatchStats summarizes a batch run.
type BatchStats struct {
	Total     int
	Succeeded int
	Cached    int
	Failed    int
	Reasons   map[FailureReason]int // Failure counts by reason
}

// SummarizeBatch counts successes, cache hits and failures by reason.
func SummarizeBatch(results []BatchResult) BatchStats {
	stats := BatchStats{Total: len(results), Reasons: make(map[FailureReason]int)}
	for _, r := range results {
		if r.Err != nil {
			stats.Failed++
			stats.Reasons[ReasonOf(r.Err)]++
			continue
		}
		stats.Succeeded++
		if r.Result != nil && r.Result.Cached {
			stats.Cached++
		}
	}
	return stats
}
