// Package parallel provides chunked fan-out of index ranges across a
// bounded set of worker goroutines. The cross-validation grid search
// uses it to evaluate folds concurrently with a configurable worker
// budget.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize divides items across one worker per available CPU core
// and runs fn for each (start, end) range.
func Parallelize(items int, fn func(start, end int)) {
	ParallelizeWorkers(items, runtime.NumCPU(), fn)
}

// ParallelizeWorkers divides items across at most workers goroutines
// and runs fn for each (start, end) range. A non-positive worker count
// falls back to the number of CPU cores. Ranges are disjoint and cover
// [0, items) exactly once.
func ParallelizeWorkers(items, workers int, fn func(start, end int)) {
	if items == 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > items {
		workers = items
	}

	// Ceiling division so every item lands in exactly one chunk.
	chunkSize := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
