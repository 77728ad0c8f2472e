package lignin

import (
	"context"
	"runtime"
	"sync"
)

// analyzeEntriesParallel fans entries out to a bounded worker pool. Results
// are written by index, so the output order always matches the input order
// regardless of completion order.
func (e *Engine) analyzeEntriesParallel(ctx context.Context, entries []Entry, names []string) []FileResult {
	numWorkers := e.workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(entries) {
		numWorkers = len(entries)
	}

	results := make([]FileResult, len(entries))

	jobs := make(chan int, len(entries))
	for i := range entries {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = e.analyzeEntry(ctx, entries[i], names[i])
			}
		}()
	}
	wg.Wait()

	return results
}
