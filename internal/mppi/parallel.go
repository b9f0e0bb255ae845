package mppi

import "github.com/sourcegraph/conc/pool"

// minChunk is the smallest sample range handed to a worker.
const minChunk = 32

// parallelFor splits [0, n) into contiguous chunks and runs fn on each. Chunks never
// overlap, so fn may write per-sample rows without synchronisation.
func parallelFor(n, workers int, fn func(start, end int)) {
	if workers <= 1 || n <= minChunk {
		fn(0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	chunkSize := (n + workers - 1) / workers

	p := pool.New().WithMaxGoroutines(workers)
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		p.Go(func() {
			fn(start, end)
		})
	}
	p.Wait()
}
