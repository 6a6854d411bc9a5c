package extractor

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/decisionpipe/decisionpipe/internal/entity"
)

// Pool runs chunk extraction under a fixed concurrency bound. Pull-based:
// workers claim the next unclaimed chunk index off a shared cursor, so one
// slow chunk never blocks the others from starting, and at most
// `concurrency` model calls are ever in flight.
type Pool struct {
	worker      *Worker
	concurrency int
	logger      *slog.Logger
}

func NewPool(worker *Worker, concurrency int, logger *slog.Logger) *Pool {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool{worker: worker, concurrency: concurrency, logger: logger}
}

// Run processes every chunk and returns results indexed by original chunk
// position, regardless of completion order. It returns only after all
// workers have drained the queue.
func (p *Pool) Run(ctx context.Context, chunks []entity.Chunk) []Result {
	results := make([]Result, len(chunks))
	if len(chunks) == 0 {
		return results
	}

	workers := min(p.concurrency, len(chunks))
	var cursor atomic.Int64
	var wg sync.WaitGroup

	p.logger.Info("extractor.pool.start", "chunks", len(chunks), "workers", workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				idx := int(cursor.Add(1)) - 1
				if idx >= len(chunks) {
					return
				}
				// Writes land at disjoint indices; no lock needed.
				results[idx] = p.worker.ExtractChunk(ctx, chunks[idx])
			}
		}()
	}
	wg.Wait()

	p.logger.Info("extractor.pool.done", "chunks", len(chunks))
	return results
}
