package coordinator

import (
	"context"
	"fmt"
	"sync"

	"finsight/internal/agent"
)

// Handler answers a single chat query
type Handler interface {
	HandleQuery(ctx context.Context, query string) *agent.Result
}

// Answer pairs a query with its result. Index is the query's position in
// the batch so callers can restore input order if they need to.
type Answer struct {
	Index  int
	Query  string
	Result *agent.Result
}

// Coordinator answers a batch of queries concurrently
type Coordinator struct {
	handler Handler
	workers int
}

// New creates a Coordinator running at most workers queries at once.
// A non-positive workers value means one worker per query.
func New(h Handler, workers int) *Coordinator {
	return &Coordinator{
		handler: h,
		workers: workers,
	}
}

// Run answers every query and hands each Answer to emit as it arrives.
// emit is only ever called from the calling goroutine. Per-query failures
// are reported inside the Result, not as an error from Run.
func (c *Coordinator) Run(ctx context.Context, queries []string, emit func(Answer)) error {
	if len(queries) == 0 {
		return fmt.Errorf("no queries to answer")
	}

	workers := c.workers
	if workers <= 0 || workers > len(queries) {
		workers = len(queries)
	}

	jobs := make(chan int)
	resultChan := make(chan Answer, len(queries))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				resultChan <- Answer{
					Index:  i,
					Query:  queries[i],
					Result: c.handler.HandleQuery(ctx, queries[i]),
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range queries {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	for answer := range resultChan {
		emit(answer)
	}

	return ctx.Err()
}
