package verifier

import (
	"context"
	"sync"
	"time"
)

// BatchOptions configures VerifyAll.
type BatchOptions struct {
	// Concurrency caps probes in flight; <= 0 uses DefaultConcurrency.
	Concurrency int
	// Timeout bounds each probe; <= 0 uses DefaultTimeout.
	Timeout time.Duration
	// OnResult, if set, is called from worker goroutines as each probe
	// finishes. It must be safe for concurrent use.
	OnResult func(index int, r Result)
}

func (o BatchOptions) concurrency() int {
	if o.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return o.Concurrency
}

// VerifyAll probes every URL with at most opts.Concurrency probes in flight.
// results[i] always belongs to urls[i], whatever order probes finish in.
// A failing URL never affects other slots and the batch never exits early;
// a cancelled ctx makes the remaining probes resolve as failures.
func (v *Verifier) VerifyAll(ctx context.Context, urls []string, opts BatchOptions) []Result {
	results := make([]Result, len(urls))
	if len(urls) == 0 {
		return results
	}

	workers := opts.concurrency()
	if workers > len(urls) {
		workers = len(urls)
	}
	probeOpts := VerifyOptions{Timeout: opts.Timeout}

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup

	// Producer: feed indexes into channel.
	go func() {
		defer close(jobs)
		for i := range urls {
			jobs <- i
		}
	}()

	// Workers: each slot is written by exactly one worker.
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				r := v.Verify(ctx, urls[i], probeOpts)
				results[i] = r
				if opts.OnResult != nil {
					opts.OnResult(i, r)
				}
			}
		}()
	}

	wg.Wait()
	return results
}
