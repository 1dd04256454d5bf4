// Package worker provides bounded parallel execution for batch probes.
package worker

import (
	"context"
	"sync"
)

// Semaphore provides a counting semaphore for controlling concurrency.
type Semaphore struct {
	permits chan struct{}
}

// NewSemaphore creates a new semaphore with the given number of permits.
func NewSemaphore(count int) *Semaphore {
	if count <= 0 {
		count = 1
	}
	s := &Semaphore{
		permits: make(chan struct{}, count),
	}
	for i := 0; i < count; i++ {
		s.permits <- struct{}{}
	}
	return s
}

// Acquire takes a permit, blocking until one is free or ctx is done.
func (s *Semaphore) Acquire(ctx context.Context) error {
	select {
	case <-s.permits:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a permit to the semaphore.
func (s *Semaphore) Release() {
	select {
	case s.permits <- struct{}{}:
	default:
		// Semaphore is full, this shouldn't happen in normal use
	}
}

// Progress represents batch progress.
type Progress struct {
	Completed int
	Total     int
}

// Percent returns the completion percentage.
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total) * 100
}

// ForEach calls fn for every index in [0, n) with at most workers calls in
// flight. onDone, if set, is called serially after each call finishes.
// Indices not yet started when ctx is cancelled are skipped and ctx.Err()
// is returned.
func ForEach(ctx context.Context, workers, n int, fn func(ctx context.Context, i int), onDone func(Progress)) error {
	sem := NewSemaphore(workers)
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
	)

	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		if err := sem.Acquire(ctx); err != nil {
			wg.Wait()
			return err
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release()

			fn(ctx, i)

			mu.Lock()
			completed++
			if onDone != nil {
				onDone(Progress{Completed: completed, Total: n})
			}
			mu.Unlock()
		}(i)
	}

	wg.Wait()
	return ctx.Err()
}
