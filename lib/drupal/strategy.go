package drupal

import (
	"context"
	"sync"
)

// FetchFunc fetches one page by number.
type FetchFunc func(ctx context.Context, page int) (*Page, error)

// ExecutionStrategy schedules the fetching and processing of the
// pages that remain after page 0.
//
// SerializedFetch is the reference behavior: fetches run concurrently
// but every page is processed on the calling goroutine, in submission
// order, so consumers need no write synchronization. ProcessInWorker
// trades that guarantee for throughput and requires the consumer to
// be safe for concurrent writes.
type ExecutionStrategy interface {
	Name() string
	Run(ctx context.Context, pages []int, fetch FetchFunc, process ProcessFunc) error
}

type serializedFetch struct {
	workers int
}

// SerializedFetch fetches pages through a bounded worker pool and
// hands each response back to the calling goroutine for sequential
// processing in submission order: if page N is slow, the caller
// blocks on N before touching N+1's response.
func SerializedFetch(workers int) ExecutionStrategy {
	return serializedFetch{workers: poolSize(workers)}
}

func (s serializedFetch) Name() string { return "serialized-fetch" }

type fetchResult struct {
	page *Page
	err  error
}

func (s serializedFetch) Run(ctx context.Context, pages []int, fetch FetchFunc, process ProcessFunc) error {
	futures := make([]chan fetchResult, len(pages))
	sem := make(chan struct{}, s.workers)

	for i, page := range pages {
		future := make(chan fetchResult, 1)
		futures[i] = future
		go func(page int, future chan<- fetchResult) {
			sem <- struct{}{}
			defer func() { <-sem }()

			p, err := fetch(ctx, page)
			future <- fetchResult{page: p, err: err}
		}(page, future)
	}

	// submitted fetches run to completion even if an earlier future
	// fails; there is no cancellation beyond the context
	for _, future := range futures {
		result := <-future
		if result.err != nil {
			return result.err
		}
		if err := process(ctx, result.page); err != nil {
			return err
		}
	}
	return nil
}

type processInWorker struct {
	workers int
}

// ProcessInWorker fetches and processes each page end-to-end inside a
// worker. Only valid when the consumer declares itself safe for
// concurrent entity writes.
func ProcessInWorker(workers int) ExecutionStrategy {
	return processInWorker{workers: poolSize(workers)}
}

func (s processInWorker) Name() string { return "process-in-worker" }

func (s processInWorker) Run(ctx context.Context, pages []int, fetch FetchFunc, process ProcessFunc) error {
	sem := make(chan struct{}, s.workers)

	var wg sync.WaitGroup
	var once sync.Once
	var firstErr error

	for _, page := range pages {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			p, err := fetch(ctx, page)
			if err == nil {
				err = process(ctx, p)
			}
			if err != nil {
				once.Do(func() { firstErr = err })
			}
		}(page)
	}

	wg.Wait()
	return firstErr
}

func poolSize(workers int) int {
	if workers <= 0 {
		return 4
	}
	return workers
}
