package ingest

import (
	"context"
	"errors"
	"image"
	"sync"
)

// ErrPoolClosed is passed to callbacks submitted after Close.
var ErrPoolClosed = errors.New("ingest: pool closed")

// defaultWorkers is the number of concurrent ingest goroutines.
const defaultWorkers = 2

// job is one queued ingest.
type job struct {
	img      image.Image
	budget   Budget
	callback func(*Asset, error)
}

// Pool runs ingests off the caller's goroutine on a bounded set of workers.
// Decode and compression can take hundreds of milliseconds on large photos;
// the UI loop hands the work here and applies the result when it returns.
type Pool struct {
	pipeline *Pipeline
	jobs     chan job
	wg       sync.WaitGroup
	stopOnce sync.Once
	stop     chan struct{}

	// mu guards closed and the jobs channel against send-after-close.
	mu     sync.RWMutex
	closed bool
}

// NewPool starts a pool of workers around p. workers <= 0 uses the default.
func NewPool(p *Pipeline, workers int) *Pool {
	if workers <= 0 {
		workers = defaultWorkers
	}
	pool := &Pool{
		pipeline: p,
		jobs:     make(chan job, workers*4),
		stop:     make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}
	return pool
}

// Submit queues img for ingest. callback runs on a worker goroutine. The
// returned cancel func suppresses the callback if it has not fired yet; an
// ingest already in progress still runs to completion. After Close the
// callback receives ErrPoolClosed.
func (p *Pool) Submit(img image.Image, budget Budget, callback func(*Asset, error)) (cancel func()) {
	cancelled := make(chan struct{})
	var once sync.Once

	wrapped := func(a *Asset, err error) {
		select {
		case <-cancelled:
			return
		default:
			callback(a, err)
		}
	}

	j := job{img: img, budget: budget, callback: wrapped}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		go wrapped(nil, ErrPoolClosed)
	} else {
		// Never block the caller on a full queue.
		select {
		case p.jobs <- j:
		default:
			p.wg.Add(1)
			go func() {
				defer p.wg.Done()
				p.run(j)
			}()
		}
		p.mu.RUnlock()
	}

	return func() {
		once.Do(func() { close(cancelled) })
	}
}

// Ingest submits img and waits for the result or for ctx to end.
func (p *Pool) Ingest(ctx context.Context, img image.Image, budget Budget) (*Asset, error) {
	type result struct {
		asset *Asset
		err   error
	}
	done := make(chan result, 1)
	cancel := p.Submit(img, budget, func(a *Asset, err error) {
		done <- result{a, err}
	})
	select {
	case r := <-done:
		return r.asset, r.err
	case <-ctx.Done():
		cancel()
		return nil, ctx.Err()
	}
}

// Close stops the workers after the queued jobs finish. Later submissions
// fail with ErrPoolClosed.
func (p *Pool) Close() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.stop)
		close(p.jobs)
		p.mu.Unlock()
		p.wg.Wait()
	})
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stop:
			for j := range p.jobs {
				p.run(j)
			}
			return
		case j, ok := <-p.jobs:
			if !ok {
				return
			}
			p.run(j)
		}
	}
}

func (p *Pool) run(j job) {
	a, err := p.pipeline.Ingest(j.img, j.budget)
	j.callback(a, err)
}
