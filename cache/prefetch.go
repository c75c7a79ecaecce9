package cache

import (
	"context"
	"log"
	"sync"

	"comrade/parser"
)

// PageRef names one image to mirror.
type PageRef struct {
	URL      string
	Filename string
}

// PrefetchJob is a batch of pages queued together.
type PrefetchJob struct {
	Label string
	Pages []PageRef
}

// Prefetcher mirrors pages ahead of the reader. Jobs run one at a time in
// FIFO order on a single worker and outlive the sessions that queued them.
type Prefetcher struct {
	relay   *Relay
	limiter *parser.RateLimiter

	mu      sync.Mutex
	cond    *sync.Cond
	jobs    []PrefetchJob
	closed  bool
	done    chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	pending sync.WaitGroup
}

// NewPrefetcher starts the worker. A nil limiter disables spacing between
// pages.
func NewPrefetcher(relay *Relay, limiter *parser.RateLimiter) *Prefetcher {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Prefetcher{
		relay:   relay,
		limiter: limiter,
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
	p.cond = sync.NewCond(&p.mu)
	log.Printf("[Prefetch] Worker started, %v between pages", limiter.GetInterval())
	go p.run()
	return p
}

// Submit queues job and returns immediately. Jobs submitted after Close are
// dropped.
func (p *Prefetcher) Submit(job PrefetchJob) {
	if len(job.Pages) == 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		log.Printf("[Prefetch] Dropping %q, prefetcher closed", job.Label)
		return
	}

	p.pending.Add(1)
	p.jobs = append(p.jobs, job)
	log.Printf("[Prefetch] Queued %q (%d pages, %d jobs waiting)", job.Label, len(job.Pages), len(p.jobs))
	p.cond.Signal()
}

// Wait blocks until every job submitted so far has finished.
func (p *Prefetcher) Wait() {
	p.pending.Wait()
}

// Close finishes the queued jobs and stops the worker.
func (p *Prefetcher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()

	<-p.done
	p.cancel()
}

func (p *Prefetcher) run() {
	defer close(p.done)

	for {
		job, ok := p.next()
		if !ok {
			log.Println("[Prefetch] Queue drained, worker stopping")
			return
		}
		p.execute(job)
		p.pending.Done()
	}
}

// next blocks for the next job. It reports false once closed and empty.
func (p *Prefetcher) next() (PrefetchJob, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.jobs) == 0 && !p.closed {
		p.cond.Wait()
	}
	if len(p.jobs) == 0 {
		return PrefetchJob{}, false
	}
	job := p.jobs[0]
	p.jobs = p.jobs[1:]
	return job, true
}

func (p *Prefetcher) execute(job PrefetchJob) {
	fetched := 0
	for _, ref := range job.Pages {
		e, err := p.relay.GetCached(p.ctx, ref.URL)
		if err != nil {
			log.Printf("[Prefetch] %s: lookup %s failed: %v", job.Label, ref.URL, err)
			continue
		}
		if e != nil {
			continue
		}

		if err := p.limiter.Wait(p.ctx); err != nil {
			return
		}
		if _, err := p.relay.Populate(p.ctx, ref.URL, ref.Filename); err != nil {
			log.Printf("[Prefetch] %s: %s failed: %v", job.Label, ref.Filename, err)
			continue
		}
		fetched++
	}
	log.Printf("[Prefetch] %s done, %d/%d pages mirrored", job.Label, fetched, len(job.Pages))
}
