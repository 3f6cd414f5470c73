// Package parallel runs the data-parallel stages of mesh generation.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool is a fixed set of goroutines executing batches of work.
//
// Each worker owns a queue and steals from the others when it runs dry, which
// keeps rows with many boundary cells from stalling a batch. Work submitted
// through ExecuteAll must not itself call ExecuteAll on the same pool.
type WorkerPool struct {
	workers    int
	workQueues []chan func()
	done       chan struct{}
	wg         sync.WaitGroup
	running    atomic.Bool
	closeOnce  sync.Once
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := workers * 4
	if queueSize < 8 {
		queueSize = 8
	}

	p := &WorkerPool{
		workers:    workers,
		workQueues: make([]chan func(), workers),
		done:       make(chan struct{}),
	}
	for i := range workers {
		p.workQueues[i] = make(chan func(), queueSize)
	}

	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}

	return p
}

// Workers returns the number of worker goroutines.
func (p *WorkerPool) Workers() int {
	if p == nil {
		return 1
	}
	return p.workers
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	myQueue := p.workQueues[id]

	for {
		select {
		case <-p.done:
			p.drainQueue(myQueue)
			return

		case work := <-myQueue:
			if work != nil {
				work()
			}

		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
			} else {
				select {
				case <-p.done:
					p.drainQueue(myQueue)
					return
				case work := <-myQueue:
					if work != nil {
						work()
					}
				}
			}
		}
	}
}

func (p *WorkerPool) drainQueue(queue chan func()) {
	for {
		select {
		case work := <-queue:
			if work != nil {
				work()
			}
		default:
			return
		}
	}
}

func (p *WorkerPool) steal(myID int) func() {
	for i := range p.workers {
		if i == myID {
			continue
		}
		select {
		case work := <-p.workQueues[i]:
			return work
		default:
		}
	}
	return nil
}

// ExecuteAll distributes work across workers and waits for all of it.
// A nil or closed pool runs the work on the calling goroutine.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}
	if p == nil || !p.running.Load() || p.workers == 1 {
		for _, fn := range work {
			fn()
		}
		return
	}

	var completionWG sync.WaitGroup
	completionWG.Add(len(work))

	for i, fn := range work {
		workFn := fn
		wrapped := func() {
			defer completionWG.Done()
			workFn()
		}

		select {
		case p.workQueues[i%p.workers] <- wrapped:
		case <-p.done:
			wrapped()
		}
	}

	completionWG.Wait()
}

// For splits [0, n) into chunks of at most grain items and runs fn on each
// chunk in parallel. It returns once every chunk has finished.
func (p *WorkerPool) For(n, grain int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if grain <= 0 {
		grain = chunkSize(n, p.Workers())
	}
	if grain >= n {
		fn(0, n)
		return
	}

	work := make([]func(), 0, (n+grain-1)/grain)
	for start := 0; start < n; start += grain {
		end := min(start+grain, n)
		s, e := start, end
		work = append(work, func() { fn(s, e) })
	}
	p.ExecuteAll(work)
}

// Close stops the workers after they finish queued work.
func (p *WorkerPool) Close() {
	if p == nil {
		return
	}
	p.closeOnce.Do(func() {
		p.running.Store(false)
		close(p.done)
		p.wg.Wait()
	})
}

// chunkSize picks a grain that gives each worker a few chunks to steal.
func chunkSize(n, workers int) int {
	chunks := workers * 4
	grain := (n + chunks - 1) / chunks
	if grain < 1 {
		grain = 1
	}
	return grain
}
