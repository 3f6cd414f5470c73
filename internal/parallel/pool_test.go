package parallel

import (
	"sync/atomic"
	"testing"
)

func TestExecuteAll(t *testing.T) {
	p := NewWorkerPool(4)
	defer p.Close()

	var count atomic.Int32
	work := make([]func(), 100)
	for i := range work {
		work[i] = func() { count.Add(1) }
	}
	p.ExecuteAll(work)

	if got := count.Load(); got != 100 {
		t.Errorf("expected 100 executions, got %d", got)
	}
}

func TestForCoversRange(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		n       int
		grain   int
	}{
		{"single worker", 1, 37, 5},
		{"auto grain", 4, 1000, 0},
		{"grain larger than n", 4, 10, 64},
		{"grain of one", 3, 17, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewWorkerPool(tt.workers)
			defer p.Close()

			hits := make([]int32, tt.n)
			p.For(tt.n, tt.grain, func(start, end int) {
				for i := start; i < end; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			})

			for i, h := range hits {
				if h != 1 {
					t.Fatalf("index %d visited %d times", i, h)
				}
			}
		})
	}
}

func TestNilPoolRunsInline(t *testing.T) {
	var p *WorkerPool
	sum := 0
	p.For(10, 3, func(start, end int) {
		for i := start; i < end; i++ {
			sum += i
		}
	})
	if sum != 45 {
		t.Errorf("expected 45, got %d", sum)
	}
	if p.Workers() != 1 {
		t.Errorf("nil pool should report 1 worker, got %d", p.Workers())
	}
}

func TestClosedPoolRunsInline(t *testing.T) {
	p := NewWorkerPool(2)
	p.Close()
	p.Close()

	ran := false
	p.ExecuteAll([]func(){func() { ran = true }})
	if !ran {
		t.Error("closed pool should run work on the caller")
	}
}

func TestChunkSize(t *testing.T) {
	if got := chunkSize(3, 8); got != 1 {
		t.Errorf("expected grain 1, got %d", got)
	}
	if got := chunkSize(160, 4); got != 10 {
		t.Errorf("expected grain 10, got %d", got)
	}
}
