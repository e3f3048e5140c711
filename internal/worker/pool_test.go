package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type testResult struct {
	id  int
	err error
}

func (r *testResult) GetError() error { return r.err }

type testJob struct {
	id      int
	err     error
	running *atomic.Int32
	peak    *atomic.Int32
}

func (j *testJob) Execute(ctx context.Context) Result {
	if j.running != nil {
		cur := j.running.Add(1)
		for {
			p := j.peak.Load()
			if cur <= p || j.peak.CompareAndSwap(p, cur) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		j.running.Add(-1)
	}
	return &testResult{id: j.id, err: j.err}
}

type blockingJob struct{}

func (j *blockingJob) Execute(ctx context.Context) Result {
	<-ctx.Done()
	return &testResult{err: ctx.Err()}
}

func TestPool_RunsAllJobs(t *testing.T) {
	pool := NewPool(context.Background(), 3)
	pool.Start()
	for i := 0; i < 8; i++ {
		pool.Submit(&testJob{id: i})
	}
	results := pool.Wait()

	if len(results) != 8 {
		t.Fatalf("Expected 8 results, got %d", len(results))
	}
	seen := make(map[int]bool)
	for _, r := range results {
		seen[r.(*testResult).id] = true
	}
	for i := 0; i < 8; i++ {
		if !seen[i] {
			t.Errorf("Missing result for job %d", i)
		}
	}
}

func TestPool_BoundsConcurrency(t *testing.T) {
	var running, peak atomic.Int32
	pool := NewPool(context.Background(), 2)
	pool.Start()
	for i := 0; i < 6; i++ {
		pool.Submit(&testJob{id: i, running: &running, peak: &peak})
	}
	pool.Wait()

	if got := peak.Load(); got > 2 {
		t.Errorf("Expected at most 2 concurrent jobs, observed %d", got)
	}
}

func TestPool_MinimumOneWorker(t *testing.T) {
	pool := NewPool(context.Background(), 0)
	pool.Start()
	pool.Submit(&testJob{id: 1})
	results := pool.Wait()

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
}

func TestPool_ResultsCarryErrors(t *testing.T) {
	wantErr := errors.New("boom")
	pool := NewPool(context.Background(), 2)
	pool.Start()
	pool.Submit(&testJob{id: 1, err: wantErr})
	pool.Submit(&testJob{id: 2})
	results := pool.Wait()

	failed := 0
	for _, r := range results {
		if r.GetError() != nil {
			failed++
			if !errors.Is(r.GetError(), wantErr) {
				t.Errorf("Unexpected error: %v", r.GetError())
			}
		}
	}
	if failed != 1 {
		t.Errorf("Expected exactly 1 failed result, got %d", failed)
	}
}

func TestPool_ParentContextReachesJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(ctx, 2)
	pool.Start()
	pool.Submit(&blockingJob{})
	pool.Submit(&blockingJob{})
	cancel()

	done := make(chan struct{})
	go func() {
		pool.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Jobs blocked on their context never saw the parent cancellation")
	}
}
