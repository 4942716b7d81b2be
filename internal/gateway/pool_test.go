package gateway

import (
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func TestPoolRunsSubmittedTasks(t *testing.T) {
	pool, err := NewPool(4, 16, zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	var mu sync.Mutex
	ran := 0
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			mu.Lock()
			ran++
			mu.Unlock()
		}); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	wg.Wait()
	pool.Shutdown()

	if ran != 32 {
		t.Fatalf("ran %d tasks, want 32", ran)
	}
}

func TestPoolRejectsWhenSaturated(t *testing.T) {
	pool, err := NewPool(1, 1, zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer pool.Shutdown()

	release := make(chan struct{})
	defer close(release)
	blocked := make(chan struct{})
	if err := pool.Submit(func() { close(blocked); <-release }); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	<-blocked

	// Fill the single queue slot, then the next submit must be rejected.
	if err := pool.Submit(func() {}); err != nil {
		t.Fatalf("queued submit: %v", err)
	}
	if err := pool.Submit(func() {}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("got %v, want ErrQueueFull", err)
	}
}

func TestPoolSurvivesPanickingTask(t *testing.T) {
	pool, err := NewPool(1, 4, zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	done := make(chan struct{})
	if err := pool.Submit(func() { panic("boom") }); err != nil {
		t.Fatalf("panicking submit: %v", err)
	}
	if err := pool.Submit(func() { close(done) }); err != nil {
		t.Fatalf("follow-up submit: %v", err)
	}
	<-done
	pool.Shutdown()
}
