package gateway

import (
	"errors"
	"reflect"
	"sync"

	"github.com/rs/zerolog"
)

// ErrQueueFull is returned by Submit when the worker pool and its queue are
// saturated. Callers surface this as backpressure instead of buffering
// unboundedly.
var ErrQueueFull = errors.New("gateway: worker queue full")

// Pool runs submitted tasks on a fixed set of workers fed by a bounded
// queue. Submit never blocks: when the queue is full the task is rejected.
type Pool struct {
	tasks  chan func()
	logger zerolog.Logger

	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewPool starts workers goroutines draining a queue of the given depth.
func NewPool(workers, depth int, logger zerolog.Logger) (*Pool, error) {
	if workers < 1 {
		return nil, errors.New("gateway: pool workers must be >= 1")
	}
	if depth < 0 {
		return nil, errors.New("gateway: pool queue depth cannot be negative")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	p := &Pool{
		tasks:  make(chan func(), depth),
		logger: logger.With().Str("component", "worker_pool").Logger(),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.run()
	}
	return p, nil
}

// Submit enqueues a task, failing with ErrQueueFull when the queue is
// saturated.
func (p *Pool) Submit(task func()) error {
	if task == nil {
		return errors.New("gateway: nil task")
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *Pool) run() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.invoke(task)
	}
}

// invoke isolates a panicking task so one bad request cannot take the
// worker down with it.
func (p *Pool) invoke(task func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Interface("panic", r).Msg("task panicked")
		}
	}()
	task()
}

// Shutdown stops accepting new work and waits for queued tasks to drain.
func (p *Pool) Shutdown() {
	p.closeOnce.Do(func() { close(p.tasks) })
	p.wg.Wait()
}
