// Package task provides a best-effort in-process queue for work that must
// run after a request's response has been sent. Failures are logged and
// swallowed, never surfaced to the caller; there is no retry.
package task

import (
	"context"
	"time"

	"github.com/socialapi-dev/socialapi/internal/logger"
)

const (
	// DefaultQueueSize bounds the number of pending tasks.
	DefaultQueueSize = 256
	// DefaultTaskTimeout bounds a single task execution.
	DefaultTaskTimeout = 60 * time.Second
)

type job struct {
	name string
	fn   func(context.Context) error
}

// Runner executes scheduled tasks on a single background goroutine.
type Runner struct {
	queue   chan job
	done    chan struct{}
	timeout time.Duration
}

func NewRunner() *Runner {
	return &Runner{
		queue:   make(chan job, DefaultQueueSize),
		done:    make(chan struct{}),
		timeout: DefaultTaskTimeout,
	}
}

// Start launches the worker loop. On context cancellation the worker drains
// already-scheduled tasks before exiting.
func (r *Runner) Start(ctx context.Context) {
	go func() {
		defer close(r.done)
		logger.Log.Info("task runner started")
		for {
			select {
			case j := <-r.queue:
				r.run(j)
			case <-ctx.Done():
				r.drain()
				logger.Log.Info("task runner stopped")
				return
			}
		}
	}()
}

// Schedule enqueues fn for background execution. Never blocks the caller:
// if the queue is full the task is dropped with a warning, which the
// best-effort delivery contract allows.
func (r *Runner) Schedule(name string, fn func(context.Context) error) {
	select {
	case r.queue <- job{name, fn}:
	default:
		logger.Log.Warn("task queue full, dropping task", "task", name)
	}
}

// Wait blocks until the worker has exited after context cancellation.
func (r *Runner) Wait() {
	<-r.done
}

func (r *Runner) drain() {
	for {
		select {
		case j := <-r.queue:
			r.run(j)
		default:
			return
		}
	}
}

func (r *Runner) run(j job) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Log.Error("task panicked", "task", j.name, "panic", rec)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := j.fn(ctx); err != nil {
		logger.Log.Error("task failed", "task", j.name, "error", err)
	}
}
