// Package tasks runs background work that command handlers fire off without
// awaiting: leaderboard refreshes and channel backups. Failures are delivered
// to an error hook instead of vanishing inside detached goroutines.
package tasks

import (
	"context"
	"errors"
	"log"
	"sync"
)

// Task is a named unit of background work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Config holds configuration for the runner
type Config struct {
	// QueueSize bounds the pending task queue; default 64
	QueueSize int

	// OnError receives failures from completed tasks; defaults to logging
	OnError func(name string, err error)
}

// Runner executes submitted tasks sequentially on a single worker goroutine.
type Runner struct {
	queue   chan Task
	onError func(name string, err error)

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

// NewRunner creates a new background task runner
func NewRunner(cfg *Config) *Runner {
	size := 64
	var onError func(string, error)

	if cfg != nil {
		if cfg.QueueSize > 0 {
			size = cfg.QueueSize
		}
		onError = cfg.OnError
	}

	if onError == nil {
		onError = func(name string, err error) {
			log.Printf("background task %s failed: %v", name, err)
		}
	}

	return &Runner{
		queue:   make(chan Task, size),
		onError: onError,
		done:    make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (r *Runner) Start() {
	r.startOnce.Do(func() {
		go r.work()
	})
}

// Stop closes the queue and waits until pending tasks have drained. Stopping
// a runner that was never started returns immediately.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		// Without a worker there is nothing to drain; mark done directly
		r.startOnce.Do(func() {
			close(r.done)
		})
		close(r.queue)
	})
	<-r.done
}

// Submit enqueues a task. It never blocks the caller; when the queue is full
// the task is dropped and reported through the error hook.
func (r *Runner) Submit(task Task) bool {
	defer func() {
		// Submitting after Stop is a caller bug during shutdown; swallow the
		// panic from the closed channel and report the drop instead.
		if recover() != nil {
			r.onError(task.Name, errors.New("runner stopped"))
		}
	}()

	select {
	case r.queue <- task:
		return true
	default:
		r.onError(task.Name, errors.New("task queue full"))
		return false
	}
}

func (r *Runner) work() {
	defer close(r.done)
	for task := range r.queue {
		if task.Run == nil {
			continue
		}
		if err := task.Run(context.Background()); err != nil {
			r.onError(task.Name, err)
		}
	}
}
