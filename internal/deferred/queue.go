// Package deferred runs simulated external calls as single-completion
// operations on a cooperative FIFO queue.
package deferred

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrStopped completes operations that could not run because the queue
// was stopped.
var ErrStopped = errors.New("deferred queue stopped")

type task struct {
	id   string
	due  time.Time
	run  func()
	fail func(error)
}

// Queue executes scheduled operations one at a time on a single worker
// goroutine, in submission order, each no earlier than its due time.
type Queue struct {
	mu      sync.Mutex
	tasks   []task
	wake    chan struct{}
	stop    chan struct{}
	done    chan struct{}
	stopped bool
	now     func() time.Time
	logger  *slog.Logger
}

// NewQueue builds a queue; call Start before scheduling work.
func NewQueue(logger *slog.Logger) *Queue {
	return &Queue{
		wake:   make(chan struct{}, 1),
		now:    time.Now,
		logger: logger,
	}
}

// Start launches the worker. Calling it twice is a no-op.
func (q *Queue) Start(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.stopped {
		return ErrStopped
	}
	if q.stop != nil {
		return nil
	}

	q.stop = make(chan struct{})
	q.done = make(chan struct{})
	go q.loop(ctx, q.stop, q.done)
	return nil
}

// Stop halts the worker and fails every operation that has not run yet.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return nil
	}
	q.stopped = true
	stop, done := q.stop, q.done
	q.mu.Unlock()

	if stop != nil {
		close(stop)
		select {
		case <-done:
		case <-ctx.Done():
			return fmt.Errorf("stop deferred queue: %w", ctx.Err())
		}
	}

	q.failPending(ErrStopped)
	return nil
}

// Pending reports how many operations are waiting to run.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Schedule queues work to run after delay and returns its handle right
// away. Callbacks in then fire once, just before the handle completes.
func Schedule[T any](q *Queue, delay time.Duration, work func() (T, error), then ...func(T, error)) *Handle[T] {
	h := newHandle[T]()

	t := task{
		id: h.id,
		run: func() {
			value, err := work()
			h.resolve(value, err, then)
		},
		fail: func(err error) {
			var zero T
			h.resolve(zero, err, then)
		},
	}

	if !q.enqueue(t, delay) {
		t.fail(ErrStopped)
	}
	return h
}

func (q *Queue) enqueue(t task, delay time.Duration) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.stopped {
		return false
	}
	t.due = q.now().Add(delay)
	q.tasks = append(q.tasks, t)

	select {
	case q.wake <- struct{}{}:
	default:
	}
	q.debug("operation scheduled", "handle", t.id, "delay", delay, "pending", len(q.tasks))
	return true
}

func (q *Queue) loop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			select {
			case <-q.wake:
				continue
			case <-ctx.Done():
				q.abandon(ctx.Err())
				return
			case <-stop:
				return
			}
		}
		head := q.tasks[0]
		q.mu.Unlock()

		if wait := head.due.Sub(q.now()); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				q.abandon(ctx.Err())
				return
			case <-stop:
				timer.Stop()
				return
			}
		}

		q.mu.Lock()
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		q.execute(head)
	}
}

func (q *Queue) execute(t task) {
	defer func() {
		if r := recover(); r != nil {
			q.logError("operation panicked", "handle", t.id, "panic", r)
			t.fail(fmt.Errorf("deferred operation panicked: %v", r))
		}
	}()
	t.run()
	q.debug("operation completed", "handle", t.id)
}

func (q *Queue) abandon(cause error) {
	q.mu.Lock()
	q.stopped = true
	q.mu.Unlock()
	q.failPending(fmt.Errorf("%w: %v", ErrStopped, cause))
}

func (q *Queue) failPending(err error) {
	q.mu.Lock()
	pending := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	for _, t := range pending {
		t.fail(err)
	}
}

func (q *Queue) debug(msg string, args ...interface{}) {
	if q.logger != nil {
		q.logger.Debug(msg, args...)
	}
}

func (q *Queue) logError(msg string, args ...interface{}) {
	if q.logger != nil {
		q.logger.Error(msg, args...)
	}
}
