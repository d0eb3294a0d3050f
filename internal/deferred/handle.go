package deferred

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Handle is the pending result of a deferred operation. It completes
// exactly once.
type Handle[T any] struct {
	id    string
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

func newHandle[T any]() *Handle[T] {
	return &Handle[T]{id: uuid.NewString(), done: make(chan struct{})}
}

// ID identifies the operation in logs.
func (h *Handle[T]) ID() string { return h.id }

// Done is closed once the result is available.
func (h *Handle[T]) Done() <-chan struct{} { return h.done }

// Wait blocks until completion or until ctx ends. Giving up on the wait
// does not cancel the operation.
func (h *Handle[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-h.done:
		return h.value, h.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Completed reports whether the result is available.
func (h *Handle[T]) Completed() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// resolve stores the outcome and runs the callbacks before Done closes,
// so a returning Wait has observed every side effect.
func (h *Handle[T]) resolve(value T, err error, then []func(T, error)) {
	h.once.Do(func() {
		h.value, h.err = value, err
		defer close(h.done)
		for _, fn := range then {
			fn(value, err)
		}
	})
}
