package poll

import (
	"fmt"
	"sync"
	"time"

	"firestige.xyz/meshtest/internal/core"
)

// Future is a one-shot promise completed from a platform callback thread and
// awaited by the test thread. Exactly one fulfillment path wins; later
// completions are dropped.
type Future[T any] struct {
	once sync.Once
	done chan T
}

// NewFuture returns an unfulfilled future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan T, 1)}
}

// Complete fulfills the future. Safe to call from any goroutine and any
// number of times; only the first value is observed.
func (f *Future[T]) Complete(value T) {
	f.once.Do(func() {
		f.done <- value
	})
}

// Await blocks until the future is completed or timeout elapses. A timed-out
// wait abandons the underlying operation, it does not cancel it.
func (f *Future[T]) Await(timeout time.Duration) (T, error) {
	select {
	case v := <-f.done:
		return v, nil
	case <-time.After(timeout):
		var zero T
		return zero, fmt.Errorf("%w: no event within %v", core.ErrTimeout, timeout)
	}
}
