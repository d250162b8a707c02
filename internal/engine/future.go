package engine

import "context"

// Future is a one-shot result cell. Requests are scheduled onto the worker
// pool and return immediately; callers block on Get when they actually need
// the value. Publish must be called exactly once.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) publish(val T, err error) {
	f.val = val
	f.err = err
	close(f.done)
}

// Get blocks until the result is published or ctx is cancelled.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done exposes the completion channel for select loops.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Ready reports whether the result has been published.
func (f *Future[T]) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
