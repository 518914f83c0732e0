package servicefn

import (
	"context"
)

// Future is the eventual outcome of some work. It resolves exactly once,
// either to a value or to an error, and may be awaited by any number of
// goroutines.
//
// Futures carry no scheduling of their own. Work started through Go runs on
// a new goroutine; everything else is resolved by whoever created the
// Future.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) resolve(v T, err error) {
	f.value = v
	f.err = err
	close(f.done)
}

// Go runs fn on a new goroutine and returns a Future bound to its result.
// Cancelling ctx is the only way to stop fn early, and only if fn watches it.
// A panic in fn resolves the Future to a PanicError.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := newFuture[T]()
	go func() {
		defer func() {
			if p := recover(); p != nil {
				var zero T
				f.resolve(zero, PanicError{Value: p})
			}
		}()
		f.resolve(fn(ctx))
	}()
	return f
}

// Ready returns a Future that has already resolved to v.
func Ready[T any](v T) *Future[T] {
	f := newFuture[T]()
	f.resolve(v, nil)
	return f
}

// Failed returns a Future that has already resolved to err.
func Failed[T any](err error) *Future[T] {
	f := newFuture[T]()
	var zero T
	f.resolve(zero, err)
	return f
}

// Done is closed once the Future resolves.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the Future resolves or ctx ends. When ctx ends first
// the context error is returned and the underlying work keeps running.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	default:
	}
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result blocks until the Future resolves.
func (f *Future[T]) Result() (T, error) {
	<-f.done
	return f.value, f.err
}
