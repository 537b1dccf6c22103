// Package rx provides single-value and completion futures used to expose
// callback-based operations as values that can be awaited or observed.
//
// Futures are hot: the operation behind a Single or Completable starts when
// it is created, not when someone waits on it. The first terminal signal wins
// and every waiter observes the same result.
package rx

import (
	"context"
	"errors"
	"sync"
)

// ErrNilError is the failure recorded when an error callback fires with a nil error.
var ErrNilError = errors.New("error callback invoked with nil error")

// Emitter resolves a Single. Only the first call to OnSuccess or OnError has an effect.
type Emitter[T any] interface {
	OnSuccess(value T)
	OnError(err error)
}

// Single is a write-once future holding either a value or an error.
type Single[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

func newSingle[T any]() *Single[T] {
	return &Single[T]{done: make(chan struct{})}
}

// Create runs fn immediately with an emitter for the returned Single.
// fn usually starts an asynchronous operation and returns; the emitter may be
// resolved from any goroutine.
func Create[T any](fn func(emitter Emitter[T])) *Single[T] {
	s := newSingle[T]()
	fn(s)
	return s
}

// Just returns a Single already resolved with value.
func Just[T any](value T) *Single[T] {
	s := newSingle[T]()
	s.OnSuccess(value)
	return s
}

// Error returns a Single already failed with err.
func Error[T any](err error) *Single[T] {
	s := newSingle[T]()
	s.OnError(err)
	return s
}

// OnSuccess implements Emitter
func (s *Single[T]) OnSuccess(value T) {
	s.once.Do(func() {
		s.value = value
		close(s.done)
	})
}

// OnError implements Emitter
func (s *Single[T]) OnError(err error) {
	if err == nil {
		err = ErrNilError
	}
	s.once.Do(func() {
		s.err = err
		close(s.done)
	})
}

// Done returns a channel that is closed once the Single is resolved.
func (s *Single[T]) Done() <-chan struct{} {
	return s.done
}

// Await blocks until the Single resolves or ctx is done.
// A cancelled wait does not cancel the underlying operation.
func (s *Single[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-s.done:
		return s.value, s.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result returns the resolved value and error, and false if the Single is still pending.
func (s *Single[T]) Result() (T, error, bool) {
	select {
	case <-s.done:
		return s.value, s.err, true
	default:
		var zero T
		return zero, nil, false
	}
}

// Subscribe registers callbacks invoked once on a new goroutine after resolution.
// Either callback may be nil.
func (s *Single[T]) Subscribe(onSuccess func(T), onError func(error)) {
	go func() {
		<-s.done
		if s.err != nil {
			if onError != nil {
				onError(s.err)
			}
			return
		}
		if onSuccess != nil {
			onSuccess(s.value)
		}
	}()
}
