// Package dispatch provides the execution context that connection lifecycle
// callbacks are delivered on.
package dispatch

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrQueueFull  = errors.New("dispatch queue is full")
	ErrLoopClosed = errors.New("dispatch loop is closed")
)

// Dispatcher runs posted functions.
type Dispatcher interface {
	Post(fn func())
}

// Immediate runs posted functions inline on the posting goroutine.
type Immediate struct{}

// Post implements Dispatcher
func (Immediate) Post(fn func()) {
	fn()
}

// Func adapts a function to Dispatcher.
type Func func(fn func())

// Post implements Dispatcher
func (f Func) Post(fn func()) {
	f(fn)
}

// Loop runs posted functions one at a time, in posting order, on a single goroutine.
//
// The goroutine is either started in the background with Start or provided by
// the caller with Run. Close stops the loop after running everything already
// queued; it must not be called from a posted function.
type Loop struct {
	queue     chan func()
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once

	// postMu is held for reading while a post is in flight, so Close can
	// wait for posts that started before it.
	postMu sync.RWMutex
}

// NewLoop creates a Loop with a queue of the given size.
func NewLoop(queueSize int) *Loop {
	if queueSize <= 0 {
		queueSize = 100
	}

	return &Loop{
		queue: make(chan func(), queueSize),
		done:  make(chan struct{}),
	}
}

// Start runs the loop in a background goroutine.
func (l *Loop) Start() *Loop {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.process(context.Background())
	}()
	return l
}

// Run runs the loop on the calling goroutine until ctx is done or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	l.wg.Add(1)
	defer l.wg.Done()

	l.process(ctx)
	if err := ctx.Err(); err != nil && !l.IsClosed() {
		return err
	}
	return nil
}

func (l *Loop) process(ctx context.Context) {
	for {
		select {
		case fn := <-l.queue:
			fn()
		case <-ctx.Done():
			return
		case <-l.done:
			l.drainQueue()
			return
		}
	}
}

// drainQueue runs any remaining functions during shutdown
func (l *Loop) drainQueue() {
	for {
		select {
		case fn := <-l.queue:
			fn()
		default:
			return
		}
	}
}

// Post queues fn, waiting for room in the queue. Functions posted after Close are dropped.
func (l *Loop) Post(fn func()) {
	l.postMu.RLock()
	defer l.postMu.RUnlock()

	if l.IsClosed() {
		return
	}

	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

// TryPost queues fn without waiting.
func (l *Loop) TryPost(fn func()) error {
	l.postMu.RLock()
	defer l.postMu.RUnlock()

	if l.IsClosed() {
		return ErrLoopClosed
	}

	select {
	case l.queue <- fn:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops the loop once queued functions have run.
func (l *Loop) Close() error {
	l.closeOnce.Do(func() {
		close(l.done)

		// wait out posts that passed the closed check
		l.postMu.Lock()
		l.postMu.Unlock()

		l.wg.Wait()
		l.drainQueue()
	})
	return nil
}

// IsClosed returns true if the loop has been closed
func (l *Loop) IsClosed() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// QueueSize returns the current number of queued functions
func (l *Loop) QueueSize() int {
	return len(l.queue)
}
