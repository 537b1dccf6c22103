package rx

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// CompletableEmitter resolves a Completable. Only the first call has an effect.
type CompletableEmitter interface {
	OnComplete()
	OnError(err error)
}

// Completable is a write-once future that carries no value, only success or failure.
type Completable struct {
	s *Single[struct{}]
}

// OnComplete implements CompletableEmitter
func (c *Completable) OnComplete() {
	c.s.OnSuccess(struct{}{})
}

// OnError implements CompletableEmitter
func (c *Completable) OnError(err error) {
	c.s.OnError(err)
}

func newCompletable() *Completable {
	return &Completable{s: newSingle[struct{}]()}
}

// CreateCompletable runs fn immediately with an emitter for the returned Completable.
func CreateCompletable(fn func(emitter CompletableEmitter)) *Completable {
	c := newCompletable()
	fn(c)
	return c
}

// FromCallable runs fn immediately and completes with its result.
func FromCallable(fn func() error) *Completable {
	c := newCompletable()
	if err := fn(); err != nil {
		c.OnError(err)
	} else {
		c.OnComplete()
	}
	return c
}

// Complete returns an already completed Completable.
func Complete() *Completable {
	c := newCompletable()
	c.OnComplete()
	return c
}

// Failed returns an already failed Completable.
func Failed(err error) *Completable {
	c := newCompletable()
	c.OnError(err)
	return c
}

// Done returns a channel that is closed once the Completable is resolved.
func (c *Completable) Done() <-chan struct{} {
	return c.s.Done()
}

// Await blocks until the Completable resolves or ctx is done.
func (c *Completable) Await(ctx context.Context) error {
	_, err := c.s.Await(ctx)
	return err
}

// Err returns the failure, or nil if the Completable succeeded or is still pending.
func (c *Completable) Err() error {
	_, err, _ := c.s.Result()
	return err
}

// Subscribe registers callbacks invoked once on a new goroutine after resolution.
func (c *Completable) Subscribe(onComplete func(), onError func(error)) {
	c.s.Subscribe(func(struct{}) {
		if onComplete != nil {
			onComplete()
		}
	}, onError)
}

// Merge returns a Completable that completes once every input has completed,
// or fails with the first error observed. Remaining inputs keep running.
func Merge(cs ...*Completable) *Completable {
	merged := newCompletable()

	go func() {
		g, ctx := errgroup.WithContext(context.Background())
		for _, c := range cs {
			c := c
			g.Go(func() error {
				return c.Await(ctx)
			})
		}

		if err := g.Wait(); err != nil {
			merged.OnError(err)
			return
		}
		merged.OnComplete()
	}()

	return merged
}
