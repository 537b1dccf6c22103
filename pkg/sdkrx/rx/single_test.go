package rx

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingle(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves with the emitted value", func(t *testing.T) {
		s := Create(func(e Emitter[string]) {
			go e.OnSuccess("tx-1")
		})

		value, err := s.Await(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tx-1", value)
	})

	t.Run("fails with the exact emitted error", func(t *testing.T) {
		expected := errors.New("insufficient balance")
		s := Create(func(e Emitter[int]) {
			go e.OnError(expected)
		})

		_, err := s.Await(ctx)
		assert.Same(t, expected, err)
	})

	t.Run("first terminal signal wins", func(t *testing.T) {
		s := Create(func(e Emitter[int]) {
			e.OnSuccess(1)
			e.OnError(errors.New("late"))
			e.OnSuccess(2)
		})

		value, err := s.Await(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, value)
	})

	t.Run("nil error is replaced by ErrNilError", func(t *testing.T) {
		s := Error[int](nil)

		_, err := s.Await(ctx)
		assert.ErrorIs(t, err, ErrNilError)
	})

	t.Run("await honours context cancellation", func(t *testing.T) {
		s := Create(func(e Emitter[int]) {})

		waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		_, err := s.Await(waitCtx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		_, _, resolved := s.Result()
		assert.False(t, resolved)
	})

	t.Run("every waiter sees the same result", func(t *testing.T) {
		s := Just(42)

		for i := 0; i < 3; i++ {
			value, err := s.Await(ctx)
			require.NoError(t, err)
			assert.Equal(t, 42, value)
		}
	})

	t.Run("subscribe invokes success callback once", func(t *testing.T) {
		var calls int32
		got := make(chan int, 1)

		s := Create(func(e Emitter[int]) {
			go e.OnSuccess(7)
		})
		s.Subscribe(func(v int) {
			atomic.AddInt32(&calls, 1)
			got <- v
		}, func(err error) {
			t.Errorf("unexpected error: %v", err)
		})

		select {
		case v := <-got:
			assert.Equal(t, 7, v)
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for subscriber")
		}
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("subscribe invokes error callback", func(t *testing.T) {
		expected := errors.New("boom")
		got := make(chan error, 1)

		Error[int](expected).Subscribe(nil, func(err error) {
			got <- err
		})

		select {
		case err := <-got:
			assert.Same(t, expected, err)
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for error callback")
		}
	})
}
