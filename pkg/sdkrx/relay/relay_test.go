package relay

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/eventbus"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/transform"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/transport"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

// nopService satisfies transport.Service; the relay only touches publishers.
type nopService struct {
	transport.Service
}

type published struct {
	subject string
	data    string
}

type memSink struct {
	mu     sync.Mutex
	events []published
	err    error
	closed bool
}

func (m *memSink) Publish(_ context.Context, subject string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, published{subject: subject, data: string(data)})
	return nil
}

func (m *memSink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return m.err
}

func (m *memSink) all() []published {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]published(nil), m.events...)
}

func newBus(t *testing.T) *eventbus.WebSocketEventBus {
	t.Helper()
	bus, err := eventbus.NewEventBus().WithService(nopService{}).Build()
	require.NoError(t, err)
	return bus
}

func TestRelayBuilder(t *testing.T) {
	_, err := NewRelay().Build()
	assert.ErrorContains(t, err, "sink is required")

	_, err = NewRelay().WithSink(&memSink{}).WithQueueSize(0).Build()
	assert.ErrorContains(t, err, "queue size")

	_, err = NewRelay().WithSink(&memSink{}).WithPublishTimeout(0).Build()
	assert.ErrorContains(t, err, "publish timeout")
}

func TestRelay(t *testing.T) {
	t.Run("every topic is published as JSON under the prefix", func(t *testing.T) {
		bus := newBus(t)
		sink := &memSink{}

		detach, err := Attach(bus, sink, "bitmark", nil)
		require.NoError(t, err)

		bus.NewBlock().Publish(42)
		bus.BitmarkChanged().Publish(eventbus.BitmarkChange{BitmarkID: "b1", TxID: "t1", Presence: true})
		bus.NewTransferOffer().Publish("b2")
		bus.NewPendingIssuance().Publish("b3")
		bus.NewPendingTx().Publish(eventbus.PendingTx{TxID: "t2", Owner: "o2", PrevTxID: "t1", PrevOwner: "o1"})
		detach()

		assert.Equal(t, []published{
			{"bitmark.new-block", `42`},
			{"bitmark.bitmark-changed", `{"bitmark_id":"b1","tx_id":"t1","presence":true}`},
			{"bitmark.new-transfer-offer", `"b2"`},
			{"bitmark.new-pending-issuance", `"b3"`},
			{"bitmark.new-pending-tx", `{"tx_id":"t2","owner":"o2","prev_tx_id":"t1","prev_owner":"o1"}`},
		}, sink.all())
		assert.False(t, sink.closed)
	})

	t.Run("detach stops relaying", func(t *testing.T) {
		bus := newBus(t)
		sink := &memSink{}

		r, err := NewRelay().WithSink(sink).Build()
		require.NoError(t, err)
		r.Attach(bus)
		assert.Equal(t, 1, bus.NewBlock().Len())

		require.NoError(t, r.Close())
		assert.Equal(t, 0, bus.NewBlock().Len())

		bus.NewBlock().Publish(1)
		assert.Empty(t, sink.all())
	})

	t.Run("empty prefix uses the bare topic", func(t *testing.T) {
		r, err := NewRelay().WithSink(&memSink{}).Build()
		require.NoError(t, err)
		defer r.Close()

		assert.Equal(t, "new-block", r.Subject("new-block"))
	})

	t.Run("transforms shape and filter events", func(t *testing.T) {
		bus := newBus(t)
		sink := &memSink{}

		jq, err := transform.Jq(`{block: .}`, nil)
		require.NoError(t, err)

		r, err := NewRelay().
			WithSink(sink).
			WithPrefix("p").
			WithTransforms(transform.OnlyTopics("new-block"), jq).
			Build()
		require.NoError(t, err)
		r.Attach(bus)

		bus.NewTransferOffer().Publish("b1")
		bus.NewBlock().Publish(7)
		require.NoError(t, r.Close())

		assert.Equal(t, []published{{"p.new-block", `{"block":7}`}}, sink.all())
	})

	t.Run("sink failures do not stop the relay", func(t *testing.T) {
		bus := newBus(t)
		sink := &memSink{err: errors.New("down")}

		r, err := NewRelay().WithSink(sink).Build()
		require.NoError(t, err)
		r.Attach(bus)

		bus.NewBlock().Publish(1)
		assert.Equal(t, 1, bus.NewBlock().Len())
		require.NoError(t, r.Close())
	})
}

func TestMultiSink(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes to every sink", func(t *testing.T) {
		a, b := &memSink{}, &memSink{}
		require.NoError(t, MultiSink{a, b}.Publish(ctx, "s", []byte("1")))
		assert.Len(t, a.all(), 1)
		assert.Len(t, b.all(), 1)
	})

	t.Run("combines errors", func(t *testing.T) {
		a := &memSink{err: errors.New("a down")}
		b := &memSink{err: errors.New("b down")}
		ok := &memSink{}

		err := MultiSink{a, ok, b}.Publish(ctx, "s", []byte("1"))
		assert.Len(t, multierr.Errors(err), 2)
		assert.Len(t, ok.all(), 1)

		err = MultiSink{a, ok, b}.Close()
		assert.Len(t, multierr.Errors(err), 2)
		assert.True(t, ok.closed)
	})
}

func TestNATSSink(t *testing.T) {
	_, err := ConnectNATS("")
	assert.Error(t, err)

	assert.ErrorContains(t, NewNATSSink(nil).Publish(context.Background(), "s", nil), "not connected")
	assert.NoError(t, NewNATSSink(nil).Close())
}

func TestRedisSink(t *testing.T) {
	server := miniredis.RunT(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	subscriber := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer subscriber.Close()

	ps := subscriber.Subscribe(ctx, "bitmark.new-block")
	defer ps.Close()
	_, err := ps.Receive(ctx)
	require.NoError(t, err)

	sink := NewRedisSink(&redis.Options{Addr: server.Addr()})
	require.NoError(t, sink.Ping(ctx))

	bus := newBus(t)
	detach, err := Attach(bus, sink, "bitmark", nil)
	require.NoError(t, err)

	bus.NewBlock().Publish(42)
	detach()

	msg, err := ps.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bitmark.new-block", msg.Channel)
	assert.Equal(t, "42", msg.Payload)

	require.NoError(t, sink.Close())
}
