// Package relay forwards event bus traffic to external brokers.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/dispatch"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/eventbus"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/transform"
	"go.uber.org/zap"
)

const (
	DefaultQueueSize      = 1000
	DefaultPublishTimeout = 5 * time.Second
)

// Relay attaches to the publishers of an event bus and publishes every event
// as JSON to a Sink under "<prefix>.<topic>".
//
// Sink calls happen on a background queue so the bus is never blocked by the
// broker. When the queue is full, events are dropped and logged.
type Relay struct {
	sink       Sink
	prefix     string
	logger     *zap.Logger
	transforms []transform.Func
	timeout    time.Duration
	loop       *dispatch.Loop

	mu       sync.Mutex
	detaches []func()
}

// RelayBuilder provides a fluent interface for building a Relay.
type RelayBuilder struct {
	sink       Sink
	prefix     string
	logger     *zap.Logger
	transforms []transform.Func
	queueSize  int
	timeout    time.Duration
}

// NewRelay creates a new RelayBuilder.
func NewRelay() *RelayBuilder {
	return &RelayBuilder{
		logger:    zap.NewNop(),
		queueSize: DefaultQueueSize,
		timeout:   DefaultPublishTimeout,
	}
}

// WithSink sets the sink events are published to. Required.
func (b *RelayBuilder) WithSink(sink Sink) *RelayBuilder {
	b.sink = sink
	return b
}

// WithPrefix sets the subject prefix. An empty prefix publishes under the bare topic.
func (b *RelayBuilder) WithPrefix(prefix string) *RelayBuilder {
	b.prefix = prefix
	return b
}

// WithLogger sets the logger.
func (b *RelayBuilder) WithLogger(logger *zap.Logger) *RelayBuilder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// WithTransforms adds transforms applied before each publish.
func (b *RelayBuilder) WithTransforms(funcs ...transform.Func) *RelayBuilder {
	b.transforms = append(b.transforms, funcs...)
	return b
}

// WithQueueSize sets how many events may wait for the sink.
func (b *RelayBuilder) WithQueueSize(size int) *RelayBuilder {
	b.queueSize = size
	return b
}

// WithPublishTimeout bounds each sink call.
func (b *RelayBuilder) WithPublishTimeout(timeout time.Duration) *RelayBuilder {
	b.timeout = timeout
	return b
}

// IsValid checks that all required configuration is present.
func (b *RelayBuilder) IsValid() error {
	if b.sink == nil {
		return fmt.Errorf("sink is required")
	}
	if b.queueSize <= 0 {
		return fmt.Errorf("queue size must be positive")
	}
	if b.timeout <= 0 {
		return fmt.Errorf("publish timeout must be positive")
	}
	return nil
}

// Build creates the Relay and starts its queue.
func (b *RelayBuilder) Build() (*Relay, error) {
	if err := b.IsValid(); err != nil {
		return nil, err
	}

	return &Relay{
		sink:       b.sink,
		prefix:     b.prefix,
		logger:     b.logger,
		transforms: b.transforms,
		timeout:    b.timeout,
		loop:       dispatch.NewLoop(b.queueSize).Start(),
	}, nil
}

// Attach relays every topic of bus until Close.
func (r *Relay) Attach(bus *eventbus.WebSocketEventBus) {
	detaches := []func(){
		attachPublisher(r, bus.NewPendingIssuance()),
		attachPublisher(r, bus.NewPendingTx()),
		attachPublisher(r, bus.BitmarkChanged()),
		attachPublisher(r, bus.NewBlock()),
		attachPublisher(r, bus.NewTransferOffer()),
	}

	r.mu.Lock()
	r.detaches = append(r.detaches, detaches...)
	r.mu.Unlock()
}

// Close detaches from every bus and waits for queued events to reach the sink.
// The sink itself stays open.
func (r *Relay) Close() error {
	r.mu.Lock()
	detaches := r.detaches
	r.detaches = nil
	r.mu.Unlock()

	for _, detach := range detaches {
		detach()
	}
	return r.loop.Close()
}

// Subject returns the subject events of topic are published under.
func (r *Relay) Subject(topic string) string {
	if r.prefix == "" {
		return topic
	}
	return r.prefix + "." + topic
}

func attachPublisher[T any](r *Relay, publisher *eventbus.Publisher[T]) func() {
	topic := string(publisher.Topic())
	id := publisher.Subscribe(func(value T) {
		r.relay(topic, value)
	})
	return func() {
		publisher.Unsubscribe(id)
	}
}

func (r *Relay) relay(topic string, payload any) {
	msg := transform.Apply(&transform.Message{Topic: topic, Payload: payload}, r.transforms...)
	if msg == nil {
		return
	}

	data, err := json.Marshal(msg.Payload)
	if err != nil {
		r.logger.Error("Failed to encode event", zap.String("topic", topic), zap.Error(err))
		return
	}

	subject := r.Subject(msg.Topic)
	err = r.loop.TryPost(func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := r.sink.Publish(ctx, subject, data); err != nil {
			r.logger.Warn("Failed to relay event", zap.String("subject", subject), zap.Error(err))
			return
		}
		r.logger.Debug("Relayed event", zap.String("subject", subject))
	})
	if errors.Is(err, dispatch.ErrQueueFull) {
		r.logger.Warn("Relay queue full, dropping event", zap.String("subject", subject))
	}
}

// Attach relays every topic of bus to sink under prefix and returns a
// function that detaches and flushes the relay.
func Attach(bus *eventbus.WebSocketEventBus, sink Sink, prefix string, logger *zap.Logger) (func(), error) {
	r, err := NewRelay().WithSink(sink).WithPrefix(prefix).WithLogger(logger).Build()
	if err != nil {
		return nil, err
	}
	r.Attach(bus)
	return func() { _ = r.Close() }, nil
}
