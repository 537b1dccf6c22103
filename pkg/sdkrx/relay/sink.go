package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
)

// Sink receives relayed events.
type Sink interface {
	Publish(ctx context.Context, subject string, data []byte) error
	Close() error
}

// RedisSink publishes to Redis Pub/Sub channels named after the subject.
type RedisSink struct {
	client *redis.Client
}

// NewRedisSink creates a RedisSink with its own client.
func NewRedisSink(opts *redis.Options) *RedisSink {
	return &RedisSink{client: redis.NewClient(opts)}
}

// NewRedisSinkFromClient creates a RedisSink on an existing client. Close closes the client.
func NewRedisSinkFromClient(client *redis.Client) *RedisSink {
	return &RedisSink{client: client}
}

// Ping checks that the server is reachable.
func (s *RedisSink) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisSink) Publish(ctx context.Context, subject string, data []byte) error {
	return s.client.Publish(ctx, subject, data).Err()
}

func (s *RedisSink) Close() error {
	return s.client.Close()
}

// NATSSink publishes to NATS subjects.
type NATSSink struct {
	nc *nats.Conn
}

// ConnectNATS connects to the NATS server at url.
func ConnectNATS(url string, opts ...nats.Option) (*NATSSink, error) {
	if url == "" {
		return nil, fmt.Errorf("NATS URL is required")
	}

	opts = append([]nats.Option{
		nats.Name("sdkrx-relay"),
		nats.Timeout(5 * time.Second),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(500 * time.Millisecond),
	}, opts...)

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSSink{nc: nc}, nil
}

// NewNATSSink wraps an existing connection. Close drains it.
func NewNATSSink(nc *nats.Conn) *NATSSink {
	return &NATSSink{nc: nc}
}

func (s *NATSSink) Publish(ctx context.Context, subject string, data []byte) error {
	if s == nil || s.nc == nil {
		return fmt.Errorf("nats not connected")
	}
	// nats.go Publish only buffers; ctx is checked before the send.
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return s.nc.Publish(subject, data)
}

func (s *NATSSink) Close() error {
	if s == nil || s.nc == nil {
		return nil
	}
	err := s.nc.Drain()
	s.nc.Close()
	return err
}

// MultiSink publishes to every sink, combining their errors.
type MultiSink []Sink

func (m MultiSink) Publish(ctx context.Context, subject string, data []byte) error {
	var err error
	for _, s := range m {
		err = multierr.Append(err, s.Publish(ctx, subject, data))
	}
	return err
}

func (m MultiSink) Close() error {
	var err error
	for _, s := range m {
		err = multierr.Append(err, s.Close())
	}
	return err
}
