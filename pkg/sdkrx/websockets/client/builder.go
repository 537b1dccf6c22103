package client

import (
	"context"
	"fmt"
	"time"

	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/sdk"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/websockets"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// TokenProvider obtains the connection token sent in the connect command.
type TokenProvider interface {
	Token(ctx context.Context, keyPair sdk.KeyPair) (string, error)
}

// TokenProviderFunc adapts a function to TokenProvider.
type TokenProviderFunc func(ctx context.Context, keyPair sdk.KeyPair) (string, error)

// Token implements TokenProvider
func (f TokenProviderFunc) Token(ctx context.Context, keyPair sdk.KeyPair) (string, error) {
	return f(ctx, keyPair)
}

// ServiceBuilder provides a fluent interface for building subscription clients.
type ServiceBuilder struct {
	url              string
	logger           *zap.Logger
	dialTimeout      time.Duration
	writeChannelSize int
	tokenProvider    TokenProvider
	headers          map[string][]string // Custom HTTP headers for the handshake
	limiter          *rate.Limiter
}

// NewService creates a new subscription client builder.
func NewService() *ServiceBuilder {
	return &ServiceBuilder{
		dialTimeout:      websockets.DefaultDialTimeout,
		logger:           zap.NewNop(),
		writeChannelSize: websockets.DefaultWriteChannelSize,
	}
}

// WithURL sets the WebSocket URL to connect to.
func (b *ServiceBuilder) WithURL(url string) *ServiceBuilder {
	b.url = url
	return b
}

// WithNetwork sets the URL to the subscription endpoint of a Bitmark network.
func (b *ServiceBuilder) WithNetwork(network websockets.Network) *ServiceBuilder {
	b.url = network.SubscriptionURL()
	return b
}

// WithLogger sets the logger for the client.
func (b *ServiceBuilder) WithLogger(logger *zap.Logger) *ServiceBuilder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// WithDialTimeout sets the timeout for obtaining a token and establishing the connection.
func (b *ServiceBuilder) WithDialTimeout(timeout time.Duration) *ServiceBuilder {
	if timeout > 0 {
		b.dialTimeout = timeout
	}
	return b
}

// WithWriteChannelSize sets the buffer size for the internal write channel. Default is 100.
func (b *ServiceBuilder) WithWriteChannelSize(size int) *ServiceBuilder {
	if size > 0 {
		b.writeChannelSize = size
	}
	return b
}

// WithTokenProvider sets the provider consulted on every connect.
func (b *ServiceBuilder) WithTokenProvider(provider TokenProvider) *ServiceBuilder {
	b.tokenProvider = provider
	return b
}

// WithStaticToken sends the same token on every connect.
func (b *ServiceBuilder) WithStaticToken(token string) *ServiceBuilder {
	b.tokenProvider = TokenProviderFunc(func(context.Context, sdk.KeyPair) (string, error) {
		return token, nil
	})
	return b
}

// WithHeaders merges custom HTTP headers for the WebSocket handshake.
func (b *ServiceBuilder) WithHeaders(headers map[string][]string) *ServiceBuilder {
	if b.headers == nil {
		b.headers = make(map[string][]string)
	}
	for key, values := range headers {
		b.headers[key] = values
	}
	return b
}

// WithHeader sets a single HTTP header for the WebSocket handshake.
func (b *ServiceBuilder) WithHeader(key, value string) *ServiceBuilder {
	if b.headers == nil {
		b.headers = make(map[string][]string)
	}
	b.headers[key] = []string{value}
	return b
}

// WithRateLimit limits how fast subscribe and unsubscribe commands are written.
// Pings and the connect command are never delayed.
func (b *ServiceBuilder) WithRateLimit(limit rate.Limit, burst int) *ServiceBuilder {
	if limit > 0 && burst > 0 {
		b.limiter = rate.NewLimiter(limit, burst)
	}
	return b
}

// Build creates and returns a new subscription client with the configured options.
func (b *ServiceBuilder) Build() (*Service, error) {
	if err := b.IsValid(); err != nil {
		return nil, err
	}

	return &Service{
		url:              b.url,
		logger:           b.logger,
		dialTimeout:      b.dialTimeout,
		writeChannelSize: b.writeChannelSize,
		tokenProvider:    b.tokenProvider,
		headers:          b.headers,
		limiter:          b.limiter,
	}, nil
}

// IsValid checks that all required configuration is present.
func (b *ServiceBuilder) IsValid() error {
	if b.url == "" {
		return fmt.Errorf("URL is required")
	}

	if b.logger == nil {
		b.logger = zap.NewNop()
	}

	if b.dialTimeout <= 0 {
		b.dialTimeout = websockets.DefaultDialTimeout
	}

	if b.writeChannelSize <= 0 {
		b.writeChannelSize = websockets.DefaultWriteChannelSize
	}

	return nil
}
