// Package rxsdk exposes the callback-based Bitmark SDK operations as futures.
//
// Every method performs exactly one SDK invocation and returns an rx.Single
// that resolves with the SDK's success payload or fails with the SDK's error,
// both passed through unchanged.
package rxsdk

import (
	"errors"

	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/rx"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/sdk"
	"go.uber.org/zap"
)

// ErrAPINotConfigured is returned when a method is called on a Client built
// without the SDK surface it needs.
var ErrAPINotConfigured = errors.New("sdk api not configured")

// Client adapts the SDK interfaces it was built with.
type Client struct {
	assets       sdk.AssetAPI
	bitmarks     sdk.BitmarkAPI
	transactions sdk.TransactionAPI
	migration    sdk.MigrationAPI
	logger       *zap.Logger
}

// ClientBuilder provides a fluent interface for building a Client.
type ClientBuilder struct {
	assets       sdk.AssetAPI
	bitmarks     sdk.BitmarkAPI
	transactions sdk.TransactionAPI
	migration    sdk.MigrationAPI
	logger       *zap.Logger
}

// NewClient creates a new ClientBuilder.
func NewClient() *ClientBuilder {
	return &ClientBuilder{
		logger: zap.NewNop(),
	}
}

// WithAssets sets the asset API.
func (b *ClientBuilder) WithAssets(api sdk.AssetAPI) *ClientBuilder {
	b.assets = api
	return b
}

// WithBitmarks sets the bitmark API.
func (b *ClientBuilder) WithBitmarks(api sdk.BitmarkAPI) *ClientBuilder {
	b.bitmarks = api
	return b
}

// WithTransactions sets the transaction API.
func (b *ClientBuilder) WithTransactions(api sdk.TransactionAPI) *ClientBuilder {
	b.transactions = api
	return b
}

// WithMigration sets the migration API.
func (b *ClientBuilder) WithMigration(api sdk.MigrationAPI) *ClientBuilder {
	b.migration = api
	return b
}

// WithLogger sets the logger used for debug output.
func (b *ClientBuilder) WithLogger(logger *zap.Logger) *ClientBuilder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// IsValid checks that at least one SDK surface is configured.
func (b *ClientBuilder) IsValid() error {
	if b.assets == nil && b.bitmarks == nil && b.transactions == nil && b.migration == nil {
		return errors.New("at least one SDK api is required")
	}
	return nil
}

// Build creates the Client.
func (b *ClientBuilder) Build() (*Client, error) {
	if err := b.IsValid(); err != nil {
		return nil, err
	}

	return &Client{
		assets:       b.assets,
		bitmarks:     b.bitmarks,
		transactions: b.transactions,
		migration:    b.migration,
		logger:       b.logger,
	}, nil
}

// invoke wraps one callback-style SDK call. The emitter satisfies sdk.Callback
// directly, so payloads and errors reach the future untouched.
func invoke[T any](c *Client, operation string, configured bool, call func(callback sdk.Callback[T])) *rx.Single[T] {
	if !configured {
		return rx.Error[T](ErrAPINotConfigured)
	}

	c.logger.Debug("Invoking SDK operation", zap.String("operation", operation))

	return rx.Create(func(emitter rx.Emitter[T]) {
		call(emitter)
	})
}
