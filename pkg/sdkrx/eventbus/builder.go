package eventbus

import (
	"fmt"

	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/dispatch"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/o11y"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/transport"
	"go.uber.org/zap"
)

// EventBusBuilder provides a fluent interface for building a WebSocketEventBus.
type EventBusBuilder struct {
	service    transport.Service
	dispatcher dispatch.Dispatcher
	logger     *zap.Logger
	o11yConfig o11y.Config
}

// NewEventBus creates a new EventBusBuilder.
func NewEventBus() *EventBusBuilder {
	return &EventBusBuilder{
		dispatcher: dispatch.Immediate{},
		logger:     zap.NewNop(),
	}
}

// WithService sets the transport the bus is bound to. Required.
func (b *EventBusBuilder) WithService(service transport.Service) *EventBusBuilder {
	b.service = service
	return b
}

// WithDispatcher sets where connect and disconnect listeners run.
func (b *EventBusBuilder) WithDispatcher(dispatcher dispatch.Dispatcher) *EventBusBuilder {
	if dispatcher != nil {
		b.dispatcher = dispatcher
	}
	return b
}

// WithLogger sets the logger.
func (b *EventBusBuilder) WithLogger(logger *zap.Logger) *EventBusBuilder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// WithMetricsProvider sets the metrics provider.
func (b *EventBusBuilder) WithMetricsProvider(provider o11y.MetricsProvider) *EventBusBuilder {
	b.o11yConfig.MetricsProvider = provider
	return b
}

// WithTracingProvider sets the tracing provider.
func (b *EventBusBuilder) WithTracingProvider(provider o11y.TracingProvider) *EventBusBuilder {
	b.o11yConfig.TracingProvider = provider
	return b
}

// WithObservability sets both providers from cfg.
func (b *EventBusBuilder) WithObservability(cfg o11y.Config) *EventBusBuilder {
	b.o11yConfig = cfg
	return b
}

// IsValid checks that all required configuration is present.
func (b *EventBusBuilder) IsValid() error {
	if b.service == nil {
		return fmt.Errorf("transport service is required")
	}
	return nil
}

// Build creates the WebSocketEventBus.
func (b *EventBusBuilder) Build() (*WebSocketEventBus, error) {
	if err := b.IsValid(); err != nil {
		return nil, err
	}

	return &WebSocketEventBus{
		service:            b.service,
		dispatcher:         b.dispatcher,
		logger:             b.logger,
		metrics:            newMetrics(b.o11yConfig.MetricsProvider),
		tracer:             b.o11yConfig.TracingProvider,
		newPendingIssuance: NewPublisher[string](TopicNewPendingIssuance),
		newPendingTx:       NewPublisher[PendingTx](TopicNewPendingTx),
		bitmarkChanged:     NewPublisher[BitmarkChange](TopicBitmarkChanged),
		newBlock:           NewPublisher[int64](TopicNewBlock),
		newTransferOffer:   NewPublisher[string](TopicNewTransferOffer),
	}, nil
}
