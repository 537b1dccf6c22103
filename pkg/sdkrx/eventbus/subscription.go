package eventbus

import (
	"context"
	"time"

	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/o11y"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/rx"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/transport"
	"go.uber.org/zap"
)

// subscription is the transport handler of one subscribe call. It resolves
// the call's Completable and forwards events to the bus publishers.
type subscription struct {
	bus     *WebSocketEventBus
	topic   Topic
	account string
	emitter rx.CompletableEmitter
	ctx     context.Context
	span    o11y.Span
	started time.Time
}

var (
	_ transport.NewBlockHandler           = (*subscription)(nil)
	_ transport.NewPendingIssuanceHandler = (*subscription)(nil)
	_ transport.NewPendingTxHandler       = (*subscription)(nil)
	_ transport.BitmarkChangedHandler     = (*subscription)(nil)
	_ transport.TransferOfferHandler      = (*subscription)(nil)
)

func (b *WebSocketEventBus) newSubscription(topic Topic, account string, emitter rx.CompletableEmitter) *subscription {
	s := &subscription{
		bus:     b,
		topic:   topic,
		account: account,
		emitter: emitter,
		ctx:     context.Background(),
		started: time.Now(),
	}

	if b.tracer != nil {
		s.ctx, s.span = b.tracer.StartSpan(s.ctx, "eventbus.subscribe")
		s.span.SetAttributes(o11y.L("topic", string(topic)))
	}

	return s
}

func (s *subscription) OnSubscribeSuccess() {
	s.bus.metrics.subscribed(s.ctx, s.topic, "ok", time.Since(s.started))
	if s.bus.trackActive(s.topic, s.account) {
		s.bus.metrics.activeChanged(s.topic, 1)
	}
	if s.span != nil {
		s.span.SetStatus(o11y.SpanStatusOK, "")
		s.span.End()
	}

	s.emitter.OnComplete()
}

func (s *subscription) OnSubscribeError(code int, message string) {
	err := newSubscribeEventError(s.topic, code, message)

	s.bus.metrics.subscribed(s.ctx, s.topic, "error", time.Since(s.started))
	s.bus.logger.Warn("Subscribe failed",
		zap.String("topic", string(s.topic)),
		zap.Int("code", code),
		zap.String("message", message))
	if s.span != nil {
		s.span.RecordError(err)
		s.span.SetStatus(o11y.SpanStatusError, err.Message)
		s.span.End()
	}

	s.emitter.OnError(err)
}

func (s *subscription) OnUnsubscribe() {
	s.bus.logger.Info("Server ended subscription", zap.String("topic", string(s.topic)))
}

func (s *subscription) OnNewBlock(blockNumber int64) {
	s.bus.metrics.delivered(s.topic)
	s.bus.newBlock.Publish(blockNumber)
}

func (s *subscription) OnNewPendingIssuance(bitmarkID string) {
	s.bus.metrics.delivered(s.topic)
	s.bus.newPendingIssuance.Publish(bitmarkID)
}

func (s *subscription) OnNewPendingTx(tx transport.PendingTx) {
	s.bus.metrics.delivered(s.topic)
	s.bus.newPendingTx.Publish(tx)
}

func (s *subscription) OnBitmarkChanged(change transport.BitmarkChange) {
	s.bus.metrics.delivered(s.topic)
	s.bus.bitmarkChanged.Publish(change)
}

func (s *subscription) OnNewTransferOffer(bitmarkID string) {
	s.bus.metrics.delivered(s.topic)
	s.bus.newTransferOffer.Publish(bitmarkID)
}
