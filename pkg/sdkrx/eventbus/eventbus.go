// Package eventbus exposes the Bitmark subscription server as a typed
// publish/subscribe bus.
//
// A WebSocketEventBus owns one transport.Service. Subscribe calls register
// interest with the server and return a Completable resolved by the server's
// acknowledgment; events of a subscribed topic are then pushed to that topic's
// Publisher, where any number of listeners may attach.
//
// Connect and disconnect outcomes are delivered to the listener slots through
// the bus dispatcher. With the default dispatch.Immediate, listeners run on the
// transport's goroutine. Only the latest Connect call reports: a session
// replaced by a later Connect ends without reaching the listeners.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/dispatch"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/o11y"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/rx"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/sdk"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/transport"
	"go.uber.org/zap"
)

// Topic names one kind of event.
type Topic string

const (
	TopicNewPendingIssuance Topic = "new-pending-issuance"
	TopicNewPendingTx       Topic = "new-pending-tx"
	TopicBitmarkChanged     Topic = "bitmark-changed"
	TopicNewBlock           Topic = "new-block"
	TopicNewTransferOffer   Topic = "new-transfer-offer"
)

// Topics lists every topic in a stable order.
var Topics = []Topic{
	TopicNewPendingIssuance,
	TopicNewPendingTx,
	TopicBitmarkChanged,
	TopicNewBlock,
	TopicNewTransferOffer,
}

// ParseTopic validates a topic name.
func ParseTopic(name string) (Topic, error) {
	for _, t := range Topics {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown topic %q", name)
}

type (
	PendingTx     = transport.PendingTx
	BitmarkChange = transport.BitmarkChange
)

// ErrInvalidAccount is returned when an account-scoped call gets an empty account.
var ErrInvalidAccount = errors.New("invalid account number")

// SubscribeEventError is the failure of a subscribe call rejected by the transport.
type SubscribeEventError struct {
	Code    int
	Message string
}

func (e *SubscribeEventError) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

func newSubscribeEventError(topic Topic, code int, message string) *SubscribeEventError {
	return &SubscribeEventError{
		Code:    code,
		Message: fmt.Sprintf("%s#%s", topic, message),
	}
}

// State is the connection state as last reported by the transport.
type State int32

const (
	StateIdle State = iota
	StateConnecting
	StateConnected
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// WebSocketEventBus is the event bus over a subscription server connection.
type WebSocketEventBus struct {
	service    transport.Service
	dispatcher dispatch.Dispatcher
	logger     *zap.Logger
	metrics    *metrics
	tracer     o11y.TracingProvider

	listenerMu         sync.RWMutex
	connectListener    func(err error)
	disconnectListener func()

	state      atomic.Int32
	generation atomic.Uint64

	activeMu sync.Mutex
	active   map[string]Topic

	newPendingIssuance *Publisher[string]
	newPendingTx       *Publisher[PendingTx]
	bitmarkChanged     *Publisher[BitmarkChange]
	newBlock           *Publisher[int64]
	newTransferOffer   *Publisher[string]
}

// connection receives the terminal events of one Connect call.
type connection struct {
	bus        *WebSocketEventBus
	generation uint64
}

var _ transport.ConnectionEvent = (*connection)(nil)

func (c *connection) superseded() bool {
	return c.bus.generation.Load() != c.generation
}

func (c *connection) OnConnected() {
	if c.superseded() {
		return
	}
	c.bus.onConnected()
}

func (c *connection) OnConnectionError(err error) {
	if c.superseded() {
		c.bus.logger.Debug("Ignoring connection error of a replaced session", zap.Error(err))
		return
	}
	c.bus.onConnectionError(err)
}

func (c *connection) OnDisconnected() {
	if c.superseded() {
		c.bus.logger.Debug("Ignoring disconnect of a replaced session")
		return
	}
	c.bus.onDisconnected()
}

// SetConnectListener sets the listener called with nil once connected, or
// with the error if connecting fails. nil clears the slot.
func (b *WebSocketEventBus) SetConnectListener(fn func(err error)) {
	b.listenerMu.Lock()
	b.connectListener = fn
	b.listenerMu.Unlock()
}

// SetDisconnectListener sets the listener called when the connection ends. nil clears the slot.
func (b *WebSocketEventBus) SetDisconnectListener(fn func()) {
	b.listenerMu.Lock()
	b.disconnectListener = fn
	b.listenerMu.Unlock()
}

// Connect opens the transport session for keyPair. The outcome is reported
// only to the connect listener.
func (b *WebSocketEventBus) Connect(ctx context.Context, keyPair sdk.KeyPair) {
	event := &connection{bus: b, generation: b.generation.Add(1)}
	b.state.Store(int32(StateConnecting))
	b.resetActive()
	b.logger.Info("Connecting event bus")
	b.service.Connect(ctx, keyPair, event)
}

// Disconnect closes the transport session. The outcome is reported to the
// disconnect listener.
func (b *WebSocketEventBus) Disconnect() {
	b.logger.Info("Disconnecting event bus")
	b.service.Disconnect()
}

// State returns the last connection state reported by the transport.
func (b *WebSocketEventBus) State() State {
	return State(b.state.Load())
}

func (b *WebSocketEventBus) onConnected() {
	b.state.Store(int32(StateConnected))
	b.metrics.connectionEvent("connected")
	b.logger.Info("Event bus connected")

	b.dispatcher.Post(func() {
		if listener := b.getConnectListener(); listener != nil {
			listener(nil)
		}
	})
}

func (b *WebSocketEventBus) onConnectionError(err error) {
	b.state.Store(int32(StateDisconnected))
	b.resetActive()
	b.metrics.connectionEvent("connection_error")

	b.dispatcher.Post(func() {
		listener := b.getConnectListener()
		if listener == nil {
			b.logger.Warn("Connection failed with no connect listener set", zap.Error(err))
			return
		}
		listener(err)
	})
}

func (b *WebSocketEventBus) onDisconnected() {
	b.state.Store(int32(StateDisconnected))
	b.resetActive()
	b.metrics.connectionEvent("disconnected")
	b.logger.Info("Event bus disconnected")

	b.dispatcher.Post(func() {
		if listener := b.getDisconnectListener(); listener != nil {
			listener()
		}
	})
}

func (b *WebSocketEventBus) getConnectListener() func(err error) {
	b.listenerMu.RLock()
	defer b.listenerMu.RUnlock()
	return b.connectListener
}

func (b *WebSocketEventBus) getDisconnectListener() func() {
	b.listenerMu.RLock()
	defer b.listenerMu.RUnlock()
	return b.disconnectListener
}

// NewPendingIssuance returns the publisher of pending issuance bitmark ids.
func (b *WebSocketEventBus) NewPendingIssuance() *Publisher[string] {
	return b.newPendingIssuance
}

// NewPendingTx returns the publisher of pending transactions.
func (b *WebSocketEventBus) NewPendingTx() *Publisher[PendingTx] {
	return b.newPendingTx
}

// BitmarkChanged returns the publisher of bitmark changes.
func (b *WebSocketEventBus) BitmarkChanged() *Publisher[BitmarkChange] {
	return b.bitmarkChanged
}

// NewBlock returns the publisher of new block numbers.
func (b *WebSocketEventBus) NewBlock() *Publisher[int64] {
	return b.newBlock
}

// NewTransferOffer returns the publisher of bitmark ids offered to the requester.
func (b *WebSocketEventBus) NewTransferOffer() *Publisher[string] {
	return b.newTransferOffer
}

// SubscribeNewBlock subscribes to new blocks.
func (b *WebSocketEventBus) SubscribeNewBlock() *rx.Completable {
	return b.subscribe(TopicNewBlock, "", func(s *subscription) {
		b.service.SubscribeNewBlock(s)
	})
}

// SubscribeNewPendingIssuance subscribes to pending issuances by issuer.
func (b *WebSocketEventBus) SubscribeNewPendingIssuance(issuer string) *rx.Completable {
	if err := checkAccount(TopicNewPendingIssuance, issuer); err != nil {
		return rx.Failed(err)
	}
	return b.subscribe(TopicNewPendingIssuance, issuer, func(s *subscription) {
		b.service.SubscribeNewPendingIssuance(issuer, s)
	})
}

// SubscribeNewPendingTx subscribes to pending transactions involving stakeholder.
func (b *WebSocketEventBus) SubscribeNewPendingTx(stakeholder string) *rx.Completable {
	if err := checkAccount(TopicNewPendingTx, stakeholder); err != nil {
		return rx.Failed(err)
	}
	return b.subscribe(TopicNewPendingTx, stakeholder, func(s *subscription) {
		b.service.SubscribeNewPendingTx(stakeholder, s)
	})
}

// SubscribeBitmarkChanged subscribes to changes of bitmarks owned by owner.
func (b *WebSocketEventBus) SubscribeBitmarkChanged(owner string) *rx.Completable {
	if err := checkAccount(TopicBitmarkChanged, owner); err != nil {
		return rx.Failed(err)
	}
	return b.subscribe(TopicBitmarkChanged, owner, func(s *subscription) {
		b.service.SubscribeBitmarkChanged(owner, s)
	})
}

// SubscribeNewTransferOffer subscribes to transfer offers made to requester.
func (b *WebSocketEventBus) SubscribeNewTransferOffer(requester string) *rx.Completable {
	if err := checkAccount(TopicNewTransferOffer, requester); err != nil {
		return rx.Failed(err)
	}
	return b.subscribe(TopicNewTransferOffer, requester, func(s *subscription) {
		b.service.SubscribeNewTransferOffer(requester, s)
	})
}

// UnsubscribeNewBlock stops new block delivery. It completes without waiting for the server.
func (b *WebSocketEventBus) UnsubscribeNewBlock() *rx.Completable {
	return b.unsubscribe(TopicNewBlock, "", b.service.UnsubscribeNewBlock)
}

// UnsubscribeNewPendingIssuance stops pending issuance delivery for issuer.
func (b *WebSocketEventBus) UnsubscribeNewPendingIssuance(issuer string) *rx.Completable {
	if err := checkAccount(TopicNewPendingIssuance, issuer); err != nil {
		return rx.Failed(err)
	}
	return b.unsubscribe(TopicNewPendingIssuance, issuer, func() {
		b.service.UnsubscribeNewPendingIssuance(issuer)
	})
}

// UnsubscribeNewPendingTx stops pending transaction delivery for stakeholder.
func (b *WebSocketEventBus) UnsubscribeNewPendingTx(stakeholder string) *rx.Completable {
	if err := checkAccount(TopicNewPendingTx, stakeholder); err != nil {
		return rx.Failed(err)
	}
	return b.unsubscribe(TopicNewPendingTx, stakeholder, func() {
		b.service.UnsubscribeNewPendingTx(stakeholder)
	})
}

// UnsubscribeBitmarkChanged stops bitmark change delivery for owner.
func (b *WebSocketEventBus) UnsubscribeBitmarkChanged(owner string) *rx.Completable {
	if err := checkAccount(TopicBitmarkChanged, owner); err != nil {
		return rx.Failed(err)
	}
	return b.unsubscribe(TopicBitmarkChanged, owner, func() {
		b.service.UnsubscribeBitmarkChanged(owner)
	})
}

// UnsubscribeNewTransferOffer stops transfer offer delivery for requester.
func (b *WebSocketEventBus) UnsubscribeNewTransferOffer(requester string) *rx.Completable {
	if err := checkAccount(TopicNewTransferOffer, requester); err != nil {
		return rx.Failed(err)
	}
	return b.unsubscribe(TopicNewTransferOffer, requester, func() {
		b.service.UnsubscribeNewTransferOffer(requester)
	})
}

// Subscribe subscribes to topic for account, which is ignored for TopicNewBlock.
func (b *WebSocketEventBus) Subscribe(topic Topic, account string) *rx.Completable {
	switch topic {
	case TopicNewBlock:
		return b.SubscribeNewBlock()
	case TopicNewPendingIssuance:
		return b.SubscribeNewPendingIssuance(account)
	case TopicNewPendingTx:
		return b.SubscribeNewPendingTx(account)
	case TopicBitmarkChanged:
		return b.SubscribeBitmarkChanged(account)
	case TopicNewTransferOffer:
		return b.SubscribeNewTransferOffer(account)
	default:
		return rx.Failed(fmt.Errorf("unknown topic %q", topic))
	}
}

// Unsubscribe unsubscribes from topic for account, which is ignored for TopicNewBlock.
func (b *WebSocketEventBus) Unsubscribe(topic Topic, account string) *rx.Completable {
	switch topic {
	case TopicNewBlock:
		return b.UnsubscribeNewBlock()
	case TopicNewPendingIssuance:
		return b.UnsubscribeNewPendingIssuance(account)
	case TopicNewPendingTx:
		return b.UnsubscribeNewPendingTx(account)
	case TopicBitmarkChanged:
		return b.UnsubscribeBitmarkChanged(account)
	case TopicNewTransferOffer:
		return b.UnsubscribeNewTransferOffer(account)
	default:
		return rx.Failed(fmt.Errorf("unknown topic %q", topic))
	}
}

func checkAccount(topic Topic, account string) error {
	if strings.TrimSpace(account) == "" {
		return fmt.Errorf("%s: %w", topic, ErrInvalidAccount)
	}
	return nil
}

func (b *WebSocketEventBus) subscribe(topic Topic, account string, call func(s *subscription)) *rx.Completable {
	return rx.CreateCompletable(func(emitter rx.CompletableEmitter) {
		s := b.newSubscription(topic, account, emitter)
		b.logger.Debug("Subscribing", zap.String("topic", string(topic)))
		call(s)
	})
}

func (b *WebSocketEventBus) unsubscribe(topic Topic, account string, call func()) *rx.Completable {
	return rx.FromCallable(func() error {
		b.logger.Debug("Unsubscribing", zap.String("topic", string(topic)))
		call()
		b.metrics.unsubscribed(topic)
		if b.untrackActive(topic, account) {
			b.metrics.activeChanged(topic, -1)
		}
		return nil
	})
}

// trackActive records an acknowledged subscription and reports whether the
// channel was not already active. The transport keeps one server subscription
// per channel, so duplicates count once.
func (b *WebSocketEventBus) trackActive(topic Topic, account string) bool {
	key := activeKey(topic, account)

	b.activeMu.Lock()
	defer b.activeMu.Unlock()
	if _, exists := b.active[key]; exists {
		return false
	}
	if b.active == nil {
		b.active = make(map[string]Topic)
	}
	b.active[key] = topic
	return true
}

func (b *WebSocketEventBus) untrackActive(topic Topic, account string) bool {
	key := activeKey(topic, account)

	b.activeMu.Lock()
	defer b.activeMu.Unlock()
	if _, exists := b.active[key]; !exists {
		return false
	}
	delete(b.active, key)
	return true
}

// resetActive forgets every active subscription. Subscriptions do not outlive
// their session.
func (b *WebSocketEventBus) resetActive() {
	b.activeMu.Lock()
	active := b.active
	b.active = nil
	b.activeMu.Unlock()

	for _, topic := range active {
		b.metrics.activeChanged(topic, -1)
	}
}

func activeKey(topic Topic, account string) string {
	if topic == TopicNewBlock {
		return string(topic)
	}
	return string(topic) + "#" + account
}
