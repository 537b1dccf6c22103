package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/sdk"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/transport"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/websockets"
	"github.com/coder/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrNotConnected is reported to handlers when no connection is open.
var ErrNotConnected = errors.New("client is not connected")

var errConnectionClosed = &websockets.Error{Message: "connection closed"}

// Service implements transport.Service over a WebSocket connection to the
// Bitmark subscription server.
type Service struct {
	// Configuration
	url              string
	logger           *zap.Logger
	dialTimeout      time.Duration
	writeChannelSize int
	tokenProvider    TokenProvider
	headers          map[string][]string
	limiter          *rate.Limiter

	mu        sync.RWMutex
	current   *session
	commandID uint32
}

var _ transport.Service = (*Service)(nil)

// session is the state of one connect call. Replies and pushes never cross sessions.
type session struct {
	ctx    context.Context
	cancel context.CancelFunc
	event  transport.ConnectionEvent

	mu        sync.Mutex
	conn      *websocket.Conn
	loops     sync.WaitGroup
	connected int32
	stopping  int32

	writeChannel chan outgoing

	pendingMu sync.Mutex
	pending   map[uint32]func(reply *websockets.Reply)

	subsMu        sync.Mutex
	subscriptions map[string]*subscription
}

// subscription tracks the handlers of one channel.
type subscription struct {
	decode   decoder
	acked    bool
	handlers []transport.SubscribeHandler
	waiting  []transport.SubscribeHandler
}

type outgoing struct {
	data    []byte
	command bool
}

// Connect replaces any current connection with a new one. The outcome is
// reported to event: OnConnected once the server accepts the connect command,
// OnConnectionError if the token, the dial or the connect command fails, and
// OnDisconnected when an established connection ends.
func (s *Service) Connect(ctx context.Context, keyPair sdk.KeyPair, event transport.ConnectionEvent) {
	sessionCtx, cancel := context.WithCancel(ctx)
	sess := &session{
		ctx:           sessionCtx,
		cancel:        cancel,
		event:         event,
		writeChannel:  make(chan outgoing, s.writeChannelSize),
		pending:       make(map[uint32]func(reply *websockets.Reply)),
		subscriptions: make(map[string]*subscription),
	}

	s.mu.Lock()
	previous := s.current
	s.current = sess
	s.mu.Unlock()

	if previous != nil {
		s.stop(previous, nil)
	}

	go s.run(sess, keyPair)
}

// Disconnect closes the current connection, if any. It does not wait for the
// connection to end; OnDisconnected follows once it has.
func (s *Service) Disconnect() {
	s.mu.Lock()
	sess := s.current
	s.current = nil
	s.mu.Unlock()

	if sess != nil {
		s.logger.Info("Disconnecting from subscription server")
		s.stop(sess, nil)
	}
}

// IsConnected reports whether the server has accepted the current connection.
func (s *Service) IsConnected() bool {
	sess := s.session()
	return sess != nil && atomic.LoadInt32(&sess.connected) == 1
}

func (s *Service) session() *session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// run obtains a token, dials and sends the connect command.
func (s *Service) run(sess *session, keyPair sdk.KeyPair) {
	dialCtx, dialCancel := context.WithTimeout(sess.ctx, s.dialTimeout)
	defer dialCancel()

	token := ""
	if s.tokenProvider != nil {
		var err error
		token, err = s.tokenProvider.Token(dialCtx, keyPair)
		if err != nil {
			s.stop(sess, fmt.Errorf("failed to obtain connection token: %w", err))
			return
		}
	}

	dialOptions := &websocket.DialOptions{}
	if s.headers != nil {
		dialOptions.HTTPHeader = make(map[string][]string)
		for key, values := range s.headers {
			dialOptions.HTTPHeader[key] = values
		}
	}

	conn, _, err := websocket.Dial(dialCtx, s.url, dialOptions)
	if err != nil {
		s.stop(sess, fmt.Errorf("failed to connect to WebSocket: %w", err))
		return
	}

	id := s.nextCommandID()
	sess.addPending(id, func(reply *websockets.Reply) {
		if reply.Error != nil {
			s.stop(sess, fmt.Errorf("connect rejected: %w", reply.Error))
			return
		}
		atomic.StoreInt32(&sess.connected, 1)
		s.logger.Info("Connected to subscription server", zap.String("url", s.url))
		sess.event.OnConnected()
	})

	data, err := json.Marshal(websockets.Command{ID: id, Connect: &websockets.ConnectRequest{Token: token}})
	if err == nil {
		err = conn.Write(dialCtx, websocket.MessageText, data)
	}
	if err != nil {
		conn.Close(websocket.StatusInternalError, "connect failed")
		s.stop(sess, fmt.Errorf("failed to send connect command: %w", err))
		return
	}

	sess.mu.Lock()
	if sess.ctx.Err() != nil {
		sess.mu.Unlock()
		conn.Close(websocket.StatusNormalClosure, "client disconnect")
		return
	}
	sess.conn = conn
	sess.loops.Add(2)
	sess.mu.Unlock()

	go s.readLoop(sess, conn)
	go s.writeLoop(sess, conn)
}

// stop ends a session once. It never blocks on the session loops, so handlers
// running on the read loop may call Disconnect or Connect. The terminal event
// is reported by finish.
func (s *Service) stop(sess *session, cause error) {
	if !atomic.CompareAndSwapInt32(&sess.stopping, 0, 1) {
		return
	}

	sess.cancel()

	s.mu.Lock()
	if s.current == sess {
		s.current = nil
	}
	s.mu.Unlock()

	go s.finish(sess, cause)
}

// finish closes the connection, waits for the loops and reports the terminal
// event. A session that never connected and stopped because of cause reports
// OnConnectionError, everything else reports OnDisconnected.
func (s *Service) finish(sess *session, cause error) {
	sess.mu.Lock()
	conn := sess.conn
	sess.conn = nil
	sess.mu.Unlock()

	if conn != nil {
		if cause != nil {
			conn.Close(websocket.StatusInternalError, "connection error")
		} else {
			conn.Close(websocket.StatusNormalClosure, "client disconnect")
		}
	}

	sess.loops.Wait()
	sess.failPending(errConnectionClosed)

	if sess.event == nil {
		return
	}

	if cause != nil && atomic.LoadInt32(&sess.connected) == 0 {
		s.logger.Warn("Connection to subscription server failed", zap.Error(cause))
		sess.event.OnConnectionError(cause)
		return
	}

	s.logger.Info("Disconnected from subscription server")
	sess.event.OnDisconnected()
}

// nextCommandID generates the next command ID
func (s *Service) nextCommandID() uint32 {
	return atomic.AddUint32(&s.commandID, 1)
}

func (sess *session) addPending(id uint32, fn func(reply *websockets.Reply)) {
	sess.pendingMu.Lock()
	sess.pending[id] = fn
	sess.pendingMu.Unlock()
}

// cleanupPendingRequest removes a pending command and returns its callback if it existed
func (sess *session) cleanupPendingRequest(id uint32) (func(reply *websockets.Reply), bool) {
	sess.pendingMu.Lock()
	defer sess.pendingMu.Unlock()

	fn, exists := sess.pending[id]
	if exists {
		delete(sess.pending, id)
	}
	return fn, exists
}

func (sess *session) failPending(err *websockets.Error) {
	sess.pendingMu.Lock()
	pending := sess.pending
	sess.pending = make(map[uint32]func(reply *websockets.Reply))
	sess.pendingMu.Unlock()

	for id, fn := range pending {
		fn(&websockets.Reply{ID: id, Error: err})
	}
}

// send queues a frame for the write loop without blocking.
func (sess *session) send(data []byte, command bool) error {
	if sess.ctx.Err() != nil {
		return ErrNotConnected
	}

	select {
	case sess.writeChannel <- outgoing{data: data, command: command}:
		return nil
	case <-sess.ctx.Done():
		return ErrNotConnected
	default:
		return fmt.Errorf("write channel is full")
	}
}

func (s *Service) sendCommand(sess *session, cmd websockets.Command) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("failed to marshal command: %w", err)
	}
	return sess.send(data, true)
}

// readLoop processes incoming frames from the WebSocket
func (s *Service) readLoop(sess *session, conn *websocket.Conn) {
	defer sess.loops.Done()

	for {
		_, data, err := conn.Read(sess.ctx)
		if err != nil {
			if sess.ctx.Err() == nil {
				s.logger.Error("Failed to read from WebSocket", zap.Error(err))
				s.stop(sess, err)
			}
			return
		}

		s.handleFrame(sess, data)
	}
}

// writeLoop processes outgoing frames to the WebSocket
func (s *Service) writeLoop(sess *session, conn *websocket.Conn) {
	defer sess.loops.Done()

	for {
		select {
		case <-sess.ctx.Done():
			return
		case out := <-sess.writeChannel:
			if out.command && s.limiter != nil {
				if err := s.limiter.Wait(sess.ctx); err != nil {
					return
				}
			}
			if err := conn.Write(sess.ctx, websocket.MessageText, out.data); err != nil {
				if sess.ctx.Err() == nil {
					s.logger.Error("Failed to write to WebSocket", zap.Error(err))
					s.stop(sess, err)
				}
				return
			}
		}
	}
}

// handleFrame processes every message of an incoming frame
func (s *Service) handleFrame(sess *session, frame []byte) {
	messages := websockets.SplitFrame(frame)
	if len(messages) == 0 {
		s.pong(sess)
		return
	}

	for _, data := range messages {
		var reply websockets.Reply
		if err := json.Unmarshal(data, &reply); err != nil {
			s.logger.Warn("Failed to unmarshal WebSocket message", zap.Error(err))
			continue
		}

		switch {
		case reply.IsPing():
			s.pong(sess)
		case reply.Push != nil:
			s.handlePush(sess, reply.Push)
		default:
			s.handleReply(sess, &reply)
		}
	}
}

func (s *Service) pong(sess *session) {
	if err := sess.send(websockets.Pong, false); err != nil {
		s.logger.Warn("Failed to answer ping", zap.Error(err))
	}
}

// handleReply routes a command reply to its pending callback
func (s *Service) handleReply(sess *session, reply *websockets.Reply) {
	fn, exists := sess.cleanupPendingRequest(reply.ID)
	if !exists {
		s.logger.Debug("Reply for unknown command", zap.Uint32("id", reply.ID))
		return
	}
	fn(reply)
}

// handlePush delivers a publication or a server side unsubscribe
func (s *Service) handlePush(sess *session, push *websockets.Push) {
	sess.subsMu.Lock()
	sub := sess.subscriptions[push.Channel]
	if sub != nil && push.Unsubscribe != nil {
		delete(sess.subscriptions, push.Channel)
	}
	var handlers []transport.SubscribeHandler
	if sub != nil {
		handlers = append(handlers, sub.handlers...)
	}
	sess.subsMu.Unlock()

	if sub == nil {
		s.logger.Debug("Push for unknown channel", zap.String("channel", push.Channel))
		return
	}

	if push.Unsubscribe != nil {
		s.logger.Info("Server ended subscription", zap.String("channel", push.Channel))
		for _, h := range handlers {
			h.OnUnsubscribe()
		}
		return
	}

	if push.Pub == nil {
		return
	}

	deliver, err := sub.decode(push.Pub.Data)
	if err != nil {
		s.logger.Warn("Dropping malformed publication",
			zap.String("channel", push.Channel),
			zap.Error(err))
		return
	}

	for _, h := range handlers {
		deliver(h)
	}
}

// subscribe adds handler to channel. A channel already subscribed on this
// connection reuses the server subscription.
func (s *Service) subscribe(channel string, handler transport.SubscribeHandler, decode decoder) {
	sess := s.session()
	if sess == nil {
		handler.OnSubscribeError(0, ErrNotConnected.Error())
		return
	}

	sess.subsMu.Lock()
	if sub, exists := sess.subscriptions[channel]; exists {
		sub.handlers = append(sub.handlers, handler)
		acked := sub.acked
		if !acked {
			sub.waiting = append(sub.waiting, handler)
		}
		sess.subsMu.Unlock()

		if acked {
			handler.OnSubscribeSuccess()
		}
		return
	}

	sub := &subscription{
		decode:   decode,
		handlers: []transport.SubscribeHandler{handler},
		waiting:  []transport.SubscribeHandler{handler},
	}
	sess.subscriptions[channel] = sub
	sess.subsMu.Unlock()

	id := s.nextCommandID()
	sess.addPending(id, func(reply *websockets.Reply) {
		s.handleSubscribeReply(sess, channel, sub, reply)
	})

	s.logger.Debug("Subscribing", zap.String("channel", channel))

	err := s.sendCommand(sess, websockets.Command{ID: id, Subscribe: &websockets.SubscribeRequest{Channel: channel}})
	if err != nil {
		if fn, exists := sess.cleanupPendingRequest(id); exists {
			fn(&websockets.Reply{ID: id, Error: &websockets.Error{Message: err.Error()}})
		}
	}
}

func (s *Service) handleSubscribeReply(sess *session, channel string, sub *subscription, reply *websockets.Reply) {
	sess.subsMu.Lock()
	waiting := sub.waiting
	sub.waiting = nil
	if reply.Error != nil {
		if sess.subscriptions[channel] == sub {
			delete(sess.subscriptions, channel)
		}
	} else {
		sub.acked = true
	}
	sess.subsMu.Unlock()

	if reply.Error != nil {
		s.logger.Warn("Subscribe rejected",
			zap.String("channel", channel),
			zap.Int("code", reply.Error.Code),
			zap.String("message", reply.Error.Message))
	}

	for _, h := range waiting {
		if reply.Error != nil {
			h.OnSubscribeError(reply.Error.Code, reply.Error.Message)
		} else {
			h.OnSubscribeSuccess()
		}
	}
}

// unsubscribe drops the channel's handlers and tells the server without
// waiting for the reply.
func (s *Service) unsubscribe(channel string) {
	sess := s.session()
	if sess == nil {
		return
	}

	sess.subsMu.Lock()
	_, exists := sess.subscriptions[channel]
	delete(sess.subscriptions, channel)
	sess.subsMu.Unlock()

	if !exists {
		return
	}

	s.logger.Debug("Unsubscribing", zap.String("channel", channel))

	err := s.sendCommand(sess, websockets.Command{
		ID:          s.nextCommandID(),
		Unsubscribe: &websockets.UnsubscribeRequest{Channel: channel},
	})
	if err != nil {
		s.logger.Warn("Failed to send unsubscribe", zap.String("channel", channel), zap.Error(err))
	}
}

// SubscribeNewBlock implements transport.Service
func (s *Service) SubscribeNewBlock(handler transport.NewBlockHandler) {
	s.subscribe(transport.ChannelNewBlock, handler, decodeNewBlock)
}

// UnsubscribeNewBlock implements transport.Service
func (s *Service) UnsubscribeNewBlock() {
	s.unsubscribe(transport.ChannelNewBlock)
}

// SubscribeBitmarkChanged implements transport.Service
func (s *Service) SubscribeBitmarkChanged(owner string, handler transport.BitmarkChangedHandler) {
	s.subscribe(transport.BitmarkChangedChannel(owner), handler, decodeBitmarkChanged)
}

// UnsubscribeBitmarkChanged implements transport.Service
func (s *Service) UnsubscribeBitmarkChanged(owner string) {
	s.unsubscribe(transport.BitmarkChangedChannel(owner))
}

// SubscribeNewTransferOffer implements transport.Service
func (s *Service) SubscribeNewTransferOffer(requester string, handler transport.TransferOfferHandler) {
	s.subscribe(transport.TransferOfferChannel(requester), handler, decodeTransferOffer)
}

// UnsubscribeNewTransferOffer implements transport.Service
func (s *Service) UnsubscribeNewTransferOffer(requester string) {
	s.unsubscribe(transport.TransferOfferChannel(requester))
}

// SubscribeNewPendingIssuance implements transport.Service
func (s *Service) SubscribeNewPendingIssuance(issuer string, handler transport.NewPendingIssuanceHandler) {
	s.subscribe(transport.PendingIssuanceChannel(issuer), handler, decodePendingIssuance)
}

// UnsubscribeNewPendingIssuance implements transport.Service
func (s *Service) UnsubscribeNewPendingIssuance(issuer string) {
	s.unsubscribe(transport.PendingIssuanceChannel(issuer))
}

// SubscribeNewPendingTx implements transport.Service
func (s *Service) SubscribeNewPendingTx(stakeholder string, handler transport.NewPendingTxHandler) {
	s.subscribe(transport.PendingTxChannel(stakeholder), handler, decodePendingTx)
}

// UnsubscribeNewPendingTx implements transport.Service
func (s *Service) UnsubscribeNewPendingTx(stakeholder string) {
	s.unsubscribe(transport.PendingTxChannel(stakeholder))
}
