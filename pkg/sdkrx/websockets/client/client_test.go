package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/sdk"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/transport"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/websockets"
	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const testAccount = "ec6yMcJATX6gjNwvqp8rbc4jNEasoUgbfBBGGyV5NvoJ54NXva"

const waitTimeout = 2 * time.Second

// fakeServer speaks enough of the subscription protocol for the client tests.
type fakeServer struct {
	*httptest.Server

	mu   sync.Mutex
	conn *websocket.Conn

	commands chan websockets.Command
	pongs    chan struct{}
	headers  chan http.Header
}

func newFakeServer(t *testing.T) *fakeServer {
	f := &fakeServer{
		commands: make(chan websockets.Command, 32),
		pongs:    make(chan struct{}, 4),
		headers:  make(chan http.Header, 4),
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeServer) wsURL() string {
	return "ws" + strings.TrimPrefix(f.URL, "http")
}

func (f *fakeServer) handle(w http.ResponseWriter, r *http.Request) {
	f.headers <- r.Header.Clone()

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	f.mu.Lock()
	f.conn = conn
	f.mu.Unlock()

	ctx := r.Context()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if string(bytes.TrimSpace(data)) == "{}" {
			f.pongs <- struct{}{}
			continue
		}

		var cmd websockets.Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			return
		}
		f.commands <- cmd

		switch {
		case cmd.Connect != nil && cmd.Connect.Token == "expired":
			f.write(fmt.Sprintf(`{"id":%d,"error":{"code":109,"message":"token expired"}}`, cmd.ID))
		case cmd.Connect != nil:
			f.write(fmt.Sprintf(`{"id":%d,"connect":{"client":"c1"}}`, cmd.ID))
		case cmd.Subscribe != nil && strings.Contains(cmd.Subscribe.Channel, "denied"):
			f.write(fmt.Sprintf(`{"id":%d,"error":{"code":101,"message":"permission denied"}}`, cmd.ID))
		case cmd.Subscribe != nil:
			f.write(fmt.Sprintf(`{"id":%d,"subscribe":{}}`, cmd.ID))
		case cmd.Unsubscribe != nil:
			f.write(fmt.Sprintf(`{"id":%d,"unsubscribe":{}}`, cmd.ID))
		}
	}
}

func (f *fakeServer) write(frame string) {
	f.mu.Lock()
	conn := f.conn
	f.mu.Unlock()
	if conn == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()
	_ = conn.Write(ctx, websocket.MessageText, []byte(frame))
}

func (f *fakeServer) publish(channel, data string) {
	f.write(fmt.Sprintf(`{"push":{"channel":%q,"pub":{"data":%s}}}`, channel, data))
}

func (f *fakeServer) closeConn() {
	f.mu.Lock()
	conn := f.conn
	f.mu.Unlock()
	if conn != nil {
		conn.Close(websocket.StatusGoingAway, "bye")
	}
}

func (f *fakeServer) nextCommand(t *testing.T) websockets.Command {
	t.Helper()
	select {
	case cmd := <-f.commands:
		return cmd
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for command")
		return websockets.Command{}
	}
}

// recorder implements every handler interface and the connection event.
type recorder struct {
	events  chan string
	blocks  chan int64
	changes chan transport.BitmarkChange
	ids     chan string
	txs     chan transport.PendingTx
}

func newRecorder() *recorder {
	return &recorder{
		events:  make(chan string, 16),
		blocks:  make(chan int64, 16),
		changes: make(chan transport.BitmarkChange, 16),
		ids:     make(chan string, 16),
		txs:     make(chan transport.PendingTx, 16),
	}
}

func (r *recorder) OnConnected() { r.events <- "connected" }
func (r *recorder) OnDisconnected() { r.events <- "disconnected" }
func (r *recorder) OnConnectionError(err error) { r.events <- "connection error: " + err.Error() }
func (r *recorder) OnSubscribeSuccess() { r.events <- "subscribed" }
func (r *recorder) OnUnsubscribe() { r.events <- "unsubscribed" }
func (r *recorder) OnNewBlock(blockNumber int64) { r.blocks <- blockNumber }
func (r *recorder) OnNewTransferOffer(id string) { r.ids <- id }
func (r *recorder) OnNewPendingIssuance(id string) { r.ids <- id }
func (r *recorder) OnNewPendingTx(tx transport.PendingTx) { r.txs <- tx }

func (r *recorder) OnBitmarkChanged(change transport.BitmarkChange) {
	r.changes <- change
}

func (r *recorder) OnSubscribeError(code int, message string) {
	r.events <- fmt.Sprintf("subscribe error %d: %s", code, message)
}

func (r *recorder) nextEvent(t *testing.T) string {
	t.Helper()
	select {
	case e := <-r.events:
		return e
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for event")
		return ""
	}
}

func receive[T any](t *testing.T, ch chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for value")
		var zero T
		return zero
	}
}

func connect(t *testing.T, server *fakeServer, token string) (*Service, *recorder) {
	t.Helper()

	service, err := NewService().
		WithURL(server.wsURL()).
		WithLogger(zap.NewNop()).
		WithStaticToken(token).
		Build()
	require.NoError(t, err)
	t.Cleanup(service.Disconnect)

	rec := newRecorder()
	service.Connect(context.Background(), nil, rec)
	require.Equal(t, "connected", rec.nextEvent(t))

	cmd := server.nextCommand(t)
	require.NotNil(t, cmd.Connect)
	assert.Equal(t, token, cmd.Connect.Token)

	return service, rec
}

func TestServiceBuilder(t *testing.T) {
	t.Run("build fails with missing URL", func(t *testing.T) {
		_, err := NewService().Build()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "URL is required")
	})

	t.Run("network sets the URL", func(t *testing.T) {
		service, err := NewService().WithNetwork(websockets.Testnet).Build()
		require.NoError(t, err)
		assert.Equal(t, websockets.Testnet.SubscriptionURL(), service.url)
	})

	t.Run("default values", func(t *testing.T) {
		builder := NewService()
		assert.Equal(t, 30*time.Second, builder.dialTimeout)
		assert.Equal(t, 100, builder.writeChannelSize)
		assert.NotNil(t, builder.logger)
		assert.Nil(t, builder.limiter)
	})

	t.Run("invalid values are ignored", func(t *testing.T) {
		builder := NewService().
			WithLogger(nil).
			WithDialTimeout(-time.Second).
			WithWriteChannelSize(0).
			WithRateLimit(0, 1)
		assert.NotNil(t, builder.logger)
		assert.Equal(t, 30*time.Second, builder.dialTimeout)
		assert.Equal(t, 100, builder.writeChannelSize)
		assert.Nil(t, builder.limiter)
	})

	t.Run("headers merge", func(t *testing.T) {
		service, err := NewService().
			WithURL("ws://localhost:8080/ws").
			WithHeaders(map[string][]string{"X-API-Key": {"key123"}}).
			WithHeader("User-Agent", "sdkrx/1.0").
			WithRateLimit(rate.Limit(10), 1).
			Build()
		require.NoError(t, err)

		assert.Equal(t, map[string][]string{
			"X-API-Key":  {"key123"},
			"User-Agent": {"sdkrx/1.0"},
		}, service.headers)
		assert.NotNil(t, service.limiter)
	})

	t.Run("static token", func(t *testing.T) {
		service, err := NewService().WithURL("ws://localhost:8080/ws").WithStaticToken("abc").Build()
		require.NoError(t, err)

		token, err := service.tokenProvider.Token(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "abc", token)
	})
}

func TestServiceConnect(t *testing.T) {
	t.Run("connect sends token and headers", func(t *testing.T) {
		server := newFakeServer(t)

		service, err := NewService().
			WithURL(server.wsURL()).
			WithHeader("X-Client", "test").
			WithStaticToken("token-1").
			Build()
		require.NoError(t, err)
		t.Cleanup(service.Disconnect)

		rec := newRecorder()
		service.Connect(context.Background(), nil, rec)
		assert.Equal(t, "connected", rec.nextEvent(t))
		assert.True(t, service.IsConnected())

		headers := receive(t, server.headers)
		assert.Equal(t, "test", headers.Get("X-Client"))

		cmd := server.nextCommand(t)
		require.NotNil(t, cmd.Connect)
		assert.Equal(t, "token-1", cmd.Connect.Token)
	})

	t.Run("token provider receives the key pair", func(t *testing.T) {
		server := newFakeServer(t)
		keyPair := &stubKeyPair{account: testAccount}

		var got sdk.KeyPair
		service, err := NewService().
			WithURL(server.wsURL()).
			WithTokenProvider(TokenProviderFunc(func(ctx context.Context, kp sdk.KeyPair) (string, error) {
				got = kp
				return "signed-" + kp.AccountNumber(), nil
			})).
			Build()
		require.NoError(t, err)
		t.Cleanup(service.Disconnect)

		rec := newRecorder()
		service.Connect(context.Background(), keyPair, rec)
		assert.Equal(t, "connected", rec.nextEvent(t))
		assert.Same(t, keyPair, got)

		cmd := server.nextCommand(t)
		assert.Equal(t, "signed-"+testAccount, cmd.Connect.Token)
	})

	t.Run("rejected connect reports connection error", func(t *testing.T) {
		server := newFakeServer(t)

		service, err := NewService().WithURL(server.wsURL()).WithStaticToken("expired").Build()
		require.NoError(t, err)

		rec := newRecorder()
		service.Connect(context.Background(), nil, rec)

		event := rec.nextEvent(t)
		assert.Contains(t, event, "connection error")
		assert.Contains(t, event, "token expired")
		assert.False(t, service.IsConnected())
	})

	t.Run("token failure reports connection error", func(t *testing.T) {
		service, err := NewService().
			WithURL("ws://127.0.0.1:1/ws").
			WithTokenProvider(TokenProviderFunc(func(context.Context, sdk.KeyPair) (string, error) {
				return "", errors.New("ws-auth unavailable")
			})).
			Build()
		require.NoError(t, err)

		rec := newRecorder()
		service.Connect(context.Background(), nil, rec)

		event := rec.nextEvent(t)
		assert.Contains(t, event, "failed to obtain connection token")
		assert.Contains(t, event, "ws-auth unavailable")
	})

	t.Run("dial failure reports connection error", func(t *testing.T) {
		server := newFakeServer(t)
		url := server.wsURL()
		server.Close()

		service, err := NewService().WithURL(url).WithDialTimeout(time.Second).Build()
		require.NoError(t, err)

		rec := newRecorder()
		service.Connect(context.Background(), nil, rec)
		assert.Contains(t, rec.nextEvent(t), "failed to connect to WebSocket")
	})

	t.Run("disconnect reports disconnected", func(t *testing.T) {
		server := newFakeServer(t)
		service, rec := connect(t, server, "t")

		service.Disconnect()
		assert.Equal(t, "disconnected", rec.nextEvent(t))
		assert.False(t, service.IsConnected())

		// a second disconnect is a no-op
		service.Disconnect()
		select {
		case e := <-rec.events:
			t.Fatalf("unexpected event %q", e)
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("server close reports disconnected", func(t *testing.T) {
		server := newFakeServer(t)
		_, rec := connect(t, server, "t")

		server.closeConn()
		assert.Equal(t, "disconnected", rec.nextEvent(t))
	})

	t.Run("reconnect ends the previous session", func(t *testing.T) {
		server := newFakeServer(t)
		service, first := connect(t, server, "t")

		second := newRecorder()
		service.Connect(context.Background(), nil, second)

		assert.Equal(t, "disconnected", first.nextEvent(t))
		assert.Equal(t, "connected", second.nextEvent(t))
	})

	t.Run("ping is answered", func(t *testing.T) {
		server := newFakeServer(t)
		connect(t, server, "t")

		server.write("{}")
		receive(t, server.pongs)
	})
}

// disconnectingHandler calls Disconnect from inside its callbacks.
type disconnectingHandler struct {
	*recorder
	service  *Service
	returned chan string
}

func (h *disconnectingHandler) OnConnected() {
	h.service.Disconnect()
	h.returned <- "connected"
}

func (h *disconnectingHandler) OnNewBlock(blockNumber int64) {
	h.service.Disconnect()
	h.returned <- fmt.Sprintf("block %d", blockNumber)
}

func TestServiceDisconnectFromCallback(t *testing.T) {
	t.Run("from OnConnected", func(t *testing.T) {
		server := newFakeServer(t)
		service, err := NewService().WithURL(server.wsURL()).WithLogger(zap.NewNop()).Build()
		require.NoError(t, err)

		h := &disconnectingHandler{recorder: newRecorder(), service: service, returned: make(chan string, 1)}
		service.Connect(context.Background(), nil, h)

		assert.Equal(t, "connected", receive(t, h.returned))
		assert.Equal(t, "disconnected", h.nextEvent(t))
		assert.False(t, service.IsConnected())
	})

	t.Run("from an event handler", func(t *testing.T) {
		server := newFakeServer(t)
		service, conn := connect(t, server, "t")

		h := &disconnectingHandler{recorder: newRecorder(), service: service, returned: make(chan string, 1)}
		service.SubscribeNewBlock(h)
		assert.Equal(t, "subscribed", h.nextEvent(t))
		server.nextCommand(t)

		server.publish(transport.ChannelNewBlock, `{"block_number":42}`)
		assert.Equal(t, "block 42", receive(t, h.returned))
		assert.Equal(t, "disconnected", conn.nextEvent(t))
	})

	t.Run("reconnect from an event handler", func(t *testing.T) {
		server := newFakeServer(t)
		service, first := connect(t, server, "t")

		second := newRecorder()
		done := make(chan struct{})
		service.SubscribeNewBlock(&reconnectingHandler{recorder: newRecorder(), connect: func() {
			service.Connect(context.Background(), nil, second)
			close(done)
		}})
		server.nextCommand(t)

		server.publish(transport.ChannelNewBlock, `{"block_number":1}`)
		receive(t, done)
		assert.Equal(t, "disconnected", first.nextEvent(t))
		assert.Equal(t, "connected", second.nextEvent(t))
	})
}

// reconnectingHandler calls connect from its block callback.
type reconnectingHandler struct {
	*recorder
	connect func()
}

func (h *reconnectingHandler) OnNewBlock(int64) { h.connect() }

func TestServiceSubscribe(t *testing.T) {
	t.Run("subscribe fails when not connected", func(t *testing.T) {
		service, err := NewService().WithURL("ws://localhost:8080/ws").Build()
		require.NoError(t, err)

		rec := newRecorder()
		service.SubscribeNewBlock(rec)
		assert.Equal(t, "subscribe error 0: client is not connected", rec.nextEvent(t))
	})

	t.Run("new block is delivered", func(t *testing.T) {
		server := newFakeServer(t)
		service, _ := connect(t, server, "t")

		rec := newRecorder()
		service.SubscribeNewBlock(rec)
		assert.Equal(t, "subscribed", rec.nextEvent(t))

		cmd := server.nextCommand(t)
		require.NotNil(t, cmd.Subscribe)
		assert.Equal(t, "blockchain:new-block", cmd.Subscribe.Channel)

		server.publish("blockchain:new-block", `{"block_number":42}`)
		assert.Equal(t, int64(42), receive(t, rec.blocks))
	})

	t.Run("subscribe error carries code and message", func(t *testing.T) {
		server := newFakeServer(t)
		service, _ := connect(t, server, "t")

		rec := newRecorder()
		service.SubscribeBitmarkChanged("denied", rec)
		assert.Equal(t, "subscribe error 101: permission denied", rec.nextEvent(t))
	})

	t.Run("duplicate subscribe reuses the server subscription", func(t *testing.T) {
		server := newFakeServer(t)
		service, _ := connect(t, server, "t")

		first, second := newRecorder(), newRecorder()
		service.SubscribeNewTransferOffer(testAccount, first)
		assert.Equal(t, "subscribed", first.nextEvent(t))
		service.SubscribeNewTransferOffer(testAccount, second)
		assert.Equal(t, "subscribed", second.nextEvent(t))

		cmd := server.nextCommand(t)
		assert.Equal(t, "tx_offer#"+testAccount, cmd.Subscribe.Channel)
		select {
		case extra := <-server.commands:
			t.Fatalf("unexpected command %+v", extra)
		case <-time.After(50 * time.Millisecond):
		}

		server.publish("tx_offer#"+testAccount, `{"bitmark_id":"b1"}`)
		assert.Equal(t, "b1", receive(t, first.ids))
		assert.Equal(t, "b1", receive(t, second.ids))
	})

	t.Run("bitmark change is decoded", func(t *testing.T) {
		server := newFakeServer(t)
		service, _ := connect(t, server, "t")

		rec := newRecorder()
		service.SubscribeBitmarkChanged(testAccount, rec)
		assert.Equal(t, "subscribed", rec.nextEvent(t))

		server.publish("bitmark_changed:"+testAccount, `{"bitmark_id":"b1","tx_id":"t1","presence":true}`)
		assert.Equal(t, transport.BitmarkChange{BitmarkID: "b1", TxID: "t1", Presence: true}, receive(t, rec.changes))
	})

	t.Run("pending tx maps previous fields", func(t *testing.T) {
		server := newFakeServer(t)
		service, _ := connect(t, server, "t")

		rec := newRecorder()
		service.SubscribeNewPendingTx(testAccount, rec)
		assert.Equal(t, "subscribed", rec.nextEvent(t))

		server.publish("tx_pending_change:"+testAccount,
			`{"tx_id":"t2","owner":"o2","previous_tx_id":"t1","previous_owner":"o1"}`)
		assert.Equal(t, transport.PendingTx{TxID: "t2", Owner: "o2", PrevTxID: "t1", PrevOwner: "o1"}, receive(t, rec.txs))
	})

	t.Run("malformed pending issuance is dropped", func(t *testing.T) {
		server := newFakeServer(t)
		service, _ := connect(t, server, "t")

		rec := newRecorder()
		service.SubscribeNewPendingIssuance(testAccount, rec)
		assert.Equal(t, "subscribed", rec.nextEvent(t))

		channel := "bitmark_pending_change:" + testAccount
		server.publish(channel, `{"something":"else"}`)
		server.publish(channel, `{"bitmark_id":"b9"}`)
		assert.Equal(t, "b9", receive(t, rec.ids))
	})

	t.Run("server unsubscribe is reported", func(t *testing.T) {
		server := newFakeServer(t)
		service, _ := connect(t, server, "t")

		rec := newRecorder()
		service.SubscribeNewBlock(rec)
		assert.Equal(t, "subscribed", rec.nextEvent(t))

		server.write(`{"push":{"channel":"blockchain:new-block","unsubscribe":{}}}`)
		assert.Equal(t, "unsubscribed", rec.nextEvent(t))
	})

	t.Run("unsubscribe stops delivery and notifies the server", func(t *testing.T) {
		server := newFakeServer(t)
		service, _ := connect(t, server, "t")

		rec := newRecorder()
		service.SubscribeNewBlock(rec)
		assert.Equal(t, "subscribed", rec.nextEvent(t))
		server.nextCommand(t)

		service.UnsubscribeNewBlock()
		cmd := server.nextCommand(t)
		require.NotNil(t, cmd.Unsubscribe)
		assert.Equal(t, "blockchain:new-block", cmd.Unsubscribe.Channel)

		server.publish("blockchain:new-block", `{"block_number":7}`)
		select {
		case n := <-rec.blocks:
			t.Fatalf("unexpected block %d", n)
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("pending subscribe fails on disconnect", func(t *testing.T) {
		service, err := NewService().WithURL("ws://127.0.0.1:1/ws").WithDialTimeout(time.Second).Build()
		require.NoError(t, err)

		conn := newRecorder()
		service.Connect(context.Background(), nil, conn)

		rec := newRecorder()
		service.SubscribeNewBlock(rec)
		assert.Contains(t, rec.nextEvent(t), "subscribe error 0")
	})
}

type stubKeyPair struct {
	account string
}

func (k *stubKeyPair) AccountNumber() string { return k.account }

func (k *stubKeyPair) Sign(message []byte) ([]byte, error) {
	return append([]byte("sig:"), message...), nil
}
