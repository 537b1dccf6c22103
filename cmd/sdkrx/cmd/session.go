package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/config"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/dispatch"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/eventbus"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/otel"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/rx"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/sdk"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/websockets"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/websockets/client"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/wsauth"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	serviceName    = "sdkrx"
	serviceVersion = "0.1.0"
)

// session is a connected event bus with its listener loop.
type session struct {
	logger *zap.Logger
	config *config.Config
	bus    *eventbus.WebSocketEventBus
	loop   *dispatch.Loop
	lost   chan struct{}
}

func loadConfig(logger *zap.Logger) (*config.Config, error) {
	builder := config.NewConfig().WithLogger(logger)
	if configFile != "" {
		builder = builder.WithSources(configFile)
	}

	cfg, diags := builder.Build()
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to load configuration: %s", diags.Error())
	}

	if network != "" {
		n, err := websockets.ParseNetwork(network)
		if err != nil {
			return nil, err
		}
		cfg.Network = n
		cfg.APIURL = n.APIURL()
		cfg.WSURL = n.SubscriptionURL()
	}
	if wsURL != "" {
		cfg.WSURL = wsURL
	}
	return cfg, nil
}

func loadKeyPair() (sdk.KeyPair, error) {
	seed := os.Getenv("SDKRX_SEED")
	account := os.Getenv("SDKRX_ACCOUNT")
	if seed == "" || account == "" {
		return nil, fmt.Errorf("SDKRX_SEED and SDKRX_ACCOUNT must be set")
	}
	return sdk.ParseEd25519KeyPair(account, seed)
}

// openSession connects to the subscription server and waits for the outcome.
func openSession(ctx context.Context, logger *zap.Logger) (*session, error) {
	cfg, err := loadConfig(logger)
	if err != nil {
		return nil, err
	}

	keyPair, err := loadKeyPair()
	if err != nil {
		return nil, err
	}

	builder := client.NewService().
		WithURL(cfg.WSURL).
		WithLogger(logger).
		WithDialTimeout(cfg.DialTimeout).
		WithTokenProvider(wsauth.NewRegistrar(cfg.APIURL, cfg.APIToken).WithLogger(logger))
	if cfg.RateLimit > 0 {
		builder = builder.WithRateLimit(rate.Limit(cfg.RateLimit), 1)
	}
	service, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription client: %w", err)
	}

	loop := dispatch.NewLoop(16).Start()
	provider := otel.NewProvider(serviceName, serviceVersion)

	bus, err := eventbus.NewEventBus().
		WithService(service).
		WithDispatcher(loop).
		WithLogger(logger).
		WithObservability(provider.Config(serviceName, serviceVersion)).
		Build()
	if err != nil {
		loop.Close()
		return nil, err
	}

	s := &session{
		logger: logger,
		config: cfg,
		bus:    bus,
		loop:   loop,
		lost:   make(chan struct{}),
	}

	connected := make(chan error, 1)
	bus.SetConnectListener(func(err error) {
		connected <- err
	})
	var lostOnce sync.Once
	bus.SetDisconnectListener(func() {
		lostOnce.Do(func() { close(s.lost) })
	})

	logger.Info("Connecting",
		zap.String("url", cfg.WSURL),
		zap.String("account", keyPair.AccountNumber()))
	bus.Connect(ctx, keyPair)

	select {
	case err := <-connected:
		if err != nil {
			loop.Close()
			return nil, err
		}
	case <-ctx.Done():
		bus.Disconnect()
		loop.Close()
		return nil, ctx.Err()
	}

	return s, nil
}

// subscribe subscribes to every requested topic. Topics given on the command
// line take precedence over subscription blocks in the config file.
func (s *session) subscribe(ctx context.Context, topics []string, account string) error {
	subs, err := s.subscriptions(topics, account)
	if err != nil {
		return err
	}

	pending := make([]*rx.Completable, 0, len(subs))
	for _, sub := range subs {
		s.logger.Info("Subscribing", zap.String("topic", string(sub.Topic)), zap.String("account", sub.Account))
		pending = append(pending, s.bus.Subscribe(sub.Topic, sub.Account))
	}

	return rx.Merge(pending...).Await(ctx)
}

func (s *session) subscriptions(topics []string, account string) ([]config.Subscription, error) {
	if len(topics) == 0 && len(s.config.Subscriptions) > 0 {
		return s.config.Subscriptions, nil
	}
	if len(topics) == 0 {
		for _, t := range eventbus.Topics {
			topics = append(topics, string(t))
		}
	}
	if account == "" {
		account = os.Getenv("SDKRX_ACCOUNT")
	}

	subs := make([]config.Subscription, 0, len(topics))
	for _, name := range topics {
		topic, err := eventbus.ParseTopic(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		subs = append(subs, config.Subscription{Topic: topic, Account: account})
	}
	return subs, nil
}

// wait blocks until ctx is done or the server drops the connection.
func (s *session) wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down")
		s.bus.Disconnect()
		select {
		case <-s.lost:
		case <-time.After(5 * time.Second):
			s.logger.Warn("Timed out waiting for disconnect")
		}
		return nil
	case <-s.lost:
		return fmt.Errorf("connection to subscription server lost")
	}
}

func (s *session) close() {
	s.loop.Close()
}
