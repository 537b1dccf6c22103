package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/config"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/relay"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/transform"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// relayCmd represents the relay command
var relayCmd = &cobra.Command{
	Use:   "relay [topics...]",
	Short: "Forward Bitmark events to Redis or NATS",
	Long: `Subscribe to Bitmark events and publish each one as JSON to Redis Pub/Sub
and/or NATS under "<prefix>.<topic>".

Examples:
  sdkrx relay --redis-addr localhost:6379 new-block
  sdkrx relay --nats-url nats://localhost:4222 --prefix bitmark.testnet`,
	RunE: runRelay,
}

var (
	relayAccount   string
	relayRedisAddr string
	relayNATSURL   string
	relayPrefix    string
	relayJq        string
	relayQueueSize int
)

func init() {
	rootCmd.AddCommand(relayCmd)

	relayCmd.Flags().StringVar(&relayAccount, "account", "", "account the account-scoped topics are filtered on (default SDKRX_ACCOUNT)")
	relayCmd.Flags().StringVar(&relayRedisAddr, "redis-addr", "", "Redis address to publish to")
	relayCmd.Flags().StringVar(&relayNATSURL, "nats-url", "", "NATS URL to publish to")
	relayCmd.Flags().StringVar(&relayPrefix, "prefix", "", "subject prefix (default \"bitmark\")")
	relayCmd.Flags().StringVar(&relayJq, "jq", "", "jq filter applied to each event payload")
	relayCmd.Flags().IntVar(&relayQueueSize, "queue-size", relay.DefaultQueueSize, "events buffered for the sinks")
}

// relaySettings merges flags over the relay block of the config file.
func relaySettings(cfg config.Relay) config.Relay {
	if relayRedisAddr != "" {
		cfg.RedisAddr = relayRedisAddr
	}
	if relayNATSURL != "" {
		cfg.NATSURL = relayNATSURL
	}
	if relayPrefix != "" {
		cfg.Prefix = relayPrefix
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "bitmark"
	}
	if relayJq != "" {
		cfg.Jq = relayJq
	}
	if cfg.QueueSize <= 0 || relayQueueSize != relay.DefaultQueueSize {
		cfg.QueueSize = relayQueueSize
	}
	return cfg
}

func openSinks(ctx context.Context, cfg config.Relay) (relay.Sink, error) {
	var sinks relay.MultiSink

	if cfg.RedisAddr != "" {
		sink := relay.NewRedisSink(&redis.Options{Addr: cfg.RedisAddr})
		if err := sink.Ping(ctx); err != nil {
			_ = sink.Close()
			return nil, fmt.Errorf("failed to reach Redis at %s: %w", cfg.RedisAddr, err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.NATSURL != "" {
		sink, err := relay.ConnectNATS(cfg.NATSURL)
		if err != nil {
			_ = sinks.Close()
			return nil, err
		}
		sinks = append(sinks, sink)
	}

	switch len(sinks) {
	case 0:
		return nil, fmt.Errorf("one of --redis-addr or --nats-url is required")
	case 1:
		return sinks[0], nil
	default:
		return sinks, nil
	}
}

func runRelay(cmd *cobra.Command, args []string) error {
	logger, err := setupLogger()
	if err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, logger)
	if err != nil {
		return err
	}
	defer s.close()

	settings := relaySettings(s.config.Relay)
	sink, err := openSinks(ctx, settings)
	if err != nil {
		s.bus.Disconnect()
		return err
	}
	defer sink.Close()

	builder := relay.NewRelay().
		WithSink(sink).
		WithPrefix(settings.Prefix).
		WithLogger(logger).
		WithQueueSize(settings.QueueSize)
	if settings.Jq != "" {
		jq, err := transform.Jq(settings.Jq, logger)
		if err != nil {
			s.bus.Disconnect()
			return err
		}
		builder = builder.WithTransforms(jq)
	}

	r, err := builder.Build()
	if err != nil {
		s.bus.Disconnect()
		return err
	}
	r.Attach(s.bus)
	defer r.Close()

	if err := s.subscribe(ctx, args, relayAccount); err != nil {
		s.bus.Disconnect()
		return fmt.Errorf("subscribe failed: %w", err)
	}

	logger.Info("Relaying events",
		zap.String("prefix", settings.Prefix),
		zap.String("redis", settings.RedisAddr),
		zap.String("nats", settings.NATSURL))
	return s.wait(ctx)
}
