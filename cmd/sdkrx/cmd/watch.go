package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/eventbus"
	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/transform"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [topics...]",
	Short: "Print events from the Bitmark subscription server",
	Long: `Subscribe to Bitmark events and print them to stdout, one per line as
"<topic>\t<json>".

Topics are new-block, bitmark-changed, new-transfer-offer,
new-pending-issuance and new-pending-tx. With no topics, the subscription
blocks of the config file are used, or every topic if there are none.

Examples:
  sdkrx watch --network testnet new-block
  sdkrx watch bitmark-changed --account ec6yMcJATX6g...
  sdkrx watch new-pending-tx --jq '.tx_id'`,
	RunE: runWatch,
}

var (
	watchAccount string
	watchJq      string
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchAccount, "account", "", "account the account-scoped topics are filtered on (default SDKRX_ACCOUNT)")
	watchCmd.Flags().StringVar(&watchJq, "jq", "", "jq filter applied to each event payload; $topic is the topic")
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger, err := setupLogger()
	if err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}
	defer logger.Sync()

	var transforms []transform.Func
	if watchJq != "" {
		jq, err := transform.Jq(watchJq, logger)
		if err != nil {
			return err
		}
		transforms = append(transforms, jq)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, logger)
	if err != nil {
		return err
	}
	defer s.close()

	p := &printer{out: os.Stdout, logger: logger, transforms: transforms}
	detach := p.attach(s.bus)
	defer detach()

	if err := s.subscribe(ctx, args, watchAccount); err != nil {
		s.bus.Disconnect()
		return fmt.Errorf("subscribe failed: %w", err)
	}

	logger.Info("Listening for events... (Press Ctrl+C to exit)")
	return s.wait(ctx)
}

// printer writes every bus event to out as "<topic>\t<json>".
type printer struct {
	mu         sync.Mutex
	out        io.Writer
	logger     *zap.Logger
	transforms []transform.Func
}

func (p *printer) attach(bus *eventbus.WebSocketEventBus) func() {
	detaches := []func(){
		listen(p, bus.NewPendingIssuance()),
		listen(p, bus.NewPendingTx()),
		listen(p, bus.BitmarkChanged()),
		listen(p, bus.NewBlock()),
		listen(p, bus.NewTransferOffer()),
	}
	return func() {
		for _, d := range detaches {
			d()
		}
	}
}

func listen[T any](p *printer, publisher *eventbus.Publisher[T]) func() {
	topic := string(publisher.Topic())
	id := publisher.Subscribe(func(value T) {
		p.print(topic, value)
	})
	return func() { publisher.Unsubscribe(id) }
}

func (p *printer) print(topic string, payload any) {
	msg := transform.Apply(&transform.Message{Topic: topic, Payload: payload}, p.transforms...)
	if msg == nil {
		return
	}

	data, err := json.Marshal(msg.Payload)
	if err != nil {
		p.logger.Warn("Failed to marshal event to JSON", zap.String("topic", topic), zap.Error(err))
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "%s\t%s\n", msg.Topic, data)
}
