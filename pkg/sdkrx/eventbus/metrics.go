package eventbus

import (
	"context"
	"time"

	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/o11y"
)

// metrics holds the bus instruments. A nil *metrics records nothing.
type metrics struct {
	eventsDelivered     o11y.Counter
	subscriptions       o11y.Counter
	unsubscriptions     o11y.Counter
	connectionEvents    o11y.Counter
	subscribeDuration   o11y.Histogram
	activeSubscriptions o11y.UpDownCounter
}

func newMetrics(provider o11y.MetricsProvider) *metrics {
	if provider == nil {
		return nil
	}

	return &metrics{
		eventsDelivered:     provider.Counter("eventbus_events_delivered_total"),
		subscriptions:       provider.Counter("eventbus_subscriptions_total"),
		unsubscriptions:     provider.Counter("eventbus_unsubscriptions_total"),
		connectionEvents:    provider.Counter("eventbus_connection_events_total"),
		subscribeDuration:   provider.Histogram("eventbus_subscribe_duration_seconds"),
		activeSubscriptions: provider.UpDownCounter("eventbus_active_subscriptions"),
	}
}

func (m *metrics) delivered(topic Topic) {
	if m == nil {
		return
	}
	m.eventsDelivered.Add(context.Background(), 1, o11y.L("topic", string(topic)))
}

func (m *metrics) subscribed(ctx context.Context, topic Topic, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.subscriptions.Add(ctx, 1, o11y.L("topic", string(topic)), o11y.L("status", status))
	m.subscribeDuration.Record(ctx, elapsed.Seconds(), o11y.L("topic", string(topic)))
}

// activeChanged moves the active subscription gauge, which counts server
// subscriptions rather than subscribe calls.
func (m *metrics) activeChanged(topic Topic, delta int64) {
	if m == nil {
		return
	}
	m.activeSubscriptions.Add(context.Background(), delta, o11y.L("topic", string(topic)))
}

func (m *metrics) unsubscribed(topic Topic) {
	if m == nil {
		return
	}
	m.unsubscriptions.Add(context.Background(), 1, o11y.L("topic", string(topic)))
}

func (m *metrics) connectionEvent(event string) {
	if m == nil {
		return
	}
	m.connectionEvents.Add(context.Background(), 1, o11y.L("event", event))
}
