// Package o11y defines the metrics and tracing hooks the event bus reports to.
package o11y

import (
	"context"
)

// Config holds optional observability providers
type Config struct {
	MetricsProvider MetricsProvider
	TracingProvider TracingProvider
	ServiceName     string
	ServiceVersion  string
}

// MetricsProvider abstracts metrics collection (can be implemented with OpenTelemetry, Prometheus, etc.)
type MetricsProvider interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
	UpDownCounter(name string) UpDownCounter
}

// TracingProvider abstracts distributed tracing (can be implemented with OpenTelemetry, Jaeger, etc.)
type TracingProvider interface {
	StartSpan(ctx context.Context, name string) (context.Context, Span)
}

// Counter represents a monotonically increasing metric
type Counter interface {
	Add(ctx context.Context, value int64, labels ...Label)
}

// Histogram records distribution of values
type Histogram interface {
	Record(ctx context.Context, value float64, labels ...Label)
}

// UpDownCounter tracks a value that can go up and down
type UpDownCounter interface {
	Add(ctx context.Context, delta int64, labels ...Label)
}

// Span represents a unit of work in a trace
type Span interface {
	SetAttributes(labels ...Label)
	SetStatus(code SpanStatusCode, description string)
	RecordError(err error)
	End()
}

// Label represents a key-value pair for metrics and tracing
type Label struct {
	Key   string
	Value string
}

// L builds a Label.
func L(key, value string) Label {
	return Label{Key: key, Value: value}
}

// SpanStatusCode represents the status of a span
type SpanStatusCode int

const (
	SpanStatusUnset SpanStatusCode = iota
	SpanStatusOK
	SpanStatusError
)
