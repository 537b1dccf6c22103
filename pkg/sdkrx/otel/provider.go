// Package otel provides OpenTelemetry implementations of the o11y interfaces.
package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/bitmark-inc/sdkrx/pkg/sdkrx/o11y"
)

// Provider implements both MetricsProvider and TracingProvider using OpenTelemetry
type Provider struct {
	meter  metric.Meter
	tracer trace.Tracer
}

var (
	_ o11y.MetricsProvider = (*Provider)(nil)
	_ o11y.TracingProvider = (*Provider)(nil)
)

// NewProvider creates a provider backed by the global meter and tracer providers.
func NewProvider(serviceName, serviceVersion string) *Provider {
	return NewProviderFrom(otel.GetMeterProvider(), otel.GetTracerProvider(), serviceName, serviceVersion)
}

// NewProviderFrom creates a provider backed by explicit meter and tracer providers.
func NewProviderFrom(mp metric.MeterProvider, tp trace.TracerProvider, serviceName, serviceVersion string) *Provider {
	return &Provider{
		meter:  mp.Meter(serviceName, metric.WithInstrumentationVersion(serviceVersion)),
		tracer: tp.Tracer(serviceName, trace.WithInstrumentationVersion(serviceVersion)),
	}
}

// Config returns an o11y.Config using this provider for metrics and tracing.
func (p *Provider) Config(serviceName, serviceVersion string) o11y.Config {
	return o11y.Config{
		MetricsProvider: p,
		TracingProvider: p,
		ServiceName:     serviceName,
		ServiceVersion:  serviceVersion,
	}
}

// Counter creates an OpenTelemetry counter
func (p *Provider) Counter(name string) o11y.Counter {
	counter, _ := p.meter.Int64Counter(name)
	return &otelCounter{counter: counter}
}

// Histogram creates an OpenTelemetry histogram
func (p *Provider) Histogram(name string) o11y.Histogram {
	histogram, _ := p.meter.Float64Histogram(name)
	return &otelHistogram{histogram: histogram}
}

// UpDownCounter creates an OpenTelemetry up-down counter
func (p *Provider) UpDownCounter(name string) o11y.UpDownCounter {
	counter, _ := p.meter.Int64UpDownCounter(name)
	return &otelUpDownCounter{counter: counter}
}

// StartSpan creates an OpenTelemetry span
func (p *Provider) StartSpan(ctx context.Context, name string) (context.Context, o11y.Span) {
	ctx, span := p.tracer.Start(ctx, name)
	return ctx, &otelSpan{span: span}
}

func attributes(labels []o11y.Label) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, len(labels))
	for i, label := range labels {
		attrs[i] = attribute.String(label.Key, label.Value)
	}
	return attrs
}

type otelCounter struct {
	counter metric.Int64Counter
}

func (c *otelCounter) Add(ctx context.Context, value int64, labels ...o11y.Label) {
	c.counter.Add(ctx, value, metric.WithAttributes(attributes(labels)...))
}

type otelHistogram struct {
	histogram metric.Float64Histogram
}

func (h *otelHistogram) Record(ctx context.Context, value float64, labels ...o11y.Label) {
	h.histogram.Record(ctx, value, metric.WithAttributes(attributes(labels)...))
}

type otelUpDownCounter struct {
	counter metric.Int64UpDownCounter
}

func (c *otelUpDownCounter) Add(ctx context.Context, delta int64, labels ...o11y.Label) {
	c.counter.Add(ctx, delta, metric.WithAttributes(attributes(labels)...))
}

type otelSpan struct {
	span trace.Span
}

func (s *otelSpan) SetAttributes(labels ...o11y.Label) {
	s.span.SetAttributes(attributes(labels)...)
}

func (s *otelSpan) SetStatus(code o11y.SpanStatusCode, description string) {
	var otelCode codes.Code
	switch code {
	case o11y.SpanStatusOK:
		otelCode = codes.Ok
	case o11y.SpanStatusError:
		otelCode = codes.Error
	default:
		otelCode = codes.Unset
	}
	s.span.SetStatus(otelCode, description)
}

func (s *otelSpan) RecordError(err error) {
	s.span.RecordError(err)
}

func (s *otelSpan) End() {
	s.span.End()
}
