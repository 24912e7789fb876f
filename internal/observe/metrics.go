// Package observe provides observability primitives for the audiobook
// tools: OpenTelemetry metrics with a Prometheus exporter bridge.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A package-level
// default [Metrics] instance ([DefaultMetrics]) is provided for convenience;
// tests should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all metrics.
const meterName = "github.com/Abhi95081/AI-AudioBook-Generator"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use.
type Metrics struct {
	// EnrichDuration tracks LLM enrichment latency per pass.
	EnrichDuration metric.Float64Histogram

	// SynthDuration tracks text-to-speech synthesis latency per request.
	SynthDuration metric.Float64Histogram

	// ProviderRequests counts backend API calls. Use with attributes:
	//   attribute.String("provider", ...), attribute.String("kind", ...), attribute.String("status", ...)
	ProviderRequests metric.Int64Counter

	// ProviderErrors counts backend errors. Use with attributes:
	//   attribute.String("provider", ...), attribute.String("kind", ...)
	ProviderErrors metric.Int64Counter

	// AudioBytes counts bytes of synthesized audio by engine.
	AudioBytes metric.Int64Counter

	// EngineAvailable reports the registry probe outcome per engine
	// (1 available, 0 not).
	EngineAvailable metric.Int64Gauge

	// DocumentsSaved counts vector store documents written by collection.
	DocumentsSaved metric.Int64Counter
}

// latencyBuckets defines histogram bucket boundaries in seconds. Enrichment
// and synthesis calls run from sub-second to tens of seconds.
var latencyBuckets = []float64{
	0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.EnrichDuration, err = m.Float64Histogram("audiobook.enrich.duration",
		metric.WithDescription("Latency of LLM enrichment passes."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.SynthDuration, err = m.Float64Histogram("audiobook.synth.duration",
		metric.WithDescription("Latency of text-to-speech synthesis per request."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	if met.ProviderRequests, err = m.Int64Counter("audiobook.provider.requests",
		metric.WithDescription("Total backend API requests by provider, kind, and status."),
	); err != nil {
		return nil, err
	}
	if met.ProviderErrors, err = m.Int64Counter("audiobook.provider.errors",
		metric.WithDescription("Total backend errors by provider and kind."),
	); err != nil {
		return nil, err
	}
	if met.AudioBytes, err = m.Int64Counter("audiobook.synth.audio_bytes",
		metric.WithDescription("Total bytes of synthesized audio by engine."),
	); err != nil {
		return nil, err
	}
	if met.DocumentsSaved, err = m.Int64Counter("audiobook.vectordb.documents_saved",
		metric.WithDescription("Total vector store documents written by collection."),
	); err != nil {
		return nil, err
	}
	if met.EngineAvailable, err = m.Int64Gauge("audiobook.engine.available",
		metric.WithDescription("Engine availability probe outcome (1 available, 0 not)."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordProviderRequest records a backend request counter increment with the
// standard attribute set.
func (m *Metrics) RecordProviderRequest(ctx context.Context, provider, kind, status string) {
	m.ProviderRequests.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("kind", kind),
			attribute.String("status", status),
		),
	)
}

// RecordProviderError records a backend error counter increment.
func (m *Metrics) RecordProviderError(ctx context.Context, provider, kind string) {
	m.ProviderErrors.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("kind", kind),
		),
	)
}

// RecordSynthesis records one completed synthesis: its latency and output
// size.
func (m *Metrics) RecordSynthesis(ctx context.Context, engine string, seconds float64, bytes int) {
	attrs := metric.WithAttributes(attribute.String("engine", engine))
	m.SynthDuration.Record(ctx, seconds, attrs)
	m.AudioBytes.Add(ctx, int64(bytes), attrs)
}

// RecordEngineAvailability records one engine's probe outcome.
func (m *Metrics) RecordEngineAvailability(ctx context.Context, engine string, available bool) {
	v := int64(0)
	if available {
		v = 1
	}
	m.EngineAvailable.Record(ctx, v,
		metric.WithAttributes(attribute.String("engine", engine)))
}
