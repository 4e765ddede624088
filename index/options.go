package index

import (
	"github.com/ncobase/queryindex/data/metrics"
	"github.com/ncobase/queryindex/logging/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/ncobase/queryindex/index"

type options struct {
	known     KnownTypes
	logger    *logger.Logger
	collector metrics.Collector
	tracer    trace.Tracer
}

// Option configures an EntityIndex or Registrar.
type Option func(*options)

// WithKnownTypes shares a type registry, e.g. one backed by Redis.
func WithKnownTypes(k KnownTypes) Option {
	return func(o *options) {
		if k != nil {
			o.known = k
		}
	}
}

// WithLogger sets the logger. The process logger is used by default.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCollector sets the metrics collector.
func WithCollector(c metrics.Collector) Option {
	return func(o *options) {
		if c != nil {
			o.collector = c
		}
	}
}

// WithTracer sets the tracer. The global OpenTelemetry provider is used by
// default.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		known:     NewKnownTypes(),
		logger:    logger.StdLogger(),
		collector: metrics.NoOpCollector{},
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
