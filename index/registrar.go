package index

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Registrar lazily registers logical types in one physical index.
type Registrar struct {
	index      string
	exec       Executor
	autoCreate bool
	settings   *IndexSettings
	opts       options
}

// NewRegistrar returns a registrar for indexName. With autoCreate set, the
// physical index is created on first registration.
func NewRegistrar(indexName string, exec Executor, autoCreate bool, settings *IndexSettings, opts ...Option) (*Registrar, error) {
	if exec == nil {
		return nil, ErrNilExecutor
	}
	return newRegistrar(indexName, exec, autoCreate, settings, newOptions(opts)), nil
}

func newRegistrar(indexName string, exec Executor, autoCreate bool, settings *IndexSettings, o options) *Registrar {
	return &Registrar{
		index:      indexName,
		exec:       exec,
		autoCreate: autoCreate,
		settings:   settings,
		opts:       o,
	}
}

// EnsureType makes sure typeName has a mapping in the index. Known types
// return without network I/O. Concurrent callers may both register the
// same type; registration is idempotent at the engine. A failure leaves the
// type unknown so the next call retries.
func (r *Registrar) EnsureType(ctx context.Context, typeName string) error {
	key := RegistryKey(r.index, typeName)
	if r.opts.known.Contains(ctx, key) {
		r.opts.collector.SchemaRegistration(typeName, true, nil)
		return nil
	}

	ctx, span := r.opts.tracer.Start(ctx, "index.EnsureType", trace.WithAttributes(
		attribute.String("index.name", r.index),
		attribute.String("index.type", typeName),
		attribute.String("index.engine", r.exec.Engine()),
	))
	defer span.End()

	err := r.register(ctx, typeName)
	r.opts.collector.SchemaRegistration(typeName, false, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.opts.logger.Errorf(ctx, "failed to register type %q in index %q: %v", typeName, r.index, err)
		return err
	}

	r.opts.known.Add(ctx, key)
	r.opts.logger.Debugf(ctx, "registered type %q in index %q", typeName, r.index)
	return nil
}

func (r *Registrar) register(ctx context.Context, typeName string) error {
	if r.autoCreate {
		if err := r.exec.CreateIndex(ctx, r.index, r.settings); err != nil && !errors.Is(err, ErrAlreadyExists) {
			return &SchemaError{Index: r.index, Type: typeName, Err: err}
		}
	}
	if err := r.exec.PutMapping(ctx, r.index, typeName, TypeMapping(typeName)); err != nil && !errors.Is(err, ErrAlreadyExists) {
		return &SchemaError{Index: r.index, Type: typeName, Err: err}
	}
	return nil
}
