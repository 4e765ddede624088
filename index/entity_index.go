package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/ncobase/queryindex/model"
)

// Config is the per-application indexing configuration.
type Config struct {
	// IndexPrefix namespaces physical index names, e.g. per environment.
	IndexPrefix string
	// ForcedRefresh makes every Execute refresh the index.
	ForcedRefresh bool
	// BulkSize is the auto-flush threshold of batches; zero disables it.
	BulkSize int
	// AutoCreateIndex creates the physical index on first registration.
	AutoCreateIndex bool
	Settings        IndexSettings
}

// DefaultConfig returns the configuration used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		BulkSize:        DefaultBulkSize,
		AutoCreateIndex: true,
	}
}

// EntityIndex is the handle on one application's physical index. It owns
// the type registry and hands out batches; it is safe for concurrent use,
// the batches it creates are not.
type EntityIndex struct {
	app       model.ApplicationScope
	name      string
	exec      Executor
	cfg       Config
	registrar *Registrar
	opts      options
}

// New returns the index of app on exec.
func New(app model.ApplicationScope, exec Executor, cfg Config, opts ...Option) (*EntityIndex, error) {
	if exec == nil {
		return nil, ErrNilExecutor
	}
	name, err := IndexName(cfg.IndexPrefix, app)
	if err != nil {
		return nil, err
	}
	if cfg.BulkSize < 0 {
		return nil, &ValidationError{Field: "bulk_size", Reason: "must not be negative"}
	}

	o := newOptions(opts)
	x := &EntityIndex{
		app:  app,
		name: name,
		exec: exec,
		cfg:  cfg,
		opts: o,
	}
	x.registrar = newRegistrar(name, exec, cfg.AutoCreateIndex, &x.cfg.Settings, o)
	return x, nil
}

// Name returns the physical index name.
func (x *EntityIndex) Name() string { return x.name }

// Application returns the application scope of the index.
func (x *EntityIndex) Application() model.ApplicationScope { return x.app }

// Engine returns the name of the underlying search engine.
func (x *EntityIndex) Engine() string { return x.exec.Engine() }

// Initialize creates the physical index. An existing index is not an error.
func (x *EntityIndex) Initialize(ctx context.Context) error {
	if err := x.exec.CreateIndex(ctx, x.name, &x.cfg.Settings); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			x.opts.logger.Debugf(ctx, "index %q already exists", x.name)
			return nil
		}
		return &SchemaError{Index: x.name, Err: err}
	}
	x.opts.logger.Infof(ctx, "created index %q on %s", x.name, x.exec.Engine())
	return nil
}

// EnsureType registers the logical type of scope.
func (x *EntityIndex) EnsureType(ctx context.Context, scope model.IndexScope) error {
	typeName, err := TypeName(scope)
	if err != nil {
		return err
	}
	return x.registrar.EnsureType(ctx, typeName)
}

// CreateBatch returns a new, empty batch writing to this index.
func (x *EntityIndex) CreateBatch() *Batch {
	return newBatch(x.name, x.exec, x.registrar, x.cfg.BulkSize, x.cfg.ForcedRefresh, x.opts)
}

// Refresh makes all committed writes visible to search.
func (x *EntityIndex) Refresh(ctx context.Context) error {
	if err := x.exec.Refresh(ctx, x.name); err != nil {
		return fmt.Errorf("index: refresh %q: %w", x.name, err)
	}
	return nil
}

// Health checks the engine and records the result.
func (x *EntityIndex) Health(ctx context.Context) error {
	err := x.exec.Health(ctx)
	x.opts.collector.HealthCheck(x.exec.Engine(), err == nil)
	if err != nil {
		return fmt.Errorf("index: %s health check: %w", x.exec.Engine(), err)
	}
	return nil
}
