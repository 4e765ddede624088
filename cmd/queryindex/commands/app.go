package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ncobase/queryindex/config"
	"github.com/ncobase/queryindex/ctxutil"
	"github.com/ncobase/queryindex/data/connection"
	"github.com/ncobase/queryindex/data/metrics"
	"github.com/ncobase/queryindex/data/search"
	"github.com/ncobase/queryindex/index"
	"github.com/ncobase/queryindex/logging/logger"
	"github.com/ncobase/queryindex/logging/observes"
	"github.com/ncobase/queryindex/model"
	"github.com/ncobase/queryindex/version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	// register search engines and the redis cache driver
	_ "github.com/ncobase/queryindex/data/all"
)

// shutdownTimeout bounds the cleanups run when a command returns.
const shutdownTimeout = 10 * time.Second

// env is the process wiring shared by commands.
type env struct {
	cfg       *config.Config
	conns     *connection.Connections
	collector metrics.Collector
	cleanups  []func(context.Context) error
}

// newEnv loads the configuration and opens the configured connections.
func newEnv(ctx context.Context, confPath string) (*env, error) {
	cfg, err := config.LoadConfig(confPath)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, collector: metrics.NoOpCollector{}}

	cleanupLogger, err := logger.Init(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	logger.SetVersion(version.GetVersionInfo().Version)
	e.cleanups = append(e.cleanups, func(context.Context) error {
		cleanupLogger()
		return nil
	})

	if cfg.Tracer.Enabled() {
		info := version.GetVersionInfo()
		shutdown, err := observes.NewTracer(ctx, &observes.TracerOption{
			URL:                cfg.Tracer.Endpoint,
			Name:               cfg.Tracer.ServiceName,
			Version:            info.Version,
			Branch:             info.Branch,
			Revision:           info.Revision,
			Environment:        cfg.Tracer.Environment,
			SamplingRate:       cfg.Tracer.SamplingRate,
			BatchTimeout:       cfg.Tracer.BatchTimeout,
			ExportTimeout:      cfg.Tracer.ExportTimeout,
			MaxExportBatchSize: cfg.Tracer.MaxExportBatchSize,
		})
		if err != nil {
			e.close(ctx)
			return nil, fmt.Errorf("init tracer: %w", err)
		}
		e.cleanups = append(e.cleanups, shutdown)
	}

	e.conns, err = connection.New(ctx, cfg.Data)
	if err != nil {
		e.close(ctx)
		return nil, err
	}
	e.cleanups = append(e.cleanups, func(context.Context) error {
		return errors.Join(e.conns.Close()...)
	})

	if m := cfg.Data.Metrics; m != nil && m.Enabled {
		var c *metrics.IndexCollector
		if m.UseRedis() && e.conns.RC != nil {
			c = metrics.NewIndexCollectorWithRedis(e.conns.RC, m.KeyPrefix, m.Retention(), m.BatchSize)
		} else {
			c = metrics.NewIndexCollector(m.BatchSize)
		}
		e.collector = c
		// flushed before the connections close
		e.cleanups = append(e.cleanups, func(context.Context) error { return c.Close() })
	}

	return e, nil
}

// followLogLevel applies logger level edits made to the configuration file
// while the process runs. Unreadable edits keep the current level.
func (e *env) followLogLevel(ctx context.Context) {
	config.Watch(func(c *config.Config) {
		if c.Logger != nil {
			logger.StdLogger().SetLevel(logrus.Level(c.Logger.Level))
		}
	}, func(err error) {
		logger.Warnf(ctx, "config reload: %v", err)
	})
}

// entityIndex returns the index of app on the configured engine.
func (e *env) entityIndex(app model.Id) (*index.EntityIndex, error) {
	known, err := search.NewKnownTypes(e.cfg.Data.Search, e.conns.RC)
	if err != nil {
		return nil, err
	}
	return index.New(
		model.NewApplicationScope(app),
		e.conns.Executor(),
		search.IndexConfig(e.cfg.Data.Search),
		index.WithKnownTypes(known),
		index.WithCollector(e.collector),
		index.WithLogger(logger.StdLogger()),
	)
}

// close runs the cleanups in reverse order. They get their own deadline so
// spans and metrics are flushed after ctx is cancelled.
func (e *env) close(ctx context.Context) {
	ctx, cancel := ctxutil.Detach(ctx, shutdownTimeout)
	defer cancel()

	for i := len(e.cleanups) - 1; i >= 0; i-- {
		if err := e.cleanups[i](ctx); err != nil {
			logger.Warnf(ctx, "cleanup: %v", err)
		}
	}
	e.cleanups = nil
}

// scopeFlags are the flags naming the application and collection.
type scopeFlags struct {
	app   string
	owner string
	name  string
}

func (f *scopeFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.app, "app", "", "application id, uuid:type")
	cmd.Flags().StringVar(&f.owner, "owner", "", "collection owner id, uuid:type")
	cmd.Flags().StringVar(&f.name, "name", "", "collection name")
	_ = cmd.MarkFlagRequired("app")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("name")
}

// parse validates the flags. The returned context carries the application
// as the logging tenant.
func (f *scopeFlags) parse(ctx context.Context) (context.Context, model.Id, model.IndexScope, error) {
	app, err := model.ParseId(f.app)
	if err != nil {
		return ctx, model.Id{}, model.IndexScope{}, fmt.Errorf("--app: %w", err)
	}
	owner, err := model.ParseId(f.owner)
	if err != nil {
		return ctx, model.Id{}, model.IndexScope{}, fmt.Errorf("--owner: %w", err)
	}
	if f.name == "" {
		return ctx, model.Id{}, model.IndexScope{}, errors.New("--name is required")
	}
	return ctxutil.SetTenant(ctx, app.String()), app, model.NewIndexScope(owner, f.name), nil
}
