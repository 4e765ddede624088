package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/ncobase/queryindex/data"
	"github.com/ncobase/queryindex/data/config"
	rediskt "github.com/ncobase/queryindex/data/redis"
	"github.com/ncobase/queryindex/index"
	"github.com/redis/go-redis/v9"
)

var (
	ErrEngineNotFound   = errors.New("search engine not found")
	ErrRegistryNotReady = errors.New("known types registry unavailable")
)

// Engine represents search engine type
type Engine string

const (
	Elasticsearch Engine = "elasticsearch"
	OpenSearch    Engine = "opensearch"
	Memory        Engine = "memory"
)

// Handle is an open engine connection and the executor built on it.
type Handle struct {
	Engine   Engine
	Executor index.Executor
	conn     any
	driver   data.SearchDriver
}

// Close releases the engine connection.
func (h *Handle) Close() error {
	if h == nil || h.driver == nil {
		return nil
	}
	return h.driver.Close(h.conn)
}

// Open connects the configured default engine through its registered driver
// and wraps the connection in an executor.
func Open(ctx context.Context, cfg *config.Search) (*Handle, error) {
	if cfg == nil {
		return nil, errors.New("search: configuration is nil")
	}
	engine := Engine(cfg.DefaultEngine)

	driver, err := data.GetSearchDriver(string(engine))
	if err != nil {
		return nil, err
	}

	conn, err := driver.Connect(ctx, engineConfig(engine, cfg))
	if err != nil {
		return nil, fmt.Errorf("search: connect %s: %w", engine, err)
	}

	exec, err := NewExecutor(engine, conn, cfg.Breaker)
	if err != nil {
		_ = driver.Close(conn)
		return nil, err
	}

	return &Handle{Engine: engine, Executor: exec, conn: conn, driver: driver}, nil
}

// NewExecutor builds the executor of engine on conn, behind a circuit
// breaker when one is enabled.
func NewExecutor(engine Engine, conn any, breaker *config.Breaker) (index.Executor, error) {
	factory, err := GetExecutorFactory(engine)
	if err != nil {
		return nil, err
	}

	exec, err := factory(conn)
	if err != nil {
		return nil, fmt.Errorf("search: create %s executor: %w", engine, err)
	}

	if breaker != nil && breaker.Enabled {
		exec = WithCircuitBreaker(exec, breaker)
	}
	return exec, nil
}

// engineConfig selects the engine specific section handed to the driver.
func engineConfig(engine Engine, cfg *config.Search) any {
	switch engine {
	case Elasticsearch:
		return cfg.Elasticsearch
	case OpenSearch:
		return cfg.OpenSearch
	default:
		return nil
	}
}

// IndexConfig converts the search configuration to the per-application
// indexing configuration.
func IndexConfig(cfg *config.Search) index.Config {
	c := index.DefaultConfig()
	if cfg == nil {
		return c
	}

	c.IndexPrefix = cfg.IndexPrefix
	c.ForcedRefresh = cfg.ForcedRefresh
	c.BulkSize = cfg.BulkSize
	c.AutoCreateIndex = cfg.AutoCreateIndex
	if cfg.IndexSettings != nil {
		c.Settings = index.IndexSettings{
			Shards:          cfg.IndexSettings.Shards,
			Replicas:        cfg.IndexSettings.Replicas,
			RefreshInterval: cfg.IndexSettings.RefreshInterval,
		}
	}
	return c
}

// NewKnownTypes returns the type registry selected by the registry backend.
// The redis backend needs rc.
func NewKnownTypes(cfg *config.Search, rc *redis.Client) (index.KnownTypes, error) {
	if cfg == nil || cfg.Registry == nil || cfg.Registry.Backend == "" || cfg.Registry.Backend == "memory" {
		return index.NewKnownTypes(), nil
	}

	switch cfg.Registry.Backend {
	case "redis":
		if rc == nil {
			return nil, fmt.Errorf("%w: redis backend configured without a redis connection", ErrRegistryNotReady)
		}
		return rediskt.NewKnownTypes(rc, cfg.Registry.Key), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrRegistryNotReady, cfg.Registry.Backend)
	}
}
