package connection

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ncobase/queryindex/data"
	"github.com/ncobase/queryindex/data/config"
	"github.com/ncobase/queryindex/data/search"
	"github.com/ncobase/queryindex/index"
	"github.com/redis/go-redis/v9"
)

// Connections holds the search engine handle and the optional Redis client
type Connections struct {
	Search *search.Handle
	RC     *redis.Client
	closed bool
	mu     sync.Mutex
}

// New opens the configured connections. Drivers must be registered, e.g. by
// importing github.com/ncobase/queryindex/data/all.
func New(ctx context.Context, conf *config.Config) (*Connections, error) {
	if conf == nil {
		return nil, errors.New("connection: data configuration is nil")
	}
	c := &Connections{}
	var err error

	if conf.Redis.Enabled() {
		c.RC, err = newRedisClient(ctx, conf.Redis)
		if err != nil {
			return nil, err
		}
	}

	c.Search, err = search.Open(ctx, conf.Search)
	if err != nil {
		c.Close()
		return nil, err
	}

	return c, nil
}

// Executor returns the search engine executor.
func (d *Connections) Executor() index.Executor {
	if d.Search == nil {
		return nil
	}
	return d.Search.Executor
}

// Close closes all data connections
func (d *Connections) Close() (errs []error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}

	if d.Search != nil {
		if err := d.Search.Close(); err != nil {
			errs = append(errs, errors.New("search close error: "+err.Error()))
		}
		d.Search = nil
	}

	if d.RC != nil {
		if err := d.RC.Close(); err != nil {
			errs = append(errs, errors.New("redis close error: "+err.Error()))
		}
		d.RC = nil
	}

	d.closed = true

	return errs
}

// Ping checks the search engine and Redis
func (d *Connections) Ping(ctx context.Context) error {
	if exec := d.Executor(); exec != nil {
		if err := exec.Health(ctx); err != nil {
			return fmt.Errorf("search: %w", err)
		}
	}
	if d.RC != nil {
		if err := d.RC.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

// newRedisClient connects through the registered redis cache driver
func newRedisClient(ctx context.Context, conf *config.Redis) (*redis.Client, error) {
	driver, err := data.GetCacheDriver("redis")
	if err != nil {
		return nil, err
	}

	conn, err := driver.Connect(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to connect using redis driver: %w", err)
	}

	rc, ok := conn.(*redis.Client)
	if !ok {
		_ = driver.Close(conn)
		return nil, fmt.Errorf("redis driver returned %T, expected *redis.Client", conn)
	}
	return rc, nil
}
