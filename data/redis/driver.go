package redis

import (
	"context"
	"fmt"

	"github.com/ncobase/queryindex/data"
	"github.com/ncobase/queryindex/data/config"
	"github.com/redis/go-redis/v9"
)

// DriverName is the cache driver name used in configuration.
const DriverName = "redis"

type driver struct{}

func (driver) Name() string { return DriverName }

// Connect opens a client for a *config.Redis and pings it before
// returning. The KnownTypes registry and the metrics storage share it.
func (driver) Connect(ctx context.Context, cfg any) (any, error) {
	rc, ok := cfg.(*config.Redis)
	if !ok || rc == nil {
		return nil, fmt.Errorf("redis: expected *config.Redis, got %T", cfg)
	}
	if !rc.Enabled() {
		return nil, fmt.Errorf("redis: address is empty")
	}

	client := redis.NewClient(clientOptions(rc))
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", rc.Addr, err)
	}
	return client, nil
}

func (driver) Close(conn any) error {
	client, err := asClient(conn)
	if err != nil {
		return err
	}
	return client.Close()
}

func (driver) Ping(ctx context.Context, conn any) error {
	client, err := asClient(conn)
	if err != nil {
		return err
	}
	return client.Ping(ctx).Err()
}

func clientOptions(rc *config.Redis) *redis.Options {
	return &redis.Options{
		Addr:         rc.Addr,
		Username:     rc.Username,
		Password:     rc.Password,
		DB:           rc.Db,
		ReadTimeout:  rc.ReadTimeout,
		WriteTimeout: rc.WriteTimeout,
		DialTimeout:  rc.DialTimeout,
	}
}

func asClient(conn any) (*redis.Client, error) {
	client, ok := conn.(*redis.Client)
	if !ok || client == nil {
		return nil, fmt.Errorf("redis: expected *redis.Client, got %T", conn)
	}
	return client, nil
}

func init() {
	data.RegisterCacheDriver(driver{})
}
