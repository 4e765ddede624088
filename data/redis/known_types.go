package redis

import (
	"context"
	"sync"

	"github.com/ncobase/queryindex/index"
	"github.com/ncobase/queryindex/logging/logger"
	"github.com/redis/go-redis/v9"
)

// DefaultKnownTypesKey is the Redis set holding registered types.
const DefaultKnownTypesKey = "queryindex:known_types"

type setCommander interface {
	SAdd(ctx context.Context, key string, members ...any) *redis.IntCmd
	SIsMember(ctx context.Context, key string, member any) *redis.BoolCmd
}

// KnownTypes is a type registry shared by all processes using the same
// Redis set. A local set answers repeated lookups without a round trip.
// Redis errors are logged and read as "not known", which only costs an
// idempotent re-registration.
type KnownTypes struct {
	client setCommander
	key    string
	local  sync.Map
	logger *logger.Logger
}

var _ index.KnownTypes = (*KnownTypes)(nil)

// NewKnownTypes returns a registry stored in the set key of client.
func NewKnownTypes(client *redis.Client, key string) *KnownTypes {
	return newKnownTypes(client, key)
}

func newKnownTypes(client setCommander, key string) *KnownTypes {
	if key == "" {
		key = DefaultKnownTypesKey
	}
	return &KnownTypes{
		client: client,
		key:    key,
		logger: logger.StdLogger(),
	}
}

// Contains reports whether name was registered by any process.
func (k *KnownTypes) Contains(ctx context.Context, name string) bool {
	if _, ok := k.local.Load(name); ok {
		return true
	}
	found, err := k.client.SIsMember(ctx, k.key, name).Result()
	if err != nil {
		k.logger.Warnf(ctx, "known types lookup of %s failed: %v", name, err)
		return false
	}
	if found {
		k.local.Store(name, struct{}{})
	}
	return found
}

// Add records name locally and in Redis.
func (k *KnownTypes) Add(ctx context.Context, name string) {
	k.local.Store(name, struct{}{})
	if err := k.client.SAdd(ctx, k.key, name).Err(); err != nil {
		k.logger.Warnf(ctx, "known types add of %s failed: %v", name, err)
	}
}

// Key returns the Redis set key.
func (k *KnownTypes) Key() string { return k.key }
