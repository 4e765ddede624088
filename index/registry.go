package index

import (
	"context"
	"sync"
)

// KnownTypes remembers which (index, type) pairs have been registered.
// Entries are only ever added. Implementations must be safe for concurrent
// use; a lost race only costs a redundant, idempotent registration.
type KnownTypes interface {
	Contains(ctx context.Context, name string) bool
	Add(ctx context.Context, name string)
}

type memoryKnownTypes struct {
	names sync.Map
}

// NewKnownTypes returns an in-process registry.
func NewKnownTypes() KnownTypes {
	return &memoryKnownTypes{}
}

func (k *memoryKnownTypes) Contains(_ context.Context, name string) bool {
	_, ok := k.names.Load(name)
	return ok
}

func (k *memoryKnownTypes) Add(_ context.Context, name string) {
	k.names.Store(name, struct{}{})
}

// RegistryKey is the registry entry of typeName in indexName. '/' cannot
// occur in index names, so keys are unambiguous.
func RegistryKey(indexName, typeName string) string {
	return indexName + "/" + typeName
}
