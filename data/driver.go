package data

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Drivers register themselves from init() and are looked up by the name
// found in configuration, the way database/sql drivers are.

// SearchDriver connects a search engine.
type SearchDriver interface {
	// Name is the engine name used in configuration, e.g. "elasticsearch".
	Name() string
	// Connect opens a connection from the engine specific configuration.
	Connect(ctx context.Context, cfg any) (any, error)
	Close(conn any) error
}

// CacheDriver connects a key-value store.
type CacheDriver interface {
	Name() string
	Connect(ctx context.Context, cfg any) (any, error)
	Close(conn any) error
	Ping(ctx context.Context, conn any) error
}

type named interface {
	Name() string
}

// registry holds the drivers of one kind.
type registry[D named] struct {
	kind    string
	mu      sync.RWMutex
	drivers map[string]D
}

func newRegistry[D named](kind string) *registry[D] {
	return &registry[D]{kind: kind, drivers: make(map[string]D)}
}

func (r *registry[D]) register(d D, isNil bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if isNil {
		panic(fmt.Sprintf("data: %s driver is nil", r.kind))
	}
	name := d.Name()
	if name == "" {
		panic(fmt.Sprintf("data: %s driver name is empty", r.kind))
	}
	if _, dup := r.drivers[name]; dup {
		panic(fmt.Sprintf("data: %s driver %s registered twice", r.kind, name))
	}
	r.drivers[name] = d
}

func (r *registry[D]) get(name string) (D, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.drivers[name]
	if !ok {
		return d, fmt.Errorf(
			"data: %s driver %q not registered\n\n"+
				"Did you forget to import the driver package?\n"+
				"    _ \"github.com/ncobase/queryindex/data/%s\"\n\n"+
				"Available drivers: %v",
			r.kind, name, name, r.namesLocked(),
		)
	}
	return d, nil
}

func (r *registry[D]) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *registry[D]) namesLocked() []string {
	names := make([]string, 0, len(r.drivers))
	for name := range r.drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *registry[D]) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drivers = make(map[string]D)
}

var (
	searchDrivers = newRegistry[SearchDriver]("search")
	cacheDrivers  = newRegistry[CacheDriver]("cache")
)

// RegisterSearchDriver makes a search driver available under its name:
//
//	func init() {
//	    data.RegisterSearchDriver(driver{})
//	}
//
// It panics if driver is nil, unnamed or registered twice.
func RegisterSearchDriver(driver SearchDriver) {
	searchDrivers.register(driver, driver == nil)
}

// RegisterCacheDriver makes a cache driver available under its name. It
// panics like RegisterSearchDriver.
func RegisterCacheDriver(driver CacheDriver) {
	cacheDrivers.register(driver, driver == nil)
}

// GetSearchDriver returns the search driver registered as name. The error
// names the package to import when it is missing.
func GetSearchDriver(name string) (SearchDriver, error) {
	return searchDrivers.get(name)
}

// GetCacheDriver returns the cache driver registered as name.
func GetCacheDriver(name string) (CacheDriver, error) {
	return cacheDrivers.get(name)
}

// ListRegisteredDrivers returns the sorted driver names keyed by kind,
// "search" and "cache".
func ListRegisteredDrivers() map[string][]string {
	return map[string][]string{
		searchDrivers.kind: searchDrivers.names(),
		cacheDrivers.kind:  cacheDrivers.names(),
	}
}
