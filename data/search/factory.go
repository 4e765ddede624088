package search

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ncobase/queryindex/index"
)

// ExecutorFactory creates an executor from a search driver connection
type ExecutorFactory func(conn any) (index.Executor, error)

var (
	// Registry of executor factories by engine type
	executorFactories   = make(map[Engine]ExecutorFactory)
	executorFactoriesMu sync.RWMutex
)

// RegisterExecutorFactory registers a factory for creating executors.
// This is called by search driver packages in their init() functions.
func RegisterExecutorFactory(engine Engine, factory ExecutorFactory) {
	executorFactoriesMu.Lock()
	defer executorFactoriesMu.Unlock()

	if factory == nil {
		panic("search: RegisterExecutorFactory factory is nil")
	}
	executorFactories[engine] = factory
}

// GetExecutorFactory returns the factory for a given engine
func GetExecutorFactory(engine Engine) (ExecutorFactory, error) {
	executorFactoriesMu.RLock()
	defer executorFactoriesMu.RUnlock()

	factory, ok := executorFactories[engine]
	if !ok {
		return nil, fmt.Errorf("%w: no executor factory registered for %s", ErrEngineNotFound, engine)
	}
	return factory, nil
}

// GetRegisteredEngines returns the engines with registered factories, sorted
func GetRegisteredEngines() []Engine {
	executorFactoriesMu.RLock()
	defer executorFactoriesMu.RUnlock()

	engines := make([]Engine, 0, len(executorFactories))
	for engine := range executorFactories {
		engines = append(engines, engine)
	}
	sort.Slice(engines, func(i, j int) bool { return engines[i] < engines[j] })
	return engines
}
