package metrics

import (
	"context"
	"fmt"
	"time"
)

// DefaultHealthTimeout bounds a single component check.
const DefaultHealthTimeout = 3 * time.Second

// HealthChecker is a component that can report its health. Search
// executors satisfy it.
type HealthChecker interface {
	Engine() string
	Health(ctx context.Context) error
}

// HealthMonitor checks registered components and reports to a collector
type HealthMonitor struct {
	collector  Collector
	timeout    time.Duration
	components map[string]HealthChecker
}

// NewHealthMonitor creates a new health monitor
func NewHealthMonitor(collector Collector) *HealthMonitor {
	if collector == nil {
		collector = NoOpCollector{}
	}
	return &HealthMonitor{
		collector:  collector,
		timeout:    DefaultHealthTimeout,
		components: make(map[string]HealthChecker),
	}
}

// Register adds a component, keyed by its engine name
func (h *HealthMonitor) Register(checker HealthChecker) {
	h.components[checker.Engine()] = checker
}

// CheckAll checks every registered component. The map holds nil for healthy
// components.
func (h *HealthMonitor) CheckAll(ctx context.Context) map[string]error {
	results := make(map[string]error, len(h.components))
	for name, checker := range h.components {
		results[name] = h.check(ctx, name, checker)
	}
	return results
}

// Check checks one component by name
func (h *HealthMonitor) Check(ctx context.Context, name string) error {
	checker, ok := h.components[name]
	if !ok {
		return fmt.Errorf("metrics: unknown component %q", name)
	}
	return h.check(ctx, name, checker)
}

func (h *HealthMonitor) check(ctx context.Context, name string, checker HealthChecker) error {
	checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	err := checker.Health(checkCtx)
	h.collector.HealthCheck(name, err == nil)
	return err
}
