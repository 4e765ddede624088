package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Collector receives indexing metrics. Implementations must be safe for
// concurrent use.
type Collector interface {
	BulkFlush(engine string, operations, failed int, duration time.Duration, err error)
	IndexOperation(action string, err error)
	SchemaRegistration(typeName string, cached bool, err error)
	HealthCheck(component string, healthy bool)
}

// NoOpCollector implements Collector with no-op methods
type NoOpCollector struct{}

func (NoOpCollector) BulkFlush(string, int, int, time.Duration, error) {}
func (NoOpCollector) IndexOperation(string, error)                     {}
func (NoOpCollector) SchemaRegistration(string, bool, error)           {}
func (NoOpCollector) HealthCheck(string, bool)                         {}

// IndexCollector collects indexing metrics
type IndexCollector struct {
	// Bulk metrics
	bulkFlushes     atomic.Int64
	bulkErrors      atomic.Int64
	bulkOperations  atomic.Int64
	bulkFailedItems atomic.Int64
	slowFlushes     atomic.Int64

	// Operation metrics
	indexOps   atomic.Int64
	deleteOps  atomic.Int64
	opFailures atomic.Int64

	// Schema metrics
	registrations      atomic.Int64
	registrationHits   atomic.Int64
	registrationErrors atomic.Int64

	// Health metrics
	healthChecks map[string]*atomic.Bool
	healthMu     sync.RWMutex

	lastFlush atomic.Value // time.Time

	// Storage
	storage   Storage
	batchSize int
	buffer    []Metric
	bufferMu  sync.Mutex
}

// Metric represents one recorded indexing metric
type Metric struct {
	Type      string    `json:"type"`
	Value     int64     `json:"value"`
	Labels    Labels    `json:"labels"`
	Timestamp time.Time `json:"timestamp"`
}

// Labels for metric categorization
type Labels map[string]string

// Storage interface for metrics persistence
type Storage interface {
	Store(metrics []Metric) error
	Query(query QueryRequest) ([]Metric, error)
	Close() error
}

// QueryRequest for querying metrics
type QueryRequest struct {
	Type      string    `json:"type"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Labels    Labels    `json:"labels"`
	Limit     int       `json:"limit"`
}

// SlowFlushThreshold marks a bulk flush as slow.
const SlowFlushThreshold = time.Second

// NewIndexCollector creates a new collector with memory storage
func NewIndexCollector(batchSize int) *IndexCollector {
	return newIndexCollector(NewMemoryStorage(), batchSize)
}

// NewIndexCollectorWithRedis creates a new collector with Redis storage
func NewIndexCollectorWithRedis(client *redis.Client, keyPrefix string, retention time.Duration, batchSize int) *IndexCollector {
	return newIndexCollector(NewRedisStorage(client, keyPrefix, retention), batchSize)
}

// NewIndexCollectorWithStorage creates a new collector persisting to s
func NewIndexCollectorWithStorage(s Storage, batchSize int) *IndexCollector {
	return newIndexCollector(s, batchSize)
}

func newIndexCollector(s Storage, batchSize int) *IndexCollector {
	if batchSize <= 0 {
		batchSize = 100
	}
	c := &IndexCollector{
		healthChecks: make(map[string]*atomic.Bool),
		storage:      s,
		batchSize:    batchSize,
		buffer:       make([]Metric, 0, batchSize),
	}
	c.lastFlush.Store(time.Time{})
	return c
}

// BulkFlush records one bulk commit
func (c *IndexCollector) BulkFlush(engine string, operations, failed int, duration time.Duration, err error) {
	c.bulkFlushes.Add(1)
	c.bulkOperations.Add(int64(operations))
	c.bulkFailedItems.Add(int64(failed))
	c.lastFlush.Store(time.Now())

	if err != nil {
		c.bulkErrors.Add(1)
	}
	if duration > SlowFlushThreshold {
		c.slowFlushes.Add(1)
	}

	c.recordMetric("bulk_flush", int64(operations), Labels{
		"engine":  engine,
		"success": boolToString(err == nil),
		"slow":    boolToString(duration > SlowFlushThreshold),
	})
}

// IndexOperation records one queued index or delete operation
func (c *IndexCollector) IndexOperation(action string, err error) {
	switch action {
	case "delete":
		c.deleteOps.Add(1)
	default:
		c.indexOps.Add(1)
	}
	if err != nil {
		c.opFailures.Add(1)
	}

	c.recordMetric("index_operation", 1, Labels{
		"action":  action,
		"success": boolToString(err == nil),
	})
}

// SchemaRegistration records one EnsureType call
func (c *IndexCollector) SchemaRegistration(typeName string, cached bool, err error) {
	c.registrations.Add(1)
	if cached {
		c.registrationHits.Add(1)
		// hits are frequent and carry no information worth persisting
		return
	}
	if err != nil {
		c.registrationErrors.Add(1)
	}

	c.recordMetric("schema_registration", 1, Labels{
		"type":    typeName,
		"success": boolToString(err == nil),
	})
}

// HealthCheck records health check metrics
func (c *IndexCollector) HealthCheck(component string, healthy bool) {
	c.healthMu.Lock()
	if _, exists := c.healthChecks[component]; !exists {
		c.healthChecks[component] = &atomic.Bool{}
	}
	healthCheck := c.healthChecks[component]
	c.healthMu.Unlock()

	healthCheck.Store(healthy)

	c.recordMetric("health_check", boolToInt(healthy), Labels{
		"component": component,
	})
}

// recordMetric records a metric to storage
func (c *IndexCollector) recordMetric(metricType string, value int64, labels Labels) {
	metric := Metric{
		Type:      metricType,
		Value:     value,
		Labels:    labels,
		Timestamp: time.Now(),
	}

	c.bufferMu.Lock()
	c.buffer = append(c.buffer, metric)
	shouldFlush := len(c.buffer) >= c.batchSize
	c.bufferMu.Unlock()

	if shouldFlush {
		c.Flush()
	}
}

// Flush writes buffered metrics to storage
func (c *IndexCollector) Flush() error {
	c.bufferMu.Lock()
	if len(c.buffer) == 0 {
		c.bufferMu.Unlock()
		return nil
	}

	metrics := make([]Metric, len(c.buffer))
	copy(metrics, c.buffer)
	c.buffer = c.buffer[:0]
	c.bufferMu.Unlock()

	if c.storage != nil {
		return c.storage.Store(metrics)
	}
	return nil
}

// Query reads persisted metrics. Buffered metrics are flushed first.
func (c *IndexCollector) Query(q QueryRequest) ([]Metric, error) {
	if err := c.Flush(); err != nil {
		return nil, err
	}
	if c.storage == nil {
		return nil, nil
	}
	return c.storage.Query(q)
}

// GetStats returns current statistics
func (c *IndexCollector) GetStats() map[string]any {
	c.healthMu.RLock()
	healthStatus := make(map[string]bool)
	for component, status := range c.healthChecks {
		healthStatus[component] = status.Load()
	}
	c.healthMu.RUnlock()

	return map[string]any{
		"bulk": map[string]any{
			"flushes":      c.bulkFlushes.Load(),
			"errors":       c.bulkErrors.Load(),
			"operations":   c.bulkOperations.Load(),
			"failed_items": c.bulkFailedItems.Load(),
			"slow":         c.slowFlushes.Load(),
			"last_flush":   c.lastFlush.Load(),
		},
		"operations": map[string]any{
			"index":    c.indexOps.Load(),
			"delete":   c.deleteOps.Load(),
			"failures": c.opFailures.Load(),
		},
		"schema": map[string]any{
			"registrations": c.registrations.Load(),
			"cached":        c.registrationHits.Load(),
			"errors":        c.registrationErrors.Load(),
		},
		"health":    healthStatus,
		"timestamp": time.Now(),
	}
}

// Close closes the collector and flushes remaining metrics
func (c *IndexCollector) Close() error {
	_ = c.Flush()
	if c.storage != nil {
		return c.storage.Close()
	}
	return nil
}

// Helper functions
func boolToString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
