package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MemoryStorage keeps metrics in process memory
type MemoryStorage struct {
	metrics []Metric
	mu      sync.RWMutex
}

// NewMemoryStorage creates a new memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		metrics: make([]Metric, 0),
	}
}

// Store appends metrics
func (m *MemoryStorage) Store(metrics []Metric) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics = append(m.metrics, metrics...)
	return nil
}

// Query returns matching metrics ordered by timestamp
func (m *MemoryStorage) Query(query QueryRequest) ([]Metric, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []Metric
	for _, metric := range m.metrics {
		if query.Type != "" && metric.Type != query.Type {
			continue
		}
		if !inRange(metric.Timestamp, query.StartTime, query.EndTime) {
			continue
		}
		if matchesLabels(metric, query.Labels) {
			result = append(result, metric)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})

	return limit(result, query.Limit), nil
}

// Close drops all stored metrics
func (m *MemoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics = nil
	return nil
}

// RedisStorage stores metrics in Redis sorted sets scored by unix time,
// one set per metric type.
type RedisStorage struct {
	client    *redis.Client
	keyPrefix string
	retention time.Duration
}

// NewRedisStorage creates a new Redis storage
func NewRedisStorage(client *redis.Client, keyPrefix string, retention time.Duration) *RedisStorage {
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	return &RedisStorage{
		client:    client,
		keyPrefix: keyPrefix,
		retention: retention,
	}
}

func (r *RedisStorage) key(metricType string) string {
	return fmt.Sprintf("%s:index_metrics:%s", r.keyPrefix, metricType)
}

// Store writes metrics in a single pipeline
func (r *RedisStorage) Store(metrics []Metric) error {
	ctx := context.Background()
	pipe := r.client.Pipeline()

	for _, metric := range metrics {
		data, err := json.Marshal(metric)
		if err != nil {
			continue
		}
		key := r.key(metric.Type)
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(metric.Timestamp.Unix()), Member: string(data)})
		pipe.Expire(ctx, key, r.retention)
	}

	_, err := pipe.Exec(ctx)
	return err
}

// Query reads metrics of query.Type; a type is required.
func (r *RedisStorage) Query(query QueryRequest) ([]Metric, error) {
	if query.Type == "" {
		return nil, fmt.Errorf("metrics: query type is required for redis storage")
	}

	lo, hi := "-inf", "+inf"
	if !query.StartTime.IsZero() {
		lo = strconv.FormatInt(query.StartTime.Unix(), 10)
	}
	if !query.EndTime.IsZero() {
		hi = strconv.FormatInt(query.EndTime.Unix(), 10)
	}

	members, err := r.client.ZRangeByScore(context.Background(), r.key(query.Type), &redis.ZRangeBy{
		Min: lo,
		Max: hi,
	}).Result()
	if err != nil {
		return nil, err
	}

	var result []Metric
	for _, member := range members {
		var metric Metric
		if err := json.Unmarshal([]byte(member), &metric); err != nil {
			continue
		}
		if matchesLabels(metric, query.Labels) {
			result = append(result, metric)
		}
	}

	return limit(result, query.Limit), nil
}

// Close is a no-op; the client is owned by the caller.
func (r *RedisStorage) Close() error {
	return nil
}

func inRange(ts, start, end time.Time) bool {
	if !start.IsZero() && ts.Before(start) {
		return false
	}
	if !end.IsZero() && ts.After(end) {
		return false
	}
	return true
}

func matchesLabels(metric Metric, labels Labels) bool {
	for key, value := range labels {
		if metric.Labels == nil || metric.Labels[key] != value {
			return false
		}
	}
	return true
}

func limit(result []Metric, n int) []Metric {
	if n > 0 && len(result) > n {
		return result[:n]
	}
	return result
}
