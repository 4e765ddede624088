package config

import (
	"time"

	"github.com/spf13/viper"
)

// Metric storage backends
const (
	MetricsStorageMemory = "memory"
	MetricsStorageRedis  = "redis"
)

const metricsKey = "data.metrics."

// Metrics configures the indexing metrics collector.
type Metrics struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	// StorageType defaults to redis when a redis address is configured.
	StorageType   string `yaml:"storage_type" json:"storage_type" validate:"oneof=memory redis"`
	KeyPrefix     string `yaml:"key_prefix" json:"key_prefix"`
	RetentionDays int    `yaml:"retention_days" json:"retention_days" validate:"gte=0"`
	BatchSize     int    `yaml:"batch_size" json:"batch_size" validate:"gte=0"`
}

// Retention returns how long stored metrics are kept.
func (m *Metrics) Retention() time.Duration {
	if m == nil {
		return 0
	}
	return time.Duration(m.RetentionDays) * 24 * time.Hour
}

// UseRedis reports whether metrics should be persisted to redis.
func (m *Metrics) UseRedis() bool {
	return m != nil && m.Enabled && m.StorageType == MetricsStorageRedis
}

func getMetricsConfig(v *viper.Viper) *Metrics {
	m := &Metrics{
		Enabled:       v.GetBool(metricsKey + "enabled"),
		StorageType:   v.GetString(metricsKey + "storage_type"),
		KeyPrefix:     getStringOrDefault(v, metricsKey+"key_prefix", "queryindex"),
		RetentionDays: getIntOrDefault(v, metricsKey+"retention_days", 7),
		BatchSize:     getIntOrDefault(v, metricsKey+"batch_size", 100),
	}
	if m.StorageType == "" {
		m.StorageType = MetricsStorageMemory
		if m.Enabled && v.GetString("data.redis.addr") != "" {
			m.StorageType = MetricsStorageRedis
		}
	}
	return m
}
