package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Search represents search engine configuration
type Search struct {
	IndexPrefix     string         `yaml:"index_prefix" json:"index_prefix"`
	DefaultEngine   string         `yaml:"default_engine" json:"default_engine" validate:"oneof=elasticsearch opensearch memory"`
	ForcedRefresh   bool           `yaml:"forced_refresh" json:"forced_refresh"`
	BulkSize        int            `yaml:"bulk_size" json:"bulk_size" validate:"gte=0"`
	AutoCreateIndex bool           `yaml:"auto_create_index" json:"auto_create_index"`
	IndexSettings   *IndexSettings `yaml:"index_settings" json:"index_settings"`
	Registry        *Registry      `yaml:"registry" json:"registry"`
	Breaker         *Breaker       `yaml:"breaker" json:"breaker"`
	Elasticsearch   *Elasticsearch `yaml:"elasticsearch" json:"elasticsearch"`
	OpenSearch      *OpenSearch    `yaml:"opensearch" json:"opensearch"`
}

// IndexSettings represents physical index settings
type IndexSettings struct {
	Shards          int    `yaml:"shards" json:"shards" validate:"gte=0"`
	Replicas        int    `yaml:"replicas" json:"replicas" validate:"gte=0"`
	RefreshInterval string `yaml:"refresh_interval" json:"refresh_interval"`
}

// Registry selects where registered types are remembered
type Registry struct {
	Backend string `yaml:"backend" json:"backend" validate:"oneof=memory redis"`
	Key     string `yaml:"key" json:"key"`
}

// Breaker configures the executor circuit breaker
type Breaker struct {
	Enabled      bool          `yaml:"enabled" json:"enabled"`
	MaxRequests  uint32        `yaml:"max_requests" json:"max_requests"`
	Interval     time.Duration `yaml:"interval" json:"interval"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	FailureRatio float64       `yaml:"failure_ratio" json:"failure_ratio" validate:"gte=0,lte=1"`
	MinRequests  uint32        `yaml:"min_requests" json:"min_requests"`
}

// GetSearchConfig reads search configurations
func GetSearchConfig(v *viper.Viper) *Search {
	return &Search{
		IndexPrefix:     getSearchIndexPrefix(v),
		DefaultEngine:   getStringOrDefault(v, "data.search.default_engine", "elasticsearch"),
		ForcedRefresh:   v.GetBool("data.search.forced_refresh"),
		BulkSize:        getIntOrDefault(v, "data.search.bulk_size", 1000),
		AutoCreateIndex: getBoolOrDefault(v, "data.search.auto_create_index", true),
		IndexSettings:   getSearchIndexSettings(v),
		Registry:        getRegistryConfig(v),
		Breaker:         getBreakerConfig(v),
		Elasticsearch:   getElasticsearchConfigs(v),
		OpenSearch:      getOpenSearchConfigs(v),
	}
}

// getSearchIndexPrefix gets search index prefix
func getSearchIndexPrefix(v *viper.Viper) string {
	if v.IsSet("data.search.index_prefix") {
		return v.GetString("data.search.index_prefix")
	}
	return getDefaultIndexPrefix(v)
}

// getDefaultIndexPrefix builds default index prefix from app info
func getDefaultIndexPrefix(v *viper.Viper) string {
	appName := v.GetString("app_name")
	runMode := v.GetString("run_mode")

	if appName != "" && runMode != "" {
		return strings.ToLower(fmt.Sprintf("%s-%s", appName, runMode))
	}

	return strings.ToLower(appName)
}

// getSearchIndexSettings gets search index settings
func getSearchIndexSettings(v *viper.Viper) *IndexSettings {
	return &IndexSettings{
		Shards:          getIntOrDefault(v, "data.search.index_settings.shards", 1),
		Replicas:        getIntOrDefault(v, "data.search.index_settings.replicas", 0),
		RefreshInterval: getStringOrDefault(v, "data.search.index_settings.refresh_interval", "1s"),
	}
}

func getRegistryConfig(v *viper.Viper) *Registry {
	return &Registry{
		Backend: getStringOrDefault(v, "data.search.registry.backend", "memory"),
		Key:     getStringOrDefault(v, "data.search.registry.key", "queryindex:known_types"),
	}
}

func getBreakerConfig(v *viper.Viper) *Breaker {
	return &Breaker{
		Enabled:      v.GetBool("data.search.breaker.enabled"),
		MaxRequests:  uint32(getIntOrDefault(v, "data.search.breaker.max_requests", 1)),
		Interval:     getDurationOrDefault(v, "data.search.breaker.interval", time.Minute),
		Timeout:      getDurationOrDefault(v, "data.search.breaker.timeout", 30*time.Second),
		FailureRatio: getFloatOrDefault(v, "data.search.breaker.failure_ratio", 0.6),
		MinRequests:  uint32(getIntOrDefault(v, "data.search.breaker.min_requests", 5)),
	}
}
