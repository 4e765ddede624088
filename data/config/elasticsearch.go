package config

import (
	"time"

	"github.com/spf13/viper"
)

// Elasticsearch elasticsearch config struct
type Elasticsearch struct {
	Addresses  []string      `json:"addresses" yaml:"addresses" validate:"omitempty,dive,url"`
	Username   string        `json:"username" yaml:"username"`
	Password   string        `json:"password" yaml:"password"`
	MaxRetries int           `json:"max_retries" yaml:"max_retries"`
	Timeout    time.Duration `json:"timeout" yaml:"timeout"`
}

// getElasticsearchConfigs reads Elasticsearch configurations
func getElasticsearchConfigs(v *viper.Viper) *Elasticsearch {
	// Prefer `data.search.elasticsearch.*` but keep backward compatibility with `data.elasticsearch.*`.
	return &Elasticsearch{
		Addresses:  getStringSliceFallback(v, "data.search.elasticsearch.addresses", "data.elasticsearch.addresses"),
		Username:   getStringFallback(v, "data.search.elasticsearch.username", "data.elasticsearch.username"),
		Password:   getStringFallback(v, "data.search.elasticsearch.password", "data.elasticsearch.password"),
		MaxRetries: getIntOrDefault(v, "data.search.elasticsearch.max_retries", 3),
		Timeout:    getDurationOrDefault(v, "data.search.elasticsearch.timeout", 30*time.Second),
	}
}
