package config

import (
	"time"

	"github.com/spf13/viper"
)

// OpenSearch opensearch config struct
type OpenSearch struct {
	Addresses       []string      `json:"addresses" yaml:"addresses" validate:"omitempty,dive,url"`
	Username        string        `json:"username" yaml:"username"`
	Password        string        `json:"password" yaml:"password"`
	InsecureSkipTLS bool          `json:"insecure_skip_tls" yaml:"insecure_skip_tls"`
	MaxRetries      int           `json:"max_retries" yaml:"max_retries"`
	Timeout         time.Duration `json:"timeout" yaml:"timeout"`
}

// getOpenSearchConfigs reads OpenSearch configurations
func getOpenSearchConfigs(v *viper.Viper) *OpenSearch {
	// Prefer `data.search.opensearch.*` but keep backward compatibility with `data.opensearch.*`.
	insecureSkipTLS := v.GetBool("data.search.opensearch.insecure_skip_tls")
	if !v.IsSet("data.search.opensearch.insecure_skip_tls") {
		insecureSkipTLS = v.GetBool("data.opensearch.insecure_skip_tls")
	}

	return &OpenSearch{
		Addresses:       getStringSliceFallback(v, "data.search.opensearch.addresses", "data.opensearch.addresses"),
		Username:        getStringFallback(v, "data.search.opensearch.username", "data.opensearch.username"),
		Password:        getStringFallback(v, "data.search.opensearch.password", "data.opensearch.password"),
		InsecureSkipTLS: insecureSkipTLS,
		MaxRetries:      getIntOrDefault(v, "data.search.opensearch.max_retries", 3),
		Timeout:         getDurationOrDefault(v, "data.search.opensearch.timeout", 30*time.Second),
	}
}
