package config

import (
	"fmt"

	"github.com/ncobase/queryindex/validator"
	"github.com/spf13/viper"
)

// Config data config struct
type Config struct {
	Search  *Search  `yaml:"search" json:"search"`
	Redis   *Redis   `yaml:"redis" json:"redis"`
	Metrics *Metrics `yaml:"metrics" json:"metrics" validate:"omitempty"`
}

// GetConfig returns data config
func GetConfig(v *viper.Viper) *Config {
	return &Config{
		Search:  GetSearchConfig(v),
		Redis:   getRedisConfigs(v),
		Metrics: getMetricsConfig(v),
	}
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if err := validator.Validate(c); err != nil {
		return fmt.Errorf("data config: %w", err)
	}
	return nil
}
