package config

import (
	"time"

	"github.com/spf13/viper"
)

// getStringOrDefault returns string value or default
func getStringOrDefault(v *viper.Viper, key, defaultValue string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return defaultValue
}

// getIntOrDefault returns int value or default
func getIntOrDefault(v *viper.Viper, key string, defaultValue int) int {
	if v.IsSet(key) {
		return v.GetInt(key)
	}
	return defaultValue
}

func getBoolOrDefault(v *viper.Viper, key string, defaultValue bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return defaultValue
}

func getFloatOrDefault(v *viper.Viper, key string, defaultValue float64) float64 {
	if v.IsSet(key) {
		return v.GetFloat64(key)
	}
	return defaultValue
}

func getDurationOrDefault(v *viper.Viper, key string, defaultValue time.Duration) time.Duration {
	if v.IsSet(key) {
		return v.GetDuration(key)
	}
	return defaultValue
}

// getStringFallback reads key, falling back to legacy when key is empty.
func getStringFallback(v *viper.Viper, key, legacy string) string {
	if s := v.GetString(key); s != "" {
		return s
	}
	return v.GetString(legacy)
}

func getStringSliceFallback(v *viper.Viper, key, legacy string) []string {
	if s := v.GetStringSlice(key); len(s) > 0 {
		return s
	}
	return v.GetStringSlice(legacy)
}
