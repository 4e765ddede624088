package config

import (
	"github.com/spf13/viper"
)

// valueOr reads key with get, or returns def when key is not set.
func valueOr[T any](v *viper.Viper, key string, def T, get func(string) T) T {
	if v.IsSet(key) {
		return get(key)
	}
	return def
}
