package config

import (
	"time"

	"github.com/spf13/viper"
)

const redisKey = "data.redis."

// Redis configures the client shared by the type registry and metrics
// storage. Redis is off when Addr is empty.
type Redis struct {
	Addr         string        `json:"addr" yaml:"addr" validate:"omitempty,hostname_port"`
	Username     string        `json:"username" yaml:"username"`
	Password     string        `json:"password" yaml:"password"`
	Db           int           `json:"db" yaml:"db" validate:"gte=0"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
	DialTimeout  time.Duration `json:"dial_timeout" yaml:"dial_timeout"`
}

// Enabled reports whether a Redis server is configured.
func (r *Redis) Enabled() bool {
	return r != nil && r.Addr != ""
}

func getRedisConfigs(v *viper.Viper) *Redis {
	return &Redis{
		Addr:         v.GetString(redisKey + "addr"),
		Username:     v.GetString(redisKey + "username"),
		Password:     v.GetString(redisKey + "password"),
		Db:           v.GetInt(redisKey + "db"),
		ReadTimeout:  getDurationOrDefault(v, redisKey+"read_timeout", 3*time.Second),
		WriteTimeout: getDurationOrDefault(v, redisKey+"write_timeout", 3*time.Second),
		DialTimeout:  getDurationOrDefault(v, redisKey+"dial_timeout", 5*time.Second),
	}
}
