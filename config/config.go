package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	dc "github.com/ncobase/queryindex/data/config"
	lc "github.com/ncobase/queryindex/logging/logger/config"
	"github.com/spf13/viper"
)

var (
	config *Config
	path   string
	mu     sync.Mutex
	v      *viper.Viper
)

// Config represents the configuration implementation.
type Config struct {
	AppName string
	RunMode string
	Logger  *lc.Config
	Tracer  *Tracer
	Data    *dc.Config
	Viper   *viper.Viper
}

// SetPath sets the file read by Init and Reload.
func SetPath(p string) {
	mu.Lock()
	defer mu.Unlock()
	path = p
}

// Init loads the configuration from the path set with SetPath, or from the
// default search locations, and keeps it as the current configuration.
func Init() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	cfg, err := load(path)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	config, v = cfg, cfg.Viper
	return cfg, nil
}

// GetConfig returns the current configuration, loading it on first use.
func GetConfig() (*Config, error) {
	mu.Lock()
	cfg := config
	mu.Unlock()

	if cfg != nil {
		return cfg, nil
	}
	return Init()
}

// LoadConfig loads and validates the configuration from configPath.
func LoadConfig(configPath string) (*Config, error) {
	cfg, err := load(configPath)
	if err != nil {
		return nil, err
	}
	mu.Lock()
	v = cfg.Viper
	mu.Unlock()
	return cfg, nil
}

func load(configPath string) (*Config, error) {
	nv := viper.New()
	if configPath != "" {
		nv.SetConfigFile(configPath)
	} else {
		ex, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to get executable path: %w", err)
		}
		nv.SetConfigName("config")
		nv.AddConfigPath("/etc/queryindex")
		nv.AddConfigPath("$HOME/.queryindex")
		nv.AddConfigPath(".")
		nv.AddConfigPath(filepath.Dir(ex))
	}

	if err := nv.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{
		AppName: nv.GetString("app_name"),
		RunMode: nv.GetString("run_mode"),
		Logger:  lc.GetConfig(nv),
		Tracer:  getTracerConfig(nv),
		Data:    dc.GetConfig(nv),
		Viper:   nv,
	}
	if err := cfg.Data.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Reload reloads the configuration from the file.
func Reload() error {
	mu.Lock()
	defer mu.Unlock()

	newConfig, err := load(path)
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}

	config, v = newConfig, newConfig.Viper
	return nil
}

// Watch watches the most recently loaded configuration file and passes
// every valid edit to callback. Invalid edits are reported to onError and
// the previous configuration stays.
func Watch(callback func(*Config), onError func(error)) {
	mu.Lock()
	watched := v
	mu.Unlock()
	if watched == nil {
		return
	}
	file := watched.ConfigFileUsed()

	watched.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := load(file)
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("failed to reload config: %w", err))
			}
			return
		}
		mu.Lock()
		config = cfg
		mu.Unlock()
		callback(cfg)
	})
	watched.WatchConfig()
}
