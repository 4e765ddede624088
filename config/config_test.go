package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return p
}

func TestLoadConfig(t *testing.T) {
	p := writeConfig(t, `
app_name: Ncobase
run_mode: dev
logger:
  level: 5
  format: json
  output: stdout
observes:
  tracer:
    endpoint: localhost:4317
    sampling_rate: 0.5
data:
  search:
    default_engine: memory
    bulk_size: 10
  redis:
    addr: localhost:6379
`)

	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.AppName != "Ncobase" || cfg.RunMode != "dev" {
		t.Errorf("unexpected app info: %q %q", cfg.AppName, cfg.RunMode)
	}
	if cfg.Logger == nil || cfg.Logger.Level != 5 || cfg.Logger.Format != "json" {
		t.Errorf("unexpected logger config: %+v", cfg.Logger)
	}
	if !cfg.Tracer.Enabled() || cfg.Tracer.SamplingRate != 0.5 {
		t.Errorf("unexpected tracer config: %+v", cfg.Tracer)
	}
	if cfg.Tracer.ServiceName != "Ncobase" || cfg.Tracer.Environment != "dev" {
		t.Errorf("expected tracer identity from app info, got %q %q", cfg.Tracer.ServiceName, cfg.Tracer.Environment)
	}
	if cfg.Data.Search.DefaultEngine != "memory" || cfg.Data.Search.BulkSize != 10 {
		t.Errorf("unexpected search config: %+v", cfg.Data.Search)
	}
	if cfg.Data.Search.IndexPrefix != "ncobase-dev" {
		t.Errorf("expected derived index prefix, got %q", cfg.Data.Search.IndexPrefix)
	}
	if !cfg.Data.Redis.Enabled() {
		t.Error("expected redis enabled")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "app_name: queryindex\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Logger != nil {
		t.Errorf("expected no logger section, got %+v", cfg.Logger)
	}
	if cfg.Tracer.Enabled() {
		t.Error("expected tracing disabled without endpoint")
	}
	if cfg.Data.Search.DefaultEngine != "elasticsearch" || cfg.Data.Search.BulkSize != 1000 {
		t.Errorf("unexpected search defaults: %+v", cfg.Data.Search)
	}
}

func TestLoadConfigValidates(t *testing.T) {
	p := writeConfig(t, `
data:
  search:
    default_engine: solr
`)
	if _, err := LoadConfig(p); err == nil {
		t.Fatal("expected validation error for unknown engine")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestInitAndReload(t *testing.T) {
	p := writeConfig(t, "app_name: first\n")
	SetPath(p)
	t.Cleanup(func() { SetPath("") })

	cfg, err := Init()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AppName != "first" {
		t.Fatalf("expected first, got %q", cfg.AppName)
	}

	if err := os.WriteFile(p, []byte("app_name: second\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Reload(); err != nil {
		t.Fatalf("unexpected reload error: %v", err)
	}
	got, err := GetConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AppName != "second" {
		t.Errorf("expected reloaded config, got %q", got.AppName)
	}
}

func TestTracerSamplingRateClamped(t *testing.T) {
	p := writeConfig(t, `
observes:
  tracer:
    endpoint: localhost:4317
    sampling_rate: 2
    environment: staging
`)
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Tracer.SamplingRate != 1 {
		t.Errorf("expected sampling rate clamped to 1, got %v", cfg.Tracer.SamplingRate)
	}
	if cfg.Tracer.Environment != "staging" {
		t.Errorf("expected explicit environment, got %q", cfg.Tracer.Environment)
	}
	if cfg.Tracer.MaxExportBatchSize != 512 {
		t.Errorf("expected default batch size, got %d", cfg.Tracer.MaxExportBatchSize)
	}
}

func TestWatchDeliversEdits(t *testing.T) {
	p := writeConfig(t, "app_name: first\n")
	if _, err := LoadConfig(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	changes := make(chan *Config, 16)
	errs := make(chan error, 16)
	Watch(func(c *Config) {
		select {
		case changes <- c:
		default:
		}
	}, func(err error) {
		select {
		case errs <- err:
		default:
		}
	})

	if err := os.WriteFile(p, []byte("app_name: second\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	timeout := time.After(5 * time.Second)
	for seen := false; !seen; {
		select {
		case c := <-changes:
			seen = c.AppName == "second"
		case <-timeout:
			t.Fatal("timed out waiting for the edit")
		}
	}

	for len(errs) > 0 {
		<-errs
	}
	if err := os.WriteFile(p, []byte("app_name: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-errs:
		if err == nil {
			t.Error("expected a reload error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the reload error")
	}
}

func TestWatchWithoutConfigIsNoop(t *testing.T) {
	mu.Lock()
	prev := v
	v = nil
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		v = prev
		mu.Unlock()
	})

	Watch(func(*Config) { t.Error("unexpected callback") }, nil)
}
