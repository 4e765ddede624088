package config

import (
	"time"

	"github.com/spf13/viper"
)

const tracerKey = "observes.tracer."

// Tracer configures span export over OTLP gRPC. Spans are exported only
// when Endpoint is set.
type Tracer struct {
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// ServiceName and Environment default to app_name and run_mode.
	ServiceName    string `json:"service_name" yaml:"service_name"`
	ServiceVersion string `json:"service_version" yaml:"service_version"`
	Environment    string `json:"environment" yaml:"environment"`

	// SamplingRate is clamped to [0, 1].
	SamplingRate float64 `json:"sampling_rate" yaml:"sampling_rate"`

	MaxExportBatchSize int           `json:"max_export_batch_size" yaml:"max_export_batch_size"`
	BatchTimeout       time.Duration `json:"batch_timeout" yaml:"batch_timeout"`
	ExportTimeout      time.Duration `json:"export_timeout" yaml:"export_timeout"`
}

// Enabled reports whether an exporter endpoint is configured.
func (t *Tracer) Enabled() bool {
	return t != nil && t.Endpoint != ""
}

func getTracerConfig(v *viper.Viper) *Tracer {
	t := &Tracer{
		Endpoint:           v.GetString(tracerKey + "endpoint"),
		ServiceName:        valueOr(v, tracerKey+"service_name", v.GetString("app_name"), v.GetString),
		ServiceVersion:     v.GetString(tracerKey + "service_version"),
		Environment:        valueOr(v, tracerKey+"environment", v.GetString("run_mode"), v.GetString),
		SamplingRate:       valueOr(v, tracerKey+"sampling_rate", 1.0, v.GetFloat64),
		MaxExportBatchSize: valueOr(v, tracerKey+"max_export_batch_size", 512, v.GetInt),
		BatchTimeout:       valueOr(v, tracerKey+"batch_timeout", 5*time.Second, v.GetDuration),
		ExportTimeout:      valueOr(v, tracerKey+"export_timeout", 30*time.Second, v.GetDuration),
	}
	t.SamplingRate = min(max(t.SamplingRate, 0), 1)
	return t
}
