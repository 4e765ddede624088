package config

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Output destinations
const (
	OutputStdout = "stdout"
	OutputStderr = "stderr"
	OutputFile   = "file"
)

// DefaultOutputFile is used when output is "file" and no path is given.
const DefaultOutputFile = "logs/queryindex.log"

// Config selects the level, format and destination of log lines.
type Config struct {
	// Level is a logrus level number; 5 is debug.
	Level           int              `json:"level" yaml:"level"`
	Format          string           `json:"format" yaml:"format"`
	Output          string           `json:"output" yaml:"output"`
	OutputFile      string           `json:"output_file" yaml:"output_file"`
	Desensitization *Desensitization `json:"desensitization" yaml:"desensitization"`
}

// GetConfig reads the logger section, or returns nil when there is none.
func GetConfig(v *viper.Viper) *Config {
	if !v.IsSet("logger") {
		return nil
	}

	c := &Config{
		Level:           parseLevel(v.GetString("logger.level")),
		Format:          strings.ToLower(v.GetString("logger.format")),
		Output:          strings.ToLower(v.GetString("logger.output")),
		OutputFile:      v.GetString("logger.output_file"),
		Desensitization: getDesensitizationConfigs(v),
	}
	if c.Output == OutputFile && c.OutputFile == "" {
		c.OutputFile = DefaultOutputFile
	}
	return c
}

// parseLevel accepts a level number or a logrus level name such as "debug".
// Anything else is info.
func parseLevel(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if l, err := logrus.ParseLevel(s); err == nil {
		return int(l)
	}
	return int(logrus.InfoLevel)
}
