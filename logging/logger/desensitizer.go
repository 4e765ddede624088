package logger

import (
	"strings"

	"github.com/ncobase/queryindex/logging/logger/config"
	"github.com/sirupsen/logrus"
)

const maskedLength = 8

// Desensitizer masks sensitive values before they reach a log line.
// Index documents carry type prefixes ("su_password"), so the prefix is
// ignored when matching field names.
type Desensitizer struct {
	config *config.Desensitization
}

// NewDesensitizer creates a new desensitizer instance
func NewDesensitizer(cfg *config.Desensitization) *Desensitizer {
	if cfg == nil {
		cfg = config.DefaultDesensitization()
	}
	return &Desensitizer{config: cfg}
}

// DesensitizeFields processes log fields and masks sensitive data
func (d *Desensitizer) DesensitizeFields(fields logrus.Fields) logrus.Fields {
	if !d.config.Enabled {
		return fields
	}

	result := make(logrus.Fields, len(fields))
	for key, value := range fields {
		result[key] = d.desensitizeValue(key, value, 0)
	}
	return result
}

// DesensitizeMap returns a masked copy of a document-shaped map.
func (d *Desensitizer) DesensitizeMap(m map[string]any) map[string]any {
	if !d.config.Enabled || m == nil {
		return m
	}
	return d.processMap(m, 0)
}

func (d *Desensitizer) desensitizeValue(key string, value any, depth int) any {
	// Prevent runaway recursion on deeply nested documents
	if depth > 10 || value == nil {
		return value
	}

	if d.isSensitiveField(key) {
		return d.maskValue()
	}

	switch v := value.(type) {
	case map[string]any:
		return d.processMap(v, depth)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = d.desensitizeValue("", e, depth+1)
		}
		return out
	default:
		return value
	}
}

func (d *Desensitizer) processMap(m map[string]any, depth int) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = d.desensitizeValue(k, v, depth+1)
	}
	return out
}

// isSensitiveField checks a key, with any two-letter type prefix removed
func (d *Desensitizer) isSensitiveField(key string) bool {
	if key == "" {
		return false
	}
	name := strings.ToLower(key)
	if len(name) > 3 && name[2] == '_' {
		name = name[3:]
	}

	for _, field := range d.config.SensitiveFields {
		field = strings.ToLower(field)
		if d.config.ExactFieldMatch {
			if name == field {
				return true
			}
		} else if strings.Contains(name, field) {
			return true
		}
	}
	return false
}

func (d *Desensitizer) maskValue() string {
	return strings.Repeat(d.config.MaskChar, maskedLength)
}
