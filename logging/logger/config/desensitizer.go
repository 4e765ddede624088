package config

import "github.com/spf13/viper"

// Desensitization holds desensitization settings
type Desensitization struct {
	Enabled         bool     `json:"enabled" yaml:"enabled"`
	SensitiveFields []string `json:"sensitive_fields" yaml:"sensitive_fields"`
	MaskChar        string   `json:"mask_char" yaml:"mask_char"`
	ExactFieldMatch bool     `json:"exact_field_match" yaml:"exact_field_match"`
}

// Default sensitive field patterns
var defaultSensitiveFields = []string{
	"password", "passwd", "pwd", "secret", "token", "api_key", "apikey",
	"access_token", "refresh_token", "credential", "private_key",
}

// DefaultDesensitization returns desensitization with the default field list
func DefaultDesensitization() *Desensitization {
	return &Desensitization{
		Enabled:         true,
		SensitiveFields: defaultSensitiveFields,
		MaskChar:        "*",
	}
}

// getDesensitizationConfigs reads desensitization configurations
func getDesensitizationConfigs(v *viper.Viper) *Desensitization {
	if !v.IsSet("logger.desensitization") {
		return DefaultDesensitization()
	}

	fields := v.GetStringSlice("logger.desensitization.sensitive_fields")
	if len(fields) == 0 {
		fields = defaultSensitiveFields
	}

	maskChar := v.GetString("logger.desensitization.mask_char")
	if maskChar == "" {
		maskChar = "*"
	}

	return &Desensitization{
		Enabled:         v.GetBool("logger.desensitization.enabled"),
		SensitiveFields: fields,
		MaskChar:        maskChar,
		ExactFieldMatch: v.GetBool("logger.desensitization.exact_field_match"),
	}
}
