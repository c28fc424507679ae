package cliconfig

import "time"

// DefaultLogLevel is the default minimum log level.
const DefaultLogLevel = "warn"

// DefaultLogFormat is the default log output format.
const DefaultLogFormat = "text"

// DefaultExportFormat is the format used by export and convert when -f is omitted.
const DefaultExportFormat = "gostman"

// DefaultValidateTimeout is the default OpenAPI validation timeout in seconds.
const DefaultValidateTimeout = 30

// MaxValidateTimeout is the largest accepted validation timeout in seconds.
const MaxValidateTimeout = 3600

// NewDefault creates a new Config with default values.
func NewDefault() *Config {
	cfg := &Config{
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
		ExportFormat:    DefaultExportFormat,
		ValidateTimeout: DefaultValidateTimeout,
		Sources:         make(map[string]string),
	}

	// Mark all as default source
	cfg.Sources["logLevel"] = SourceDefault
	cfg.Sources["logFormat"] = SourceDefault
	cfg.Sources["exportFormat"] = SourceDefault
	cfg.Sources["validateTimeout"] = SourceDefault
	cfg.Sources["allowExternalRefs"] = SourceDefault
	cfg.Sources["json"] = SourceDefault

	return cfg
}

// Timeout returns ValidateTimeout as a duration. Zero means no timeout.
func (c *Config) Timeout() time.Duration {
	if c.ValidateTimeout <= 0 {
		return 0
	}
	return time.Duration(c.ValidateTimeout) * time.Second
}
