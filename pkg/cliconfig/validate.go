package cliconfig

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gostman/gostman/pkg/interchange"
)

// Validate checks that every field holds an accepted value.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logLevel %q is not one of debug, info, warn, error", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logFormat %q is not one of text, json", c.LogFormat)
	}
	if c.ExportFormat != "" {
		if _, ok := interchange.ParseExportFormat(c.ExportFormat); !ok {
			return fmt.Errorf("exportFormat %q is not supported", c.ExportFormat)
		}
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("baseUrl %q must be an absolute URL", c.BaseURL)
		}
	}
	if c.ValidateTimeout < 0 || c.ValidateTimeout > MaxValidateTimeout {
		return fmt.Errorf("validateTimeout %d is out of range (0-%d)", c.ValidateTimeout, MaxValidateTimeout)
	}
	return nil
}
