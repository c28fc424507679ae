package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variable names
const (
	EnvConfig            = "GOSTMAN_CONFIG"
	EnvLogLevel          = "GOSTMAN_LOG_LEVEL"
	EnvLogFormat         = "GOSTMAN_LOG_FORMAT"
	EnvExportFormat      = "GOSTMAN_EXPORT_FORMAT"
	EnvOpenAPITitle      = "GOSTMAN_OPENAPI_TITLE"
	EnvOpenAPIVersion    = "GOSTMAN_OPENAPI_VERSION"
	EnvBaseURL           = "GOSTMAN_BASE_URL"
	EnvAllowExternalRefs = "GOSTMAN_ALLOW_EXTERNAL_REFS"
	EnvValidateTimeout   = "GOSTMAN_VALIDATE_TIMEOUT"
	EnvJSON              = "GOSTMAN_JSON"
)

// LoadEnvConfig loads configuration from environment variables.
// It only sets values that are present in the environment. Malformed
// numbers and booleans are reported rather than ignored.
func LoadEnvConfig(cfg *Config) error {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	setString := func(env, key string, dst *string) {
		if v := os.Getenv(env); v != "" {
			*dst = v
			cfg.Sources[key] = SourceEnv
		}
	}
	setString(EnvLogLevel, "logLevel", &cfg.LogLevel)
	setString(EnvLogFormat, "logFormat", &cfg.LogFormat)
	setString(EnvExportFormat, "exportFormat", &cfg.ExportFormat)
	setString(EnvOpenAPITitle, "openapiTitle", &cfg.OpenAPITitle)
	setString(EnvOpenAPIVersion, "openapiVersion", &cfg.OpenAPIVersion)
	setString(EnvBaseURL, "baseUrl", &cfg.BaseURL)

	// GOSTMAN_VALIDATE_TIMEOUT
	if v := os.Getenv(EnvValidateTimeout); v != "" {
		timeout, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", EnvValidateTimeout, v)
		}
		cfg.ValidateTimeout = timeout
		cfg.Sources["validateTimeout"] = SourceEnv
	}

	setBool := func(env, key string, dst *bool) error {
		v := os.Getenv(env)
		if v == "" {
			return nil
		}
		b, err := parseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", env, err)
		}
		*dst = b
		cfg.Sources[key] = SourceEnv
		return nil
	}
	if err := setBool(EnvAllowExternalRefs, "allowExternalRefs", &cfg.AllowExternalRefs); err != nil {
		return err
	}
	return setBool(EnvJSON, "json", &cfg.JSON)
}

// ConfigPathFromEnv returns the explicit config file path, or "".
func ConfigPathFromEnv() string {
	return os.Getenv(EnvConfig)
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", v)
}
