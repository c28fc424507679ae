// Package cliconfig provides configuration types and loading for the gostman CLI.
package cliconfig

// Config represents the complete configuration for the gostman CLI.
// Configuration values can come from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Local config file (.gostmanrc.yaml in current directory)
// 4. Global config file (~/.config/gostman/config.yaml)
// 5. Default values (lowest priority)
type Config struct {
	// Logging settings
	LogLevel  string `yaml:"logLevel" json:"logLevel"`
	LogFormat string `yaml:"logFormat" json:"logFormat"`

	// Export settings
	ExportFormat   string `yaml:"exportFormat" json:"exportFormat"`
	OpenAPITitle   string `yaml:"openapiTitle,omitempty" json:"openapiTitle,omitempty"`
	OpenAPIVersion string `yaml:"openapiVersion,omitempty" json:"openapiVersion,omitempty"`
	BaseURL        string `yaml:"baseUrl,omitempty" json:"baseUrl,omitempty"`

	// Validation settings
	AllowExternalRefs bool `yaml:"allowExternalRefs" json:"allowExternalRefs"`
	ValidateTimeout   int  `yaml:"validateTimeout" json:"validateTimeout"`

	// Output settings
	JSON bool `yaml:"json" json:"json"`

	// Sources tracks where each value came from (for debugging)
	Sources map[string]string `yaml:"-" json:"-"`

	// SetFields records which YAML keys were present in a loaded file.
	// It is nil for configs built in code.
	SetFields map[string]bool `yaml:"-" json:"-"`
}

// ConfigSource identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceEnv     = "env"
	SourceGlobal  = "global"
	SourceLocal   = "local"
	SourceFlag    = "flag"
)

// Keys lists the YAML keys of every configurable field, in display order.
var Keys = []string{
	"logLevel",
	"logFormat",
	"exportFormat",
	"openapiTitle",
	"openapiVersion",
	"baseUrl",
	"allowExternalRefs",
	"validateTimeout",
	"json",
}
