package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{name: "valid defaults", config: *NewDefault()},
		{name: "zero value", config: Config{}},
		{
			name: "valid custom",
			config: Config{
				LogLevel:        "DEBUG",
				LogFormat:       "json",
				ExportFormat:    "openapi-yaml",
				BaseURL:         "https://api.example.com/v1",
				ValidateTimeout: 120,
			},
		},
		{name: "bad level", config: Config{LogLevel: "loud"}, wantErr: `logLevel "loud" is not one of debug, info, warn, error`},
		{name: "bad format", config: Config{LogFormat: "xml"}, wantErr: `logFormat "xml" is not one of text, json`},
		{name: "bad export format", config: Config{ExportFormat: "har"}, wantErr: `exportFormat "har" is not supported`},
		{name: "relative base url", config: Config{BaseURL: "/v1"}, wantErr: `baseUrl "/v1" must be an absolute URL`},
		{name: "negative timeout", config: Config{ValidateTimeout: -1}, wantErr: "validateTimeout -1 is out of range (0-3600)"},
		{name: "timeout too high", config: Config{ValidateTimeout: 9999}, wantErr: "validateTimeout 9999 is out of range (0-3600)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultExportFormat, cfg.ExportFormat)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, SourceDefault, cfg.Sources["logLevel"])
	assert.Nil(t, cfg.SetFields)

	cfg.ValidateTimeout = 0
	assert.Equal(t, time.Duration(0), cfg.Timeout())
}

func TestMergeConfig(t *testing.T) {
	t.Run("applies non-zero values", func(t *testing.T) {
		target := NewDefault()
		MergeConfig(target, &Config{ExportFormat: "markdown", BaseURL: "https://x.io"}, SourceLocal)

		assert.Equal(t, "markdown", target.ExportFormat)
		assert.Equal(t, "https://x.io", target.BaseURL)
		assert.Equal(t, DefaultLogLevel, target.LogLevel)
		assert.Equal(t, SourceLocal, target.Sources["exportFormat"])
		assert.Equal(t, SourceDefault, target.Sources["logLevel"])
	})

	t.Run("handles boolean false with SetFields", func(t *testing.T) {
		target := NewDefault()
		target.JSON = true
		MergeConfig(target, &Config{SetFields: map[string]bool{"json": true}}, SourceGlobal)

		assert.False(t, target.JSON)
		assert.Equal(t, SourceGlobal, target.Sources["json"])
	})

	t.Run("does not merge boolean false without SetFields", func(t *testing.T) {
		target := NewDefault()
		target.JSON = true
		MergeConfig(target, &Config{}, SourceGlobal)

		assert.True(t, target.JSON)
		assert.Equal(t, SourceDefault, target.Sources["json"])
	})

	t.Run("explicit zero timeout", func(t *testing.T) {
		target := NewDefault()
		MergeConfig(target, &Config{SetFields: map[string]bool{"validateTimeout": true}}, SourceLocal)
		assert.Equal(t, 0, target.ValidateTimeout)
	})

	t.Run("nil source", func(t *testing.T) {
		target := NewDefault()
		MergeConfig(target, nil, SourceLocal)
		assert.Equal(t, *NewDefault(), *target)
	})
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig("c.yaml", []byte("exportFormat: markdown\njson: false\nvalidateTimeout: 5\n"))
	require.NoError(t, err)
	assert.Equal(t, "markdown", cfg.ExportFormat)
	assert.Equal(t, 5, cfg.ValidateTimeout)
	assert.Equal(t, map[string]bool{"exportFormat": true, "json": true, "validateTimeout": true}, cfg.SetFields)

	cfg, err = ParseConfig("empty.yaml", []byte("  \n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.SetFields)
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
		line    int
	}{
		{"unknown key", "logLevel: info\nport: 80\n", `c.yaml (line 2, column 1): unknown field "port"`, 2},
		{"wrong type", "validateTimeout: soon\n", "", 1},
		{"not a mapping", "- a\n- b\n", "c.yaml (line 1, column 1): config must be a mapping", 1},
		{"bad yaml", "a: [\n", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig("c.yaml", []byte(tt.data))
			require.Error(t, err)

			var cerr *ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, "c.yaml", cerr.Path)
			if tt.line > 0 {
				assert.Equal(t, tt.line, cerr.Line)
			}
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvBaseURL, "https://env.example.com")
	t.Setenv(EnvValidateTimeout, "7")
	t.Setenv(EnvAllowExternalRefs, "yes")

	cfg := NewDefault()
	require.NoError(t, LoadEnvConfig(cfg))
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "https://env.example.com", cfg.BaseURL)
	assert.Equal(t, 7, cfg.ValidateTimeout)
	assert.True(t, cfg.AllowExternalRefs)
	assert.Equal(t, SourceEnv, cfg.Sources["allowExternalRefs"])
	assert.Equal(t, SourceDefault, cfg.Sources["exportFormat"])
}

func TestLoadEnvConfig_Invalid(t *testing.T) {
	t.Setenv(EnvValidateTimeout, "soon")
	assert.ErrorContains(t, LoadEnvConfig(NewDefault()), EnvValidateTimeout)

	t.Setenv(EnvValidateTimeout, "")
	t.Setenv(EnvJSON, "maybe")
	assert.EqualError(t, LoadEnvConfig(NewDefault()), `GOSTMAN_JSON: invalid boolean "maybe"`)
}

func TestLoadAll_Precedence(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)
	chdir(t, work)

	require.NoError(t, os.MkdirAll(filepath.Join(home, GlobalConfigDir), 0o755))
	writeFile(t, filepath.Join(home, GlobalConfigDir, "config.yaml"),
		"exportFormat: postman\nopenapiTitle: Global\njson: true\n")
	writeFile(t, filepath.Join(work, ".gostmanrc.yaml"), "openapiTitle: Local\njson: false\n")
	t.Setenv(EnvExportFormat, "markdown")

	cfg, err := LoadAll("")
	require.NoError(t, err)
	assert.Equal(t, "markdown", cfg.ExportFormat)
	assert.Equal(t, SourceEnv, cfg.Sources["exportFormat"])
	assert.Equal(t, "Local", cfg.OpenAPITitle)
	assert.Equal(t, SourceLocal, cfg.Sources["openapiTitle"])
	assert.False(t, cfg.JSON)
	assert.Equal(t, SourceLocal, cfg.Sources["json"])
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestLoadAll_ExplicitPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)
	chdir(t, t.TempDir())

	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, path, "logFormat: json\n")

	cfg, err := LoadAll(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)

	_, err = LoadAll(filepath.Join(home, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	writeFile(t, path, "bogus: 1\n")
	_, err = LoadAll(path)
	var cerr *ConfigError
	assert.ErrorAs(t, err, &cerr)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
