package cliconfig

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	// GlobalConfigDir is the directory for global config
	GlobalConfigDir = "gostman"
)

// LocalConfigFileNames are the names to search for local config (in order).
var LocalConfigFileNames = []string{".gostmanrc.yaml", ".gostmanrc.yml"}

// GlobalConfigFileNames are the names to search for global config (in order).
var GlobalConfigFileNames = []string{"config.yaml", "config.yml"}

// FindLocalConfig searches for .gostmanrc.yaml or .gostmanrc.yml in the current directory.
func FindLocalConfig() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return firstExisting(cwd, LocalConfigFileNames), nil
}

// FindGlobalConfig returns the path to the global config file.
// Returns empty string if not found.
func FindGlobalConfig() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		//nolint:nilerr // no config dir means no global config
		return "", nil
	}
	return firstExisting(filepath.Join(configDir, GlobalConfigDir), GlobalConfigFileNames), nil
}

// SearchPaths returns every path LoadAll inspects, global first.
func SearchPaths() []string {
	var paths []string
	if configDir, err := os.UserConfigDir(); err == nil {
		for _, name := range GlobalConfigFileNames {
			paths = append(paths, filepath.Join(configDir, GlobalConfigDir, name))
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		for _, name := range LocalConfigFileNames {
			paths = append(paths, filepath.Join(cwd, name))
		}
	}
	return paths
}

func firstExisting(dir string, names []string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadConfigFile loads a Config from a YAML file. SetFields is populated
// with the top-level keys present in the file; unknown keys are rejected.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(path, data)
}

// ParseConfig decodes YAML config data. path is used only in errors.
func ParseConfig(path string, data []byte) (*Config, error) {
	cfg := &Config{
		Sources:   make(map[string]string),
		SetFields: make(map[string]bool),
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, yamlError(path, err)
	}
	if len(doc.Content) == 0 {
		return cfg, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &ConfigError{Path: path, Line: root.Line, Column: root.Column, Message: "config must be a mapping"}
	}

	known := make(map[string]bool, len(Keys))
	for _, k := range Keys {
		known[k] = true
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i]
		if !known[key.Value] {
			return nil, &ConfigError{
				Path:    path,
				Line:    key.Line,
				Column:  key.Column,
				Message: "unknown field " + strconv.Quote(key.Value),
			}
		}
		cfg.SetFields[key.Value] = true
	}

	if err := root.Decode(cfg); err != nil {
		return nil, yamlError(path, err)
	}
	return cfg, nil
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

func yamlError(path string, err error) *ConfigError {
	cerr := &ConfigError{Path: path, Message: err.Error()}
	var te *yaml.TypeError
	if errors.As(err, &te) && len(te.Errors) > 0 {
		cerr.Message = te.Errors[0]
	}
	if m := yamlLine.FindStringSubmatch(cerr.Message); m != nil {
		cerr.Line, _ = strconv.Atoi(m[1])
	}
	return cerr
}

// ConfigError represents a configuration file error with location info.
type ConfigError struct {
	Path    string
	Line    int
	Column  int
	Message string
}

func (e *ConfigError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return e.Path + " (line " + strconv.Itoa(e.Line) + ", column " + strconv.Itoa(e.Column) + "): " + e.Message
	}
	if e.Line > 0 {
		return e.Path + " (line " + strconv.Itoa(e.Line) + "): " + e.Message
	}
	return e.Path + ": " + e.Message
}

// LoadAll loads configuration from all sources and merges them.
// Precedence: flags > env > local config > global config > defaults.
// When explicitPath is set it replaces the local config lookup and must exist.
// Flags are applied by the caller on top of the result.
func LoadAll(explicitPath string) (*Config, error) {
	cfg := NewDefault()

	globalPath, err := FindGlobalConfig()
	if err != nil {
		return nil, err
	}
	if globalPath != "" {
		globalCfg, err := LoadConfigFile(globalPath)
		if err != nil {
			return nil, err
		}
		MergeConfig(cfg, globalCfg, SourceGlobal)
	}

	localPath := explicitPath
	if localPath == "" {
		if localPath, err = FindLocalConfig(); err != nil {
			return nil, err
		}
	}
	if localPath != "" {
		localCfg, err := LoadConfigFile(localPath)
		if err != nil {
			return nil, err
		}
		MergeConfig(cfg, localCfg, SourceLocal)
	}

	if err := LoadEnvConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
