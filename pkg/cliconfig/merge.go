package cliconfig

// MergeConfig merges source config into target, updating sources tracking.
// Only non-zero values from source are applied.
func MergeConfig(target, source *Config, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}

	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
		target.Sources["logLevel"] = sourceType
	}
	if source.LogFormat != "" {
		target.LogFormat = source.LogFormat
		target.Sources["logFormat"] = sourceType
	}
	if source.ExportFormat != "" {
		target.ExportFormat = source.ExportFormat
		target.Sources["exportFormat"] = sourceType
	}
	if source.OpenAPITitle != "" {
		target.OpenAPITitle = source.OpenAPITitle
		target.Sources["openapiTitle"] = sourceType
	}
	if source.OpenAPIVersion != "" {
		target.OpenAPIVersion = source.OpenAPIVersion
		target.Sources["openapiVersion"] = sourceType
	}
	if source.BaseURL != "" {
		target.BaseURL = source.BaseURL
		target.Sources["baseUrl"] = sourceType
	}
	// A file may set validateTimeout: 0 to disable the timeout.
	if source.ValidateTimeout != 0 || (source.SetFields != nil && source.SetFields["validateTimeout"]) {
		target.ValidateTimeout = source.ValidateTimeout
		target.Sources["validateTimeout"] = sourceType
	}
	// For booleans, checking `if source.X` cannot detect an explicit false.
	// SetFields (populated during file loading) records which keys were
	// present. Programmatic configs without SetFields only merge true values.
	if boolIsSet(source, "allowExternalRefs") {
		target.AllowExternalRefs = source.AllowExternalRefs
		target.Sources["allowExternalRefs"] = sourceType
	}
	if boolIsSet(source, "json") {
		target.JSON = source.JSON
		target.Sources["json"] = sourceType
	}
}

// boolIsSet reports whether a boolean field identified by its YAML key was
// explicitly set in the source config.
func boolIsSet(cfg *Config, yamlKey string) bool {
	if cfg.SetFields != nil {
		return cfg.SetFields[yamlKey]
	}
	switch yamlKey {
	case "allowExternalRefs":
		return cfg.AllowExternalRefs
	case "json":
		return cfg.JSON
	}
	return false
}
