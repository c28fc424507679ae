package interchange

import (
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// Format identifies a detectable import format.
type Format string

// Detected formats.
const (
	FormatUnknown Format = "unknown"
	FormatPostman Format = "postman" // Postman Collection v2.x
	FormatOpenAPI Format = "openapi" // OpenAPI 3.x or Swagger 2.0
	FormatGostman Format = "gostman" // Native backup
)

// postmanSchemaMarker is the substring every Postman collection schema URL
// carries.
const postmanSchemaMarker = "postman.com/json/collection"

var postmanSchemaPath = jp.MustParseString("$.info.schema")

// String returns the string representation of the format.
func (f Format) String() string {
	if f == "" {
		return string(FormatUnknown)
	}
	return string(f)
}

// CanImport returns true if this format has an importer.
// OpenAPI is detected but only ever exported.
func (f Format) CanImport() bool {
	switch f {
	case FormatPostman, FormatGostman:
		return true
	default:
		return false
	}
}

// ParseFormat parses a format name. Returns FormatUnknown for unrecognized
// names.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postman":
		return FormatPostman
	case "openapi", "swagger", "oas":
		return FormatOpenAPI
	case "gostman", "native":
		return FormatGostman
	default:
		return FormatUnknown
	}
}

// DetectFormat classifies text. Only JSON is inspected; anything that does
// not parse as a JSON object is FormatUnknown. The checks run in a fixed
// order and the first match wins: Postman, then OpenAPI, then native backup.
func DetectFormat(text string) (format Format) {
	defer func() {
		if recover() != nil {
			format = FormatUnknown
		}
	}()

	var parsed any
	if err := oj.Unmarshal([]byte(text), &parsed); err != nil {
		return FormatUnknown
	}
	doc, ok := parsed.(map[string]any)
	if !ok {
		return FormatUnknown
	}

	for _, v := range postmanSchemaPath.Get(doc) {
		if s, isStr := v.(string); isStr && strings.Contains(s, postmanSchemaMarker) {
			return FormatPostman
		}
	}

	if hasKey(doc, "openapi") || (hasKey(doc, "swagger") && hasKey(doc, "info")) {
		return FormatOpenAPI
	}

	if hasKey(doc, "gostman") || (hasKey(doc, "version") && hasKey(doc, "requests")) {
		return FormatGostman
	}

	return FormatUnknown
}

func hasKey(doc map[string]any, key string) bool {
	_, ok := doc[key]
	return ok
}

// ExportFormat identifies an export target.
type ExportFormat string

// Export targets.
const (
	ExportPostman     ExportFormat = "postman"
	ExportOpenAPIJSON ExportFormat = "openapi-json"
	ExportOpenAPIYAML ExportFormat = "openapi-yaml"
	ExportMarkdown    ExportFormat = "markdown"
	ExportGostman     ExportFormat = "gostman"
)

// ExportFormats lists every export target in menu order.
func ExportFormats() []ExportFormat {
	return []ExportFormat{
		ExportPostman,
		ExportOpenAPIJSON,
		ExportOpenAPIYAML,
		ExportMarkdown,
		ExportGostman,
	}
}

// String returns the string representation of the export format.
func (f ExportFormat) String() string {
	return string(f)
}

// IsValid reports whether f names a supported export target.
func (f ExportFormat) IsValid() bool {
	switch f {
	case ExportPostman, ExportOpenAPIJSON, ExportOpenAPIYAML, ExportMarkdown, ExportGostman:
		return true
	default:
		return false
	}
}

// Extension returns the download file extension, without a dot.
func (f ExportFormat) Extension() string {
	switch f {
	case ExportOpenAPIYAML:
		return "yaml"
	case ExportMarkdown:
		return "md"
	case ExportPostman, ExportOpenAPIJSON, ExportGostman:
		return "json"
	default:
		return ""
	}
}

// MediaType returns the MIME type of the exported bytes.
func (f ExportFormat) MediaType() string {
	switch f {
	case ExportOpenAPIYAML:
		return "application/yaml"
	case ExportMarkdown:
		return "text/markdown; charset=utf-8"
	case ExportPostman, ExportOpenAPIJSON, ExportGostman:
		return "application/json"
	default:
		return ""
	}
}

// ParseExportFormat parses an export target name, accepting a few aliases.
// The second result is false for unrecognized names.
func ParseExportFormat(s string) (ExportFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postman":
		return ExportPostman, true
	case "openapi-json", "openapi", "oas", "json":
		return ExportOpenAPIJSON, true
	case "openapi-yaml", "yaml", "yml":
		return ExportOpenAPIYAML, true
	case "markdown", "md":
		return ExportMarkdown, true
	case "gostman", "native", "backup":
		return ExportGostman, true
	default:
		return ExportFormat(s), false
	}
}
