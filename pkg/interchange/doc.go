// Package interchange converts the canonical collection model to and from
// external interchange formats.
//
// Supported directions:
//
//   - Postman Collection v2.1: import and export
//   - OpenAPI 3.0 (JSON or YAML): export, plus validation of OpenAPI documents
//   - Gostman native backup: import and export
//   - Markdown documentation: export
//
// # Usage
//
// The Engine is the single entry point. Import detects the format of the
// text it is given; export is told which format to produce:
//
//	eng := interchange.New(interchange.WithLogger(logger))
//	res := eng.ImportCollection(interchange.FormatUnknown, text)
//	if !res.Success {
//	    return errors.New(res.Error)
//	}
//	out, err := eng.ExportCollection(interchange.ExportOpenAPIYAML, model, interchange.ExportOptions{
//	    OpenAPI: interchange.OpenAPIExportOptions{Title: "Pets", Version: "1.0.0"},
//	})
//
// Package-level DetectFormat, ImportCollection and ExportCollection use an
// engine with a no-op logger.
//
// # Lossy behavior
//
// Some conversions drop data on purpose and tests pin that behavior: Postman
// export omits folders that hold no requests, Markdown truncates header
// values to 50 characters, schema inference samples only the first element of
// an array, and OpenAPI operations carry a fixed 200/400/500 response set.
//
// Every conversion is a pure function of its inputs. Nothing here performs
// I/O except ValidateOpenAPI, which may fetch external $ref documents and is
// bound to a context.
package interchange
