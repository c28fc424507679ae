package interchange

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/gostman/gostman/internal/id"
	"github.com/gostman/gostman/pkg/collection"
	"github.com/gostman/gostman/pkg/logging"
)

// ImportResult is the outcome of ImportCollection. It never carries a Go
// error: failures set Success to false and describe the problem in Error.
type ImportResult struct {
	Success        bool                      `json:"success"`
	Error          string                    `json:"error,omitempty"`
	Format         Format                    `json:"format"`
	CollectionName string                    `json:"collectionName,omitempty"`
	Requests       []collection.Request      `json:"requests"`
	Folders        []collection.Folder       `json:"folders"`
	Variables      collection.VariableScopes `json:"variables"`
	Warnings       []string                  `json:"warnings,omitempty"`
}

// Collection returns the imported content as a canonical collection.
func (r *ImportResult) Collection() collection.Collection {
	return collection.Collection{
		Name:      r.CollectionName,
		Requests:  r.Requests,
		Folders:   r.Folders,
		Variables: r.Variables,
	}
}

// ExportOptions carries the per-format options of one export call. Only
// the member matching the requested format is read.
type ExportOptions struct {
	Postman  PostmanExportOptions
	OpenAPI  OpenAPIExportOptions
	Markdown MarkdownExportOptions
}

// ExportResult is the serialized output of ExportCollection.
type ExportResult struct {
	Data         []byte
	Format       ExportFormat
	Extension    string
	Filename     string
	MediaType    string
	RequestCount int
	Warnings     []string
}

// Engine dispatches imports and exports. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	logger *slog.Logger
	ids    id.Generator
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logging.OrNop(l)
	}
}

// WithIDGenerator sets the generator used for ids created on import.
func WithIDGenerator(g id.Generator) Option {
	return func(e *Engine) {
		e.ids = g
	}
}

// WithClock sets the clock that stamps native backups.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger: logging.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.ids = e.ids.OrDefault()
	e.logger = logging.WithComponent(e.logger, "interchange")
	return e
}

var defaultEngine = New()

// ImportCollection imports text with a default engine.
func ImportCollection(format Format, text string) *ImportResult {
	return defaultEngine.ImportCollection(format, text)
}

// ExportCollection exports model with a default engine.
func ExportCollection(format ExportFormat, model collection.Collection, opts ExportOptions) (*ExportResult, error) {
	return defaultEngine.ExportCollection(format, model, opts)
}

// DetectFormat classifies text and logs the result.
func (e *Engine) DetectFormat(text string) Format {
	f := DetectFormat(text)
	e.logger.Debug("format detected", "format", f, "bytes", len(text))
	return f
}

// ImportCollection converts text to the canonical model. Pass FormatUnknown
// (or "") to detect the format from the content. Unknown and export-only
// formats produce a failed result, as does malformed input.
func (e *Engine) ImportCollection(format Format, text string) (res *ImportResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("import panicked", "format", format, "panic", r)
			res = failedImport(format, fmt.Sprintf("import failed: %v", r))
		}
	}()

	if format == "" || format == FormatUnknown {
		format = e.DetectFormat(text)
	}

	switch format {
	case FormatPostman:
		imp, err := (&PostmanImporter{IDs: e.ids}).Import([]byte(text))
		if err != nil {
			return e.importFailure(format, err)
		}
		res = &ImportResult{
			Success:        true,
			Format:         format,
			CollectionName: imp.CollectionName,
			Requests:       imp.Requests,
			Folders:        imp.Folders,
			Warnings:       imp.Warnings,
		}
		if len(imp.Variables) > 0 {
			res.Variables.Local = imp.Variables
		}
	case FormatGostman:
		content, err := ImportGostman([]byte(text))
		if err != nil {
			return e.importFailure(format, err)
		}
		res = &ImportResult{
			Success:   true,
			Format:    format,
			Requests:  content.Requests,
			Folders:   content.Folders,
			Variables: content.Variables,
		}
	case FormatOpenAPI:
		return e.importFailure(format, fmt.Errorf("%w: OpenAPI documents can be exported and validated but not imported", ErrUnsupportedFormat))
	default:
		return e.importFailure(FormatUnknown, fmt.Errorf("%w. Supported formats: Postman Collection v2.x, Gostman backup", ErrUnknownFormat))
	}

	e.logWarnings("import", res.Warnings)
	e.logger.Debug("collection imported",
		"format", res.Format,
		"requests", len(res.Requests),
		"folders", len(res.Folders),
	)
	return res
}

func (e *Engine) importFailure(format Format, err error) *ImportResult {
	e.logger.Debug("import failed", "format", format, "error", err)
	return failedImport(format, err.Error())
}

func failedImport(format Format, msg string) *ImportResult {
	return &ImportResult{
		Success:  false,
		Error:    msg,
		Format:   format,
		Requests: []collection.Request{},
		Folders:  []collection.Folder{},
	}
}

// ExportCollection serializes model in the requested format. Options left
// empty fall back to the model: the collection name titles every format,
// Postman export carries the local variables and Markdown groups by the
// model's folders.
func (e *Engine) ExportCollection(format ExportFormat, model collection.Collection, opts ExportOptions) (*ExportResult, error) {
	var (
		data     []byte
		warnings []string
		err      error
	)

	switch format {
	case ExportPostman:
		po := opts.Postman
		po.Name = orDefault(po.Name, model.Name)
		if po.Variables == nil {
			po.Variables = model.Variables.Local
		}
		exp := &PostmanExporter{}
		c := exp.Export(model.Requests, model.Folders, po)
		warnings = exp.Warnings()
		data, err = json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, &ExportError{Format: format, Message: "failed to marshal Postman collection", Cause: err}
		}
		data = append(data, '\n')
	case ExportOpenAPIJSON, ExportOpenAPIYAML:
		oo := opts.OpenAPI
		oo.Title = orDefault(oo.Title, model.Name)
		exp := &OpenAPIExporter{}
		if format == ExportOpenAPIJSON {
			data, err = exp.ExportJSON(model.Requests, oo)
		} else {
			data, err = exp.ExportYAML(model.Requests, oo)
		}
		if err != nil {
			return nil, err
		}
		warnings = exp.Warnings()
	case ExportMarkdown:
		mo := opts.Markdown
		mo.Title = orDefault(mo.Title, model.Name)
		if mo.Folders == nil {
			mo.Folders = model.Folders
		}
		exp := &MarkdownExporter{}
		data = []byte(exp.Export(model.Requests, mo))
		warnings = exp.Warnings()
	case ExportGostman:
		data, err = (&NativeExporter{Now: e.now}).ExportJSON(model.Requests, model.Folders, model.Variables)
		if err != nil {
			return nil, err
		}
	default:
		return nil, &ExportError{
			Format:  format,
			Message: fmt.Sprintf("unknown export format %q (supported: %s)", format, exportFormatList()),
			Cause:   ErrUnsupportedFormat,
		}
	}

	e.logWarnings("export", warnings)
	e.logger.Debug("collection exported", "format", format, "requests", len(model.Requests), "bytes", len(data))

	return &ExportResult{
		Data:         data,
		Format:       format,
		Extension:    format.Extension(),
		Filename:     Filename(model.Name, format),
		MediaType:    format.MediaType(),
		RequestCount: len(model.Requests),
		Warnings:     warnings,
	}, nil
}

func (e *Engine) logWarnings(op string, warnings []string) {
	for _, w := range warnings {
		e.logger.Debug("conversion warning", "op", op, "warning", w)
	}
}

// Filename derives a download name from a collection name and format.
func Filename(name string, format ExportFormat) string {
	return slugify(name, "collection") + "." + format.Extension()
}

// IsUnsupported reports whether err stems from an unsupported or
// undetectable format.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat) || errors.Is(err, ErrUnknownFormat)
}

func exportFormatList() string {
	formats := ExportFormats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}

// slugify lower-cases s and joins its ASCII alphanumeric runs with "-".
// Accents are stripped first, so "Café" becomes "cafe".
func slugify(s, fallback string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}
