package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/gostman/gostman/pkg/collection"
	"github.com/gostman/gostman/pkg/interchange"
)

// exportFlags holds the flags shared by export and convert.
type exportFlags struct {
	format      string
	output      string
	title       string
	description string
	apiVersion  string
	baseURL     string
	render      bool
}

func (f *exportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Output format: postman, openapi-json, openapi-yaml, markdown, gostman (default from config: gostman)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file or directory (default: stdout)")
	cmd.Flags().StringVar(&f.title, "title", "", "Collection name or document title (default: the collection name)")
	cmd.Flags().StringVar(&f.description, "description", "", "Collection or document description")
	cmd.Flags().StringVar(&f.apiVersion, "api-version", "", "OpenAPI info.version (default: 1.0.0)")
	cmd.Flags().StringVar(&f.baseURL, "base-url", "", "OpenAPI server listed first")
	cmd.Flags().BoolVar(&f.render, "render", false, "Render Markdown for the terminal instead of printing it raw")
}

// ExportSummary is the JSON result of export and convert when writing to a file.
type ExportSummary struct {
	Format   interchange.ExportFormat `json:"format"`
	Output   string                   `json:"output"`
	Requests int                      `json:"requests"`
	Bytes    int                      `json:"bytes"`
	Warnings []string                 `json:"warnings,omitempty"`
}

var exportOpts exportFlags

var exportCmd = &cobra.Command{
	Use:   "export <backup.json|->",
	Short: "Export a gostman backup to another format",
	Long: `Export a gostman backup as a Postman Collection v2.1, an OpenAPI 3.0.3 document
(JSON or YAML), Markdown documentation or a fresh gostman backup.

When -o names a directory the file is named after the collection, for
example "my-api.yaml".

Examples:
  gostman export backup.json -f postman -o collection.json
  gostman export backup.json -f openapi-yaml --base-url https://api.example.com -o docs/
  gostman export backup.json -f markdown --render`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		res := engine.ImportCollection(interchange.FormatGostman, string(data))
		if !res.Success {
			return fmt.Errorf("%s: %s", args[0], res.Error)
		}
		model := res.Collection()
		if model.Name == "" {
			model.Name = nameFromPath(args[0])
		}
		return runExport(cmd, &exportOpts, model)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportOpts.register(exportCmd)
}

// runExport serializes model according to f and the resolved config, then
// writes, renders or prints the result.
func runExport(cmd *cobra.Command, f *exportFlags, model collection.Collection) error {
	format, ok := interchange.ParseExportFormat(cfg.ExportFormat)
	if !ok {
		return fmt.Errorf("unsupported export format %q: expected one of %s", cfg.ExportFormat, exportFormatNames())
	}
	if f.render {
		if format != interchange.ExportMarkdown {
			return ErrRenderFormat
		}
		if f.output != "" {
			return ErrRenderToFile
		}
	}

	res, err := engine.ExportCollection(format, model, exportOptions(f, model))
	if err != nil {
		return err
	}
	printWarnings(cmd, "", res.Warnings)

	if f.render {
		return renderMarkdown(cmd, res.Data)
	}

	dest := outputPath(f.output, res)
	if err := writeOutput(cmd, dest, res.Data); err != nil {
		return err
	}
	if dest == "" {
		return nil
	}
	logger.Info("export written", "format", format, "output", dest, "requests", res.RequestCount)

	summary := ExportSummary{
		Format:   res.Format,
		Output:   dest,
		Requests: res.RequestCount,
		Bytes:    len(res.Data),
		Warnings: res.Warnings,
	}
	return printResult(cmd, summary, func(w io.Writer) {
		fmt.Fprintf(w, "Exported %s as %s to %s\n", plural(res.RequestCount, "request"), res.Format, dest)
	})
}

// exportOptions builds per-format options. Empty values are left for the
// engine to fill from the model.
func exportOptions(f *exportFlags, model collection.Collection) interchange.ExportOptions {
	title := f.title
	openapiTitle := title
	if openapiTitle == "" {
		openapiTitle = cfg.OpenAPITitle
	}
	return interchange.ExportOptions{
		Postman: interchange.PostmanExportOptions{
			Name:        title,
			Description: f.description,
		},
		OpenAPI: interchange.OpenAPIExportOptions{
			Title:       openapiTitle,
			Version:     cfg.OpenAPIVersion,
			Description: f.description,
			BaseURL:     cfg.BaseURL,
		},
		Markdown: interchange.MarkdownExportOptions{
			Title:       title,
			Description: f.description,
			Folders:     model.Folders,
		},
	}
}

func renderMarkdown(cmd *cobra.Command, data []byte) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := renderer.Render(string(data))
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	_, err = io.WriteString(cmd.OutOrStdout(), out)
	return err
}

func exportFormatNames() string {
	formats := interchange.ExportFormats()
	names := make([]string, 0, len(formats))
	for _, f := range formats {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}
