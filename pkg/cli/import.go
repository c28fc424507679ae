package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gostman/gostman/pkg/cli/internal/flags"
	"github.com/gostman/gostman/pkg/cli/internal/parse"
	"github.com/gostman/gostman/pkg/collection"
	"github.com/gostman/gostman/pkg/interchange"
)

var (
	importFrom   string
	importOutput string
	importName   string
	importVars   flags.StringSlice
)

// ImportedFile summarizes one input of an import run.
type ImportedFile struct {
	File     string             `json:"file"`
	Format   interchange.Format `json:"format"`
	Name     string             `json:"name,omitempty"`
	Requests int                `json:"requests"`
	Folders  int                `json:"folders"`
}

// ImportSummary is the JSON result of the import command.
type ImportSummary struct {
	Name     string         `json:"name"`
	Files    []ImportedFile `json:"files"`
	Requests int            `json:"requests"`
	Folders  int            `json:"folders"`
	Output   string         `json:"output,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
}

var importCmd = &cobra.Command{
	Use:   "import <file|glob>...",
	Short: "Import collections into a gostman backup",
	Long: `Import Postman Collection v2.x files and gostman backups into one gostman backup.

Every input is imported on its own and the results are concatenated. Variables
are merged scope by scope; when two inputs define the same variable the later
one wins. --var assignments are applied last, to the local scope.

Globs are expanded by gostman, so quote them to use "**".

Examples:
  # Import one collection, print the backup
  gostman import collection.json

  # Merge every collection below exports/ into one backup
  gostman import 'exports/**/*.postman_collection.json' -o backup.json

  # Override a collection variable
  gostman import collection.json --var baseUrl=http://localhost:8080 -o backup.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseImportFormat(importFrom)
		if err != nil {
			return err
		}

		files, err := expandInputs(args)
		if err != nil {
			return err
		}

		model, summary, err := importFiles(cmd, files, from)
		if err != nil {
			return err
		}
		if importName != "" {
			model.Name = importName
			summary.Name = importName
		}
		if err := applyVariables(&model, importVars); err != nil {
			return err
		}

		res, err := engine.ExportCollection(interchange.ExportGostman, model, interchange.ExportOptions{})
		if err != nil {
			return err
		}

		dest := outputPath(importOutput, res)
		if err := writeOutput(cmd, dest, res.Data); err != nil {
			return err
		}
		summary.Output = dest
		logger.Info("backup written", "output", dest, "requests", summary.Requests)

		if dest == "" {
			// The backup itself went to stdout.
			if !jsonOutput {
				fmt.Fprintf(cmd.ErrOrStderr(), "Imported %s and %s from %s\n",
					plural(summary.Requests, "request"), plural(summary.Folders, "folder"), plural(len(files), "file"))
			}
			return nil
		}
		return printResult(cmd, summary, func(w io.Writer) {
			fmt.Fprintf(w, "Imported %s and %s from %s into %s\n",
				plural(summary.Requests, "request"), plural(summary.Folders, "folder"), plural(len(files), "file"), dest)
		})
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importFrom, "from", "", "Force input format (postman, gostman); auto-detected if omitted")
	importCmd.Flags().StringVarP(&importOutput, "output", "o", "", "Output file or directory (default: stdout)")
	importCmd.Flags().StringVarP(&importName, "name", "n", "", "Collection name (default: the imported collection's name)")
	importCmd.Flags().Var(&importVars, "var", "Set a local variable, name=value (repeatable)")
}

// importFiles imports every file and concatenates the results into one
// model. The model is named after the first named input, then after the
// first file.
func importFiles(cmd *cobra.Command, files []string, from interchange.Format) (collection.Collection, *ImportSummary, error) {
	model := collection.Collection{
		Requests: []collection.Request{},
		Folders:  []collection.Folder{},
	}
	summary := &ImportSummary{Files: make([]ImportedFile, 0, len(files))}

	for _, f := range files {
		data, err := readInput(cmd, f)
		if err != nil {
			return model, nil, err
		}
		res := engine.ImportCollection(from, string(data))
		if !res.Success {
			return model, nil, fmt.Errorf("%s: %s", f, res.Error)
		}
		printWarnings(cmd, f, res.Warnings)
		for _, w := range res.Warnings {
			summary.Warnings = append(summary.Warnings, f+": "+w)
		}

		model.Requests = append(model.Requests, res.Requests...)
		model.Folders = append(model.Folders, res.Folders...)
		model.Variables = model.Variables.Merge(res.Variables)
		if model.Name == "" {
			model.Name = res.CollectionName
		}

		summary.Files = append(summary.Files, ImportedFile{
			File:     f,
			Format:   res.Format,
			Name:     res.CollectionName,
			Requests: len(res.Requests),
			Folders:  len(res.Folders),
		})
		logger.Debug("file imported", "file", f, "format", res.Format, "requests", len(res.Requests))
	}

	if model.Name == "" {
		model.Name = nameFromPath(files[0])
	}
	summary.Name = model.Name
	summary.Requests = len(model.Requests)
	summary.Folders = len(model.Folders)
	return model, summary, nil
}

// parseImportFormat resolves a --from value. Empty means auto-detect.
func parseImportFormat(name string) (interchange.Format, error) {
	if name == "" {
		return interchange.FormatUnknown, nil
	}
	f := interchange.ParseFormat(name)
	if !f.CanImport() {
		return f, fmt.Errorf("cannot import from %q: supported formats are postman, gostman", name)
	}
	return f, nil
}

// applyVariables sets name=value assignments on the local scope.
func applyVariables(model *collection.Collection, assignments []string) error {
	if len(assignments) == 0 {
		return nil
	}
	overrides := make(collection.Variables, len(assignments))
	for _, a := range assignments {
		name, value, err := parse.Variable(a)
		if err != nil {
			return err
		}
		overrides[name] = value
	}
	model.Variables.Local = collection.MergeVariables(model.Variables.Local, overrides)
	return nil
}

// nameFromPath derives a collection name from a file name, dropping every
// extension: "users.postman_collection.json" becomes "users".
func nameFromPath(path string) string {
	if path == stdinPath {
		return ""
	}
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}
