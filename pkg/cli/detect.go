package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gostman/gostman/pkg/cli/internal/output"
	"github.com/gostman/gostman/pkg/interchange"
)

// DetectedFile is one row of detect output.
type DetectedFile struct {
	File   string             `json:"file"`
	Format interchange.Format `json:"format"`
}

var detectCmd = &cobra.Command{
	Use:   "detect <file|glob>...",
	Short: "Report the collection format of files",
	Long: `Report the collection format of each file: postman, openapi, gostman or unknown.
Use "-" to read from stdin.

Examples:
  gostman detect collection.json
  gostman detect 'exports/**/*.json' --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}

		rows := make([]DetectedFile, 0, len(files))
		for _, f := range files {
			data, err := readInput(cmd, f)
			if err != nil {
				return err
			}
			rows = append(rows, DetectedFile{File: f, Format: engine.DetectFormat(string(data))})
		}

		return printResult(cmd, rows, func(w io.Writer) {
			if len(rows) == 1 {
				fmt.Fprintln(w, rows[0].Format)
				return
			}
			tw := output.Table(w)
			fmt.Fprintln(tw, "FILE\tFORMAT")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\n", r.File, r.Format)
			}
			_ = tw.Flush()
		})
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
