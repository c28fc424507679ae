package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/gostman/gostman/pkg/cliconfig"
	"github.com/gostman/gostman/pkg/interchange"
)

var (
	validateTimeout  int
	validateExternal bool
)

// ValidateOutput is the JSON result of the validate command.
type ValidateOutput struct {
	File string `json:"file"`
	*interchange.ValidationResult
}

var validateCmd = &cobra.Command{
	Use:   "validate <openapi-file|->",
	Short: "Validate an OpenAPI 3 document",
	Long: `Validate an OpenAPI 3 document (JSON or YAML).

External $ref values are only followed with --allow-external-refs; relative
refs resolve against the document's location. The command exits non-zero when
the document is invalid, the timeout expires or it is interrupted.

Examples:
  gostman validate api.yaml
  gostman export backup.json -f openapi-json | gostman validate -
  gostman validate api.yaml --allow-external-refs --timeout 60`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}

		opts := interchange.ValidateOptions{AllowExternalRefs: cfg.AllowExternalRefs}
		if args[0] != stdinPath {
			if abs, err := filepath.Abs(args[0]); err == nil {
				opts.Location = abs
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		timeout := cfg.Timeout()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		start := time.Now()
		v := interchange.StartOpenAPIValidation(ctx, data, opts)
		res, err := v.Wait()
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return fmt.Errorf("validation timed out after %s", timeout)
		case errors.Is(err, context.Canceled):
			return errors.New("validation interrupted")
		case err != nil:
			return err
		}
		logger.Debug("validation finished", "file", args[0], "valid", res.Valid, "elapsed", time.Since(start))

		out := ValidateOutput{File: args[0], ValidationResult: res}
		if err := printResult(cmd, out, func(w io.Writer) {
			if res.Valid {
				fmt.Fprintf(w, "✓ %s is a valid OpenAPI %s document (%s, %s)\n",
					args[0], res.Version, res.Title, plural(res.Paths, "path"))
				return
			}
			fmt.Fprintf(w, "✗ %s is not a valid OpenAPI document:\n", args[0])
			for _, e := range res.Errors {
				fmt.Fprintf(w, "  - %s\n", e)
			}
		}); err != nil {
			return err
		}
		if !res.Valid {
			return ErrValidationFailed
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().IntVar(&validateTimeout, "timeout", cliconfig.DefaultValidateTimeout, "Timeout in seconds (0 disables)")
	validateCmd.Flags().BoolVar(&validateExternal, "allow-external-refs", false, "Resolve $ref values pointing at other files or URLs")
}
