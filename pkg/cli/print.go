package cli

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gostman/gostman/pkg/cli/internal/output"
)

// printResult outputs a single operation result.
//
// Contract: when --json is active, ONLY the JSON encoding of data is written
// to stdout. Human-readable prose (progress messages, hints) must go to stderr
// or be omitted entirely. textFn is called only in text mode.
func printResult(cmd *cobra.Command, data any, textFn func(w io.Writer)) error {
	if jsonOutput {
		return output.JSON(cmd.OutOrStdout(), data)
	}
	textFn(cmd.OutOrStdout())
	return nil
}

// printWarnings reports conversion warnings on stderr. They are part of the
// JSON payload in --json mode, so nothing is printed then.
func printWarnings(cmd *cobra.Command, source string, warnings []string) {
	if jsonOutput {
		return
	}
	for _, w := range warnings {
		if source != "" {
			output.Warn(cmd.ErrOrStderr(), "%s: %s", source, w)
		} else {
			output.Warn(cmd.ErrOrStderr(), "%s", w)
		}
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}
