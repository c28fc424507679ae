package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gostman/gostman/pkg/cli/internal/output"
	"github.com/gostman/gostman/pkg/cliconfig"
)

// ConfigEntry is one resolved configuration value.
type ConfigEntry struct {
	Key    string `json:"key"`
	Value  any    `json:"value"`
	Source string `json:"source"`
}

// ConfigOutput is the JSON result of the config command.
type ConfigOutput struct {
	Entries     []ConfigEntry `json:"entries"`
	SearchPaths []string      `json:"searchPaths"`
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show effective configuration",
	Long: `Show the effective configuration and where each value came from:
default, global, local, env or flag.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := ConfigOutput{
			Entries:     configEntries(cfg),
			SearchPaths: cliconfig.SearchPaths(),
		}
		return printResult(cmd, out, func(w io.Writer) {
			tw := output.Table(w)
			fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
			for _, e := range out.Entries {
				fmt.Fprintf(tw, "%s\t%v\t%s\n", e.Key, e.Value, e.Source)
			}
			_ = tw.Flush()
		})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func configEntries(c *cliconfig.Config) []ConfigEntry {
	values := map[string]any{
		"logLevel":          c.LogLevel,
		"logFormat":         c.LogFormat,
		"exportFormat":      c.ExportFormat,
		"openapiTitle":      c.OpenAPITitle,
		"openapiVersion":    c.OpenAPIVersion,
		"baseUrl":           c.BaseURL,
		"allowExternalRefs": c.AllowExternalRefs,
		"validateTimeout":   c.ValidateTimeout,
		"json":              c.JSON,
	}
	entries := make([]ConfigEntry, 0, len(cliconfig.Keys))
	for _, k := range cliconfig.Keys {
		source := c.Sources[k]
		if source == "" {
			source = cliconfig.SourceDefault
		}
		entries = append(entries, ConfigEntry{Key: k, Value: values[k], Source: source})
	}
	return entries
}
