package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gostman/gostman/pkg/cli/internal/output"
	"github.com/gostman/gostman/pkg/interchange"
)

var inferYAML bool

var inferCmd = &cobra.Command{
	Use:   "infer <json-file|->",
	Short: "Infer a JSON schema from a sample document",
	Long: `Infer the schema gostman uses for OpenAPI request bodies from a sample JSON
document. Object keys are required unless their value is null or "".

Examples:
  gostman infer body.json
  echo '{"id":1,"tags":["a"]}' | gostman infer - --yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		var sample any
		if err := json.Unmarshal(data, &sample); err != nil {
			return fmt.Errorf("%s is not valid JSON: %w", args[0], err)
		}
		schema := interchange.InferSchema(sample)

		if inferYAML {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(schema); err != nil {
				return err
			}
			return enc.Close()
		}
		return output.JSON(cmd.OutOrStdout(), schema)
	},
}

func init() {
	rootCmd.AddCommand(inferCmd)
	inferCmd.Flags().BoolVar(&inferYAML, "yaml", false, "Print the schema as YAML")
}
