package cli

import "github.com/spf13/cobra"

var (
	convertOpts exportFlags
	convertFrom string
)

var convertCmd = &cobra.Command{
	Use:   "convert <file|->",
	Short: "Convert a collection from one format to another",
	Long: `Import a Postman collection or gostman backup and export it in one step.

Examples:
  # Postman collection to OpenAPI YAML
  gostman convert collection.json -f openapi-yaml -o api.yaml

  # Postman collection to Markdown docs, named after the collection
  gostman convert collection.json -f markdown -o docs/

  # Pipe through stdin
  cat collection.json | gostman convert - -f openapi-json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseImportFormat(convertFrom)
		if err != nil {
			return err
		}

		model, _, err := importFiles(cmd, []string{args[0]}, from)
		if err != nil {
			return err
		}
		return runExport(cmd, &convertOpts, model)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertOpts.register(convertCmd)
	convertCmd.Flags().StringVar(&convertFrom, "from", "", "Force input format (postman, gostman); auto-detected if omitted")
}
