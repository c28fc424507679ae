package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gostman/gostman/pkg/cliconfig"
	"github.com/gostman/gostman/pkg/interchange"
	"github.com/gostman/gostman/pkg/logging"
)

var (
	// Persistent flags available to all subcommands
	jsonOutput bool
	logLevel   string
	logFormat  string
	configPath string

	// Resolved in PersistentPreRunE
	cfg    = cliconfig.NewDefault()
	logger = logging.Nop()
	engine = interchange.New()

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gostman",
	Short: "gostman converts API collections between Postman, OpenAPI, Markdown and gostman backups",
	Long: `gostman imports Postman Collection v2.x files and gostman backups into a
canonical collection, and exports it as Postman, OpenAPI 3 (JSON or YAML),
Markdown documentation or a gostman backup.

Configuration can be provided via flags, environment variables (GOSTMAN_*), a
local .gostmanrc.yaml or a global ~/.config/gostman/config.yaml.`,
	SilenceUsage:      true,
	SilenceErrors:     true, // We handle errors in Execute()
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", cliconfig.DefaultLogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", cliconfig.DefaultLogFormat, "Log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: .gostmanrc.yaml, then ~/.config/gostman/config.yaml)")
}

// setup resolves configuration and builds the logger and engine used by
// every subcommand.
func setup(cmd *cobra.Command, _ []string) error {
	path := configPath
	if path == "" {
		path = cliconfig.ConfigPathFromEnv()
	}
	loaded, err := cliconfig.LoadAll(path)
	if err != nil {
		return err
	}
	cfg = loaded

	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}
	jsonOutput = cfg.JSON

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	base := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.ParseFormat(cfg.LogFormat),
		Output: cmd.ErrOrStderr(),
	})
	logger = logging.WithComponent(base, "cli")
	engine = interchange.New(interchange.WithLogger(base))

	logger.Debug("configuration loaded",
		slog.String("command", cmd.Name()),
		slog.Any("sources", cfg.Sources),
	)
	return nil
}

// flagBinding maps a command-line flag onto a config key. Flags only
// override the loaded config when given explicitly.
type flagBinding struct {
	flag  string
	key   string
	apply func(c *cliconfig.Config, v string) error
}

var flagBindings = []flagBinding{
	{"log-level", "logLevel", func(c *cliconfig.Config, v string) error { c.LogLevel = v; return nil }},
	{"log-format", "logFormat", func(c *cliconfig.Config, v string) error { c.LogFormat = v; return nil }},
	{"json", "json", func(c *cliconfig.Config, v string) (err error) { c.JSON, err = strconv.ParseBool(v); return }},
	{"format", "exportFormat", func(c *cliconfig.Config, v string) error { c.ExportFormat = v; return nil }},
	{"base-url", "baseUrl", func(c *cliconfig.Config, v string) error { c.BaseURL = v; return nil }},
	{"api-version", "openapiVersion", func(c *cliconfig.Config, v string) error { c.OpenAPIVersion = v; return nil }},
	{"timeout", "validateTimeout", func(c *cliconfig.Config, v string) (err error) { c.ValidateTimeout, err = strconv.Atoi(v); return }},
	{"allow-external-refs", "allowExternalRefs", func(c *cliconfig.Config, v string) (err error) {
		c.AllowExternalRefs, err = strconv.ParseBool(v)
		return
	}},
}

// applyFlags copies explicitly set flags of cmd into c, recording the flag
// source.
func applyFlags(cmd *cobra.Command, c *cliconfig.Config) error {
	for _, b := range flagBindings {
		f := cmd.Flags().Lookup(b.flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := b.apply(c, f.Value.String()); err != nil {
			return fmt.Errorf("--%s: %w", b.flag, err)
		}
		c.Sources[b.key] = cliconfig.SourceFlag
	}
	return nil
}
