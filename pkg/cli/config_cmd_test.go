package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gostman/gostman/pkg/cliconfig"
)

func TestConfigEntries(t *testing.T) {
	c := cliconfig.NewDefault()
	c.BaseURL = "https://x.io"
	c.Sources["baseUrl"] = cliconfig.SourceEnv

	entries := configEntries(c)
	require.Len(t, entries, len(cliconfig.Keys))
	assert.Equal(t, ConfigEntry{Key: "logLevel", Value: cliconfig.DefaultLogLevel, Source: cliconfig.SourceDefault}, entries[0])
	assert.Equal(t, ConfigEntry{Key: "baseUrl", Value: "https://x.io", Source: cliconfig.SourceEnv}, entries[5])
	assert.Equal(t, ConfigEntry{Key: "openapiTitle", Value: "", Source: cliconfig.SourceDefault}, entries[3],
		"unset keys report the default source")
}

func TestApplyFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "t"}
	cmd.Flags().String("format", "", "")
	cmd.Flags().Int("timeout", 0, "")
	cmd.Flags().Bool("allow-external-refs", false, "")
	cmd.Flags().String("base-url", "", "")
	require.NoError(t, cmd.Flags().Parse([]string{"--format", "markdown", "--timeout", "5", "--allow-external-refs"}))

	c := cliconfig.NewDefault()
	c.BaseURL = "https://from-file.io"
	require.NoError(t, applyFlags(cmd, c))

	assert.Equal(t, "markdown", c.ExportFormat)
	assert.Equal(t, 5, c.ValidateTimeout)
	assert.True(t, c.AllowExternalRefs)
	assert.Equal(t, "https://from-file.io", c.BaseURL, "unset flags leave the config alone")
	assert.Equal(t, cliconfig.SourceFlag, c.Sources["exportFormat"])
	assert.Equal(t, cliconfig.SourceFlag, c.Sources["allowExternalRefs"])
	assert.Equal(t, cliconfig.SourceDefault, c.Sources["logLevel"])
}
