package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// TestMain lets testscript run the gostman binary in-process.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"gostman": func() int { main(); return 0 },
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: filepath.Join("testdata", "script"),
		Setup: func(env *testscript.Env) error {
			// Keep the developer's own config out of the scripts.
			home := filepath.Join(env.WorkDir, ".home")
			if err := os.MkdirAll(home, 0o755); err != nil {
				return err
			}
			env.Setenv("HOME", home)
			env.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
			for _, k := range []string{
				"GOSTMAN_CONFIG", "GOSTMAN_LOG_LEVEL", "GOSTMAN_LOG_FORMAT", "GOSTMAN_EXPORT_FORMAT",
				"GOSTMAN_OPENAPI_TITLE", "GOSTMAN_OPENAPI_VERSION", "GOSTMAN_BASE_URL",
				"GOSTMAN_ALLOW_EXTERNAL_REFS", "GOSTMAN_VALIDATE_TIMEOUT", "GOSTMAN_JSON",
			} {
				env.Setenv(k, "")
			}
			return nil
		},
	})
}
