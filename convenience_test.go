// FILE: lixenwraith/chain/convenience_test.go
package chain

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestQuickFunctions tests the one-call constructors
func TestQuickFunctions(t *testing.T) {
	setup := func(c *Config) {
		c.Mode("development").Output.Path("build")
	}

	t.Run("Quick", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "webpack.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"output": {"path": "dist"}}`), 0644))
		t.Setenv("QUICK_MODE", "production")

		cfg, err := Quick(setup, "QUICK_", path, "mode")
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.Get("mode"))
		assert.Equal(t, "dist", cfg.Output.Get("path"))
	})

	t.Run("QuickWithoutFile", func(t *testing.T) {
		cfg, err := Quick(setup, "", "")
		require.NoError(t, err)
		assert.Equal(t, "build", cfg.Output.Get("path"))
	})

	t.Run("MustQuickPanics", func(t *testing.T) {
		assert.Panics(t, func() {
			MustQuick(func(c *Config) { c.Merge(map[string]any{"module": 1}) }, "", "")
		})
	})
}

// TestValidation tests required path checks
func TestValidation(t *testing.T) {
	cfg := New().Mode("production")
	cfg.Output.Path("dist")

	assert.NoError(t, cfg.Validate("mode", "output.path"))
	assert.EqualError(t, cfg.Validate("mode", "output.filename", "entry"),
		"missing required configuration: output.filename, entry")

	broken := New()
	broken.Plugin("env")
	assert.ErrorIs(t, broken.Validate("mode"), ErrMissingPluginReference)
}

// TestDebugAndDump tests the diagnostic renderings
func TestDebugAndDump(t *testing.T) {
	cfg := New().Mode("production")
	cfg.Output.Path("dist")

	t.Run("Debug", func(t *testing.T) {
		debug := cfg.Debug()
		assert.Contains(t, debug, "Configuration Debug Info:")
		assert.Contains(t, debug, `"mode"`)
		assert.Contains(t, debug, `"production"`)
		assert.Contains(t, debug, "(string)")
	})

	t.Run("DebugError", func(t *testing.T) {
		broken := New()
		broken.Plugin("env")
		assert.Contains(t, broken.Debug(), "error: Invalid plugin configuration")
	})

	t.Run("Dump", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, cfg.Dump(&buf))

		var decoded map[string]any
		_, err := toml.Decode(buf.String(), &decoded)
		require.NoError(t, err)
		assert.Equal(t, "production", decoded["mode"])
		assert.Equal(t, map[string]any{"path": "dist"}, decoded["output"])
	})
}
