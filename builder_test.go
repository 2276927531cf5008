// FILE: lixenwraith/chain/builder_test.go
package chain

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestBuilder tests source layering and validation
func TestBuilder(t *testing.T) {
	t.Run("SetupOnly", func(t *testing.T) {
		cfg, err := NewBuilder().
			WithSetup(func(c *Config) {
				c.Mode("development").Output.Path("build")
			}).
			Build()
		require.NoError(t, err)

		assert.Equal(t, "development", cfg.Get("mode"))
		assert.Equal(t, "build", cfg.Output.Get("path"))
	})

	t.Run("SourcePrecedence", func(t *testing.T) {
		tmpDir := t.TempDir()
		base := filepath.Join(tmpDir, "base.toml")
		prod := filepath.Join(tmpDir, "prod.json")
		require.NoError(t, os.WriteFile(base, []byte("mode = \"development\"\n[output]\npath = \"build\"\nfilename = \"app.js\"\n"), 0644))
		require.NoError(t, os.WriteFile(prod, []byte(`{"output": {"path": "dist"}, "devtool": "source-map"}`), 0644))

		t.Setenv("BUILD_OUTPUT_PATH", "/srv/www")
		t.Setenv("BUILD_DEVTOOL", "eval")

		cfg, err := NewBuilder().
			WithLogger(quietLogger()).
			WithSetup(func(c *Config) { c.Mode("none").Target("web") }).
			WithFiles(base, prod).
			WithEnvPrefix("BUILD_").
			WithEnvWhitelist("output.path", "devtool").
			WithArgs([]string{"--devtool=false"}).
			Build()
		require.NoError(t, err)

		assert.Equal(t, "web", cfg.Get("target"), "setup value kept")
		assert.Equal(t, "development", cfg.Get("mode"), "file overrides setup")
		assert.Equal(t, "app.js", cfg.Output.Get("filename"), "earlier file kept")
		assert.Equal(t, "/srv/www", cfg.Output.Get("path"), "env overrides files")
		assert.Equal(t, false, cfg.Get("devtool"), "args override env")
	})

	t.Run("EnvTransform", func(t *testing.T) {
		t.Setenv("WEBPACK_MODE", "production")
		cfg, err := NewBuilder().
			WithEnvWhitelist("mode").
			WithEnvTransform(func(path string) string { return "WEBPACK_MODE" }).
			Build()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.Get("mode"))
	})

	t.Run("MissingFileNotFatal", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "missing.json")
		cfg, err := NewBuilder().
			WithLogger(quietLogger()).
			WithSetup(func(c *Config) { c.Mode("production") }).
			WithFile(missing).
			Build()

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConfigNotFound)
		require.NotNil(t, cfg)
		assert.Equal(t, "production", cfg.Get("mode"))

		assert.NotPanics(t, func() {
			NewBuilder().WithLogger(quietLogger()).WithFile(missing).MustBuild()
		})
	})

	t.Run("InvalidFileFatal", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
		cfg, err := NewBuilder().WithFile(path).Build()
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("SetupFailure", func(t *testing.T) {
		_, err := NewBuilder().
			WithSetup(func(c *Config) { c.Merge(map[string]any{"output": "dist"}) }).
			Build()
		assert.ErrorContains(t, err, "setup failed")
	})

	t.Run("InvalidEnvPath", func(t *testing.T) {
		_, err := NewBuilder().WithEnvWhitelist("output..path").Build()
		assert.ErrorContains(t, err, `invalid environment path "output..path"`)
	})

	t.Run("InvalidArgs", func(t *testing.T) {
		_, err := NewBuilder().WithArgs([]string{"--bad key=1"}).Build()
		assert.ErrorIs(t, err, ErrArgsParse)
	})

	t.Run("Resolver", func(t *testing.T) {
		cfg, err := NewBuilder().
			WithResolver(NewRegistry().Register("clean-webpack-plugin", newCleanPlugin)).
			WithSetup(func(c *Config) { c.Plugin("clean").Use("clean-webpack-plugin", nil) }).
			Build()
		require.NoError(t, err)

		doc, err := cfg.ToConfig()
		require.NoError(t, err)
		plugins, ok := doc.Get("plugins")
		require.True(t, ok)
		assert.IsType(t, &cleanPlugin{}, plugins.([]any)[0].(*Instance).Value)
	})

	t.Run("Files", func(t *testing.T) {
		b := NewBuilder().WithFile("a.json").WithFile("").WithFiles("b.yaml", "c.toml")
		files := b.Files()
		assert.Equal(t, []string{"a.json", "b.yaml", "c.toml"}, files)

		files[0] = "changed"
		assert.Equal(t, "a.json", b.Files()[0])
	})
}

// TestBuilderValidation tests validators and scanning
func TestBuilderValidation(t *testing.T) {
	requireMode := func(c *Config) error {
		if !c.Has("mode") {
			return errors.New("mode is required")
		}
		return nil
	}

	t.Run("ValidatorPasses", func(t *testing.T) {
		_, err := NewBuilder().
			WithSetup(func(c *Config) { c.Mode("production") }).
			WithValidator(requireMode).
			Build()
		assert.NoError(t, err)
	})

	t.Run("ValidatorFails", func(t *testing.T) {
		_, err := NewBuilder().WithValidator(requireMode).Build()
		assert.EqualError(t, err, "configuration validation failed: mode is required")

		assert.Panics(t, func() {
			NewBuilder().WithValidator(requireMode).MustBuild()
		})
	})

	t.Run("ValidatorOrder", func(t *testing.T) {
		var order []int
		_, err := NewBuilder().
			WithValidator(func(*Config) error { order = append(order, 1); return nil }).
			WithValidator(func(*Config) error { order = append(order, 2); return nil }).
			Build()
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, order)
	})

	t.Run("BuildAndScan", func(t *testing.T) {
		var output struct {
			Path     string `json:"path"`
			Filename string `json:"filename"`
		}
		err := NewBuilder().
			WithSetup(func(c *Config) { c.Output.Path("dist").Filename("[name].js") }).
			WithArgs([]string{"--output.filename=main.js"}).
			BuildAndScan("output", &output)
		require.NoError(t, err)
		assert.Equal(t, "dist", output.Path)
		assert.Equal(t, "main.js", output.Filename)
	})

	t.Run("BuildAndScanMissingFile", func(t *testing.T) {
		var output struct {
			Path string `json:"path"`
		}
		err := NewBuilder().
			WithLogger(quietLogger()).
			WithSetup(func(c *Config) { c.Output.Path("dist") }).
			WithFile(filepath.Join(t.TempDir(), "missing.toml")).
			BuildAndScan("output", &output)
		assert.ErrorIs(t, err, ErrConfigNotFound)
		assert.Equal(t, "dist", output.Path)
	})
}

// TestFileDiscovery tests fragment file discovery
func TestFileDiscovery(t *testing.T) {
	tmpDir := t.TempDir()
	flagFile := filepath.Join(tmpDir, "custom.toml")
	envFile := filepath.Join(tmpDir, "env.json")
	require.NoError(t, os.WriteFile(flagFile, []byte(`mode = "production"`), 0644))
	require.NoError(t, os.WriteFile(envFile, []byte(`{"mode": "development"}`), 0644))

	searchDir := filepath.Join(tmpDir, "search")
	require.NoError(t, os.MkdirAll(searchDir, 0755))
	searchFile := filepath.Join(searchDir, "chain.yaml")
	require.NoError(t, os.WriteFile(searchFile, []byte("mode: none\n"), 0644))

	opts := FileDiscoveryOptions{
		Name:       "chain",
		Extensions: []string{".json", ".yaml"},
		Paths:      []string{searchDir},
		EnvVar:     "CHAIN_TEST_CONFIG",
		CLIFlag:    "--config",
	}

	t.Run("CLIFlag", func(t *testing.T) {
		t.Setenv("CHAIN_TEST_CONFIG", envFile)
		assert.Equal(t, flagFile, DiscoverFile(opts, []string{"--config", flagFile}))
		assert.Equal(t, flagFile, DiscoverFile(opts, []string{"--config=" + flagFile}))

		cfg, err := NewBuilder().
			WithArgs([]string{"--config", flagFile}).
			WithFileDiscovery(opts).
			Build()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.Get("mode"))
	})

	t.Run("ArgsSetAfterDiscovery", func(t *testing.T) {
		b := NewBuilder().
			WithFileDiscovery(opts).
			WithArgs([]string{"--config", flagFile})
		assert.Equal(t, []string{flagFile}, b.Files())

		cfg, err := b.Build()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.Get("mode"))
	})

	t.Run("DiscoveryPosition", func(t *testing.T) {
		b := NewBuilder().
			WithFile("first.json").
			WithFileDiscovery(opts).
			WithFile("last.json")
		assert.Equal(t, []string{"first.json", searchFile, "last.json"}, b.Files())
	})

	t.Run("EnvVar", func(t *testing.T) {
		t.Setenv("CHAIN_TEST_CONFIG", envFile)
		assert.Equal(t, envFile, DiscoverFile(opts, nil))
	})

	t.Run("SearchPaths", func(t *testing.T) {
		assert.Equal(t, searchFile, DiscoverFile(opts, nil))
	})

	t.Run("NothingFound", func(t *testing.T) {
		none := opts
		none.Paths = []string{filepath.Join(tmpDir, "empty")}
		assert.Empty(t, DiscoverFile(none, nil))

		b := NewBuilder().WithFileDiscovery(none)
		assert.Empty(t, b.Files())
	})

	t.Run("XDG", func(t *testing.T) {
		xdgHome := filepath.Join(tmpDir, "xdg")
		require.NoError(t, os.MkdirAll(filepath.Join(xdgHome, "chain"), 0755))
		xdgFile := filepath.Join(xdgHome, "chain", "chain.json")
		require.NoError(t, os.WriteFile(xdgFile, []byte(`{}`), 0644))
		t.Setenv("XDG_CONFIG_HOME", xdgHome)

		xdg := opts
		xdg.Paths = nil
		xdg.UseXDG = true
		assert.Equal(t, xdgFile, DiscoverFile(xdg, nil))
	})

	t.Run("Defaults", func(t *testing.T) {
		d := DefaultDiscoveryOptions("webpack")
		assert.Equal(t, "WEBPACK_CONFIG", d.EnvVar)
		assert.Equal(t, "--config", d.CLIFlag)
		assert.True(t, d.UseXDG)
		assert.True(t, d.UseCurrentDir)
	})
}
