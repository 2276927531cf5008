// FILE: lixenwraith/chain/io_test.go
package chain

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Record {
	return Record{
		{Key: "mode", Value: "production"},
		{Key: "output", Value: Record{{Key: "path", Value: "dist"}}},
		{Key: "entry", Value: Record{{Key: "index", Value: []any{"a.js"}}}},
	}
}

// TestExport tests document encoding in every format
func TestExport(t *testing.T) {
	doc := sampleDocument()

	t.Run("JSON", func(t *testing.T) {
		data, err := Export(doc, FormatJSON)
		require.NoError(t, err)
		want := `{
  "mode": "production",
  "output": {
    "path": "dist"
  },
  "entry": {
    "index": [
      "a.js"
    ]
  }
}
`
		assert.Equal(t, want, string(data))
	})

	t.Run("YAMLKeepsOrder", func(t *testing.T) {
		data, err := Export(doc, FormatYAML)
		require.NoError(t, err)
		text := string(data)

		mode := strings.Index(text, "mode: production")
		output := strings.Index(text, "output:")
		entry := strings.Index(text, "entry:")
		require.True(t, mode >= 0 && output >= 0 && entry >= 0, text)
		assert.Less(t, mode, output)
		assert.Less(t, output, entry)
		assert.Contains(t, text, "- a.js")
	})

	t.Run("TOMLRoundTrip", func(t *testing.T) {
		data, err := Export(doc, FormatTOML)
		require.NoError(t, err)
		assert.Contains(t, string(data), `mode = "production"`)

		parsed, err := parseFragment(data, FormatTOML)
		require.NoError(t, err)
		assert.Equal(t, doc.Map(), parsed)
	})

	t.Run("JS", func(t *testing.T) {
		data, err := Export(doc, FormatJS)
		require.NoError(t, err)
		text := string(data)
		assert.True(t, strings.HasPrefix(text, "module.exports = {\n  mode: 'production',"), text)
		assert.True(t, strings.HasSuffix(text, "};\n"), text)
	})

	t.Run("AnnotatedValues", func(t *testing.T) {
		cfg := New()
		cfg.Module.Rule("js").Use("babel").Loader("babel-loader")
		cfg.Plugin("banner").Use(newBannerPlugin, []any{"hi"})
		doc, err := cfg.ToConfig()
		require.NoError(t, err)

		data, err := Export(doc, FormatJSON)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"loader": "babel-loader"`)
		assert.Contains(t, string(data), `"Text": "hi"`)
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		_, err := Export(doc, "ini")
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})
}

// TestAtomicSave tests writing a flattened tree to disk
func TestAtomicSave(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := New().Mode("production")
	cfg.Output.Path("dist").Filename("[name].js")
	cfg.Resolve.Extensions.Add(".js")

	t.Run("RoundTrip", func(t *testing.T) {
		for _, name := range []string{"out.json", "out.yaml", "out.toml"} {
			t.Run(name, func(t *testing.T) {
				path := filepath.Join(tmpDir, name)
				require.NoError(t, cfg.Save(path))

				loaded := New()
				require.NoError(t, loaded.MergeFile(path))
				assert.Equal(t, "production", loaded.Get("mode"))
				assert.Equal(t, "dist", loaded.Output.Get("path"))
				assert.Equal(t, []any{".js"}, loaded.Resolve.Extensions.Values())
			})
		}
	})

	t.Run("NoTempFilesLeft", func(t *testing.T) {
		dir := filepath.Join(tmpDir, "nested", "dir")
		path := filepath.Join(dir, "webpack.config.js")
		require.NoError(t, cfg.Save(path))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "webpack.config.js", entries[0].Name())

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
	})

	t.Run("ExplicitFormat", func(t *testing.T) {
		path := filepath.Join(tmpDir, "fragment.conf")
		require.NoError(t, cfg.SaveFormat(path, FormatYAML))

		loaded := New()
		require.NoError(t, loaded.MergeFileFormat(path, FormatYAML))
		assert.Equal(t, "production", loaded.Get("mode"))
	})

	t.Run("UnknownExtension", func(t *testing.T) {
		assert.ErrorIs(t, cfg.Save(filepath.Join(tmpDir, "out.txt")), ErrUnknownFormat)
	})
}

// TestExportEnv tests environment export of scalar leaves
func TestExportEnv(t *testing.T) {
	cfg := New().Mode("production")
	cfg.Output.Path("dist")
	cfg.DevServer.Port(8080).Hot(true)
	cfg.Resolve.Extensions.Add(".js")

	exports, err := cfg.ExportEnv("APP_")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"APP_MODE":           "production",
		"APP_OUTPUT_PATH":    "dist",
		"APP_DEVSERVER_PORT": "8080",
		"APP_DEVSERVER_HOT":  "true",
	}, exports)

	for name, value := range exports {
		t.Setenv(name, value)
	}
	loaded := New()
	require.NoError(t, loaded.MergeEnv("APP_", []string{"mode", "output.path", "devServer.port", "devServer.hot"}, nil))
	assert.Equal(t, "production", loaded.Get("mode"))
	assert.Equal(t, int64(8080), loaded.DevServer.Get("port"))
}

// TestTypedAccessors tests typed lookups on a document
func TestTypedAccessors(t *testing.T) {
	doc := Record{
		{Key: "mode", Value: "production"},
		{Key: "devServer", Value: Record{
			{Key: "port", Value: "8080"},
			{Key: "hot", Value: 1},
		}},
		{Key: "optimization", Value: map[string]any{"minSize": 2.5}},
	}

	mode, err := doc.String("mode")
	require.NoError(t, err)
	assert.Equal(t, "production", mode)

	port, err := doc.Int64("devServer.port")
	require.NoError(t, err)
	assert.Equal(t, int64(8080), port)

	hot, err := doc.Bool("devServer.hot")
	require.NoError(t, err)
	assert.True(t, hot)

	size, err := doc.Float64("optimization.minSize")
	require.NoError(t, err)
	assert.Equal(t, 2.5, size)

	_, err = doc.String("output.path")
	assert.EqualError(t, err, "path not found: output.path")

	_, err = doc.Bool("mode")
	assert.Error(t, err)
}
