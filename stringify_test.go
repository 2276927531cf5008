// File: lixenwraith/chain/stringify_test.go
package chain

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStringifyValues tests rendering of plain values
func TestStringifyValues(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"Nil", nil, "null"},
		{"String", "it's", `'it\'s'`},
		{"Escapes", "a\nb\t\\", `'a\nb\t\\'`},
		{"LineSeparator", "a\u2028b", `'a\u2028b'`},
		{"ControlChar", "\x01", `'\x01'`},
		{"Bool", true, "true"},
		{"Int", 42, "42"},
		{"Uint", uint8(7), "7"},
		{"Float", 1.5, "1.5"},
		{"WholeFloat", 3.0, "3"},
		{"Infinity", math.Inf(1), "Infinity"},
		{"JSONNumber", json.Number("12.50"), "12.50"},
		{"Regexp", regexp.MustCompile(`\.js$`), `/\.js$/`},
		{"RegexpSlash", regexp.MustCompile(`node_modules/foo`), `/node_modules\/foo/`},
		{"Expression", Expression("path.resolve(__dirname, 'dist')"), "path.resolve(__dirname, 'dist')"},
		{"EmptyList", []any{}, "[]"},
		{"EmptyRecord", Record{}, "{}"},
		{"Function", strings.ToUpper, "ToUpper"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stringify(tt.in))
		})
	}
}

func formatAssetFilenameWithContentHashAndChunkNameForLongTermCachingOfStaticAssets(name string) string {
	return name + ".[contenthash].js"
}

// TestStringifyFunctions tests abbreviation of long functions
func TestStringifyFunctions(t *testing.T) {
	const omitted = "func() { /* omitted long function */ }"
	long := formatAssetFilenameWithContentHashAndChunkNameForLongTermCachingOfStaticAssets
	longName := "github.com/lixenwraith/chain.formatAssetFilenameWithContentHashAndChunkNameForLongTermCachingOfStaticAssets"

	t.Run("LongAbbreviated", func(t *testing.T) {
		assert.Equal(t, omitted, Stringify(long))
	})

	t.Run("LongVerbose", func(t *testing.T) {
		assert.Equal(t, longName, Stringify(long, Verbose(true)))
	})

	t.Run("ShortVerbose", func(t *testing.T) {
		assert.Equal(t, "strings.ToUpper", Stringify(strings.ToUpper, Verbose(true)))
	})

	t.Run("Limit", func(t *testing.T) {
		assert.Equal(t, omitted, Stringify(strings.ToUpper, FunctionLimit(10)))
		assert.Equal(t, "ToUpper", Stringify(strings.ToUpper, FunctionLimit(len("strings.ToUpper"))))
		assert.Equal(t, "strings.ToUpper", Stringify(strings.ToUpper, FunctionLimit(0), Verbose(true)))
	})

	t.Run("InConfig", func(t *testing.T) {
		cfg := New()
		cfg.Output.Filename(long)

		text, err := cfg.ToString()
		require.NoError(t, err)
		assert.Contains(t, text, "filename: "+omitted)

		text, err = cfg.ToString(Verbose(true))
		require.NoError(t, err)
		assert.Contains(t, text, "filename: "+longName)
	})
}

// TestStringifyStructure tests indentation of records, lists and maps
func TestStringifyStructure(t *testing.T) {
	t.Run("Record", func(t *testing.T) {
		doc := Record{
			{Key: "mode", Value: "production"},
			{Key: "entry", Value: Record{{Key: "index", Value: []any{"src/index.js"}}}},
			{Key: "my-key", Value: false},
		}
		want := `{
  mode: 'production',
  entry: {
    index: [
      'src/index.js'
    ]
  },
  'my-key': false
}`
		assert.Equal(t, want, Stringify(doc))
	})

	t.Run("MapKeysSorted", func(t *testing.T) {
		want := `{
  a: 1,
  b: 2
}`
		assert.Equal(t, want, Stringify(map[string]any{"b": 2, "a": 1}))
	})

	t.Run("Struct", func(t *testing.T) {
		type opts struct {
			Dry     bool   `json:"dry"`
			Verbose bool   `json:"verbose,omitempty"`
			Hidden  string `json:"-"`
			Name    string
		}
		want := `{
  dry: true,
  Name: 'x'
}`
		assert.Equal(t, want, Stringify(opts{Dry: true, Hidden: "h", Name: "x"}))
	})

	t.Run("Indent", func(t *testing.T) {
		got := Stringify(Record{{Key: "a", Value: 1}}, Indent(4))
		assert.Equal(t, "{\n    a: 1\n}", got)
	})
}

// TestStringifyConfig tests the annotated rendering of a flattened tree
func TestStringifyConfig(t *testing.T) {
	t.Run("PluginsAndRules", func(t *testing.T) {
		cfg := New()
		cfg.Module.Rule("compile").
			Test(regexp.MustCompile(`\.js$`)).
			Use("babel").Loader("babel-loader")
		cfg.Plugin("clean").Use(newCleanPlugin, []any{map[string]any{"dry": true}})

		text, err := cfg.ToString()
		require.NoError(t, err)

		want := `{
  module: {
    rules: [
      /* config.module.rule('compile') */
      {
        test: /\.js$/,
        use: [
          /* config.module.rule('compile').use('babel') */
          {
            loader: 'babel-loader'
          }
        ]
      }
    ]
  },
  plugins: [
    /* config.plugin('clean') */
    newCleanPlugin(
      {
        dry: true
      }
    )
  ]
}`
		assert.Equal(t, want, text)
	})

	t.Run("NestedRulePath", func(t *testing.T) {
		cfg := New()
		cfg.Module.Rule("svg").OneOf("inline").Use("url").Loader("url-loader")

		text, err := cfg.ToString(Prefix("chain"))
		require.NoError(t, err)
		assert.Contains(t, text, "/* chain.module.rule('svg') */")
		assert.Contains(t, text, "/* chain.module.rule('svg').oneOf('inline') */")
		assert.Contains(t, text, "/* chain.module.rule('svg').oneOf('inline').use('url') */")
	})

	t.Run("ExpressionConstructor", func(t *testing.T) {
		cfg := New()
		cfg.Plugin("define").Use(ExprRef{Ctor: newCleanPlugin, Expr: "webpack.DefinePlugin"}, nil)
		text, err := cfg.ToString()
		require.NoError(t, err)
		assert.Contains(t, text, "/* config.plugin('define') */\n    (webpack.DefinePlugin)()")
	})

	t.Run("RequiredPath", func(t *testing.T) {
		cfg := New().With(UseResolver(NewRegistry().Register("banner-plugin", newBannerPlugin)))
		cfg.Plugin("banner").Use("banner-plugin", "hello")
		text, err := cfg.ToString()
		require.NoError(t, err)
		assert.Contains(t, text, "(require('banner-plugin'))(\n      'hello'\n    )")
	})

	t.Run("Minimizer", func(t *testing.T) {
		cfg := New()
		cfg.Optimization.Minimizer("terser").Use(newSizePlugin, []any{10})
		text, err := cfg.ToString()
		require.NoError(t, err)
		assert.Contains(t, text, "/* config.optimization.minimizer('terser') */")
		assert.Contains(t, text, "newSizePlugin(\n        10\n      )")
	})

	t.Run("LiteralInstance", func(t *testing.T) {
		cfg := New()
		cfg.Plugin("ready").Use(map[string]any{"ready": true}, nil)
		text, err := cfg.ToString()
		require.NoError(t, err)
		assert.Contains(t, text, "/* config.plugin('ready') */\n    {\n      ready: true\n    }")
	})
}

// TestStringifyColors tests token coloring
func TestStringifyColors(t *testing.T) {
	colors := &Colors{
		Map: map[ColorAttr]func(string, ...any) string{
			KeyColor:    func(s string, _ ...any) string { return "<" + s + ">" },
			StringColor: func(s string, _ ...any) string { return "[" + s + "]" },
		},
	}
	got := Stringify(Record{{Key: "mode", Value: "dev"}, {Key: "n", Value: 1}}, Colorize(colors))
	assert.Equal(t, "{\n  <mode>: ['dev'],\n  <n>: 1\n}", got)

	var none *Colors
	assert.Equal(t, "x", none.Color(KeyColor, "x"))

	palette := NewColors()
	assert.NotNil(t, palette.Get(CommentColor))
	assert.NotNil(t, palette.Get(ColorAttr(99)))
}
