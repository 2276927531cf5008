// File: lixenwraith/chain/example/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"

	"github.com/lixenwraith/chain"
)

// CleanPlugin stands in for a plugin constructed from a Go constructor
type CleanPlugin struct {
	Options map[string]any `json:"options"`
}

func NewCleanPlugin(options map[string]any) *CleanPlugin {
	return &CleanPlugin{Options: options}
}

// DefinePlugin is registered under a module path for string references
type DefinePlugin struct {
	Definitions map[string]any `json:"definitions"`
}

func NewDefinePlugin(definitions map[string]any) *DefinePlugin {
	return &DefinePlugin{Definitions: definitions}
}

// OutputSettings is decoded from the flattened document
type OutputSettings struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
}

const fragment = `{
  "mode": "production",
  "output": {"filename": "[name].[contenthash].js"},
  "plugin": {
    "define": {
      "plugin": "webpack/DefinePlugin",
      "args": [{"VERSION": "1.2.0"}]
    }
  }
}`

func main() {
	dir, err := os.MkdirTemp("", "chain-example")
	if err != nil {
		log.Fatalf("❌ Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	fragmentPath := filepath.Join(dir, "production.json")
	if err := os.WriteFile(fragmentPath, []byte(fragment), 0644); err != nil {
		log.Fatalf("❌ Failed to write fragment: %v", err)
	}

	registry := chain.NewRegistry().
		Register("webpack/DefinePlugin", NewDefinePlugin)

	cfg, err := chain.NewBuilder().
		WithResolver(registry).
		WithSetup(base).
		WithFile(fragmentPath).
		WithArgs([]string{"--devtool=source-map"}).
		WithValidator(func(c *chain.Config) error {
			return c.Validate("output.path", "entry.index")
		}).
		Build()
	if err != nil {
		log.Fatalf("❌ Build failed: %v", err)
	}

	text, err := cfg.ToString()
	if err != nil {
		log.Fatalf("❌ Render failed: %v", err)
	}
	fmt.Println(text)

	var out OutputSettings
	if err := cfg.Scan("output", &out); err != nil {
		log.Fatalf("❌ Scan failed: %v", err)
	}
	log.Printf("✅ Output: %s/%s", out.Path, out.Filename)

	exportPath := filepath.Join(dir, "webpack.config.yaml")
	if err := cfg.Save(exportPath); err != nil {
		log.Fatalf("❌ Save failed: %v", err)
	}
	data, _ := os.ReadFile(exportPath)
	log.Printf("✅ Saved %s:\n%s", exportPath, data)
}

// base declares the configuration shared by every environment
func base(c *chain.Config) {
	c.Entry("index").Add("src/index.js").End().
		Output.Path("dist").Filename("[name].js")

	c.Module.Rule("compile").
		Test(regexp.MustCompile(`\.m?js$`)).
		Include.Add("src").End().
		Use("babel").
		Loader("babel-loader").
		Options(map[string]any{"presets": []any{"@babel/preset-env"}})

	c.Module.Rule("style").
		Test(regexp.MustCompile(`\.css$`)).
		Use("css").Loader("css-loader").End().
		Use("style").Loader("style-loader").Before("css")

	c.Plugin("clean").Use(NewCleanPlugin, []any{map[string]any{"dry": false}})
	c.Resolve.Extensions.Add(".js").Add(".json")
}
