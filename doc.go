// File: lixenwraith/chain/doc.go

// Package chain builds bundler configuration documents through a fluent,
// chainable API. Every node of the tree is a chainable container that can be
// set, merged, conditionally edited, ordered before or after its siblings and
// finally flattened into a plain ordered document.
//
// Features:
//   - Chainable maps, sets and value maps with End() navigation
//   - Named rules, nested rules and oneOf branches with ordered loader uses
//   - Deferred plugins resolved through an injectable Resolver at flatten time
//   - Deep merge of plain records into the tree, honoring child routing
//   - Annotated source rendering with provenance comments
//   - Fragment files in JSON, YAML or TOML plus env and CLI overrides
//   - Export to JSON, YAML, TOML or an annotated module file
//
// Quick Start:
//
//	cfg := chain.New()
//	cfg.Entry("index").Add("src/index.js").End().
//	    Output.Path("dist").Filename("[name].bundle.js")
//
//	cfg.Module.Rule("compile").
//	    Test(regexp.MustCompile(`\.js$`)).
//	    Include.Add("src").End().
//	    Use("babel").Loader("babel-loader").Options(map[string]any{"presets": []any{"env"}})
//
//	cfg.Plugin("clean").Use(NewCleanPlugin, []any{map[string]any{"dry": true}})
//
//	doc, err := cfg.ToConfig()
//	text, err := cfg.ToString()
//
// Ordering:
// Plugins, uses and rules may call Before(name) or After(name) to position
// themselves relative to a sibling. Declaring both on the same node is an
// error; ordering against a missing sibling fails when the tree is flattened.
//
// Errors:
// Builder methods never return errors directly. The first failure is recorded
// on the node and reported by Err() or by the flatten call.
//
// Thread Safety:
// A tree is not safe for concurrent mutation. Build one per goroutine, or
// rebuild from a Builder as the file Watcher does.
package chain
