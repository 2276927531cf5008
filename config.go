// File: lixenwraith/chain/config.go
package chain

import "slices"

// Config is the root of a bundler configuration tree
type Config struct {
	ChainedMap[any, *Config]

	EntryPoints   *Map[*Config]
	Output        *Output
	Module        *Module
	Resolve       *Resolve[*Config]
	ResolveLoader *Resolve[*Config]
	Optimization  *Optimization
	Plugins       *Map[*Config]
	DevServer     *DevServer
	Performance   *Performance

	opts []Option
}

// New creates an empty configuration tree
func New() *Config {
	c := &Config{}
	c.setup(nil, c)
	c.EntryPoints = NewMap(c)
	c.Output = NewOutput(c)
	c.Module = NewModule(c)
	c.Resolve = NewResolve(c)
	c.ResolveLoader = NewResolveLoader(c)
	c.Optimization = NewOptimization(c)
	c.Plugins = NewMap(c)
	c.DevServer = NewDevServer(c)
	c.Performance = NewPerformance(c)
	return c
}

// With sets options applied to every flatten and render of this tree
func (c *Config) With(opts ...Option) *Config {
	c.opts = append(c.opts, opts...)
	return c
}

// Entry returns the named entry point, creating it on first use
func (c *Config) Entry(name string) *ChainedSet[*Config] {
	return c.EntryPoints.GetOrCompute(name, func() any { return NewSet(c) }).(*ChainedSet[*Config])
}

// Plugin returns the named plugin slot, creating it on first use
func (c *Config) Plugin(name string) *Plugin[*Config] {
	return c.Plugins.GetOrCompute(name, func() any { return NewPlugin(c, name, "plugin") }).(*Plugin[*Config])
}

// ToConfig flattens the tree into a document. Plugins are resolved and
// constructed; the result is nil when nothing is configured.
func (c *Config) ToConfig(opts ...Option) (Record, error) {
	e := newEnv(append(append([]Option{}, c.opts...), opts...))
	return c.flatten(e)
}

func (c *Config) flatten(e *env) (Record, error) {
	if err := c.treeErr(); err != nil {
		return nil, err
	}

	entry, err := c.entries()
	if err != nil {
		return nil, err
	}
	resolve, err := c.Resolve.flatten(e)
	if err != nil {
		return nil, err
	}
	resolveLoader, err := c.ResolveLoader.flatten(e)
	if err != nil {
		return nil, err
	}
	devServer, err := c.DevServer.ToConfig()
	if err != nil {
		return nil, err
	}
	module, err := c.Module.flatten(e)
	if err != nil {
		return nil, err
	}
	optimization, err := c.Optimization.flatten(e)
	if err != nil {
		return nil, err
	}
	plugins, err := pluginSlots(e, c.Plugins)
	if err != nil {
		return nil, err
	}
	if err := c.Output.Err(); err != nil {
		return nil, err
	}
	if err := c.Performance.Err(); err != nil {
		return nil, err
	}

	doc := assign(c.record(),
		Field{Key: "output", Value: c.Output.Entries()},
		Field{Key: "resolve", Value: resolve},
		Field{Key: "resolveLoader", Value: resolveLoader},
		Field{Key: "devServer", Value: devServer},
		Field{Key: "module", Value: module},
		Field{Key: "optimization", Value: optimization},
		Field{Key: "plugins", Value: plugins},
		Field{Key: "performance", Value: c.Performance.Entries()},
		Field{Key: "entry", Value: entry},
	)
	e.logger.Debug("Flattened configuration", "keys", len(doc))
	return Clean(doc), nil
}

func (c *Config) entries() (Record, error) {
	if err := c.EntryPoints.Err(); err != nil {
		return nil, err
	}
	var entry Record
	for _, name := range c.EntryPoints.Keys() {
		if set, ok := c.EntryPoints.Get(name).(*ChainedSet[*Config]); ok {
			entry = append(entry, Field{Key: name, Value: set.Values()})
		}
	}
	return entry, nil
}

// ToString flattens the tree and renders it as annotated source text
func (c *Config) ToString(opts ...StringOption) (string, error) {
	doc, err := c.ToConfig()
	if err != nil {
		return "", err
	}
	return Stringify(doc, opts...), nil
}

// Merge distributes a flat record across the tree. Keys naming child nodes
// are merged into them; every other key is stored on the root.
func (c *Config) Merge(src map[string]any, omit ...string) *Config {
	cm := childMerger{src: src, omit: omit, fail: c.fail}

	cm.record("entry", func(m map[string]any) error {
		for _, name := range sortedKeys(m) {
			c.Entry(name).Merge(toList(m[name]))
		}
		return nil
	})
	cm.named("plugin", func(name string, child map[string]any) error {
		return c.Plugin(name).Merge(child).Err()
	})
	cm.record("output", func(m map[string]any) error { return c.Output.Merge(m).Err() })
	cm.record("resolve", func(m map[string]any) error { return c.Resolve.Merge(m).Err() })
	cm.record("resolveLoader", func(m map[string]any) error { return c.ResolveLoader.Merge(m).Err() })
	cm.record("devServer", func(m map[string]any) error { return c.DevServer.Merge(m).Err() })
	cm.record("optimization", func(m map[string]any) error { return c.Optimization.Merge(m).Err() })
	cm.record("module", func(m map[string]any) error { return c.Module.Merge(m).Err() })
	if v, ok := cm.has("performance"); ok {
		if m, ok := asMap(v); ok {
			c.fail(c.Performance.Merge(m).Err())
		} else {
			c.Performance.SetValue(v)
		}
	}

	return c.ChainedMap.Merge(src, slices.Concat(omit, []string{
		"entry", "plugin", "output", "resolve", "resolveLoader",
		"devServer", "optimization", "performance", "module",
	})...)
}

var configShorthands = []string{
	"context",
	"mode",
	"cache",
	"devtool",
	"target",
	"watch",
	"watchOptions",
	"externals",
	"externalsType",
	"externalsPresets",
	"dotenv",
	"node",
	"stats",
	"experiments",
	"infrastructureLogging",
	"amd",
	"bail",
	"dependencies",
	"ignoreWarnings",
	"loader",
	"name",
	"parallelism",
	"profile",
	"recordsInputPath",
	"recordsOutputPath",
	"recordsPath",
	"snapshot",
}

// Shorthands lists the field names with a dedicated setter
func (c *Config) Shorthands() []string {
	return slices.Clone(configShorthands)
}

func (c *Config) Context(v any) *Config { return c.Set("context", v) }
func (c *Config) Mode(v any) *Config { return c.Set("mode", v) }
func (c *Config) Cache(v any) *Config { return c.Set("cache", v) }
func (c *Config) Devtool(v any) *Config { return c.Set("devtool", v) }
func (c *Config) Target(v any) *Config { return c.Set("target", v) }
func (c *Config) Watch(v any) *Config { return c.Set("watch", v) }
func (c *Config) WatchOptions(v any) *Config { return c.Set("watchOptions", v) }
func (c *Config) Externals(v any) *Config { return c.Set("externals", v) }
func (c *Config) ExternalsType(v any) *Config { return c.Set("externalsType", v) }
func (c *Config) ExternalsPresets(v any) *Config { return c.Set("externalsPresets", v) }
func (c *Config) Dotenv(v any) *Config { return c.Set("dotenv", v) }
func (c *Config) Node(v any) *Config { return c.Set("node", v) }
func (c *Config) Stats(v any) *Config { return c.Set("stats", v) }
func (c *Config) Experiments(v any) *Config { return c.Set("experiments", v) }
func (c *Config) InfrastructureLogging(v any) *Config { return c.Set("infrastructureLogging", v) }
func (c *Config) Amd(v any) *Config { return c.Set("amd", v) }
func (c *Config) Bail(v any) *Config { return c.Set("bail", v) }
func (c *Config) Dependencies(v any) *Config { return c.Set("dependencies", v) }
func (c *Config) IgnoreWarnings(v any) *Config { return c.Set("ignoreWarnings", v) }
func (c *Config) Loader(v any) *Config { return c.Set("loader", v) }
func (c *Config) Name(v any) *Config { return c.Set("name", v) }
func (c *Config) Parallelism(v any) *Config { return c.Set("parallelism", v) }
func (c *Config) Profile(v any) *Config { return c.Set("profile", v) }
func (c *Config) RecordsInputPath(v any) *Config { return c.Set("recordsInputPath", v) }
func (c *Config) RecordsOutputPath(v any) *Config { return c.Set("recordsOutputPath", v) }
func (c *Config) RecordsPath(v any) *Config { return c.Set("recordsPath", v) }
func (c *Config) Snapshot(v any) *Config { return c.Set("snapshot", v) }
