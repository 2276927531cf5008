// File: lixenwraith/chain/optimization.go
package chain

import "slices"

// Optimization holds the optimization settings, the minimizer plugins and
// the splitChunks record or scalar
type Optimization struct {
	ChainedMap[*Config, *Optimization]

	Minimizers  *Map[*Optimization]
	SplitChunks *ValueMap[*Optimization]
}

// NewOptimization creates the optimization node of parent
func NewOptimization(parent *Config) *Optimization {
	o := &Optimization{}
	o.setup(parent, o)
	o.Minimizers = NewMap(o)
	o.SplitChunks = NewValueMap(o)
	return o
}

// Minimizer returns the named minimizer plugin slot, creating it on first use
func (o *Optimization) Minimizer(name string) *Plugin[*Optimization] {
	return o.Minimizers.GetOrCompute(name, func() any {
		return NewPlugin(o, name, "optimization.minimizer")
	}).(*Plugin[*Optimization])
}

// ToConfig flattens the node, constructing every minimizer
func (o *Optimization) ToConfig(opts ...Option) (Record, error) {
	return o.flatten(newEnv(opts))
}

func (o *Optimization) flatten(e *env) (Record, error) {
	if err := o.Err(); err != nil {
		return nil, err
	}
	if err := o.SplitChunks.Err(); err != nil {
		return nil, err
	}
	minimizer, err := pluginSlots(e, o.Minimizers)
	if err != nil {
		return nil, err
	}
	return Clean(assign(o.record(),
		Field{Key: "splitChunks", Value: o.SplitChunks.Entries()},
		Field{Key: "minimizer", Value: minimizer},
	)), nil
}

// Merge applies src. Minimizers are merged by name and splitChunks is
// merged as a record or stored as a scalar.
func (o *Optimization) Merge(src map[string]any, omit ...string) *Optimization {
	cm := childMerger{src: src, omit: omit, fail: o.fail}
	cm.named("minimizer", func(name string, child map[string]any) error {
		return o.Minimizer(name).Merge(child).Err()
	})
	if v, ok := cm.has("splitChunks"); ok {
		if m, ok := asMap(v); ok {
			o.fail(o.SplitChunks.Merge(m).Err())
		} else {
			o.SplitChunks.SetValue(v)
		}
	}
	return o.ChainedMap.Merge(src, slices.Concat(omit, []string{"minimizer", "splitChunks"})...)
}

var optimizationShorthands = []string{
	"checkWasmTypes",
	"chunkIds",
	"concatenateModules",
	"emitOnErrors",
	"avoidEntryIife",
	"flagIncludedChunks",
	"innerGraph",
	"mangleExports",
	"mangleWasmImports",
	"mergeDuplicateChunks",
	"minimize",
	"moduleIds",
	"nodeEnv",
	"portableRecords",
	"providedExports",
	"realContentHash",
	"removeAvailableModules",
	"removeEmptyChunks",
	"runtimeChunk",
	"sideEffects",
	"usedExports",
}

// Shorthands lists the field names with a dedicated setter
func (o *Optimization) Shorthands() []string {
	return slices.Clone(optimizationShorthands)
}

func (o *Optimization) CheckWasmTypes(v any) *Optimization { return o.Set("checkWasmTypes", v) }
func (o *Optimization) ChunkIds(v any) *Optimization { return o.Set("chunkIds", v) }
func (o *Optimization) ConcatenateModules(v any) *Optimization { return o.Set("concatenateModules", v) }
func (o *Optimization) EmitOnErrors(v any) *Optimization { return o.Set("emitOnErrors", v) }
func (o *Optimization) AvoidEntryIife(v any) *Optimization { return o.Set("avoidEntryIife", v) }
func (o *Optimization) FlagIncludedChunks(v any) *Optimization { return o.Set("flagIncludedChunks", v) }
func (o *Optimization) InnerGraph(v any) *Optimization { return o.Set("innerGraph", v) }
func (o *Optimization) MangleExports(v any) *Optimization { return o.Set("mangleExports", v) }
func (o *Optimization) MangleWasmImports(v any) *Optimization { return o.Set("mangleWasmImports", v) }
func (o *Optimization) MergeDuplicateChunks(v any) *Optimization { return o.Set("mergeDuplicateChunks", v) }
func (o *Optimization) Minimize(v any) *Optimization { return o.Set("minimize", v) }
func (o *Optimization) ModuleIds(v any) *Optimization { return o.Set("moduleIds", v) }
func (o *Optimization) NodeEnv(v any) *Optimization { return o.Set("nodeEnv", v) }
func (o *Optimization) PortableRecords(v any) *Optimization { return o.Set("portableRecords", v) }
func (o *Optimization) ProvidedExports(v any) *Optimization { return o.Set("providedExports", v) }
func (o *Optimization) RealContentHash(v any) *Optimization { return o.Set("realContentHash", v) }
func (o *Optimization) RemoveAvailableModules(v any) *Optimization { return o.Set("removeAvailableModules", v) }
func (o *Optimization) RemoveEmptyChunks(v any) *Optimization { return o.Set("removeEmptyChunks", v) }
func (o *Optimization) RuntimeChunk(v any) *Optimization { return o.Set("runtimeChunk", v) }
func (o *Optimization) SideEffects(v any) *Optimization { return o.Set("sideEffects", v) }
func (o *Optimization) UsedExports(v any) *Optimization { return o.Set("usedExports", v) }
