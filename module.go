// File: lixenwraith/chain/module.go
package chain

import "slices"

// Module holds the module.* settings and the rule trees
type Module struct {
	ChainedMap[*Config, *Module]

	Rules        *Map[*Module]
	DefaultRules *Map[*Module]
	Generator    *Map[*Module]
	Parser       *Map[*Module]
}

// NewModule creates the module node of parent
func NewModule(parent *Config) *Module {
	m := &Module{}
	m.setup(parent, m)
	m.Rules = NewMap(m)
	m.DefaultRules = NewMap(m)
	m.Generator = NewMap(m)
	m.Parser = NewMap(m)
	return m
}

// Rule returns the named rule, creating it on first use
func (m *Module) Rule(name string) *Rule {
	return m.Rules.GetOrCompute(name, func() any { return NewRule(m, name, "rule") }).(*Rule)
}

// DefaultRule returns the named default rule, creating it on first use
func (m *Module) DefaultRule(name string) *Rule {
	return m.DefaultRules.GetOrCompute(name, func() any { return NewRule(m, name, "defaultRule") }).(*Rule)
}

// ToConfig flattens the module and every rule below it
func (m *Module) ToConfig(opts ...Option) (Record, error) {
	return m.flatten(newEnv(opts))
}

func (m *Module) flatten(e *env) (Record, error) {
	if err := m.Err(); err != nil {
		return nil, err
	}
	if err := m.Generator.Err(); err != nil {
		return nil, err
	}
	if err := m.Parser.Err(); err != nil {
		return nil, err
	}
	rule := func(r *Rule) (any, error) { return r.flatten(e) }
	defaultRules, err := flattenSlots(m.DefaultRules, rule)
	if err != nil {
		return nil, err
	}
	rules, err := flattenSlots(m.Rules, rule)
	if err != nil {
		return nil, err
	}

	return Clean(assign(m.record(),
		Field{Key: "defaultRules", Value: defaultRules},
		Field{Key: "generator", Value: m.Generator.Entries()},
		Field{Key: "parser", Value: m.Parser.Entries()},
		Field{Key: "rules", Value: rules},
	)), nil
}

// Merge applies src. rule and defaultRule entries are merged by name and
// generator and parser records merge into their maps.
func (m *Module) Merge(src map[string]any, omit ...string) *Module {
	cm := childMerger{src: src, omit: omit, fail: m.fail}
	cm.named("rule", func(name string, child map[string]any) error {
		return m.Rule(name).Merge(child).Err()
	})
	cm.named("defaultRule", func(name string, child map[string]any) error {
		return m.DefaultRule(name).Merge(child).Err()
	})
	cm.record("generator", func(src map[string]any) error { return m.Generator.Merge(src).Err() })
	cm.record("parser", func(src map[string]any) error { return m.Parser.Merge(src).Err() })
	return m.ChainedMap.Merge(src, slices.Concat(omit, []string{"rule", "defaultRule", "generator", "parser"})...)
}

var moduleShorthands = []string{
	"noParse",
	"unsafeCache",
	"exprContextCritical",
	"exprContextRecursive",
	"exprContextRegExp",
	"unknownContextCritical",
	"unknownContextRecursive",
	"unknownContextRegExp",
	"unknownContextRequest",
	"wrappedContextCritical",
	"wrappedContextRecursive",
	"wrappedContextRegExp",
	"strictExportPresence",
}

// Shorthands lists the field names with a dedicated setter
func (m *Module) Shorthands() []string {
	return slices.Clone(moduleShorthands)
}

func (m *Module) NoParse(v any) *Module { return m.Set("noParse", v) }
func (m *Module) UnsafeCache(v any) *Module { return m.Set("unsafeCache", v) }
func (m *Module) ExprContextCritical(v any) *Module { return m.Set("exprContextCritical", v) }
func (m *Module) ExprContextRecursive(v any) *Module { return m.Set("exprContextRecursive", v) }
func (m *Module) ExprContextRegExp(v any) *Module { return m.Set("exprContextRegExp", v) }
func (m *Module) UnknownContextCritical(v any) *Module { return m.Set("unknownContextCritical", v) }
func (m *Module) UnknownContextRecursive(v any) *Module { return m.Set("unknownContextRecursive", v) }
func (m *Module) UnknownContextRegExp(v any) *Module { return m.Set("unknownContextRegExp", v) }
func (m *Module) UnknownContextRequest(v any) *Module { return m.Set("unknownContextRequest", v) }
func (m *Module) WrappedContextCritical(v any) *Module { return m.Set("wrappedContextCritical", v) }
func (m *Module) WrappedContextRecursive(v any) *Module { return m.Set("wrappedContextRecursive", v) }
func (m *Module) WrappedContextRegExp(v any) *Module { return m.Set("wrappedContextRegExp", v) }
func (m *Module) StrictExportPresence(v any) *Module { return m.Set("strictExportPresence", v) }
