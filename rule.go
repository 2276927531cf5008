// File: lixenwraith/chain/rule.go
package chain

import (
	"fmt"
	"regexp"
	"slices"
)

// RuleParent is a node that owns named rules: the module or another rule
type RuleParent interface {
	Rule(name string) *Rule
}

// Rule is a module rule. Rules nest through Rule and OneOf and carry the
// chain of rule steps that leads to them for the annotated rendering.
type Rule struct {
	ChainedMap[RuleParent, *Rule]
	Orderable[*Rule]

	Uses    *Map[*Rule]
	Include *ChainedSet[*Rule]
	Exclude *ChainedSet[*Rule]
	Rules   *Map[*Rule]
	OneOfs  *Map[*Rule]
	Resolve *Resolve[*Rule]

	name  string
	kind  string
	steps []RuleStep
}

// NewRule creates a rule under parent. An empty kind defaults to "rule".
func NewRule(parent RuleParent, name, kind string) *Rule {
	if kind == "" {
		kind = "rule"
	}
	r := &Rule{name: name, kind: kind}
	r.setup(parent, r)
	r.setupOrder(r, r.fail)
	if pr, ok := parent.(*Rule); ok && pr != nil {
		r.steps = slices.Clone(pr.steps)
	}
	r.steps = append(r.steps, RuleStep{Type: kind, Name: name})

	r.Uses = NewMap(r)
	r.Include = NewSet(r)
	r.Exclude = NewSet(r)
	r.Rules = NewMap(r)
	r.OneOfs = NewMap(r)
	r.Resolve = NewResolve(r)
	return r
}

// Name returns the rule name
func (r *Rule) Name() string {
	return r.name
}

// Kind returns the rule type: rule, defaultRule or oneOf
func (r *Rule) Kind() string {
	return r.kind
}

// Steps returns the rule path from the module down to this rule
func (r *Rule) Steps() []RuleStep {
	return slices.Clone(r.steps)
}

// Use returns the named loader use, creating it on first use
func (r *Rule) Use(name string) *Use {
	return r.Uses.GetOrCompute(name, func() any { return NewUse(r, name) }).(*Use)
}

// Rule returns the named nested rule, creating it on first use
func (r *Rule) Rule(name string) *Rule {
	return r.Rules.GetOrCompute(name, func() any { return NewRule(r, name, "rule") }).(*Rule)
}

// OneOf returns the named oneOf rule, creating it on first use
func (r *Rule) OneOf(name string) *Rule {
	return r.OneOfs.GetOrCompute(name, func() any { return NewRule(r, name, "oneOf") }).(*Rule)
}

// Pre sets enforce to "pre"
func (r *Rule) Pre() *Rule {
	return r.Enforce("pre")
}

// Post sets enforce to "post"
func (r *Rule) Post() *Rule {
	return r.Enforce("post")
}

// ToConfig flattens the rule and everything below it
func (r *Rule) ToConfig(opts ...Option) (*Annotated, error) {
	return r.flatten(newEnv(opts))
}

func (r *Rule) flatten(e *env) (*Annotated, error) {
	if err := r.treeErr(); err != nil {
		return nil, err
	}
	nested := func(child *Rule) (any, error) { return child.flatten(e) }
	rules, err := flattenSlots(r.Rules, nested)
	if err != nil {
		return nil, err
	}
	oneOf, err := flattenSlots(r.OneOfs, nested)
	if err != nil {
		return nil, err
	}
	uses, err := flattenSlots(r.Uses, func(u *Use) (any, error) { return u.ToConfig() })
	if err != nil {
		return nil, err
	}
	resolve, err := r.Resolve.flatten(e)
	if err != nil {
		return nil, err
	}

	doc := assign(r.record(),
		Field{Key: "include", Value: r.Include.Values()},
		Field{Key: "exclude", Value: r.Exclude.Values()},
		Field{Key: "rules", Value: rules},
		Field{Key: "oneOf", Value: oneOf},
		Field{Key: "use", Value: uses},
		Field{Key: "resolve", Value: resolve},
	)
	return &Annotated{Record: Clean(doc), Rules: r.Steps()}, nil
}

// Merge applies src. include and exclude append to their sets, use, rules
// and oneOf entries are merged by name and a string test is compiled into a
// regular expression.
func (r *Rule) Merge(src map[string]any, omit ...string) *Rule {
	omit = r.mergeOrdering(src, omit)
	cm := childMerger{src: src, omit: omit, fail: r.fail}

	cm.list("include", func(values []any) { r.Include.Merge(values) })
	cm.list("exclude", func(values []any) { r.Exclude.Merge(values) })
	cm.named("use", func(name string, child map[string]any) error {
		return r.Use(name).Merge(child).Err()
	})
	cm.named("rules", func(name string, child map[string]any) error {
		return r.Rule(name).Merge(child).Err()
	})
	cm.named("oneOf", func(name string, child map[string]any) error {
		return r.OneOf(name).Merge(child).Err()
	})
	cm.record("resolve", func(src map[string]any) error { return r.Resolve.Merge(src).Err() })
	if v, ok := cm.has("test"); ok {
		if pattern, ok := v.(string); ok {
			re, err := regexp.Compile(pattern)
			if err != nil {
				r.fail(fmt.Errorf("rule('%s'): invalid test pattern %q: %w", r.name, pattern, err))
			} else {
				r.Test(re)
			}
		} else {
			r.Test(v)
		}
	}

	return r.ChainedMap.Merge(src, slices.Concat(omit, []string{
		"include", "exclude", "use", "rules", "oneOf", "resolve", "test",
	})...)
}

var ruleShorthands = []string{
	"assert",
	"compiler",
	"enforce",
	"issuer",
	"issuerLayer",
	"layer",
	"mimetype",
	"parser",
	"generator",
	"resource",
	"resourceQuery",
	"scheme",
	"sideEffects",
	"test",
	"type",
	"width",
}

// Shorthands lists the field names with a dedicated setter
func (r *Rule) Shorthands() []string {
	return slices.Clone(ruleShorthands)
}

func (r *Rule) Assert(v any) *Rule { return r.Set("assert", v) }
func (r *Rule) Compiler(v any) *Rule { return r.Set("compiler", v) }
func (r *Rule) Enforce(v any) *Rule { return r.Set("enforce", v) }
func (r *Rule) Issuer(v any) *Rule { return r.Set("issuer", v) }
func (r *Rule) IssuerLayer(v any) *Rule { return r.Set("issuerLayer", v) }
func (r *Rule) Layer(v any) *Rule { return r.Set("layer", v) }
func (r *Rule) Mimetype(v any) *Rule { return r.Set("mimetype", v) }
func (r *Rule) Parser(v any) *Rule { return r.Set("parser", v) }
func (r *Rule) Generator(v any) *Rule { return r.Set("generator", v) }
func (r *Rule) Resource(v any) *Rule { return r.Set("resource", v) }
func (r *Rule) ResourceQuery(v any) *Rule { return r.Set("resourceQuery", v) }
func (r *Rule) Scheme(v any) *Rule { return r.Set("scheme", v) }
func (r *Rule) SideEffects(v any) *Rule { return r.Set("sideEffects", v) }
func (r *Rule) Test(v any) *Rule { return r.Set("test", v) }
func (r *Rule) Type(v any) *Rule { return r.Set("type", v) }
func (r *Rule) Width(v any) *Rule { return r.Set("width", v) }
