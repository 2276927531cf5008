// File: lixenwraith/chain/resolve.go
package chain

import "slices"

// Resolve holds module resolution settings. It is used for resolve,
// resolveLoader and the per-rule resolve record.
type Resolve[P any] struct {
	ChainedMap[P, *Resolve[P]]

	Alias            *Map[*Resolve[P]]
	AliasFields      *ChainedSet[*Resolve[P]]
	ByDependency     *Map[*Resolve[P]]
	ConditionNames   *ChainedSet[*Resolve[P]]
	DescriptionFiles *ChainedSet[*Resolve[P]]
	ExportsFields    *ChainedSet[*Resolve[P]]
	ExtensionAlias   *Map[*Resolve[P]]
	Extensions       *ChainedSet[*Resolve[P]]
	Fallback         *Map[*Resolve[P]]
	ImportsFields    *ChainedSet[*Resolve[P]]
	MainFields       *ChainedSet[*Resolve[P]]
	MainFiles        *ChainedSet[*Resolve[P]]
	Modules          *ChainedSet[*Resolve[P]]
	Plugins          *Map[*Resolve[P]]
	Restrictions     *ChainedSet[*Resolve[P]]
	Roots            *ChainedSet[*Resolve[P]]

	loader bool // resolveLoader lists extensions, mainFields and modules first
}

// NewResolve creates a resolve node under parent
func NewResolve[P any](parent P) *Resolve[P] {
	r := &Resolve[P]{}
	r.setup(parent, r)
	r.Alias = NewMap(r)
	r.AliasFields = NewSet(r)
	r.ByDependency = NewMap(r)
	r.ConditionNames = NewSet(r)
	r.DescriptionFiles = NewSet(r)
	r.ExportsFields = NewSet(r)
	r.ExtensionAlias = NewMap(r)
	r.Extensions = NewSet(r)
	r.Fallback = NewMap(r)
	r.ImportsFields = NewSet(r)
	r.MainFields = NewSet(r)
	r.MainFiles = NewSet(r)
	r.Modules = NewSet(r)
	r.Plugins = NewMap(r)
	r.Restrictions = NewSet(r)
	r.Roots = NewSet(r)
	return r
}

// NewResolveLoader creates the resolveLoader node of parent
func NewResolveLoader(parent *Config) *Resolve[*Config] {
	r := NewResolve(parent)
	r.loader = true
	return r
}

// Plugin returns the named resolver plugin slot, creating it on first use
func (r *Resolve[P]) Plugin(name string) *Plugin[*Resolve[P]] {
	return r.Plugins.GetOrCompute(name, func() any {
		return NewPlugin(r, name, "resolve.plugin")
	}).(*Plugin[*Resolve[P]])
}

func (r *Resolve[P]) sets() map[string]*ChainedSet[*Resolve[P]] {
	return map[string]*ChainedSet[*Resolve[P]]{
		"aliasFields":      r.AliasFields,
		"conditionNames":   r.ConditionNames,
		"descriptionFiles": r.DescriptionFiles,
		"exportsFields":    r.ExportsFields,
		"extensions":       r.Extensions,
		"importsFields":    r.ImportsFields,
		"mainFields":       r.MainFields,
		"mainFiles":        r.MainFiles,
		"modules":          r.Modules,
		"restrictions":     r.Restrictions,
		"roots":            r.Roots,
	}
}

func (r *Resolve[P]) maps() map[string]*Map[*Resolve[P]] {
	return map[string]*Map[*Resolve[P]]{
		"alias":          r.Alias,
		"byDependency":   r.ByDependency,
		"extensionAlias": r.ExtensionAlias,
		"fallback":       r.Fallback,
	}
}

// ToConfig flattens the node, constructing every resolver plugin
func (r *Resolve[P]) ToConfig(opts ...Option) (Record, error) {
	return r.flatten(newEnv(opts))
}

func (r *Resolve[P]) flatten(e *env) (Record, error) {
	if err := r.Err(); err != nil {
		return nil, err
	}
	for _, m := range r.maps() {
		if err := m.Err(); err != nil {
			return nil, err
		}
	}
	plugins, err := pluginSlots(e, r.Plugins)
	if err != nil {
		return nil, err
	}

	doc := assign(r.record(),
		Field{Key: "alias", Value: r.Alias.Entries()},
		Field{Key: "aliasFields", Value: r.AliasFields.Values()},
		Field{Key: "byDependency", Value: r.ByDependency.Entries()},
		Field{Key: "conditionNames", Value: r.ConditionNames.Values()},
		Field{Key: "descriptionFiles", Value: r.DescriptionFiles.Values()},
		Field{Key: "exportsFields", Value: r.ExportsFields.Values()},
		Field{Key: "extensionAlias", Value: r.ExtensionAlias.Entries()},
		Field{Key: "extensions", Value: r.Extensions.Values()},
		Field{Key: "fallback", Value: r.Fallback.Entries()},
		Field{Key: "importsFields", Value: r.ImportsFields.Values()},
		Field{Key: "mainFields", Value: r.MainFields.Values()},
		Field{Key: "mainFiles", Value: r.MainFiles.Values()},
		Field{Key: "modules", Value: r.Modules.Values()},
		Field{Key: "plugins", Value: plugins},
		Field{Key: "restrictions", Value: r.Restrictions.Values()},
		Field{Key: "roots", Value: r.Roots.Values()},
	)
	if r.loader {
		doc = front(doc, "extensions", "mainFields", "modules")
	}
	return Clean(doc), nil
}

// Merge applies src. List keys append to their sets, record keys merge into
// their maps and plugin entries are merged by name.
func (r *Resolve[P]) Merge(src map[string]any, omit ...string) *Resolve[P] {
	cm := childMerger{src: src, omit: omit, fail: r.fail}
	cm.named("plugin", func(name string, child map[string]any) error {
		return r.Plugin(name).Merge(child).Err()
	})

	sets, maps := r.sets(), r.maps()
	for _, key := range sortedKeys(sets) {
		set := sets[key]
		cm.list(key, func(values []any) { set.Merge(values) })
	}
	for _, key := range sortedKeys(maps) {
		m := maps[key]
		cm.record(key, func(src map[string]any) error { return m.Merge(src).Err() })
	}

	omit = slices.Concat(omit, []string{"plugin"}, sortedKeys(sets), sortedKeys(maps))
	return r.ChainedMap.Merge(src, omit...)
}

var resolveShorthands = []string{
	"cache",
	"cachePredicate",
	"cacheWithContext",
	"enforceExtension",
	"fullySpecified",
	"preferAbsolute",
	"preferRelative",
	"symlinks",
	"unsafeCache",
	"useSyncFileSystemCalls",
}

// Shorthands lists the field names with a dedicated setter
func (r *Resolve[P]) Shorthands() []string {
	return slices.Clone(resolveShorthands)
}

func (r *Resolve[P]) Cache(v any) *Resolve[P] { return r.Set("cache", v) }
func (r *Resolve[P]) CachePredicate(v any) *Resolve[P] { return r.Set("cachePredicate", v) }
func (r *Resolve[P]) CacheWithContext(v any) *Resolve[P] { return r.Set("cacheWithContext", v) }
func (r *Resolve[P]) EnforceExtension(v any) *Resolve[P] { return r.Set("enforceExtension", v) }
func (r *Resolve[P]) FullySpecified(v any) *Resolve[P] { return r.Set("fullySpecified", v) }
func (r *Resolve[P]) PreferAbsolute(v any) *Resolve[P] { return r.Set("preferAbsolute", v) }
func (r *Resolve[P]) PreferRelative(v any) *Resolve[P] { return r.Set("preferRelative", v) }
func (r *Resolve[P]) Symlinks(v any) *Resolve[P] { return r.Set("symlinks", v) }
func (r *Resolve[P]) UnsafeCache(v any) *Resolve[P] { return r.Set("unsafeCache", v) }
func (r *Resolve[P]) UseSyncFileSystemCalls(v any) *Resolve[P] { return r.Set("useSyncFileSystemCalls", v) }
