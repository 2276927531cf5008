// File: lixenwraith/chain/flatten.go
package chain

import (
	"fmt"
	"slices"
)

// flattenSlots flattens every child of slots of type N in linearized order.
// A construction error recorded on any child is returned before ordering is
// checked. Children ordered against a missing sibling fail the whole pass.
func flattenSlots[P, N any](slots *Map[P], flatten func(N) (any, error)) ([]any, error) {
	if err := slots.Err(); err != nil {
		return nil, err
	}
	if err := slotsErr(slots); err != nil {
		return nil, err
	}
	keys, err := slots.OrderedKeys()
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(keys))
	for _, key := range keys {
		node, ok := slots.Get(key).(N)
		if !ok {
			continue
		}
		v, err := flatten(node)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// slotsErr returns the first construction error recorded on slots or on any
// node below it, in insertion order
func slotsErr[P any](slots *Map[P]) error {
	if err := slots.Err(); err != nil {
		return err
	}
	for _, key := range slots.Keys() {
		var err error
		switch child := slots.Get(key).(type) {
		case interface{ treeErr() error }:
			err = child.treeErr()
		case interface{ Err() error }:
			err = child.Err()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// firstErr returns the first non-nil error of errs
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) treeErr() error {
	return firstErr(
		c.Err(),
		slotsErr(c.EntryPoints),
		c.Output.Err(),
		c.Resolve.treeErr(),
		c.ResolveLoader.treeErr(),
		c.DevServer.Err(),
		c.DevServer.AllowedHosts.Err(),
		c.Module.treeErr(),
		c.Optimization.treeErr(),
		slotsErr(c.Plugins),
		c.Performance.Err(),
	)
}

func (m *Module) treeErr() error {
	return firstErr(m.Err(), m.Generator.Err(), m.Parser.Err(),
		slotsErr(m.DefaultRules), slotsErr(m.Rules))
}

func (r *Rule) treeErr() error {
	return firstErr(
		r.Err(),
		r.Include.Err(),
		r.Exclude.Err(),
		slotsErr(r.Rules),
		slotsErr(r.OneOfs),
		slotsErr(r.Uses),
		r.Resolve.treeErr(),
	)
}

func (r *Resolve[P]) treeErr() error {
	if err := r.Err(); err != nil {
		return err
	}
	for _, m := range r.maps() {
		if err := m.Err(); err != nil {
			return err
		}
	}
	return slotsErr(r.Plugins)
}

func (o *Optimization) treeErr() error {
	return firstErr(o.Err(), o.SplitChunks.Err(), slotsErr(o.Minimizers))
}

// pluginSlots flattens a map of plugin slots into resolved instances
func pluginSlots[P any](e *env, slots *Map[P]) ([]any, error) {
	return flattenSlots(slots, func(p *Plugin[P]) (any, error) {
		return p.resolve(e)
	})
}

// assign sets each field on base, replacing existing keys in place
func assign(base Record, fields ...Field) Record {
	for _, f := range fields {
		base = base.With(f.Key, f.Value)
	}
	return base
}

// front moves keys to the start of r in the given order
func front(r Record, keys ...string) Record {
	out := make(Record, 0, len(r))
	for _, k := range keys {
		if v, ok := r.Get(k); ok {
			out = append(out, Field{Key: k, Value: v})
		}
	}
	for _, f := range r {
		if !slices.Contains(keys, f.Key) {
			out = append(out, f)
		}
	}
	return out
}

// childMerger routes a merge source key into a child node and absorbs its error
type childMerger struct {
	src  map[string]any
	omit []string
	fail func(error)
}

func (cm childMerger) has(key string) (any, bool) {
	if slices.Contains(cm.omit, key) {
		return nil, false
	}
	v, ok := cm.src[key]
	return v, ok
}

// record applies a record-valued key with merge
func (cm childMerger) record(key string, merge func(map[string]any) error) {
	v, ok := cm.has(key)
	if !ok {
		return
	}
	m, ok := asMap(v)
	if !ok {
		cm.fail(fmt.Errorf("merge %q: expected a record, got %T", key, v))
		return
	}
	cm.fail(merge(m))
}

// list applies a list-valued key with merge, wrapping scalars
func (cm childMerger) list(key string, merge func([]any)) {
	if v, ok := cm.has(key); ok {
		merge(toList(v))
	}
}

// named applies a record of named child records, creating each child in key order
func (cm childMerger) named(key string, merge func(name string, src map[string]any) error) {
	cm.record(key, func(m map[string]any) error {
		for _, name := range sortedKeys(m) {
			child, ok := asMap(m[name])
			if !ok {
				return fmt.Errorf("merge %s.%s: expected a record, got %T", key, name, m[name])
			}
			if err := merge(name, child); err != nil {
				return err
			}
		}
		return nil
	})
}
