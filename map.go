// File: lixenwraith/chain/map.go
package chain

import (
	"fmt"
	"slices"

	"github.com/mitchellh/mapstructure"
)

// ChainedMap is an insertion-ordered string-keyed container. Re-setting a key
// replaces its value without moving it.
type ChainedMap[P, S any] struct {
	Chainable[P, S]
	keys    []string
	store   map[string]any
	onWrite func() // runs before every keyed mutation
}

func (m *ChainedMap[P, S]) setup(parent P, self S) {
	m.setupChain(parent, self)
	m.store = make(map[string]any)
}

func (m *ChainedMap[P, S]) touch() {
	if m.onWrite != nil {
		m.onWrite()
	}
}

func (m *ChainedMap[P, S]) put(key string, value any) {
	if _, exists := m.store[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.store[key] = value
}

// Set stores value under key
func (m *ChainedMap[P, S]) Set(key string, value any) S {
	m.touch()
	m.put(key, value)
	return m.self
}

// Get returns the value stored under key, nil if absent
func (m *ChainedMap[P, S]) Get(key string) any {
	return m.store[key]
}

// GetOrCompute returns the value under key, computing and storing it with fn when missing
func (m *ChainedMap[P, S]) GetOrCompute(key string, fn func() any) any {
	m.touch()
	if value, exists := m.store[key]; exists {
		return value
	}
	value := fn()
	m.put(key, value)
	return value
}

// Has reports whether key is present
func (m *ChainedMap[P, S]) Has(key string) bool {
	_, exists := m.store[key]
	return exists
}

// Delete removes key
func (m *ChainedMap[P, S]) Delete(key string) S {
	if _, exists := m.store[key]; exists {
		delete(m.store, key)
		m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
	}
	return m.self
}

// Clear empties the container
func (m *ChainedMap[P, S]) Clear() S {
	m.touch()
	m.keys = nil
	m.store = make(map[string]any)
	return m.self
}

// Len returns the number of keys
func (m *ChainedMap[P, S]) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order
func (m *ChainedMap[P, S]) Keys() []string {
	return slices.Clone(m.keys)
}

func (m *ChainedMap[P, S]) orderingOf(key string) Ordering {
	if o, ok := m.store[key].(Ordered); ok {
		return o.Ordering()
	}
	return Ordering{}
}

// OrderedKeys returns the keys linearized by their children's orderings.
// A before/after target that is not a sibling yields ErrUnknownOrderingTarget.
func (m *ChainedMap[P, S]) OrderedKeys() ([]string, error) {
	return linearize(m.keys, m.orderingOf, true)
}

func (m *ChainedMap[P, S]) lenientKeys() []string {
	keys, _ := linearize(m.keys, m.orderingOf, false)
	return keys
}

// Values returns the stored values in linearized order.
// Children ordered against unknown siblings keep their insertion position.
func (m *ChainedMap[P, S]) Values() []any {
	keys := m.lenientKeys()
	values := make([]any, len(keys))
	for i, k := range keys {
		values[i] = m.store[k]
	}
	return values
}

// Entries returns a cleaned snapshot of the mapping, nil when it is empty
func (m *ChainedMap[P, S]) Entries() Record {
	return Clean(m.record())
}

func (m *ChainedMap[P, S]) record() Record {
	keys := m.lenientKeys()
	if len(keys) == 0 {
		return nil
	}
	r := make(Record, len(keys))
	for i, k := range keys {
		r[i] = Field{Key: k, Value: m.store[k]}
	}
	return r
}

// Merge applies every key of src not listed in omit. Plain nested records are
// merged recursively with src winning on conflicts; other values replace the
// stored value. Keys are applied in lexical order.
func (m *ChainedMap[P, S]) Merge(src map[string]any, omit ...string) S {
	for _, key := range sortedKeys(src) {
		if slices.Contains(omit, key) {
			continue
		}
		m.touch()
		existing, exists := m.store[key]
		if exists {
			m.put(key, mergeValue(existing, src[key]))
		} else {
			m.put(key, src[key])
		}
	}
	return m.self
}

// MergeStruct converts a tagged struct into a record using its json tags and merges it
func (m *ChainedMap[P, S]) MergeStruct(v any, omit ...string) S {
	src := make(map[string]any)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &src,
		TagName: "json",
	})
	if err != nil {
		m.fail(fmt.Errorf("decoder creation failed: %w", err))
		return m.self
	}
	if err := decoder.Decode(v); err != nil {
		m.fail(fmt.Errorf("failed to decode %T: %w", v, err))
		return m.self
	}
	return m.Merge(src, omit...)
}

// Map is a standalone keyed container
type Map[P any] struct {
	ChainedMap[P, *Map[P]]
}

// NewMap creates a keyed container whose End returns parent
func NewMap[P any](parent P) *Map[P] {
	m := &Map[P]{}
	m.setup(parent, m)
	return m
}
