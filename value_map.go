// File: lixenwraith/chain/value_map.go
package chain

// ChainedValueMap is a keyed container that can instead hold a single scalar.
// The two states are exclusive: SetValue clears the mapping, and any keyed
// mutation (Set, GetOrCompute, Clear, Merge) clears the scalar.
type ChainedValueMap[P, S any] struct {
	ChainedMap[P, S]
	value    any
	useValue bool
}

func (m *ChainedValueMap[P, S]) setup(parent P, self S) {
	m.ChainedMap.setup(parent, self)
	m.onWrite = m.useMap
}

func (m *ChainedValueMap[P, S]) useMap() {
	m.useValue = false
	m.value = nil
}

// SetValue switches the container to scalar mode holding v and returns the parent
func (m *ChainedValueMap[P, S]) SetValue(v any) P {
	m.keys = nil
	m.store = make(map[string]any)
	m.useValue = true
	m.value = v
	return m.parent
}

// Value returns the scalar and whether the container is in scalar mode
func (m *ChainedValueMap[P, S]) Value() (any, bool) {
	return m.value, m.useValue
}

// Values returns the scalar in scalar mode, otherwise the ordered values
func (m *ChainedValueMap[P, S]) Values() any {
	if m.useValue {
		return m.value
	}
	return m.ChainedMap.Values()
}

// Entries returns the scalar in scalar mode, otherwise the cleaned mapping or nil
func (m *ChainedValueMap[P, S]) Entries() any {
	if m.useValue {
		return m.value
	}
	if r := m.ChainedMap.Entries(); r != nil {
		return r
	}
	return nil
}

// ValueMap is a standalone scalar-or-keyed container
type ValueMap[P any] struct {
	ChainedValueMap[P, *ValueMap[P]]
}

// NewValueMap creates a value map whose End returns parent
func NewValueMap[P any](parent P) *ValueMap[P] {
	m := &ValueMap[P]{}
	m.setup(parent, m)
	return m
}
