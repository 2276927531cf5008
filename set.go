// File: lixenwraith/chain/set.go
package chain

import (
	"reflect"
	"slices"
)

// ChainedSet is an ordered, duplicate-free sequence
type ChainedSet[P any] struct {
	Chainable[P, *ChainedSet[P]]
	store []any
}

// NewSet creates a set whose End returns parent
func NewSet[P any](parent P) *ChainedSet[P] {
	s := &ChainedSet[P]{}
	s.setupChain(parent, s)
	return s
}

// sameValue compares comparable values with == and everything else structurally.
// Functions compare by code pointer.
func sameValue(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta == nil {
		return true
	}
	if ta.Kind() == reflect.Func {
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	}
	if ta.Comparable() && ta.Kind() != reflect.Array && ta.Kind() != reflect.Struct {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

func (s *ChainedSet[P]) index(value any) int {
	return slices.IndexFunc(s.store, func(v any) bool { return sameValue(v, value) })
}

// Add appends value unless it is already present
func (s *ChainedSet[P]) Add(value any) *ChainedSet[P] {
	if s.index(value) < 0 {
		s.store = append(s.store, value)
	}
	return s
}

// Prepend inserts value at the front unless it is already present
func (s *ChainedSet[P]) Prepend(value any) *ChainedSet[P] {
	if s.index(value) < 0 {
		s.store = slices.Insert(s.store, 0, value)
	}
	return s
}

// Delete removes value
func (s *ChainedSet[P]) Delete(value any) *ChainedSet[P] {
	if i := s.index(value); i >= 0 {
		s.store = slices.Delete(s.store, i, i+1)
	}
	return s
}

// Clear empties the set
func (s *ChainedSet[P]) Clear() *ChainedSet[P] {
	s.store = nil
	return s
}

// Has reports whether value is present
func (s *ChainedSet[P]) Has(value any) bool {
	return s.index(value) >= 0
}

// Len returns the number of values
func (s *ChainedSet[P]) Len() int {
	return len(s.store)
}

// Values returns the values in order, nil when empty
func (s *ChainedSet[P]) Values() []any {
	if len(s.store) == 0 {
		return nil
	}
	return slices.Clone(s.store)
}

// Merge appends each value in order, skipping values already present
func (s *ChainedSet[P]) Merge(values []any) *ChainedSet[P] {
	for _, v := range values {
		s.Add(v)
	}
	return s
}
