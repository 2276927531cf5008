// File: lixenwraith/chain/record.go
package chain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Field is a single key/value entry of a Record
type Field struct {
	Key   string
	Value any
}

// Record is an ordered plain record, the document shape produced by flattening.
// A nil Record is the "no value" result; builders never hand out an empty non-nil one.
type Record []Field

// Get returns the value stored under key
func (r Record) Get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present
func (r Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Keys returns the keys in order
func (r Record) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}

// With returns a copy of r with key set to value. An existing key keeps its position.
func (r Record) With(key string, value any) Record {
	out := make(Record, len(r), len(r)+1)
	copy(out, r)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Field{Key: key, Value: value})
}

// Map converts the record into nested plain Go maps and slices
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r))
	for _, f := range r {
		m[f.Key] = Plain(f.Value)
	}
	return m
}

// Plain strips ordering and provenance from a document value, returning nested
// map[string]any / []any structures with resolved plugin instances unwrapped.
func Plain(v any) any {
	switch x := v.(type) {
	case Record:
		if x == nil {
			return nil
		}
		return x.Map()
	case *Annotated:
		return Plain(x.Record)
	case *Instance:
		return x.Value
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, val := range x {
			m[k] = Plain(val)
		}
		return m
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = Plain(val)
		}
		return out
	default:
		return v
	}
}

// Lookup traverses a dot-separated path through nested records and maps
func (r Record) Lookup(path string) (any, bool) {
	path = strings.Trim(path, ".")
	if path == "" {
		return r, true
	}

	var current any = r
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case Record:
			value, ok := node.Get(segment)
			if !ok {
				return nil, false
			}
			current = value
		case *Annotated:
			value, ok := node.Record.Get(segment)
			if !ok {
				return nil, false
			}
			current = value
		case map[string]any:
			value, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = value
		default:
			return nil, false
		}
	}
	return current, true
}

// MarshalJSON encodes the record as a JSON object preserving key order
func (r Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal key %q: %w", f.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the record as an ordered YAML mapping
func (r Record) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range r {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(f.Value); err != nil {
			return nil, fmt.Errorf("failed to marshal key %q: %w", f.Key, err)
		}
		node.Content = append(node.Content, keyNode, valueNode)
	}
	return node, nil
}
