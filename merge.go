// File: lixenwraith/chain/merge.go
package chain

import (
	"reflect"
	"slices"
	"sort"
)

// isRecord reports whether v is a plain nested record eligible for deep merge
func isRecord(v any) bool {
	switch v.(type) {
	case Record, map[string]any:
		return true
	}
	return false
}

// sortedKeys returns the keys of m in lexical order
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// recordFields iterates a plain record source in a deterministic order
func recordFields(v any) []Field {
	switch src := v.(type) {
	case Record:
		return src
	case map[string]any:
		fields := make([]Field, 0, len(src))
		for _, k := range sortedKeys(src) {
			fields = append(fields, Field{Key: k, Value: src[k]})
		}
		return fields
	}
	return nil
}

// mergeValue merges src into dst. Plain records merge key by key with src winning
// on conflicts; anything else, lists included, is replaced by src.
func mergeValue(dst, src any) any {
	return mergeWith(dst, src, false)
}

// mergeDeep is mergeValue with lists concatenated instead of replaced
func mergeDeep(dst, src any) any {
	return mergeWith(dst, src, true)
}

func mergeWith(dst, src any, concat bool) any {
	if concat && dst != nil && src != nil {
		dl, dok := asList(dst)
		sl, sok := asList(src)
		if dok && sok {
			return slices.Concat(dl, sl)
		}
	}
	if !isRecord(dst) || !isRecord(src) {
		return src
	}

	switch d := dst.(type) {
	case Record:
		out := slices.Clone(d)
		for _, f := range recordFields(src) {
			existing, _ := out.Get(f.Key)
			out = out.With(f.Key, mergeWith(existing, f.Value, concat))
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(d))
		for k, v := range d {
			out[k] = v
		}
		for _, f := range recordFields(src) {
			out[f.Key] = mergeWith(out[f.Key], f.Value, concat)
		}
		return out
	}
	return src
}

// asMap returns v as a map source for Merge
func asMap(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case map[string]any:
		return x, true
	case Record:
		return x.Map(), true
	}
	return nil, false
}

// toList normalises a value into a list, wrapping scalars
func toList(v any) []any {
	if v == nil {
		return nil
	}
	if list, ok := asList(v); ok {
		return list
	}
	return []any{v}
}

// asList converts any slice or array kind into []any
func asList(v any) ([]any, bool) {
	if list, ok := v.([]any); ok {
		return list, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	list := make([]any, rv.Len())
	for i := range list {
		list[i] = rv.Index(i).Interface()
	}
	return list, true
}

// Clean returns a copy of r without nil values, empty lists and empty records.
// Nested records are cleaned first, so a record emptied by cleaning is pruned too.
// The result is nil when nothing remains.
func Clean(r Record) Record {
	var out Record
	for _, f := range r {
		if v, keep := cleanValue(f.Value); keep {
			out = append(out, Field{Key: f.Key, Value: v})
		}
	}
	return out
}

func cleanMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if cleaned, keep := cleanValue(v); keep {
			out[k] = cleaned
		}
	}
	return out
}

func cleanValue(v any) (any, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case Record:
		cleaned := Clean(x)
		return cleaned, len(cleaned) > 0
	case map[string]any:
		cleaned := cleanMap(x)
		return cleaned, len(cleaned) > 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return v, rv.Len() > 0
	case reflect.Pointer, reflect.Interface, reflect.Func:
		return v, !rv.IsNil()
	}
	return v, true
}
