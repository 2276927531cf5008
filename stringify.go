// File: lixenwraith/chain/stringify.go
package chain

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"
)

const longFunctionLimit = 100

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// StringOption configures Stringify
type StringOption func(*encState)

// Verbose disables abbreviation of long functions and prints functions by
// their package-qualified symbol name
func Verbose(v bool) StringOption {
	return func(es *encState) { es.verbose = v }
}

// Prefix sets the root name used in path comments, "config" by default
func Prefix(p string) StringOption {
	return func(es *encState) { es.prefix = p }
}

// Indent sets the number of spaces per nesting level, 2 by default
func Indent(n int) StringOption {
	return func(es *encState) {
		if n >= 0 {
			es.indent = n
		}
	}
}

// FunctionLimit sets the length of a function's package-qualified symbol name
// above which it is abbreviated, 100 by default
func FunctionLimit(n int) StringOption {
	return func(es *encState) {
		if n >= 0 {
			es.funcLimit = n
		}
	}
}

// Colorize formats tokens with c
func Colorize(c *Colors) StringOption {
	return func(es *encState) { es.colors = c }
}

type encState struct {
	buf       strings.Builder
	depth     int
	indent    int
	funcLimit int
	verbose   bool
	prefix    string
	colors    *Colors
}

// Stringify renders a flattened document as annotated, indented source text.
// Resolved plugins become constructor calls and rule records are preceded by
// a comment naming the builder path that produced them.
func Stringify(v any, opts ...StringOption) string {
	es := &encState{
		indent:    2,
		funcLimit: longFunctionLimit,
		prefix:    "config",
	}
	for _, opt := range opts {
		opt(es)
	}
	es.value(v)
	return es.buf.String()
}

func (es *encState) write(s string) {
	es.buf.WriteString(s)
}

func (es *encState) color(a ColorAttr, s string) {
	es.buf.WriteString(es.colors.Color(a, s))
}

func (es *encState) nl() {
	es.buf.WriteByte('\n')
	es.buf.WriteString(strings.Repeat(" ", es.indent*es.depth))
}

func (es *encState) comment(path string) {
	es.color(CommentColor, "/* "+path+" */")
	es.nl()
}

func (es *encState) value(v any) {
	switch x := v.(type) {
	case nil:
		es.color(LiteralColor, "null")
		return
	case *Instance:
		if x == nil {
			es.color(LiteralColor, "null")
			return
		}
		es.instance(x)
		return
	case *Annotated:
		if x == nil {
			es.color(LiteralColor, "null")
			return
		}
		es.annotated(x)
		return
	case Expressive:
		es.color(ExprColor, x.Expression())
		return
	case Record:
		es.record(x)
		return
	case *regexp.Regexp:
		if x == nil {
			es.color(LiteralColor, "null")
			return
		}
		es.color(LiteralColor, "/"+escapeSlashes(x.String())+"/")
		return
	case json.Number:
		es.color(NumberColor, x.String())
		return
	case string:
		es.color(StringColor, quote(x))
		return
	case bool:
		es.color(LiteralColor, strconv.FormatBool(x))
		return
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			es.color(LiteralColor, "null")
			return
		}
	}
	if s, ok := v.(fmt.Stringer); ok {
		es.color(StringColor, quote(s.String()))
		return
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		es.color(NumberColor, strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		es.color(NumberColor, strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		es.color(NumberColor, formatFloat(rv.Float()))
	case reflect.String:
		es.color(StringColor, quote(rv.String()))
	case reflect.Bool:
		es.color(LiteralColor, strconv.FormatBool(rv.Bool()))
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			es.write("[]")
			return
		}
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		es.list(items)
	case reflect.Map:
		es.record(mapFields(rv))
	case reflect.Struct:
		es.record(structFields(rv))
	case reflect.Pointer, reflect.Interface:
		es.value(rv.Elem().Interface())
	case reflect.Func:
		es.function(rv)
	default:
		es.color(StringColor, quote(fmt.Sprint(v)))
	}
}

func (es *encState) record(fields []Field) {
	if len(fields) == 0 {
		es.write("{}")
		return
	}
	es.write("{")
	es.depth++
	for i, f := range fields {
		if i > 0 {
			es.write(",")
		}
		es.nl()
		es.color(KeyColor, key(f.Key))
		es.write(": ")
		es.value(f.Value)
	}
	es.depth--
	es.nl()
	es.write("}")
}

func (es *encState) list(items []any) {
	if len(items) == 0 {
		es.write("[]")
		return
	}
	es.write("[")
	es.items(items)
	es.write("]")
}

// items writes each value on its own line one level deeper, closing on a new line
func (es *encState) items(items []any) {
	es.depth++
	for i, item := range items {
		if i > 0 {
			es.write(",")
		}
		es.nl()
		es.value(item)
	}
	es.depth--
	es.nl()
}

func (es *encState) instance(inst *Instance) {
	es.comment(fmt.Sprintf("%s.%s('%s')", es.prefix, inst.Type, inst.Name))

	ctor := inst.DisplayName
	if inst.Path != "" {
		ctor = "(require(" + quote(inst.Path) + "))"
	}
	if ctor == "" {
		es.value(inst.Value)
		return
	}

	es.color(ExprColor, ctor)
	es.write("(")
	if len(inst.Args) > 0 {
		es.items(inst.Args)
	}
	es.write(")")
}

func (es *encState) annotated(a *Annotated) {
	if len(a.Rules) > 0 || a.Use != "" {
		var path strings.Builder
		path.WriteString(es.prefix)
		path.WriteString(".module")
		for _, step := range a.Rules {
			fmt.Fprintf(&path, ".%s('%s')", step.Type, step.Name)
		}
		if a.Use != "" {
			fmt.Fprintf(&path, ".use('%s')", a.Use)
		}
		es.comment(path.String())
	}
	es.record(a.Record)
}

func (es *encState) function(rv reflect.Value) {
	if rv.IsNil() {
		es.color(LiteralColor, "null")
		return
	}
	full := ""
	if f := runtime.FuncForPC(rv.Pointer()); f != nil {
		full = f.Name()
	}
	if !es.verbose && len(full) > es.funcLimit {
		es.color(LiteralColor, "func() { /* omitted long function */ }")
		return
	}
	name := funcName(rv.Interface())
	if es.verbose {
		name = full
	}
	if name == "" {
		name = "func() {}"
	}
	es.color(LiteralColor, name)
}

func mapFields(rv reflect.Value) []Field {
	fields := make([]Field, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		fields = append(fields, Field{Key: fmt.Sprint(iter.Key().Interface()), Value: iter.Value().Interface()})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })
	return fields
}

// structFields lists exported fields in declaration order under their json names
func structFields(rv reflect.Value) []Field {
	t := rv.Type()
	fields := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Name
		if tag := sf.Tag.Get("json"); tag != "" {
			tagName, opts, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
			if strings.Contains(opts, "omitempty") && rv.Field(i).IsZero() {
				continue
			}
		}
		fields = append(fields, Field{Key: name, Value: rv.Field(i).Interface()})
	}
	return fields
}

func key(k string) string {
	if identifierPattern.MatchString(k) {
		return k
	}
	return quote(k)
}

// quote renders s as a single-quoted string literal
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case 0:
			b.WriteString(`\0`)
		case '\u2028', '\u2029':
			fmt.Fprintf(&b, `\u%04X`, r)
		default:
			if r < 0x20 || (r >= 0x7f && r <= 0x9f) {
				fmt.Fprintf(&b, `\x%02X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// escapeSlashes escapes forward slashes not already escaped in a pattern
func escapeSlashes(pattern string) string {
	var b strings.Builder
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '/':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == math.Trunc(f) && math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
