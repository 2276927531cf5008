// File: lixenwraith/chain/plugin.go
package chain

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"slices"
	"strings"
)

// InitFunc builds a plugin instance from its reference and arguments,
// replacing the default construction
type InitFunc func(ref any, args []any) (any, error)

// Plugin is a deferred plugin declaration. The reference given to Use is only
// resolved and constructed when the owning document is flattened.
type Plugin[P any] struct {
	ChainedMap[P, *Plugin[P]]
	Orderable[*Plugin[P]]
	name string
	kind string
}

// NewPlugin creates a plugin slot. An empty kind defaults to "plugin".
func NewPlugin[P any](parent P, name, kind string) *Plugin[P] {
	if kind == "" {
		kind = "plugin"
	}
	p := &Plugin[P]{name: name, kind: kind}
	p.setup(parent, p)
	p.setupOrder(p, p.fail)
	return p
}

// Name returns the slot name
func (p *Plugin[P]) Name() string {
	return p.name
}

// Kind returns the slot type used in messages and annotations
func (p *Plugin[P]) Kind() string {
	return p.kind
}

// Set stores value under key. Values stored under "args" must be list-shaped.
func (p *Plugin[P]) Set(key string, value any) *Plugin[P] {
	if key == "args" {
		args, ok := asList(value)
		if !ok {
			p.fail(&PluginError{
				Kind:    p.kind,
				Name:    p.name,
				Message: ErrInvalidArgumentShape.Error(),
				Err:     ErrInvalidArgumentShape,
			})
			return p
		}
		value = args
	}
	return p.ChainedMap.Set(key, value)
}

// Use sets the plugin reference and its constructor arguments.
// ref is a constructor func, a string path for the resolver, an ExprRef or a
// ready instance. args must be list-shaped; nil means no arguments.
func (p *Plugin[P]) Use(ref any, args any) *Plugin[P] {
	if args == nil {
		args = []any{}
	}
	return p.Set("plugin", ref).Set("args", args)
}

// Tap replaces the arguments with fn applied to the current arguments
func (p *Plugin[P]) Tap(fn func(args []any) []any) *Plugin[P] {
	if !p.Has("plugin") {
		p.fail(&PluginError{
			Kind: p.kind,
			Name: p.name,
			Message: fmt.Sprintf("Cannot call .tap() on a plugin that has not yet been defined. Call %s('%s').use(<Plugin>) first.",
				p.kind, p.name),
			Err: ErrMissingPluginReference,
		})
		return p
	}
	args, _ := p.Get("args").([]any)
	if args == nil {
		args = []any{}
	}
	return p.Set("args", fn(args))
}

// Init installs a custom factory used instead of constructing the reference
func (p *Plugin[P]) Init(fn InitFunc) *Plugin[P] {
	return p.ChainedMap.Set("init", fn)
}

// Merge applies src, routing plugin, args and init through their setters and
// before/after through the ordering checks
func (p *Plugin[P]) Merge(src map[string]any, omit ...string) *Plugin[P] {
	if !slices.Contains(omit, "plugin") {
		if ref, ok := src["plugin"]; ok {
			p.Set("plugin", ref)
		}
	}
	if !slices.Contains(omit, "args") {
		if args, ok := src["args"]; ok {
			p.Set("args", args)
		}
	}
	if !slices.Contains(omit, "init") {
		if v, ok := src["init"]; ok {
			switch fn := v.(type) {
			case InitFunc:
				p.Init(fn)
			case func(any, []any) (any, error):
				p.Init(fn)
			default:
				p.fail(fmt.Errorf("%s('%s'): init must be an InitFunc, got %T", p.kind, p.name, v))
			}
		}
	}

	omit = p.mergeOrdering(src, omit)
	return p.ChainedMap.Merge(src, slices.Concat(omit, []string{"plugin", "args", "init"})...)
}

// ToConfig resolves the reference and constructs the plugin instance
func (p *Plugin[P]) ToConfig(opts ...Option) (*Instance, error) {
	return p.resolve(newEnv(opts))
}

func (p *Plugin[P]) resolve(e *env) (*Instance, error) {
	if err := p.Err(); err != nil {
		return nil, err
	}

	ref := p.store["plugin"]
	init, _ := p.store["init"].(InitFunc)
	if ref == nil && init == nil {
		return nil, &PluginError{
			Kind: p.kind,
			Name: p.name,
			Message: fmt.Sprintf("Invalid %s configuration: %s('%s').use(<Plugin>) was not called to specify the plugin",
				p.kind, p.kind, p.name),
			Err: ErrMissingPluginReference,
		}
	}

	args, _ := p.store["args"].([]any)
	if args == nil {
		args = []any{}
	}
	inst := &Instance{
		Name: p.name,
		Type: p.kind,
		Args: slices.Clone(args),
	}

	if init != nil {
		value, err := init(ref, args)
		if err != nil {
			return nil, p.wrap(err, "init failed")
		}
		inst.Value = value
		inst.DisplayName = displayName(ref, ref)
		if inst.DisplayName == "" {
			inst.DisplayName = typeName(value)
		}
		e.logger.Debug("Initialized plugin", "type", p.kind, "name", p.name, "display", inst.DisplayName)
		return inst, nil
	}

	if err := p.construct(e, ref, args, inst); err != nil {
		return nil, err
	}
	e.logger.Debug("Constructed plugin", "type", p.kind, "name", p.name, "display", inst.DisplayName)
	return inst, nil
}

func (p *Plugin[P]) wrap(err error, what string) error {
	return &PluginError{
		Kind:    p.kind,
		Name:    p.name,
		Message: fmt.Sprintf("%s('%s'): %s: %v", p.kind, p.name, what, err),
		Err:     err,
	}
}

// construct resolves ref to a constructor, calls it with args and fills inst
func (p *Plugin[P]) construct(e *env, ref any, args []any, inst *Instance) error {
	ctor := ref
	switch r := ref.(type) {
	case string:
		resolved, err := e.resolve(r)
		if err != nil {
			return p.wrap(err, "resolve failed")
		}
		inst.Path = r
		ctor = resolved
		if !constructible(ctor) {
			if d, ok := defaultExport(ctor); ok {
				ctor = d
			}
		}
	case ExprRef:
		ctor = r.Ctor
	}

	inst.DisplayName = displayName(ref, ctor)
	if !constructible(ctor) {
		inst.Value = ctor
		return nil
	}

	value, err := callConstructor(reflect.ValueOf(ctor), args)
	if err != nil {
		return p.wrap(err, "construction failed")
	}
	inst.Value = value
	return nil
}

func constructible(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Func
}

// defaultExport returns the default export of a resolved module value
func defaultExport(v any) (any, bool) {
	switch m := v.(type) {
	case Defaulter:
		return m.Default(), true
	case map[string]any:
		d, ok := m["default"]
		return d, ok
	}
	return nil, false
}

// displayName names ctor for the annotated rendering
func displayName(ref, ctor any) string {
	if x, ok := ref.(Expressive); ok {
		return "(" + x.Expression() + ")"
	}
	if constructible(ctor) {
		return funcName(ctor)
	}
	return ""
}

// funcName returns the runtime name of fn without its package path
func funcName(fn any) string {
	f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if f == nil {
		return ""
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// callConstructor calls fn with args, converting each argument to the
// parameter type. Missing trailing parameters receive zero values.
func callConstructor(fn reflect.Value, args []any) (any, error) {
	t := fn.Type()
	fixed := t.NumIn()
	if t.IsVariadic() {
		fixed--
	}
	if !t.IsVariadic() && len(args) > fixed {
		return nil, fmt.Errorf("%w: constructor takes %d arguments, got %d", ErrInvalidArgumentShape, fixed, len(args))
	}

	in := make([]reflect.Value, 0, max(len(args), fixed))
	for i, arg := range args {
		var pt reflect.Type
		if i >= fixed {
			pt = t.In(fixed).Elem()
		} else {
			pt = t.In(i)
		}
		v, err := convertArg(arg, pt)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		in = append(in, v)
	}
	for i := len(args); i < fixed; i++ {
		in = append(in, reflect.Zero(t.In(i)))
	}

	out := fn.Call(in)
	if len(out) == 0 {
		return nil, errors.New("constructor returns no value")
	}
	if last := out[len(out)-1]; t.Out(len(out)-1) == errorType {
		if !last.IsNil() {
			return nil, last.Interface().(error)
		}
		out = out[:len(out)-1]
		if len(out) == 0 {
			return nil, errors.New("constructor returns only an error")
		}
	}
	return out[0].Interface(), nil
}

func convertArg(arg any, pt reflect.Type) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(pt), nil
	}
	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(pt) {
		return v, nil
	}
	if n, ok := arg.(json.Number); ok && isNumeric(pt.Kind()) {
		f, err := n.Float64()
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %v", ErrInvalidArgumentShape, err)
		}
		return reflect.ValueOf(f).Convert(pt), nil
	}
	if isNumeric(v.Kind()) && isNumeric(pt.Kind()) {
		return v.Convert(pt), nil
	}
	if v.Kind() == reflect.String && pt.Kind() == reflect.String {
		return v.Convert(pt), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: cannot use %T as %s", ErrInvalidArgumentShape, arg, pt)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
