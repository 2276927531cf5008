// File: lixenwraith/chain/provenance.go
package chain

import "encoding/json"

// Instance is a resolved plugin together with where it was declared.
// Consumers use Value; the remaining fields feed the annotated rendering.
type Instance struct {
	Value       any
	Name        string // slot name, e.g. "env" in plugin('env')
	Type        string // slot type, e.g. "plugin" or "optimization.minimizer"
	Args        []any
	DisplayName string // constructor name used in the rendering
	Path        string // set when the reference was a string path
}

// MarshalJSON encodes the plugin value itself
func (i *Instance) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Value)
}

// MarshalYAML encodes the plugin value itself
func (i *Instance) MarshalYAML() (any, error) {
	return i.Value, nil
}

// RuleStep is one hop of a rule path such as rule('alpha') or oneOf('beta')
type RuleStep struct {
	Type string
	Name string
}

// Annotated is a flattened rule or use record with the rule path that produced it
type Annotated struct {
	Record Record
	Rules  []RuleStep
	Use    string
}

// MarshalJSON encodes the record
func (a *Annotated) MarshalJSON() ([]byte, error) {
	return a.Record.MarshalJSON()
}

// MarshalYAML encodes the record
func (a *Annotated) MarshalYAML() (any, error) {
	return a.Record.MarshalYAML()
}

// Expressive values are rendered verbatim as source expressions
type Expressive interface {
	Expression() string
}

// Expression is a literal source expression
type Expression string

// Expression returns the expression text
func (e Expression) Expression() string {
	return string(e)
}

// ExprRef is a plugin constructor paired with the expression that names it in text output
type ExprRef struct {
	Ctor any
	Expr string
}

// Expression returns the expression text
func (r ExprRef) Expression() string {
	return r.Expr
}
