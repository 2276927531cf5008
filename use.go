// File: lixenwraith/chain/use.go
package chain

import "slices"

// Use is a loader entry of a rule
type Use struct {
	ChainedMap[*Rule, *Use]
	Orderable[*Use]

	name string
}

// NewUse creates a loader entry under parent
func NewUse(parent *Rule, name string) *Use {
	u := &Use{name: name}
	u.setup(parent, u)
	u.setupOrder(u, u.fail)
	return u
}

// Name returns the use name
func (u *Use) Name() string {
	return u.name
}

// Tap replaces the loader options with fn applied to the current options
func (u *Use) Tap(fn func(options any) any) *Use {
	return u.Options(fn(u.Get("options")))
}

// Merge applies src. Incoming options are deep-merged into the current
// options with lists concatenated.
func (u *Use) Merge(src map[string]any, omit ...string) *Use {
	omit = u.mergeOrdering(src, omit)
	cm := childMerger{src: src, omit: omit, fail: u.fail}
	if v, ok := cm.has("loader"); ok {
		u.Loader(v)
	}
	if v, ok := cm.has("options"); ok {
		u.Options(mergeDeep(u.Get("options"), v))
	}
	return u.ChainedMap.Merge(src, slices.Concat(omit, []string{"loader", "options"})...)
}

// ToConfig flattens the use into a record annotated with its rule path
func (u *Use) ToConfig() (*Annotated, error) {
	if err := u.Err(); err != nil {
		return nil, err
	}
	var steps []RuleStep
	if u.parent != nil {
		steps = u.parent.Steps()
	}
	return &Annotated{Record: Clean(u.record()), Rules: steps, Use: u.name}, nil
}

var useShorthands = []string{
	"loader",
	"options",
}

// Shorthands lists the field names with a dedicated setter
func (u *Use) Shorthands() []string {
	return slices.Clone(useShorthands)
}

func (u *Use) Loader(v any) *Use { return u.Set("loader", v) }
func (u *Use) Options(v any) *Use { return u.Set("options", v) }
