// File: lixenwraith/chain/order.go
package chain

import (
	"fmt"
	"slices"
)

// Ordering holds at most one relative position constraint against a sibling key
type Ordering struct {
	Before string
	After  string
}

// IsZero reports whether no constraint is set
func (o Ordering) IsZero() bool {
	return o.Before == "" && o.After == ""
}

// Ordered is implemented by nodes that carry an Ordering
type Ordered interface {
	Ordering() Ordering
}

// Orderable adds Before/After declarations to a node
type Orderable[S any] struct {
	orderSelf S
	ordering  Ordering
	orderFail func(error)
}

func (o *Orderable[S]) setupOrder(self S, fail func(error)) {
	o.orderSelf = self
	o.orderFail = fail
}

// Before places the node directly before the sibling named key
func (o *Orderable[S]) Before(key string) S {
	if o.ordering.After != "" {
		o.orderFail(fmt.Errorf("%w: before(%q) conflicts with after(%q)", ErrIncompleteOrdering, key, o.ordering.After))
		return o.orderSelf
	}
	o.ordering.Before = key
	return o.orderSelf
}

// After places the node directly after the sibling named key
func (o *Orderable[S]) After(key string) S {
	if o.ordering.Before != "" {
		o.orderFail(fmt.Errorf("%w: after(%q) conflicts with before(%q)", ErrIncompleteOrdering, key, o.ordering.Before))
		return o.orderSelf
	}
	o.ordering.After = key
	return o.orderSelf
}

// Ordering returns the node's position constraint
func (o *Orderable[S]) Ordering() Ordering {
	return o.ordering
}

// mergeOrdering applies before/after keys from a merge source and returns omit
// extended with both keys so the base merge skips them.
func (o *Orderable[S]) mergeOrdering(src map[string]any, omit []string) []string {
	before, hasBefore := src["before"].(string)
	after, hasAfter := src["after"].(string)
	if slices.Contains(omit, "before") {
		hasBefore = false
	}
	if slices.Contains(omit, "after") {
		hasAfter = false
	}

	switch {
	case hasBefore && hasAfter:
		o.orderFail(fmt.Errorf("%w: merge declares before(%q) and after(%q)", ErrIncompleteOrdering, before, after))
	case hasBefore:
		o.Before(before)
	case hasAfter:
		o.After(after)
	}
	return slices.Concat(omit, []string{"before", "after"})
}

// linearize relocates constrained keys in one left-to-right pass over the
// insertion order. Each constrained key is moved directly before or after its
// target's position at the time it is processed; unconstrained keys never move.
// In strict mode a target that is not a sibling is an error, otherwise the key
// stays where it is.
func linearize(keys []string, orderingOf func(key string) Ordering, strict bool) ([]string, error) {
	order := slices.Clone(keys)
	for _, key := range keys {
		o := orderingOf(key)
		target, after := o.Before, false
		if target == "" {
			target, after = o.After, true
		}
		if target == "" {
			continue
		}

		if target == key || !slices.Contains(order, target) {
			if strict {
				return nil, fmt.Errorf("%w: %q is ordered relative to %q which is not a sibling", ErrUnknownOrderingTarget, key, target)
			}
			continue
		}

		idx := slices.Index(order, key)
		order = slices.Delete(order, idx, idx+1)
		pos := slices.Index(order, target)
		if after {
			pos++
		}
		order = slices.Insert(order, pos, key)
	}
	return order, nil
}
