// File: lixenwraith/chain/chainable.go
package chain

// Chainable is embedded by every builder node. P is the type returned by End,
// S is the node's own type returned by every chaining method.
type Chainable[P, S any] struct {
	parent P
	self   S
	err    error
}

func (c *Chainable[P, S]) setupChain(parent P, self S) {
	c.parent = parent
	c.self = self
}

// End returns the parent node, closing the current nested builder expression
func (c *Chainable[P, S]) End() P {
	return c.parent
}

// Batch invokes fn with the node and returns the node
func (c *Chainable[P, S]) Batch(fn func(S)) S {
	if fn != nil {
		fn(c.self)
	}
	return c.self
}

// When invokes onTrue or onFalse with the node depending on cond.
// A nil handler is skipped.
func (c *Chainable[P, S]) When(cond bool, onTrue, onFalse func(S)) S {
	if cond {
		if onTrue != nil {
			onTrue(c.self)
		}
	} else if onFalse != nil {
		onFalse(c.self)
	}
	return c.self
}

// Err returns the first construction error recorded on this node
func (c *Chainable[P, S]) Err() error {
	return c.err
}

// fail records err unless an earlier error is already held
func (c *Chainable[P, S]) fail(err error) {
	if err != nil && c.err == nil {
		c.err = err
	}
}
