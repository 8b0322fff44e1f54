package reactive

// Cell is a mutable leaf of the graph.
type Cell[T any] struct {
	node
	value  T
	equals EqualsFunc[T]
}

func NewCell[T any](rt *Runtime, initialValue T, opts ...NodeOption[T]) *Cell[T] {
	o := buildNodeOptions(opts)
	c := &Cell[T]{
		node:   rt.newNode(fCell),
		value:  initialValue,
		equals: o.equals,
	}
	c.node.ref = c
	return c
}

// Value returns the current value and records the read with the running
// computation, if any.
func (c *Cell[T]) Value() T {
	c.rt.tracker.track(&c.node)
	return c.value
}

func (c *Cell[T]) Peek() T {
	return c.value
}

// SetValue stores v and schedules every subscriber, unless v equals the
// current value.
func (c *Cell[T]) SetValue(v T) {
	rt := c.rt
	rt.guardWrite(&c.node)
	if c.equals(c.value, v) {
		return
	}
	c.value = v
	c.version++
	rt.epoch++
	if len(c.subs) == 0 {
		return
	}
	for _, sub := range c.subs {
		rt.mark(sub, fDirty)
	}
	rt.requestFlush()
}

// Update sets the value to fn applied to the current one.
func (c *Cell[T]) Update(fn func(T) T) {
	c.SetValue(fn(c.value))
}

func (c *Cell[T]) SubscriberCount() int {
	return len(c.subs)
}
