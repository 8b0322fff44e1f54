package reactive

// Result is what a derivation's compute function produces: either a plain
// value or another node whose value the derivation forwards.
type Result[T any] struct {
	value   T
	forward Readable[T]
}

func ValueOf[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Forward makes the derivation mirror n. Changes of n are picked up without
// re-running the compute function.
func Forward[T any](n Readable[T]) Result[T] {
	return Result[T]{forward: n}
}

func (r Result[T]) IsForward() bool {
	return r.forward != nil
}

// Derivation is a cached value computed from other nodes. While something
// subscribes to it, it is notified of source changes; otherwise it is
// validated lazily on read.
type Derivation[T any] struct {
	node
	fn       func(prev T) Result[T]
	value    T
	equals   EqualsFunc[T]
	target   Readable[T]
	computed bool
}

func Derive[T any](rt *Runtime, fn func(prev T) T, opts ...NodeOption[T]) *Derivation[T] {
	return DeriveResult(rt, func(prev T) Result[T] {
		return ValueOf(fn(prev))
	}, opts...)
}

func DeriveResult[T any](rt *Runtime, fn func(prev T) Result[T], opts ...NodeOption[T]) *Derivation[T] {
	o := buildNodeOptions(opts)
	d := &Derivation[T]{
		node:   rt.newNode(fDerivation | fDirty),
		fn:     fn,
		equals: o.equals,
	}
	d.node.ref = d
	return d
}

func (d *Derivation[T]) Value() T {
	d.updateIfNecessary()
	d.rt.tracker.track(&d.node)
	return d.value
}

func (d *Derivation[T]) Peek() T {
	d.updateIfNecessary()
	return d.value
}

func (d *Derivation[T]) Active() bool {
	return len(d.subs) > 0
}

func (d *Derivation[T]) SubscriberCount() int {
	return len(d.subs)
}

// DependsOn reports whether n was read by the last evaluation or is the
// forwarded node.
func (d *Derivation[T]) DependsOn(n Node) bool {
	return d.hasSource(n.reactiveNode())
}

// Dispose detaches the derivation from its sources. It keeps returning the
// last computed value and never recomputes again.
func (d *Derivation[T]) Dispose() {
	if d.is(fStopped) {
		return
	}
	d.unlinkAll()
	d.flags |= fStopped
	d.flags &^= fStale
	d.target = nil
}

func (d *Derivation[T]) compute() bool {
	res := d.fn(d.value)
	var next T
	if res.forward != nil {
		next = res.forward.Peek()
		d.target = res.forward
		d.setForward(res.forward.reactiveNode())
	} else {
		next = res.value
		d.target = nil
		d.setForward(nil)
	}
	changed := !d.computed || !d.equals(d.value, next)
	d.computed = true
	d.value = next
	return changed
}

func (d *Derivation[T]) pullForward() bool {
	next := d.target.Peek()
	if d.equals(d.value, next) {
		return false
	}
	d.value = next
	return true
}
