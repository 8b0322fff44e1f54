package reactive

import "runtime/debug"

type ErrFn func() error

type StopFunc func()

// EffectRunner re-runs a side effect whenever one of its sources changes.
type EffectRunner struct {
	node
	owner
	fn       ErrFn
	explicit []Node
	label    string
	lazy     bool
	started  bool
	parent   *owner
}

type EffectOption func(*EffectRunner)

// WithSources fixes the effect's sources. Reads inside the effect body are
// not tracked.
func WithSources(sources ...Node) EffectOption {
	return func(e *EffectRunner) {
		e.explicit = sources
	}
}

// Lazy defers the first run until Start is called.
func Lazy() EffectOption {
	return func(e *EffectRunner) {
		e.lazy = true
	}
}

// WithLabel names the effect in logs and errors.
func WithLabel(label string) EffectOption {
	return func(e *EffectRunner) {
		e.label = label
	}
}

// NewEffect creates an effect owned by the running effect or root, if any.
// Unless Lazy is given it runs once immediately and its error is returned.
func NewEffect(rt *Runtime, fn ErrFn, opts ...EffectOption) (*EffectRunner, error) {
	e := &EffectRunner{
		node: rt.newNode(fEffect),
		fn:   fn,
	}
	e.node.ref = e
	for _, opt := range opts {
		opt(e)
	}
	if rt.owner != nil {
		rt.owner.adopt(e)
	}
	if e.lazy {
		return e, nil
	}
	return e, e.Start()
}

// Effect creates and starts an effect. A failing first run is reported like
// a failure during a flush.
func Effect(rt *Runtime, fn ErrFn, opts ...EffectOption) StopFunc {
	e, err := NewEffect(rt, fn, opts...)
	if err != nil {
		rt.fail(rt.report(e.id, e.label, err))
	}
	return e.Stop
}

// Start runs the effect for the first time. Further calls are no-ops.
func (e *EffectRunner) Start() error {
	if e.is(fStopped) {
		return ErrEffectStopped
	}
	if e.started {
		return nil
	}
	e.started = true
	return e.run()
}

// Stop unsubscribes from every source and disposes owned effects and
// cleanups. A notification already queued is dropped at delivery.
func (e *EffectRunner) Stop() {
	if e.is(fStopped) {
		return
	}
	e.flags |= fStopped
	e.flags &^= fStale
	e.unlinkAll()
	e.owner.dispose()
	if e.parent != nil {
		e.parent.release(e)
		e.parent = nil
	}
}

func (e *EffectRunner) Stopped() bool {
	return e.is(fStopped)
}

// DependsOn reports whether n is currently a source of the effect.
func (e *EffectRunner) DependsOn(n Node) bool {
	return e.hasSource(n.reactiveNode())
}

func (e *EffectRunner) SourceCount() int {
	return len(e.sources)
}

// notify decides whether a queued effect must run: dirty effects always do,
// the others only when a source's version moved.
func (e *EffectRunner) notify() (bool, error) {
	if e.is(fStopped) || !e.started || !e.is(fStale) {
		return false, nil
	}
	if !e.is(fDirty) {
		changed, err := e.checkSources()
		if err != nil {
			e.flags &^= fStale
			return false, err
		}
		if !changed {
			e.flags &^= fStale
			return false, nil
		}
	}
	return true, e.run()
}

func (e *EffectRunner) checkSources() (changed bool, err error) {
	err = protect(func() {
		changed = e.sourcesChanged()
	})
	return changed, err
}

func (e *EffectRunner) run() (err error) {
	rt := e.rt
	e.owner.dispose()
	e.flags &^= fStale

	var f *frame
	var fixed []sourceRef
	if e.explicit != nil {
		f = rt.tracker.push(nil)
	} else {
		f = rt.tracker.push(&e.node)
	}
	prevOwner := rt.owner
	rt.owner = &e.owner
	defer func() {
		rt.owner = prevOwner
		rt.tracker.pop(f)
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
		if e.is(fStopped) {
			return
		}
		switch {
		case e.explicit != nil:
			if fixed == nil {
				fixed = explicitRefs(e.explicit)
			}
			e.relink(fixed)
		case err != nil:
			e.relinkAdditive(f.observed)
		default:
			e.relink(f.observed)
		}
		e.requeueIfMoved()
	}()

	if e.explicit != nil {
		for _, src := range e.explicit {
			src.reactiveNode().updateIfNecessary()
		}
		fixed = explicitRefs(e.explicit)
	}
	rt.metrics.EffectRan()
	return e.fn()
}

// requeueIfMoved catches sources that changed after the effect read them but
// before it was subscribed to them, such as its own writes on a first run.
// Derivation sources are brought up to date first: a write to one of their
// cells made before they were active marked nothing.
func (e *EffectRunner) requeueIfMoved() {
	for _, s := range e.sources {
		if err := protect(s.node.updateIfNecessary); err != nil {
			// the next read of the derivation fails the same way
			continue
		}
		if s.node.version != s.version {
			e.flags |= fDirty
			e.rt.enqueue(e)
			e.rt.requestFlush()
			return
		}
	}
}

func explicitRefs(nodes []Node) []sourceRef {
	refs := make([]sourceRef, 0, len(nodes))
	for _, n := range nodes {
		rn := n.reactiveNode()
		refs = append(refs, sourceRef{node: rn, version: rn.version})
	}
	return refs
}
