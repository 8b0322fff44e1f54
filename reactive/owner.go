package reactive

// owner collects the effects created and the cleanups registered while an
// effect or root runs.
type owner struct {
	children []*EffectRunner
	cleanups []func()
}

func (o *owner) adopt(e *EffectRunner) {
	o.children = append(o.children, e)
	e.parent = o
}

func (o *owner) release(e *EffectRunner) {
	for i, c := range o.children {
		if c == e {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

// dispose stops children and runs cleanups, newest first.
func (o *owner) dispose() {
	children := o.children
	o.children = nil
	for i := len(children) - 1; i >= 0; i-- {
		children[i].parent = nil
		children[i].Stop()
	}
	cleanups := o.cleanups
	o.cleanups = nil
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

// Root runs fn under a new detached owner. Effects created inside fn live
// until dispose is called, regardless of any enclosing effect.
func (rt *Runtime) Root(fn func(dispose func())) {
	o := &owner{}
	prev := rt.owner
	rt.owner = o
	defer func() {
		rt.owner = prev
	}()
	rt.tracker.untracked(func() {
		fn(o.dispose)
	})
}

// OnCleanup registers fn with the running effect or root. It runs before the
// effect runs again, when it stops, or when the root is disposed. Outside of
// any owner it is never called.
func (rt *Runtime) OnCleanup(fn func()) {
	if rt.owner != nil {
		rt.owner.cleanups = append(rt.owner.cleanups, fn)
	}
}
