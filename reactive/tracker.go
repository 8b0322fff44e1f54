package reactive

import (
	mapset "github.com/deckarep/golang-set/v2"
)

type frame struct {
	// owner is nil for an untracked frame.
	owner    *node
	observed []sourceRef
	seen     mapset.Set[*node]
}

func (f *frame) observe(n *node) {
	if f.seen == nil {
		for _, s := range f.observed {
			if s.node == n {
				return
			}
		}
		f.observed = append(f.observed, sourceRef{node: n, version: n.version})
		if len(f.observed) > linearScanLimit {
			f.seen = mapset.NewThreadUnsafeSet[*node]()
			for _, s := range f.observed {
				f.seen.Add(s.node)
			}
		}
		return
	}
	if f.seen.Add(n) {
		f.observed = append(f.observed, sourceRef{node: n, version: n.version})
	}
}

// Tracker is the stack of computations currently evaluating. The top frame
// receives every tracked read.
type Tracker struct {
	frames []*frame
}

func (t *Tracker) push(owner *node) *frame {
	f := &frame{owner: owner}
	t.frames = append(t.frames, f)
	return f
}

func (t *Tracker) pop(f *frame) {
	last := len(t.frames) - 1
	if last < 0 || t.frames[last] != f {
		panic("reactive: tracker frames popped out of order")
	}
	t.frames[last] = nil
	t.frames = t.frames[:last]
}

func (t *Tracker) top() *frame {
	if len(t.frames) == 0 {
		return nil
	}
	return t.frames[len(t.frames)-1]
}

func (t *Tracker) track(n *node) {
	if f := t.top(); f != nil && f.owner != nil {
		f.observe(n)
	}
}

// Tracking reports whether a read right now would be recorded as a
// dependency.
func (t *Tracker) Tracking() bool {
	f := t.top()
	return f != nil && f.owner != nil
}

// Depth is the number of frames on the stack, untracked ones included.
func (t *Tracker) Depth() int {
	return len(t.frames)
}

// untracked runs fn with tracking suspended. Nested calls reuse the
// enclosing untracked frame.
func (t *Tracker) untracked(fn func()) {
	if f := t.top(); f != nil && f.owner == nil {
		fn()
		return
	}
	f := t.push(nil)
	defer t.pop(f)
	fn()
}

// Untracked returns fn's result without registering any of its reads with
// the enclosing computation.
func Untracked[T any](rt *Runtime, fn func() T) (v T) {
	rt.tracker.untracked(func() {
		v = fn()
	})
	return v
}

// Untrack is Untracked for functions without a result.
func (rt *Runtime) Untrack(fn func()) {
	rt.tracker.untracked(fn)
}

// PauseTracking suspends dependency tracking until the matching
// ResumeTracking.
func (rt *Runtime) PauseTracking() {
	rt.pauseStack = append(rt.pauseStack, rt.tracker.push(nil))
}

func (rt *Runtime) ResumeTracking() {
	last := len(rt.pauseStack) - 1
	if last < 0 {
		panic("reactive: ResumeTracking without PauseTracking")
	}
	f := rt.pauseStack[last]
	rt.pauseStack = rt.pauseStack[:last]
	rt.tracker.pop(f)
}
