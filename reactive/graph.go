package reactive

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// Small source lists are scanned linearly, larger ones get a set.
const linearScanLimit = 8

func indexNodes(refs []sourceRef) mapset.Set[*node] {
	if len(refs) <= linearScanLimit {
		return nil
	}
	s := mapset.NewThreadUnsafeSet[*node]()
	for _, r := range refs {
		s.Add(r.node)
	}
	return s
}

func containsNode(refs []sourceRef, idx mapset.Set[*node], n *node) bool {
	if idx != nil {
		return idx.Contains(n)
	}
	for _, r := range refs {
		if r.node == n {
			return true
		}
	}
	return false
}

// holdsLinks reports whether the node keeps subscriptions on its sources.
// Effects always do until stopped, derivations only while something
// subscribes to them.
func (n *node) holdsLinks() bool {
	if n.is(fStopped) {
		return false
	}
	return n.is(fEffect) || len(n.subs) > 0
}

func (n *node) addSub(sub *node) {
	for _, s := range n.subs {
		if s == sub {
			return
		}
	}
	n.subs = append(n.subs, sub)
	if len(n.subs) == 1 && n.is(fDerivation) && !n.is(fStopped) {
		n.activate()
	}
}

func (n *node) removeSub(sub *node) {
	found := false
	for i, s := range n.subs {
		if s == sub {
			copy(n.subs[i:], n.subs[i+1:])
			n.subs[len(n.subs)-1] = nil
			n.subs = n.subs[:len(n.subs)-1]
			found = true
			break
		}
	}
	if found && len(n.subs) == 0 && n.is(fDerivation) {
		n.deactivate()
	}
}

// activate subscribes a derivation to everything it read last time. Sources
// may have moved while it was inactive, so the next read validates them.
func (n *node) activate() {
	n.flags |= fCheck
	for _, src := range n.sources {
		src.node.addSub(n)
	}
	if n.forward != nil {
		n.forward.node.addSub(n)
	}
}

func (n *node) deactivate() {
	for _, src := range n.sources {
		src.node.removeSub(n)
	}
	if n.forward != nil {
		n.forward.node.removeSub(n)
	}
	n.epoch = 0
}

func (n *node) unlinkAll() {
	for _, src := range n.sources {
		src.node.removeSub(n)
	}
	if n.forward != nil {
		n.forward.node.removeSub(n)
		n.forward = nil
	}
	n.sources = nil
}

// relink replaces the source list with the one observed by the latest run,
// subscribing to additions and unsubscribing from removals.
func (n *node) relink(next []sourceRef) {
	if n.holdsLinks() {
		prev := n.sources
		prevIdx := indexNodes(prev)
		for _, s := range next {
			if !containsNode(prev, prevIdx, s.node) {
				s.node.addSub(n)
			}
		}
		nextIdx := indexNodes(next)
		for _, s := range prev {
			if !containsNode(next, nextIdx, s.node) {
				s.node.removeSub(n)
			}
		}
	}
	n.sources = next
}

// relinkAdditive keeps every previous source and adds whatever a failed run
// managed to read before it stopped.
func (n *node) relinkAdditive(observed []sourceRef) {
	idx := indexNodes(n.sources)
	for _, s := range observed {
		if containsNode(n.sources, idx, s.node) {
			continue
		}
		if n.holdsLinks() {
			s.node.addSub(n)
		}
		n.sources = append(n.sources, s)
	}
}

func (n *node) setForward(target *node) {
	if target == nil {
		if n.forward != nil {
			if n.holdsLinks() {
				n.forward.node.removeSub(n)
			}
			n.forward = nil
		}
		return
	}
	if n.forward != nil && n.forward.node == target {
		n.forward.version = target.version
		return
	}
	if n.forward != nil && n.holdsLinks() {
		n.forward.node.removeSub(n)
	}
	n.forward = &sourceRef{node: target, version: target.version}
	if n.holdsLinks() {
		target.addSub(n)
	}
}

func (n *node) hasSource(target *node) bool {
	for _, s := range n.sources {
		if s.node == target {
			return true
		}
	}
	return n.forward != nil && n.forward.node == target
}

// sourcesChanged brings every source up to date and reports whether any of
// them moved past the version this node last saw.
func (n *node) sourcesChanged() bool {
	for _, src := range n.sources {
		src.node.updateIfNecessary()
		if src.node.version != src.version {
			return true
		}
	}
	return false
}

// updateIfNecessary brings a derivation up to date, recomputing only when a
// source's version moved since its last evaluation.
func (n *node) updateIfNecessary() {
	if !n.is(fDerivation) || n.is(fStopped) {
		return
	}
	if n.is(fComputing) {
		panic(&StaleReadError{ID: n.id})
	}
	rt := n.rt
	if len(n.subs) > 0 {
		if !n.is(fStale) {
			return
		}
	} else if !n.is(fDirty) && n.epoch == rt.epoch {
		return
	}

	if n.is(fDirty) || n.sourcesChanged() {
		n.recompute()
		return
	}

	if fwd := n.forward; fwd != nil {
		fwd.node.updateIfNecessary()
		if fwd.node.version != fwd.version {
			fwd.version = fwd.node.version
			if n.ref.(computer).pullForward() {
				n.version++
			}
		}
	}
	n.flags &^= fStale
	n.epoch = rt.epoch
}

func (n *node) recompute() {
	rt := n.rt
	c := n.ref.(computer)

	f := rt.tracker.push(n)
	prevOwner := rt.owner
	rt.owner = nil
	n.flags |= fComputing
	ok := false
	defer func() {
		n.flags &^= fComputing
		rt.owner = prevOwner
		rt.tracker.pop(f)
		if !ok {
			n.flags |= fDirty
		}
	}()

	changed := c.compute()
	ok = true

	n.relink(f.observed)
	n.flags &^= fStale
	n.epoch = rt.epoch
	if changed {
		n.version++
	}
	rt.metrics.DerivationRecomputed()
}

// mark flags n and everything downstream of it. Effects are queued instead
// of walked past; each node is walked at most once per write.
func (rt *Runtime) mark(n *node, state nodeFlags) {
	if n.is(fStopped) {
		return
	}
	if n.is(fDerivation) {
		// derivations always validate by version, so a forwarded node that
		// changed never re-runs the compute function
		state = fCheck
	}
	n.flags |= state
	if n.is(fEffect) {
		rt.enqueue(n.ref.(*EffectRunner))
		return
	}
	if n.visited == rt.epoch {
		return
	}
	n.visited = rt.epoch
	for _, sub := range n.subs {
		rt.mark(sub, fCheck)
	}
}
