package reactive

type nodeFlags uint16

const (
	fCell nodeFlags = 1 << iota
	fDerivation
	fEffect
	fComputing
	fQueued
	fStopped
	// a direct source changed
	fDirty
	// an upstream derivation may have changed
	fCheck

	fStale = fDirty | fCheck
)

// Node is implemented by every graph participant: cells, derivations and
// effect runners.
type Node interface {
	reactiveNode() *node
}

// Readable is a node with a value that can be read with or without
// dependency tracking.
type Readable[T any] interface {
	Node
	Value() T
	Peek() T
}

type sourceRef struct {
	node    *node
	version uint64
}

type node struct {
	id    uint64
	rt    *Runtime
	flags nodeFlags

	// version moves every time the node's value changes.
	version uint64
	// epoch is the runtime write epoch at which an inactive derivation was
	// last validated.
	epoch uint64
	// visited is the write epoch of the last propagation that walked this node.
	visited uint64

	sources []sourceRef
	forward *sourceRef
	subs    []*node

	// *Derivation[T] (as computer) or *EffectRunner
	ref any
}

func (n *node) reactiveNode() *node { return n }

func (n *node) is(f nodeFlags) bool { return n.flags&f != 0 }

// computer is the typed half of a derivation.
type computer interface {
	compute() (changed bool)
	pullForward() (changed bool)
}
