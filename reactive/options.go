package reactive

type nodeOptions[T any] struct {
	equals EqualsFunc[T]
}

// NodeOption configures a cell or derivation.
type NodeOption[T any] func(*nodeOptions[T])

// WithEquals replaces the default strict equality used to decide whether a
// new value should notify subscribers.
func WithEquals[T any](fn func(a, b T) bool) NodeOption[T] {
	return func(o *nodeOptions[T]) {
		o.equals = fn
	}
}

func buildNodeOptions[T any](opts []NodeOption[T]) nodeOptions[T] {
	var o nodeOptions[T]
	for _, opt := range opts {
		opt(&o)
	}
	if o.equals == nil {
		o.equals = defaultEquals[T]()
	}
	return o
}
