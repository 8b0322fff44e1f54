package keyed_test

import (
	"slices"
)

type view struct {
	id       int
	label    string
	pos      int
	renders  int
	disposed bool
}

// domHost is an in-memory stand-in for a parent element: a header, the
// list's marker and a footer.
type domHost struct {
	marker  *view
	nodes   []*view
	inserts int
	moves   int
	removes int
}

func newDOMHost() *domHost {
	marker := &view{id: -1, label: "marker"}
	return &domHost{
		marker: marker,
		nodes: []*view{
			{id: -2, label: "header"},
			marker,
			{id: -3, label: "footer"},
		},
	}
}

func (h *domHost) Marker() *view {
	return h.marker
}

func (h *domHost) InsertAfter(n, ref *view) {
	if i := slices.Index(h.nodes, n); i >= 0 {
		h.nodes = slices.Delete(h.nodes, i, i+1)
		h.moves++
	} else {
		h.inserts++
	}
	j := slices.Index(h.nodes, ref)
	if j < 0 {
		panic("reference node is not mounted")
	}
	h.nodes = slices.Insert(h.nodes, j+1, n)
}

func (h *domHost) Remove(n *view) {
	i := slices.Index(h.nodes, n)
	if i < 0 {
		panic("removing a node that is not mounted")
	}
	h.nodes = slices.Delete(h.nodes, i, i+1)
	h.removes++
}

// ids lists the mounted item ids between the marker and the footer.
func (h *domHost) ids() []int {
	var out []int
	for _, n := range h.nodes {
		if n.id >= 0 {
			out = append(out, n.id)
		}
	}
	return out
}

func (h *domHost) labels() []string {
	out := make([]string, 0, len(h.nodes))
	for _, n := range h.nodes {
		out = append(out, n.label)
	}
	return out
}
