package keyed_test

import (
	"math/rand"
	"testing"

	"github.com/delaneyj/lattice/keyed"
	"github.com/delaneyj/lattice/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type todo struct {
	ID int
	V  string
}

func todoKey(item todo, _ int) int { return item.ID }

type fixture struct {
	rt     *reactive.Runtime
	src    *reactive.Cell[[]todo]
	host   *domHost
	list   *keyed.List[todo, int, *view]
	views  map[int]*view
	errors []error
}

func newFixture(t *testing.T, initial []todo) *fixture {
	t.Helper()
	f := &fixture{views: map[int]*view{}}
	f.rt = reactive.NewRuntime(reactive.WithErrorHandler(func(err error) {
		f.errors = append(f.errors, err)
	}))
	f.src = reactive.NewCell(f.rt, initial)
	f.host = newDOMHost()

	list, err := keyed.New(f.rt, f.src, todoKey, f.render, keyed.Host[*view](f.host))
	require.NoError(t, err)
	f.list = list
	return f
}

func (f *fixture) render(item reactive.Readable[todo], index reactive.Readable[int]) *view {
	v := &view{id: item.Peek().ID}
	f.views[v.id] = v
	reactive.Effect(f.rt, func() error {
		v.label = item.Value().V
		v.pos = index.Value()
		v.renders++
		return nil
	})
	f.rt.OnCleanup(func() {
		v.disposed = true
	})
	return v
}

func TestReplaceOneItem(t *testing.T) {
	f := newFixture(t, []todo{{1, "a"}, {2, "b"}})
	assert.Equal(t, []string{"header", "marker", "a", "b", "footer"}, f.host.labels())
	one, two := f.views[1], f.views[2]

	f.src.SetValue([]todo{{2, "b"}, {3, "c"}})
	require.Empty(t, f.errors)

	assert.Equal(t, []string{"header", "marker", "b", "c", "footer"}, f.host.labels())
	assert.Equal(t, keyed.Stats{Created: 1, Removed: 1, Kept: 1}, f.list.LastStats())
	assert.Equal(t, 1, f.host.removes)
	assert.Equal(t, 3, f.host.inserts)
	assert.Equal(t, 0, f.host.moves)

	assert.True(t, one.disposed)
	assert.False(t, two.disposed)
	assert.Same(t, two, f.views[2])
	assert.Same(t, two, f.list.Handles()[0])
	assert.Equal(t, 0, two.pos)
	assert.Equal(t, 2, two.renders)
	assert.Equal(t, 1, f.views[3].renders)
}

func TestReorderOnlyMovesViews(t *testing.T) {
	f := newFixture(t, []todo{{1, "a"}, {2, "b"}})
	inserts := f.host.inserts

	f.src.SetValue([]todo{{2, "b"}, {1, "a"}})
	require.Empty(t, f.errors)

	assert.Equal(t, []int{2, 1}, f.host.ids())
	assert.Equal(t, inserts, f.host.inserts)
	assert.Equal(t, 0, f.host.removes)
	assert.Equal(t, 1, f.host.moves)
	assert.Equal(t, keyed.Stats{Moved: 1, Kept: 2}, f.list.LastStats())
	assert.Equal(t, 1, f.views[1].pos)
	assert.Equal(t, 0, f.views[2].pos)
}

func TestItemValuesUpdateInPlace(t *testing.T) {
	f := newFixture(t, []todo{{1, "a"}, {2, "b"}})

	f.src.SetValue([]todo{{1, "A"}, {2, "b"}})
	require.Empty(t, f.errors)

	assert.Equal(t, "A", f.views[1].label)
	assert.Equal(t, 2, f.views[1].renders)
	assert.Equal(t, 1, f.views[2].renders, "unchanged items are not re-rendered")
	assert.Equal(t, keyed.Stats{Kept: 2}, f.list.LastStats())
}

func TestEmptySequenceCollapsesToMarker(t *testing.T) {
	f := newFixture(t, []todo{{1, "a"}, {2, "b"}, {3, "c"}})

	f.src.SetValue(nil)
	require.Empty(t, f.errors)

	assert.Equal(t, []string{"header", "marker", "footer"}, f.host.labels())
	assert.Equal(t, 0, f.list.Len())
	for _, v := range f.views {
		assert.True(t, v.disposed)
	}

	f.src.SetValue([]todo{{4, "d"}})
	assert.Equal(t, []string{"header", "marker", "d", "footer"}, f.host.labels())
}

func TestDuplicateKeysLeaveListUntouched(t *testing.T) {
	f := newFixture(t, []todo{{1, "a"}, {2, "b"}})
	before := f.host.labels()

	f.src.SetValue([]todo{{3, "c"}, {1, "x"}, {3, "d"}})

	require.Len(t, f.errors, 1)
	var dup *keyed.DuplicateKeyError
	require.ErrorAs(t, f.errors[0], &dup)
	assert.Equal(t, 3, dup.Key)
	assert.Equal(t, 0, dup.First)
	assert.Equal(t, 2, dup.Second)

	assert.Equal(t, before, f.host.labels())
	assert.Equal(t, "a", f.views[1].label)
	assert.NotContains(t, f.views, 3)

	// still following the source
	f.src.SetValue([]todo{{2, "b"}})
	assert.Equal(t, []int{2}, f.host.ids())
}

func TestDuplicateKeysOnCreation(t *testing.T) {
	rt := reactive.NewRuntime()
	src := reactive.NewCell(rt, []todo{{1, "a"}, {1, "b"}})
	host := newDOMHost()

	list, err := keyed.New(rt, src, todoKey, func(item reactive.Readable[todo], _ reactive.Readable[int]) *view {
		return &view{id: item.Peek().ID}
	}, keyed.Host[*view](host))

	assert.Nil(t, list)
	var dup *keyed.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, []string{"header", "marker", "footer"}, host.labels())
	assert.Equal(t, 0, src.SubscriberCount())
}

func TestShuffleMovesOnlyOutOfOrderViews(t *testing.T) {
	const n = 200
	items := make([]todo, n)
	for i := range items {
		items[i] = todo{ID: i, V: "v"}
	}
	f := newFixture(t, items)

	r := rand.New(rand.NewSource(42))
	current := items
	for round := 0; round < 10; round++ {
		next := make([]todo, 0, len(current)+5)
		for _, i := range r.Perm(len(current)) {
			if r.Intn(10) == 0 {
				continue
			}
			next = append(next, current[i])
		}
		for i := 0; i < 5; i++ {
			next = append(next, todo{ID: n + round*5 + i, V: "new"})
		}
		current = next

		f.src.SetValue(next)
		require.Empty(t, f.errors)

		want := make([]int, len(next))
		for i, it := range next {
			want[i] = it.ID
		}
		require.Equal(t, want, f.host.ids())
		for i, it := range next {
			require.Equal(t, i, f.views[it.ID].pos)
		}
		stats := f.list.LastStats()
		assert.Equal(t, 5, stats.Created)
		assert.Equal(t, len(next)-5, stats.Kept)
		assert.Less(t, stats.Moved, stats.Kept)
	}
}

func TestDisposeUnmountsEverything(t *testing.T) {
	f := newFixture(t, []todo{{1, "a"}, {2, "b"}})

	f.list.Dispose()
	assert.Equal(t, []string{"header", "marker", "footer"}, f.host.labels())
	assert.True(t, f.views[1].disposed)
	assert.Equal(t, 0, f.src.SubscriberCount())

	f.src.SetValue([]todo{{3, "c"}})
	assert.Equal(t, []string{"header", "marker", "footer"}, f.host.labels())
}

func TestListDisposedWithOwner(t *testing.T) {
	rt := reactive.NewRuntime()
	src := reactive.NewCell(rt, []todo{{1, "a"}})
	host := newDOMHost()

	var dispose func()
	rt.Root(func(d func()) {
		dispose = d
		_, err := keyed.New(rt, src, todoKey, func(item reactive.Readable[todo], _ reactive.Readable[int]) *view {
			return &view{id: item.Peek().ID, label: item.Peek().V}
		}, keyed.Host[*view](host), keyed.WithLabel("todos"))
		require.NoError(t, err)
	})
	assert.Equal(t, []int{1}, host.ids())

	dispose()
	assert.Empty(t, host.ids())
	assert.Equal(t, 0, src.SubscriberCount())
}

func TestNestedLists(t *testing.T) {
	type group struct {
		Name  string
		Items []todo
	}
	rt := reactive.NewRuntime()
	groups := reactive.NewCell(rt, []group{
		{Name: "g1", Items: []todo{{1, "a"}, {2, "b"}}},
	})
	outerHost := newDOMHost()
	inner := map[string]*domHost{}

	_, err := keyed.New(rt, groups, func(g group, _ int) string { return g.Name },
		func(g reactive.Readable[group], _ reactive.Readable[int]) *view {
			name := g.Peek().Name
			h := newDOMHost()
			inner[name] = h
			items := reactive.Derive(rt, func([]todo) []todo { return g.Value().Items })
			_, err := keyed.New(rt, items, todoKey, func(item reactive.Readable[todo], _ reactive.Readable[int]) *view {
				return &view{id: item.Peek().ID, label: item.Peek().V}
			}, keyed.Host[*view](h))
			require.NoError(t, err)
			return &view{id: len(inner), label: name}
		}, keyed.Host[*view](outerHost))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, inner["g1"].ids())

	groups.SetValue([]group{
		{Name: "g1", Items: []todo{{2, "b"}, {3, "c"}}},
	})
	assert.Equal(t, []int{2, 3}, inner["g1"].ids())

	groups.SetValue(nil)
	assert.Empty(t, inner["g1"].ids(), "inner list is disposed with its item")
}
