package keyed

import (
	"log/slog"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/delaneyj/lattice/reactive"
)

// Host is the view layer the list mounts its items into. Handles are
// positioned relative to a marker that anchors the whole list.
type Host[H any] interface {
	Marker() H
	// InsertAfter mounts handle, or moves it if already mounted, so that it
	// directly follows ref.
	InsertAfter(handle, ref H)
	Remove(handle H)
}

// Stats describes the last reconciliation.
type Stats struct {
	Created int
	Removed int
	Moved   int
	Kept    int
}

type record[T any, K comparable, H any] struct {
	key     K
	item    *reactive.Cell[T]
	index   *reactive.Cell[int]
	handle  H
	dispose func()
}

type config struct {
	label  string
	logger *slog.Logger
}

type Option func(*config)

func WithLabel(label string) Option {
	return func(c *config) {
		c.label = label
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// List keeps one view per key of a reactive sequence, mounted in sequence
// order after the host's marker.
type List[T any, K comparable, H any] struct {
	rt     *reactive.Runtime
	source reactive.Readable[[]T]
	key    func(item T, index int) K
	render func(item reactive.Readable[T], index reactive.Readable[int]) H
	host   Host[H]
	marker H
	cfg    config

	records []*record[T, K, H]
	stats   Stats
	effect  *reactive.EffectRunner
}

// New mounts the current items of source and keeps them in sync. render
// runs once per key; later changes reach the view through its item and index
// nodes. The first reconciliation runs immediately; if it fails nothing stays
// mounted and the error is returned. The list is disposed with the owner it
// was created in.
func New[T any, K comparable, H any](
	rt *reactive.Runtime,
	source reactive.Readable[[]T],
	key func(item T, index int) K,
	render func(item reactive.Readable[T], index reactive.Readable[int]) H,
	host Host[H],
	opts ...Option,
) (*List[T, K, H], error) {
	cfg := config{
		label:  "keyed-list",
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	l := &List[T, K, H]{
		rt:     rt,
		source: source,
		key:    key,
		render: render,
		host:   host,
		marker: host.Marker(),
		cfg:    cfg,
	}
	e, err := reactive.NewEffect(rt, l.update, reactive.WithLabel(cfg.label))
	l.effect = e
	if err != nil {
		l.Dispose()
		return nil, err
	}
	rt.OnCleanup(l.Dispose)
	return l, nil
}

// Marker is the anchor handle the list positions its items after.
func (l *List[T, K, H]) Marker() H {
	return l.marker
}

// Handles returns the mounted views in sequence order.
func (l *List[T, K, H]) Handles() []H {
	out := make([]H, len(l.records))
	for i, r := range l.records {
		out[i] = r.handle
	}
	return out
}

func (l *List[T, K, H]) Len() int {
	return len(l.records)
}

func (l *List[T, K, H]) LastStats() Stats {
	return l.stats
}

// Dispose stops following the source and unmounts every item. The marker
// stays with the host.
func (l *List[T, K, H]) Dispose() {
	if l.effect != nil {
		l.effect.Stop()
	}
	for _, r := range l.records {
		l.host.Remove(r.handle)
		r.dispose()
	}
	l.records = nil
}

func (l *List[T, K, H]) update() error {
	items := l.source.Value()
	var err error
	l.rt.Untrack(func() {
		l.rt.Batch(func() {
			err = l.reconcile(items)
		})
	})
	return err
}

func (l *List[T, K, H]) reconcile(items []T) error {
	keys := make([]K, len(items))
	firstAt := make(map[K]int, len(items))
	for i, item := range items {
		k := l.key(item, i)
		if first, dup := firstAt[k]; dup {
			return &DuplicateKeyError{Key: k, First: first, Second: i}
		}
		firstAt[k] = i
		keys[i] = k
	}
	nextKeys := mapset.NewThreadUnsafeSet(keys...)

	var stats Stats
	survivors := make([]*record[T, K, H], 0, len(l.records))
	for _, r := range l.records {
		if nextKeys.Contains(r.key) {
			survivors = append(survivors, r)
			continue
		}
		l.host.Remove(r.handle)
		r.dispose()
		stats.Removed++
	}
	l.records = survivors

	prevIndex := make(map[K]int, len(survivors))
	for i, r := range survivors {
		prevIndex[r.key] = i
	}

	next := make([]*record[T, K, H], len(items))
	prev := make([]int, len(items))
	for i, k := range keys {
		oi, ok := prevIndex[k]
		if !ok {
			prev[i] = -1
			continue
		}
		r := survivors[oi]
		r.item.SetValue(items[i])
		r.index.SetValue(i)
		next[i] = r
		prev[i] = oi
		stats.Kept++
	}

	defer func() {
		if p := recover(); p != nil {
			// keep whatever is mounted reachable so a later update or
			// Dispose can clean it up
			var mounted []*record[T, K, H]
			for _, r := range next {
				if r != nil {
					mounted = append(mounted, r)
				}
			}
			l.records = mounted
			panic(p)
		}
	}()

	stable := stablePositions(prev)
	ref := l.marker
	for i, k := range keys {
		r := next[i]
		switch {
		case r == nil:
			r = l.create(k, items[i], i)
			next[i] = r
			l.host.InsertAfter(r.handle, ref)
			stats.Created++
		case !stable[i]:
			l.host.InsertAfter(r.handle, ref)
			stats.Moved++
		}
		ref = r.handle
	}

	l.records = next
	l.stats = stats
	l.cfg.logger.Debug("keyed list reconciled",
		"label", l.cfg.label,
		"items", len(items),
		"created", stats.Created,
		"removed", stats.Removed,
		"moved", stats.Moved,
		"kept", stats.Kept,
	)
	return nil
}

func (l *List[T, K, H]) create(k K, item T, index int) *record[T, K, H] {
	r := &record[T, K, H]{
		key:   k,
		item:  reactive.NewCell(l.rt, item),
		index: reactive.NewCell(l.rt, index),
	}
	l.rt.Root(func(dispose func()) {
		r.dispose = dispose
		r.handle = l.render(r.item, r.index)
	})
	return r
}
