package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/lattice/keyed"
	"github.com/delaneyj/lattice/loop"
	"github.com/delaneyj/lattice/reactive"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/sync/errgroup"
)

type item struct {
	ID    int
	Label string
}

// row is a mounted view, linked in host order.
type row struct {
	id         int
	label      string
	prev, next *row
	mounted    bool
}

type rowHost struct {
	marker *row
	moves  int
}

func newRowHost() *rowHost {
	m := &row{id: -1, mounted: true}
	return &rowHost{marker: m}
}

func (h *rowHost) Marker() *row { return h.marker }

func (h *rowHost) InsertAfter(r, ref *row) {
	if r.mounted {
		h.unlink(r)
		h.moves++
	}
	r.prev, r.next = ref, ref.next
	if ref.next != nil {
		ref.next.prev = r
	}
	ref.next = r
	r.mounted = true
}

func (h *rowHost) Remove(r *row) {
	if r.mounted {
		h.unlink(r)
	}
}

func (h *rowHost) unlink(r *row) {
	if r.prev != nil {
		r.prev.next = r.next
	}
	if r.next != nil {
		r.next.prev = r.prev
	}
	r.prev, r.next, r.mounted = nil, nil, false
}

// checksum hashes the mounted rows in order.
func (h *rowHost) checksum() uint64 {
	d := xxhash.New()
	var buf [8]byte
	for r := h.marker.next; r != nil; r = r.next {
		binary.LittleEndian.PutUint64(buf[:], uint64(r.id))
		d.Write(buf[:])
		d.WriteString(r.label)
	}
	return d.Sum64()
}

func itemsChecksum(items []item) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, it := range items {
		binary.LittleEndian.PutUint64(buf[:], uint64(it.ID))
		d.Write(buf[:])
		d.WriteString(it.Label)
	}
	return d.Sum64()
}

func itemKey(it item, _ int) int { return it.ID }

func renderRow(rt *reactive.Runtime) func(reactive.Readable[item], reactive.Readable[int]) *row {
	return func(it reactive.Readable[item], _ reactive.Readable[int]) *row {
		r := &row{id: it.Peek().ID}
		reactive.Effect(rt, func() error {
			r.label = it.Value().Label
			return nil
		})
		return r
	}
}

type keyedFixture struct {
	loop  *loop.Loop
	rt    *reactive.Runtime
	host  *rowHost
	items *reactive.Cell[[]item]
	list  *keyed.List[item, int, *row]
}

func benchmarkKeyed(ctx context.Context, cfg keyedConfig, shouldRender bool) error {
	tbl := table.NewWriter()
	tbl.SetTitle("Keyed list")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max", "moves"})

	for _, n := range cfg.Rows {
		tach := tachymeter.New(&tachymeter.Config{Size: cfg.Rounds * cfg.Concurrent})
		moves := make([]int, cfg.Concurrent)

		g, gCtx := errgroup.WithContext(ctx)
		for w := 0; w < cfg.Concurrent; w++ {
			l := loop.New()
			g.Go(func() error {
				return l.Run(gCtx)
			})
			g.Go(func() error {
				defer l.Shutdown(context.Background())
				m, err := driveKeyed(gCtx, l, n, cfg.Rounds, cfg.Seed+int64(w), tach)
				moves[w] = m
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		total := 0
		for _, m := range moves {
			total += m
		}
		calc := tach.Calc()
		tbl.AppendRows([]table.Row{
			{
				fmt.Sprintf("keyed: %d rows * %d lists", n, cfg.Concurrent),
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
				total,
			},
		})
	}

	if shouldRender {
		tbl.Render()
	}
	return nil
}

// onLoop runs fn on the fixture's loop and waits until its runtime has
// settled, including flush passes deferred to later microtasks.
func (f *keyedFixture) onLoop(ctx context.Context, fn func() error) error {
	l := f.loop
	done := make(chan error, 1)
	err := l.Submit(func() {
		if err := fn(); err != nil {
			done <- err
			return
		}
		var settle func()
		settle = func() {
			if f.rt != nil && f.rt.State() != reactive.Idle {
				l.QueueMicrotask(settle)
				return
			}
			done <- nil
		}
		l.QueueMicrotask(settle)
	})
	if err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// driveKeyed builds one list on l and applies seeded mutations to it,
// verifying the mounted order after each round. It returns the host moves.
func driveKeyed(ctx context.Context, l *loop.Loop, n, rounds int, seed int64, tach *tachymeter.Tachymeter) (int, error) {
	random := rand.New(rand.NewSource(seed))
	nextID := 0
	newItem := func() item {
		nextID++
		return item{ID: nextID, Label: "row " + strconv.Itoa(nextID)}
	}
	current := make([]item, n)
	for i := range current {
		current[i] = newItem()
	}

	f := &keyedFixture{loop: l}
	err := f.onLoop(ctx, func() error {
		rt := reactive.NewRuntime(
			reactive.WithScheduler(l.QueueMicrotask),
			reactive.WithErrorHandler(func(err error) {
				log.Printf("keyed flush failed: %v", err)
			}),
		)
		f.rt = rt
		f.host = newRowHost()
		f.items = reactive.NewCell(rt, current)
		list, err := keyed.New(rt, f.items, itemKey, renderRow(rt), keyed.Host[*row](f.host),
			keyed.WithLabel(fmt.Sprintf("bench-%d", seed)))
		f.list = list
		return err
	})
	if err != nil {
		return 0, err
	}

	for round := 0; round < rounds; round++ {
		next := mutate(random, current, newItem)
		start := time.Now()
		var got uint64
		err := f.onLoop(ctx, func() error {
			f.items.SetValue(next)
			return nil
		})
		if err != nil {
			return 0, err
		}
		tach.AddTime(time.Since(start))

		// read back on the loop, the host is not safe to touch from here
		if err := f.onLoop(ctx, func() error {
			got = f.host.checksum()
			return nil
		}); err != nil {
			return 0, err
		}
		if want := itemsChecksum(next); got != want {
			return 0, fmt.Errorf("round %d (seed %d): mounted rows diverged, checksum %x != %x", round, seed, got, want)
		}
		current = next
	}

	moves := 0
	err = f.onLoop(ctx, func() error {
		moves = f.host.moves
		f.list.Dispose()
		return nil
	})
	return moves, err
}

func mutate(random *rand.Rand, current []item, newItem func() item) []item {
	next := append([]item(nil), current...)
	if len(next) == 0 {
		return []item{newItem()}
	}
	switch random.Intn(4) {
	case 0:
		random.Shuffle(len(next), func(i, j int) { next[i], next[j] = next[j], next[i] })
	case 1:
		next[random.Intn(len(next))] = newItem()
	case 2:
		i, j := random.Intn(len(next)), random.Intn(len(next))
		next[i], next[j] = next[j], next[i]
	default:
		for i := 0; i < len(next); i += 10 {
			next[i].Label += " !"
		}
	}
	return next
}
