package reactive_test

import (
	"testing"

	"github.com/delaneyj/lattice/reactive"
	"github.com/stretchr/testify/assert"
)

func TestCleanupRunsBeforeRerunAndOnStop(t *testing.T) {
	rt := newTestRuntime(t)
	c := reactive.NewCell(rt, 1)

	var log []string
	stop := reactive.Effect(rt, func() error {
		c.Value()
		log = append(log, "run")
		rt.OnCleanup(func() {
			log = append(log, "cleanup first")
		})
		rt.OnCleanup(func() {
			log = append(log, "cleanup second")
		})
		return nil
	})

	c.SetValue(2)
	stop()
	stop()

	assert.Equal(t, []string{
		"run",
		"cleanup second", "cleanup first",
		"run",
		"cleanup second", "cleanup first",
	}, log)
}

func TestInnerEffectsAreDisposedWithTheirOwner(t *testing.T) {
	rt := newTestRuntime(t)
	outer := reactive.NewCell(rt, 0)
	inner := reactive.NewCell(rt, 0)

	innerRuns := 0
	stop := reactive.Effect(rt, func() error {
		outer.Value()
		reactive.Effect(rt, func() error {
			inner.Value()
			innerRuns++
			return nil
		})
		return nil
	})

	assert.Equal(t, 1, innerRuns)
	assert.Equal(t, 1, inner.SubscriberCount())

	// re-running the owner replaces the inner effect instead of adding one
	outer.SetValue(1)
	assert.Equal(t, 2, innerRuns)
	assert.Equal(t, 1, inner.SubscriberCount())

	inner.SetValue(1)
	assert.Equal(t, 3, innerRuns)

	stop()
	assert.Equal(t, 0, inner.SubscriberCount())
	inner.SetValue(2)
	assert.Equal(t, 3, innerRuns)
}

func TestRootIsDetachedFromEnclosingEffect(t *testing.T) {
	rt := newTestRuntime(t)
	trigger := reactive.NewCell(rt, 0)
	watched := reactive.NewCell(rt, 0)

	var dispose func()
	rootRuns := 0
	stop := reactive.Effect(rt, func() error {
		if trigger.Value() == 0 {
			rt.Root(func(d func()) {
				dispose = d
				reactive.Effect(rt, func() error {
					watched.Value()
					rootRuns++
					return nil
				})
			})
		}
		return nil
	})
	defer stop()

	trigger.SetValue(1)
	watched.SetValue(1)
	assert.Equal(t, 2, rootRuns, "root effect survives its creator re-running")

	cleaned := false
	rt.Root(func(d func()) {
		rt.OnCleanup(func() { cleaned = true })
		d()
	})
	assert.True(t, cleaned)

	dispose()
	watched.SetValue(2)
	assert.Equal(t, 2, rootRuns)
}

func TestRootReadsAreUntracked(t *testing.T) {
	rt := newTestRuntime(t)
	c := reactive.NewCell(rt, 0)

	runs := 0
	stop := reactive.Effect(rt, func() error {
		runs++
		rt.Root(func(func()) {
			c.Value()
		})
		return nil
	})
	defer stop()

	c.SetValue(1)
	assert.Equal(t, 1, runs)
	assert.Equal(t, 0, c.SubscriberCount())
}

func TestOnCleanupOutsideOwnerIsIgnored(t *testing.T) {
	rt := newTestRuntime(t)
	called := false
	rt.OnCleanup(func() { called = true })
	assert.False(t, called)
}
