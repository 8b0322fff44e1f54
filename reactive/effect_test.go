package reactive_test

import (
	"log"
	"testing"

	"github.com/delaneyj/lattice/reactive"
	"github.com/stretchr/testify/assert"
)

// should clear subscriptions when untracked by all subscribers
func TestEffectClearSubsWhenUntracked(t *testing.T) {
	bRunTimes := 0

	rt := newTestRuntime(t)
	a := reactive.NewCell(rt, 1)
	b := reactive.Derive(rt, func(prev int) int {
		bRunTimes++
		return a.Value() * 2
	})
	stopEffect := reactive.Effect(rt, func() error {
		b.Value()
		return nil
	})

	assert.Equal(t, 1, bRunTimes)
	a.SetValue(2)
	assert.Equal(t, 2, bRunTimes)
	stopEffect()
	a.SetValue(3)
	assert.Equal(t, 2, bRunTimes)
}

// should not run untracked inner effect
func TestShouldNotRunUntrackedInnerEffect(t *testing.T) {
	rt := newTestRuntime(t)
	a := reactive.NewCell(rt, 3)
	b := reactive.Derive(rt, func(prev bool) bool {
		return a.Value() > 0
	})

	reactive.Effect(rt, func() error {
		if b.Value() {
			reactive.Effect(rt, func() error {
				if a.Value() == 0 {
					assert.Fail(t, "bad")
				}
				return nil
			})
		}
		return nil
	})

	decrement := func() {
		a.SetValue(a.Value() - 1)
	}
	decrement()
	decrement()
	decrement()
}

// should run outer effect first
func TestShouldRunOuterEffectFirst(t *testing.T) {
	rt := newTestRuntime(t)
	a := reactive.NewCell(rt, 1)
	b := reactive.NewCell(rt, 1)

	reactive.Effect(rt, func() error {
		aV := a.Value()
		if aV != 0 {
			reactive.Effect(rt, func() error {
				aV, bV := a.Value(), b.Value()
				log.Printf("aV: %d, bV: %d", aV, bV)
				if aV == 0 {
					assert.Fail(t, "bad")
				}
				return nil
			})
		}
		return nil
	})

	rt.StartBatch()
	a.SetValue(0)
	b.SetValue(0)
	rt.EndBatch()
}

// should not trigger inner effect when resolve maybe dirty
func TestShouldNotTriggerInnerEffectWhenResolveMaybeDirty(t *testing.T) {
	rt := newTestRuntime(t)
	a := reactive.NewCell(rt, 0)
	b := reactive.Derive(rt, func(prev bool) bool {
		return a.Value()%2 == 0
	})

	innerTriggerTimes := 0

	reactive.Effect(rt, func() error {
		reactive.Effect(rt, func() error {
			b.Value()
			innerTriggerTimes++
			if innerTriggerTimes >= 2 {
				assert.Fail(t, "bad")
			}
			return nil
		})
		return nil
	})

	a.SetValue(2)
}

// should trigger inner effects in sequence
func TestShouldTriggerInnerEffectsInSequence(t *testing.T) {
	rt := newTestRuntime(t)
	a := reactive.NewCell(rt, 0)
	b := reactive.NewCell(rt, 0)
	c := reactive.Derive(rt, func(prev int) int {
		return a.Value() - b.Value()
	})
	order := []string{}

	reactive.Effect(rt, func() error {
		c.Value()

		reactive.Effect(rt, func() error {
			order = append(order, "first inner")
			a.Value()
			return nil
		})

		reactive.Effect(rt, func() error {
			order = append(order, "last inner")
			a.Value()
			b.Value()
			return nil
		})

		return nil
	})

	order = order[:0]
	rt.StartBatch()
	b.SetValue(1)
	a.SetValue(1)
	rt.EndBatch()

	assert.Equal(t, []string{"first inner", "last inner"}, order)
}

// should trigger inner effects in sequence in root
func TestShouldTriggerInnerEffectsInSequenceInRoot(t *testing.T) {
	rt := newTestRuntime(t)
	a := reactive.NewCell(rt, 0)
	b := reactive.NewCell(rt, 0)
	order := []string{}

	rt.Root(func(func()) {
		reactive.Effect(rt, func() error {
			order = append(order, "first inner")
			a.Value()
			return nil
		})

		reactive.Effect(rt, func() error {
			order = append(order, "last inner")
			a.Value()
			b.Value()
			return nil
		})
	})

	order = order[:0]
	rt.StartBatch()
	b.SetValue(1)
	a.SetValue(1)
	rt.EndBatch()

	assert.Equal(t, []string{"first inner", "last inner"}, order)
}

// should custom effect support batch
func TestShouldCustomEffectSupportBatch(t *testing.T) {
	rt := newTestRuntime(t)

	batchEffect := func(fn func() error) reactive.StopFunc {
		return reactive.Effect(rt, func() error {
			rt.StartBatch()
			defer rt.EndBatch()
			return fn()
		})
	}

	logs := []string{}
	a := reactive.NewCell(rt, 0)
	b := reactive.NewCell(rt, 0)

	aa := reactive.Derive(rt, func(prev int) int {
		logs = append(logs, "aa-0")
		aV := a.Value()
		if aV == 0 {
			b.SetValue(1)
		}
		logs = append(logs, "aa-1")
		return 0
	})

	bb := reactive.Derive(rt, func(prev int) int {
		logs = append(logs, "bb")
		bV := b.Value()
		return bV
	})

	batchEffect(func() error {
		bb.Value()
		return nil
	})

	batchEffect(func() error {
		aa.Value()
		return nil
	})

	assert.Equal(t, []string{"bb", "aa-0", "aa-1", "bb"}, logs)
}

// should not trigger after stop
func TestShouldNotTriggerAfterStop(t *testing.T) {
	rt := newTestRuntime(t)

	count := reactive.NewCell(rt, 0)

	triggers := 0

	var stopScope func()
	rt.Root(func(dispose func()) {
		stopScope = dispose
		reactive.Effect(rt, func() error {
			triggers++
			count.Value()
			return nil
		})
	})

	assert.Equal(t, 1, triggers)
	count.SetValue(2)
	assert.Equal(t, 2, triggers)
	stopScope()
	count.SetValue(3)
	assert.Equal(t, 2, triggers)
}
