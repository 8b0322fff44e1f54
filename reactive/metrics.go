package reactive

import "time"

// Metrics receives counters from the runtime. Implementations must be cheap,
// they are called on the hot path.
type Metrics interface {
	FlushCompleted(passes, effects int, elapsed time.Duration)
	EffectRan()
	DerivationRecomputed()
	SubscriberFailed()
}

type nopMetrics struct{}

func (nopMetrics) FlushCompleted(int, int, time.Duration) {}
func (nopMetrics) EffectRan()                             {}
func (nopMetrics) DerivationRecomputed()                  {}
func (nopMetrics) SubscriberFailed()                      {}
