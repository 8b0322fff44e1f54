// Package promstats exports reactive runtime counters to Prometheus.
package promstats

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/delaneyj/lattice/reactive"
)

// Config configures the collector.
type Config struct {
	// Namespace is the metrics namespace (default: "lattice").
	Namespace string

	// Subsystem is the metrics subsystem (default: "reactive").
	Subsystem string

	// ConstLabels are added to every metric, e.g. a runtime name.
	ConstLabels prometheus.Labels

	// Buckets are the flush duration histogram buckets.
	// Default: exponential from 10µs.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) { c.Namespace = namespace }
}

func WithSubsystem(subsystem string) Option {
	return func(c *Config) { c.Subsystem = subsystem }
}

func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) { c.ConstLabels = labels }
}

func WithBuckets(buckets []float64) Option {
	return func(c *Config) { c.Buckets = buckets }
}

// WithRegistry sets the registerer the collector's metrics are added to.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) { c.Registry = registry }
}

func defaultConfig() Config {
	return Config{
		Namespace: "lattice",
		Subsystem: "reactive",
		Buckets:   prometheus.ExponentialBuckets(10e-6, 4, 10),
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector implements reactive.Metrics.
type Collector struct {
	flushes       prometheus.Counter
	passes        prometheus.Counter
	flushDuration prometheus.Histogram
	flushEffects  prometheus.Histogram
	effectRuns    prometheus.Counter
	recomputes    prometheus.Counter
	failures      prometheus.Counter
}

var _ reactive.Metrics = (*Collector)(nil)

// New creates the collector and registers its metrics. Registering twice on
// the same registry panics, like promauto.
func New(opts ...Option) *Collector {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	factory := promauto.With(cfg.Registry)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: cfg.ConstLabels,
		})
	}

	return &Collector{
		flushes:    counter("flushes_total", "Completed scheduler flushes"),
		passes:     counter("flush_passes_total", "Scheduler passes across all flushes"),
		effectRuns: counter("effect_runs_total", "Effect runs, including first runs"),
		recomputes: counter("derivation_recomputes_total", "Derivation compute function invocations"),
		failures:   counter("subscriber_failures_total", "Effects that returned an error or panicked"),
		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Wall time of a scheduler flush",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}),
		flushEffects: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "flush_effects",
			Help:        "Effects run by a single scheduler flush",
			ConstLabels: cfg.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
}

func (c *Collector) FlushCompleted(passes, effects int, elapsed time.Duration) {
	c.flushes.Inc()
	c.passes.Add(float64(passes))
	c.flushDuration.Observe(elapsed.Seconds())
	c.flushEffects.Observe(float64(effects))
}

func (c *Collector) EffectRan()            { c.effectRuns.Inc() }
func (c *Collector) DerivationRecomputed() { c.recomputes.Inc() }
func (c *Collector) SubscriberFailed()     { c.failures.Inc() }
