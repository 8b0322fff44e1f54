package reactive

import (
	"log/slog"
	"runtime/debug"
	"slices"
	"time"
)

const DefaultMaxFlushPasses = 100

// SchedulerState is where the runtime is in its batch lifecycle.
type SchedulerState int

const (
	Idle SchedulerState = iota
	BatchOpen
	Flushing
)

func (s SchedulerState) String() string {
	switch s {
	case Idle:
		return "idle"
	case BatchOpen:
		return "batch-open"
	case Flushing:
		return "flushing"
	default:
		return "unknown"
	}
}

// Runtime owns one reactive graph. It is not safe for concurrent use: confine
// it to a single goroutine or event loop.
type Runtime struct {
	tracker    *Tracker
	pauseStack []*frame
	owner      *owner

	nextID     uint64
	epoch      uint64
	batchDepth int

	queue     []*EffectRunner
	reads     []func()
	writes    map[any]func()
	writeKeys []any
	unkeyed   []func()

	flushing       bool
	flushScheduled bool
	schedule       func(func())
	maxPasses      int

	// failures raised outside runPass while a flush is in progress
	deferred []error

	logger  *slog.Logger
	onError func(error)
	metrics Metrics
}

type RuntimeOption func(*Runtime)

func WithLogger(logger *slog.Logger) RuntimeOption {
	return func(rt *Runtime) {
		rt.logger = logger
	}
}

// WithErrorHandler installs the crash channel that receives the failures of
// a flush once it completes. Without one the runtime panics with the
// *FlushError.
func WithErrorHandler(fn func(error)) RuntimeOption {
	return func(rt *Runtime) {
		rt.onError = fn
	}
}

// WithScheduler defers flushes to schedule, typically a microtask queue. Each
// scheduled flush runs a single pass; work queued during it is scheduled
// again.
func WithScheduler(schedule func(func())) RuntimeOption {
	return func(rt *Runtime) {
		rt.schedule = schedule
	}
}

func WithMaxFlushPasses(n int) RuntimeOption {
	return func(rt *Runtime) {
		if n > 0 {
			rt.maxPasses = n
		}
	}
}

func WithMetrics(m Metrics) RuntimeOption {
	return func(rt *Runtime) {
		if m != nil {
			rt.metrics = m
		}
	}
}

func NewRuntime(opts ...RuntimeOption) *Runtime {
	rt := &Runtime{
		tracker:   &Tracker{},
		maxPasses: DefaultMaxFlushPasses,
		logger:    slog.Default(),
		metrics:   nopMetrics{},
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

func (rt *Runtime) Tracker() *Tracker {
	return rt.tracker
}

func (rt *Runtime) newNode(flags nodeFlags) node {
	rt.nextID++
	return node{id: rt.nextID, rt: rt, flags: flags}
}

func (rt *Runtime) State() SchedulerState {
	switch {
	case rt.flushing:
		return Flushing
	case rt.batchDepth > 0 || rt.flushScheduled:
		return BatchOpen
	default:
		return Idle
	}
}

func (rt *Runtime) StartBatch() {
	rt.batchDepth++
}

func (rt *Runtime) EndBatch() {
	rt.batchDepth--
	if rt.batchDepth == 0 {
		rt.requestFlush()
	}
}

// Batch runs fn and holds every notification it causes until fn returns.
func (rt *Runtime) Batch(fn func()) {
	rt.StartBatch()
	defer rt.EndBatch()
	fn()
}

// QueueRead schedules fn to run after the effects of the next flush.
func (rt *Runtime) QueueRead(fn func()) {
	rt.reads = append(rt.reads, fn)
	rt.requestFlush()
}

// QueueWrite schedules fn to run after the reads of the next flush. A later
// write with the same key replaces an earlier one; a nil key always appends.
func (rt *Runtime) QueueWrite(key any, fn func()) {
	if key == nil {
		rt.unkeyed = append(rt.unkeyed, fn)
	} else {
		if rt.writes == nil {
			rt.writes = map[any]func(){}
		}
		if _, ok := rt.writes[key]; !ok {
			rt.writeKeys = append(rt.writeKeys, key)
		}
		rt.writes[key] = fn
	}
	rt.requestFlush()
}

func (rt *Runtime) enqueue(e *EffectRunner) {
	if e.is(fQueued) {
		return
	}
	e.flags |= fQueued
	rt.queue = append(rt.queue, e)
}

func (rt *Runtime) hasPending() bool {
	return len(rt.queue) > 0 || len(rt.reads) > 0 || len(rt.writeKeys) > 0 || len(rt.unkeyed) > 0
}

func (rt *Runtime) requestFlush() {
	if rt.batchDepth > 0 || rt.flushing || rt.flushScheduled || !rt.hasPending() {
		return
	}
	if rt.schedule != nil {
		rt.flushScheduled = true
		rt.schedule(rt.scheduledFlush)
		return
	}
	if err := rt.Flush(); err != nil {
		rt.crash(err)
	}
}

func (rt *Runtime) scheduledFlush() {
	if !rt.flushScheduled {
		return
	}
	if err := rt.Flush(); err != nil {
		rt.crash(err)
	}
}

// fail surfaces a subscriber failure that happened outside a flush pass.
func (rt *Runtime) fail(err error) {
	if rt.flushing {
		rt.deferred = append(rt.deferred, err)
		return
	}
	rt.crash(err)
}

func (rt *Runtime) crash(err error) {
	if rt.onError != nil {
		rt.onError(err)
		return
	}
	panic(err)
}

// Flush delivers everything queued so far and returns the failures of the
// subscribers it ran. Without a scheduler it keeps running passes until the
// graph settles or the pass limit is hit; with one it runs a single pass and
// schedules the next.
func (rt *Runtime) Flush() error {
	if rt.flushing {
		return nil
	}
	rt.flushScheduled = false
	rt.flushing = true
	defer func() {
		rt.flushing = false
	}()

	start := time.Now()
	var errs []error
	passes, ran := 0, 0
	for rt.hasPending() {
		if passes == rt.maxPasses {
			err := &FlushLimitError{Passes: passes, Pending: len(rt.queue)}
			rt.logger.Error("flush limit reached", "passes", passes, "pending", len(rt.queue))
			rt.dropPending()
			errs = append(errs, err)
			break
		}
		passes++
		n, passErrs := rt.runPass()
		ran += n
		errs = append(errs, passErrs...)
		if rt.schedule != nil && rt.hasPending() {
			rt.flushScheduled = true
			rt.schedule(rt.scheduledFlush)
			break
		}
	}

	errs = append(errs, rt.deferred...)
	rt.deferred = nil

	elapsed := time.Since(start)
	rt.metrics.FlushCompleted(passes, ran, elapsed)
	rt.logger.Debug("flush", "passes", passes, "effects", ran, "errors", len(errs), "elapsed", elapsed)
	if len(errs) == 0 {
		return nil
	}
	return &FlushError{Errors: errs}
}

func (rt *Runtime) dropPending() {
	for _, e := range rt.queue {
		e.flags &^= fQueued
	}
	rt.queue = nil
	rt.reads = nil
	rt.writes = nil
	rt.writeKeys = nil
	rt.unkeyed = nil
}

// runPass delivers one snapshot of the queues. Anything queued while it runs
// waits for the next pass.
func (rt *Runtime) runPass() (ran int, errs []error) {
	effects := rt.queue
	rt.queue = nil
	reads := rt.reads
	rt.reads = nil
	writes := make([]func(), 0, len(rt.writeKeys)+len(rt.unkeyed))
	for _, k := range rt.writeKeys {
		writes = append(writes, rt.writes[k])
	}
	writes = append(writes, rt.unkeyed...)
	rt.writes, rt.writeKeys, rt.unkeyed = nil, nil, nil

	// creation order runs owners before the effects they created
	slices.SortFunc(effects, func(a, b *EffectRunner) int {
		switch {
		case a.id < b.id:
			return -1
		case a.id > b.id:
			return 1
		}
		return 0
	})
	for _, e := range effects {
		e.flags &^= fQueued
	}
	for _, e := range effects {
		didRun, err := e.notify()
		if didRun {
			ran++
		}
		if err != nil {
			errs = append(errs, rt.report(e.id, e.label, err))
		}
	}
	for _, fn := range reads {
		if err := protect(fn); err != nil {
			errs = append(errs, rt.report(0, "read", err))
		}
	}
	for _, fn := range writes {
		if err := protect(fn); err != nil {
			errs = append(errs, rt.report(0, "write", err))
		}
	}
	return ran, errs
}

func (rt *Runtime) report(id uint64, label string, err error) error {
	rt.metrics.SubscriberFailed()
	rt.logger.Error("subscriber failed", "effect", id, "label", label, "error", err)
	return &SubscriberError{ID: id, Label: label, Err: err}
}

// protect runs fn, turning a panic into a *PanicError.
func protect(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	fn()
	return nil
}

// guardWrite rejects writes to a cell read by a derivation that is still
// computing.
func (rt *Runtime) guardWrite(c *node) {
	for _, f := range rt.tracker.frames {
		d := f.owner
		if d == nil || !d.is(fDerivation) {
			continue
		}
		if d.hasSource(c) || containsNode(f.observed, f.seen, c) {
			panic(&ReentrantWriteError{Cell: c.id, Derivation: d.id})
		}
	}
}
