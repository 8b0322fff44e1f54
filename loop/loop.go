// Package loop is a single goroutine event loop. Tasks are submitted from
// any goroutine; microtasks are queued from the loop goroutine and drained
// after every task, which is what a reactive runtime defers its flushes to.
package loop

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

var (
	ErrLoopAlreadyRunning = errors.New("loop: already running")
	ErrLoopTerminated     = errors.New("loop: terminated")
)

const DefaultMicrotaskBudget = 1024

type State int32

const (
	StateAwake State = iota
	StateRunning
	StateTerminating
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateAwake:
		return "awake"
	case StateRunning:
		return "running"
	case StateTerminating:
		return "terminating"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

type Loop struct {
	state atomic.Int32
	ticks atomic.Uint64

	ingressMu sync.Mutex
	ingress   []func()
	wake      chan struct{}

	// loop goroutine only
	microtasks []func()
	budget     int

	logger   *slog.Logger
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

type Option func(*Loop)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		l.logger = logger
	}
}

// WithMicrotaskBudget caps how many microtasks run before the loop yields
// to submitted tasks again.
func WithMicrotaskBudget(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.budget = n
		}
	}
}

func New(opts ...Option) *Loop {
	l := &Loop{
		wake:   make(chan struct{}, 1),
		budget: DefaultMicrotaskBudget,
		logger: slog.Default(),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loop) State() State {
	return State(l.state.Load())
}

// Ticks counts the task batches processed so far.
func (l *Loop) Ticks() uint64 {
	return l.ticks.Load()
}

// Run processes tasks until ctx is done or Shutdown is called. Whatever was
// already submitted is drained before it returns.
func (l *Loop) Run(ctx context.Context) error {
	if !l.state.CompareAndSwap(int32(StateAwake), int32(StateRunning)) {
		if l.State() == StateTerminated || l.State() == StateTerminating {
			return ErrLoopTerminated
		}
		return ErrLoopAlreadyRunning
	}
	defer close(l.done)

	for {
		l.tick()
		if len(l.microtasks) > 0 {
			// budget exhausted, come back without blocking
			select {
			case <-ctx.Done():
				l.terminate()
				return ctx.Err()
			case <-l.stop:
				l.terminate()
				return nil
			default:
				continue
			}
		}
		select {
		case <-ctx.Done():
			l.terminate()
			return ctx.Err()
		case <-l.stop:
			l.terminate()
			return nil
		case <-l.wake:
		}
	}
}

// Shutdown stops the loop and waits for Run to return.
func (l *Loop) Shutdown(ctx context.Context) error {
	if l.state.CompareAndSwap(int32(StateAwake), int32(StateTerminated)) {
		close(l.done)
		return nil
	}
	l.stopOnce.Do(func() {
		close(l.stop)
	})
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit queues fn to run on the loop goroutine. Safe for concurrent use.
func (l *Loop) Submit(fn func()) error {
	l.ingressMu.Lock()
	s := l.State()
	if s == StateTerminating || s == StateTerminated {
		l.ingressMu.Unlock()
		return ErrLoopTerminated
	}
	l.ingress = append(l.ingress, fn)
	l.ingressMu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// QueueMicrotask runs fn after the current task, before the next one. It
// must only be called from the loop goroutine.
func (l *Loop) QueueMicrotask(fn func()) {
	l.microtasks = append(l.microtasks, fn)
}

func (l *Loop) tick() {
	l.ticks.Add(1)

	l.ingressMu.Lock()
	batch := l.ingress
	l.ingress = nil
	l.ingressMu.Unlock()

	for i, fn := range batch {
		batch[i] = nil
		l.safeExecute(fn)
		l.drainMicrotasks()
	}
	if len(batch) == 0 {
		l.drainMicrotasks()
	}
}

func (l *Loop) drainMicrotasks() {
	executed := 0
	for len(l.microtasks) > 0 {
		if executed >= l.budget {
			l.logger.Warn("microtask budget exhausted, yielding", "pending", len(l.microtasks))
			return
		}
		fn := l.microtasks[0]
		l.microtasks[0] = nil
		l.microtasks = l.microtasks[1:]
		l.safeExecute(fn)
		executed++
	}
	l.microtasks = nil
}

func (l *Loop) terminate() {
	l.ingressMu.Lock()
	l.state.Store(int32(StateTerminating))
	l.ingressMu.Unlock()

	// run whatever made it in before the state flipped
	l.tick()
	if n := len(l.microtasks); n > 0 {
		l.logger.Warn("dropping microtasks on shutdown", "pending", n)
		l.microtasks = nil
	}
	l.state.Store(int32(StateTerminated))
}

func (l *Loop) safeExecute(fn func()) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("task panicked", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
}
