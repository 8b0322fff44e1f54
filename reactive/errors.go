package reactive

import (
	"errors"
	"fmt"
	"strings"
)

var ErrEffectStopped = errors.New("reactive: effect stopped")

// StaleReadError is raised when a derivation is read while it is still
// computing, which only happens when the graph has a cycle.
type StaleReadError struct {
	ID uint64
}

func (e *StaleReadError) Error() string {
	return fmt.Sprintf("reactive: derivation %d read while computing (cycle detected)", e.ID)
}

// ReentrantWriteError is raised when a cell is written from inside a
// derivation that depends on it.
type ReentrantWriteError struct {
	Cell       uint64
	Derivation uint64
}

func (e *ReentrantWriteError) Error() string {
	return fmt.Sprintf("reactive: cell %d written while derivation %d that reads it is computing", e.Cell, e.Derivation)
}

// PanicError carries a panic recovered from user code.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("reactive: panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// SubscriberError reports a subscriber that failed during a flush.
type SubscriberError struct {
	ID    uint64
	Label string
	Err   error
}

func (e *SubscriberError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("reactive: subscriber %d (%s): %v", e.ID, e.Label, e.Err)
	}
	return fmt.Sprintf("reactive: subscriber %d: %v", e.ID, e.Err)
}

func (e *SubscriberError) Unwrap() error { return e.Err }

// FlushLimitError is reported when a synchronous flush keeps producing work
// after the maximum number of passes.
type FlushLimitError struct {
	Passes  int
	Pending int
}

func (e *FlushLimitError) Error() string {
	return fmt.Sprintf("reactive: flush did not settle after %d passes, %d effects dropped", e.Passes, e.Pending)
}

// FlushError collects every failure of a single flush.
type FlushError struct {
	Errors []error
}

func (e *FlushError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("reactive: %d subscribers failed: %s", len(e.Errors), strings.Join(msgs, "; "))
}

func (e *FlushError) Unwrap() []error { return e.Errors }
