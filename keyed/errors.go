package keyed

import "fmt"

// DuplicateKeyError rejects an update in which two items share a key. The
// list is left exactly as it was before the update.
type DuplicateKeyError struct {
	Key    any
	First  int
	Second int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("keyed: duplicate key %v at index %d and %d", e.Key, e.First, e.Second)
}
