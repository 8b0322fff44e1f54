package reactive_test

import (
	"testing"

	"github.com/delaneyj/lattice/reactive"
	"github.com/stretchr/testify/assert"
)

func newTestRuntime(t *testing.T, opts ...reactive.RuntimeOption) *reactive.Runtime {
	t.Helper()
	opts = append([]reactive.RuntimeOption{
		reactive.WithErrorHandler(func(err error) {
			assert.FailNow(t, err.Error())
		}),
	}, opts...)
	return reactive.NewRuntime(opts...)
}
