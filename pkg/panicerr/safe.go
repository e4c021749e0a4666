package panicerr

import (
	"context"

	"github.com/sourcegraph/conc/panics"
)

// Call runs fn and turns a panic into an error carrying the recovered value and stack.
func Call[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	var (
		catcher panics.Catcher
		value   T
		err     error
	)
	catcher.Try(func() {
		value, err = fn(ctx)
	})
	if rerr := catcher.Recovered().AsError(); rerr != nil {
		var zero T
		return zero, rerr
	}
	return value, err
}
