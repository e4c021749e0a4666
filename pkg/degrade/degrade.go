// Package degrade turns failed fetches into default values.
package degrade

import (
	"context"
	"log/slog"

	"github.com/kazz187/taskdigest/pkg/metrics"
	"github.com/kazz187/taskdigest/pkg/panicerr"
)

// Attempt runs fn and returns def when fn fails or panics. The failure is
// logged at warn level and counted under unit; it is not returned.
func Attempt[T any](ctx context.Context, unit string, def T, fn func(context.Context) (T, error), attrs ...any) T {
	v, err := panicerr.Call(ctx, fn)
	if err == nil {
		return v
	}
	metrics.RecordDegradedFetch(unit)
	args := append([]any{slog.String("unit", unit), slog.String("error", err.Error())}, attrs...)
	slog.WarnContext(ctx, "fetch degraded to default", args...)
	return def
}
