package observability

import (
	"context"

	"github.com/aretw0/propnet/pkg/domain"
)

// Compose returns hooks that call every non-nil hook of each set in order.
func Compose(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnCellChange = chain(out.OnCellChange, h.OnCellChange)
		out.OnContradiction = chain(out.OnContradiction, h.OnContradiction)
		out.OnPropagatorRun = chain(out.OnPropagatorRun, h.OnPropagatorRun)
		out.OnPropagatorFailure = chain(out.OnPropagatorFailure, h.OnPropagatorFailure)
		out.OnRunComplete = chain(out.OnRunComplete, h.OnRunComplete)
	}
	return out
}

func chain[E any](first, next func(context.Context, E)) func(context.Context, E) {
	switch {
	case first == nil:
		return next
	case next == nil:
		return first
	}
	return func(ctx context.Context, e E) {
		first(ctx, e)
		next(ctx, e)
	}
}
