package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/circuitlab/pkg/domain"
)

// LogHooks returns hooks that log every engine event at debug level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSimulate: func(ctx context.Context, e *domain.SimulationEvent) {
			logger.DebugContext(ctx, "simulate",
				"status", e.Status.String(),
				"elements", e.Elements,
				"junctions", e.Junctions,
				"paths", e.Paths,
				"steps", e.Steps,
				"duration", e.Duration,
			)
		},
		OnElementDropped: func(ctx context.Context, e *domain.DropEvent) {
			logger.DebugContext(ctx, "element_dropped", "element_id", e.ElementID, "kind", e.Kind, "reason", e.Reason)
		},
		OnTraversalCapped: func(ctx context.Context, e *domain.CapEvent) {
			logger.DebugContext(ctx, "traversal_capped", "limit", e.Limit, "found", e.Found)
		},
	}
}

// Chain combines hook sets; each event is delivered to every non-nil callback in order.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSimulate: func(ctx context.Context, e *domain.SimulationEvent) {
			for _, h := range sets {
				if h.OnSimulate != nil {
					h.OnSimulate(ctx, e)
				}
			}
		},
		OnElementDropped: func(ctx context.Context, e *domain.DropEvent) {
			for _, h := range sets {
				if h.OnElementDropped != nil {
					h.OnElementDropped(ctx, e)
				}
			}
		},
		OnTraversalCapped: func(ctx context.Context, e *domain.CapEvent) {
			for _, h := range sets {
				if h.OnTraversalCapped != nil {
					h.OnTraversalCapped(ctx, e)
				}
			}
		},
	}
}
