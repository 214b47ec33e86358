package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/chomsky/pkg/domain"
)

// LogHooks returns hooks that log every stage transition.
func LogHooks(logger *slog.Logger) domain.PipelineHooks {
	return domain.PipelineHooks{
		OnStageStart: func(ctx context.Context, e *domain.StageEvent) {
			logger.DebugContext(ctx, "stage_start",
				"stage", e.Stage,
				"nonterminals", e.Nonterminals,
				"productions", e.Productions,
			)
		},
		OnStageComplete: func(ctx context.Context, e *domain.StageEvent) {
			logger.InfoContext(ctx, "stage_complete",
				"stage", e.Stage,
				"title", e.Title,
				"nonterminals", e.Nonterminals,
				"productions", e.Productions,
				"duration", e.Duration,
			)
		},
	}
}

// Combine merges hook sets; callbacks run in argument order.
func Combine(sets ...domain.PipelineHooks) domain.PipelineHooks {
	var starts, completes []func(context.Context, *domain.StageEvent)
	for _, h := range sets {
		if h.OnStageStart != nil {
			starts = append(starts, h.OnStageStart)
		}
		if h.OnStageComplete != nil {
			completes = append(completes, h.OnStageComplete)
		}
	}

	var out domain.PipelineHooks
	if len(starts) > 0 {
		out.OnStageStart = fanOut(starts)
	}
	if len(completes) > 0 {
		out.OnStageComplete = fanOut(completes)
	}
	return out
}

func fanOut(fns []func(context.Context, *domain.StageEvent)) func(context.Context, *domain.StageEvent) {
	return func(ctx context.Context, e *domain.StageEvent) {
		for _, fn := range fns {
			fn(ctx, e)
		}
	}
}
