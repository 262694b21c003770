package observe

import (
	"context"

	"github.com/lguimbarda/min-seq/seq/core"
	"github.com/rs/zerolog"
)

// WithLogging attaches hooks that log every terminal evaluation of
// sequences of T: start at debug level, completion at info level, and
// failures at error level.
func WithLogging[T any](ctx context.Context, logger zerolog.Logger) context.Context {
	return core.WithHooks(ctx, core.Hooks[T]{
		OnStart: func(e core.Evaluation) {
			logger.Debug().
				Str("evaluation_id", e.ID).
				Str("terminal", e.Terminal).
				Bool("parallel", e.Parallel).
				Int("chunks", e.Chunks).
				Msg("evaluation started")
		},
		OnComplete: func(e core.Evaluation, err error) {
			ev := logger.Info()
			if err != nil {
				ev = logger.Error().Err(err)
			}
			ev.Str("evaluation_id", e.ID).
				Str("terminal", e.Terminal).
				Bool("parallel", e.Parallel).
				Int64("elements", e.Elements).
				Dur("duration", e.Duration).
				Msg("evaluation completed")
		},
	})
}
