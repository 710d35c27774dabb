package dispatch

import (
	"context"
	"errors"
	"log/slog"
)

// Runner is the single consumer that feeds queued samples to the engine in
// arrival order.
type Runner struct {
	queue  *Queue
	engine *Engine
	logger *slog.Logger
}

// NewRunner creates a runner for queue and engine.
func NewRunner(queue *Queue, engine *Engine, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{queue: queue, engine: engine, logger: logger}
}

// Run processes samples until ctx is cancelled or the queue is closed.
// On return the queue is closed, pending samples are discarded without
// being processed, and any held mouse button is released.
func (r *Runner) Run(ctx context.Context) error {
	defer r.shutdown()

	for {
		s, err := r.queue.Pop(ctx)
		if err != nil {
			if errors.Is(err, ErrQueueClosed) || ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err := r.engine.Process(s); err != nil {
			r.logger.Warn("actuation failed", "label", s.Label, "error", err)
		}
	}
}

func (r *Runner) shutdown() {
	r.queue.Close()
	if pending := r.queue.Drain(); len(pending) > 0 {
		r.logger.Info("discarded pending samples", "count", len(pending))
	}
	if err := r.engine.ReleaseAll(); err != nil {
		r.logger.Error("failed to release held buttons", "error", err)
	}
	r.logger.Debug("dispatch stopped", "dropped", r.queue.Dropped())
}
