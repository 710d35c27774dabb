package app

import (
	"context"
	"log/slog"

	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/store"
)

// activityBuffer bounds the effects waiting to be written.
const activityBuffer = 256

// pruneEvery is how many writes happen between prunes.
const pruneEvery = 100

// ActivityLog persists dispatch effects to the store. Observe is called on
// the dispatch goroutine and never blocks; Run does the writing. Pointer
// moves are not recorded.
type ActivityLog struct {
	repo   *store.ActivityRepository
	keep   int
	ch     chan dispatch.Effect
	logger *slog.Logger

	listeners []func(*store.Activity)
}

// NewActivityLog creates a log that keeps the newest keep entries.
func NewActivityLog(repo *store.ActivityRepository, keep int, logger *slog.Logger) *ActivityLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityLog{
		repo:   repo,
		keep:   keep,
		ch:     make(chan dispatch.Effect, activityBuffer),
		logger: logger,
	}
}

// onRecord registers fn to be called after each entry is written. It must be
// called before Run.
func (l *ActivityLog) onRecord(fn func(*store.Activity)) {
	l.listeners = append(l.listeners, fn)
}

// Observe queues ef for writing. Effects are dropped when the buffer is full.
func (l *ActivityLog) Observe(ef dispatch.Effect) {
	if ef.Kind == dispatch.EffectMove {
		return
	}
	select {
	case l.ch <- ef:
	default:
		l.logger.Debug("activity buffer full, dropping effect", "kind", ef.Kind)
	}
}

// Run writes queued effects until ctx is cancelled.
func (l *ActivityLog) Run(ctx context.Context) error {
	written := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case ef := <-l.ch:
			entry := toActivity(ef)
			if err := l.repo.Create(entry); err != nil {
				l.logger.Warn("failed to record activity", "kind", ef.Kind, "error", err)
				continue
			}
			for _, fn := range l.listeners {
				fn(entry)
			}

			written++
			if l.keep > 0 && written%pruneEvery == 0 {
				if n, err := l.repo.Prune(l.keep); err != nil {
					l.logger.Warn("failed to prune activity", "error", err)
				} else if n > 0 {
					l.logger.Debug("pruned activity", "deleted", n)
				}
			}
		}
	}
}

func toActivity(ef dispatch.Effect) *store.Activity {
	a := &store.Activity{
		Kind:      string(ef.Kind),
		Label:     ef.Label,
		Profile:   ef.Profile,
		Detail:    ef.Detail(),
		CreatedAt: ef.At,
	}
	if ef.Err != nil {
		a.Error = ef.Err.Error()
	}
	return a
}
