package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"caixa/internal/core"
	"caixa/internal/services"
)

// RolloverWorker periodically ensures the current month has its fixed
// expenses. ErrAlreadyRolledOver is the steady state and logged at
// debug; ErrNoSourceExpenses means there is nothing to clone yet.
type RolloverWorker struct {
	rollover *services.RolloverService
	interval time.Duration
	now      func() time.Time
}

func NewRolloverWorker(rollover *services.RolloverService, interval time.Duration) *RolloverWorker {
	return &RolloverWorker{
		rollover: rollover,
		interval: interval,
		now:      time.Now,
	}
}

// Run ticks until the context is cancelled, attempting a rollover for
// the current month on each tick. Returns ctx.Err on shutdown.
func (w *RolloverWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Rollover worker started", "interval", w.interval)

	// Attempt immediately on startup.
	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Rollover worker stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *RolloverWorker) tick(ctx context.Context) {
	now := w.now().UTC()
	month := core.NewDate(now.Year(), int(now.Month()), 1)

	count, err := w.rollover.Rollover(ctx, month)
	switch {
	case err == nil:
		slog.InfoContext(ctx, "Automatic rollover created fixed expenses",
			"month", month.Format("2006-01"),
			"count", count)
	case errors.Is(err, core.ErrAlreadyRolledOver):
		slog.DebugContext(ctx, "Month already rolled over", "month", month.Format("2006-01"))
	case errors.Is(err, core.ErrNoSourceExpenses):
		slog.InfoContext(ctx, "No fixed expenses to roll over", "month", month.Format("2006-01"))
	default:
		slog.ErrorContext(ctx, "Automatic rollover failed",
			"month", month.Format("2006-01"),
			"error", err)
	}
}
