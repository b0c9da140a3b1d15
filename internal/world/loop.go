package world

import (
	"context"
	"log/slog"
	"time"
)

// Run ticks the world every TickInterval until ctx is canceled, Stop is
// called, or (with StopOnTerminal) the session ends.
func (w *World) Run(ctx context.Context) error {
	interval := w.opts.TickInterval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	dt := interval.Seconds()
	slog.Info("simulation loop started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("simulation loop stopping")
			return ctx.Err()

		case <-w.stopCh:
			slog.Info("simulation loop stopped")
			return nil

		case <-ticker.C:
			w.Tick(dt)
			if w.opts.StopOnTerminal && w.IsTerminal() {
				slog.Info("simulation loop finished", "outcome", w.Outcome(), "status", w.Status())
				return nil
			}
		}
	}
}

// Stop makes Run return. Safe to call more than once.
func (w *World) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}
