package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yskaart/sentry/internal/config"
	"github.com/yskaart/sentry/internal/db"
	"github.com/yskaart/sentry/internal/event"
	"github.com/yskaart/sentry/internal/world"
)

type runOptions struct {
	duration time.Duration
	ticks    int
}

func (a *App) newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation",
		Long: `Run the scene in real time, one tick per tick_interval, until interrupted,
until --duration elapses, or (with stop_on_terminal) until the session ends.

With --ticks the loop runs as fast as possible for that many ticks of
tick_interval each, which makes runs reproducible.

When database.enabled is set, every presentation event is recorded in the
session journal.

Examples:
  sentry run -c config/sentry.yaml
  sentry run --ticks 2000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			scene, err := a.loadScene()
			if err != nil {
				return err
			}
			return a.runScene(cmd.Context(), scene, opts)
		},
	}

	cmd.Flags().DurationVar(&opts.duration, "duration", 0, "Stop after this much wall-clock time (0 = no limit)")
	cmd.Flags().IntVar(&opts.ticks, "ticks", 0, "Run this many ticks without waiting for the clock")

	return cmd
}

func (a *App) runScene(ctx context.Context, scene config.Scene, opts *runOptions) error {
	if opts.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.duration)
		defer cancel()
	}

	observers := []event.Observer{event.NewLogObserver(nil)}

	var journal *db.Journal
	if scene.Database.Enabled {
		database, err := db.New(ctx, scene.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to journal database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if err := db.RunMigrations(ctx, scene.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}

		journal = db.NewJournal(db.NewSessionRepository(database.Pool()), scene.Name, db.DefaultJournalBuffer)
		observers = append(observers, journal)
	}

	w, err := world.FromScene(scene, observers...)
	if err != nil {
		return fmt.Errorf("building world: %w", err)
	}

	slog.Info("sentry starting",
		"scene", scene.Name,
		"agents", w.AgentCount(),
		"tick_interval", scene.TickInterval,
		"journal", journal != nil)

	g, gctx := errgroup.WithContext(ctx)
	journalCtx, stopJournal := context.WithCancel(gctx)
	defer stopJournal()

	g.Go(func() error {
		defer stopJournal()
		if opts.ticks > 0 {
			return stepWorld(gctx, w, scene, opts.ticks)
		}
		return ignoreCanceled(w.Run(gctx))
	})

	if journal != nil {
		g.Go(func() error {
			return ignoreCanceled(journal.Run(journalCtx))
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	snap := w.Snapshot()
	fmt.Fprintf(a.stdout, "outcome: %s  %s  t=%.2fs\n", snap.Outcome, w.Status(), snap.SimTime)
	if journal != nil {
		fmt.Fprintf(a.stdout, "session: %s\n", journal.SessionID())
	}
	return nil
}

// stepWorld runs ticks back to back with the configured interval as dt.
func stepWorld(ctx context.Context, w *world.World, scene config.Scene, ticks int) error {
	dt := scene.TickInterval.Seconds()
	for range ticks {
		if ctx.Err() != nil {
			return nil
		}
		w.Tick(dt)
		if scene.StopOnTerminal && w.IsTerminal() {
			break
		}
	}
	return nil
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
