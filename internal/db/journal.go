package db

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/yskaart/sentry/internal/event"
	"github.com/yskaart/sentry/internal/model"
)

const (
	// DefaultJournalBuffer is the event queue capacity.
	DefaultJournalBuffer = 1024
	maxJournalBatch      = 128
	shutdownTimeout      = 5 * time.Second
)

// SessionStore is the storage the journal writes to.
// *SessionRepository implements it.
type SessionStore interface {
	Create(ctx context.Context, id uuid.UUID, scene string, startedAt time.Time) error
	Finish(ctx context.Context, id uuid.UUID, outcome string, finalLevel int, endedAt time.Time) error
	AppendEvents(ctx context.Context, rows []EventRow) error
}

// Journal records presentation events into the session tables.
// Notify never blocks the simulation: when the queue is full the event is
// dropped. A session reset closes the current session row and opens a new one.
type Journal struct {
	store SessionStore
	scene string
	queue chan event.Event
	now   func() time.Time

	mu        sync.Mutex
	sessionID uuid.UUID

	// Owned by Run.
	finished  bool
	lastLevel int

	dropped atomic.Int64
}

// NewJournal creates a journal for scene. bufferSize <= 0 uses DefaultJournalBuffer.
func NewJournal(store SessionStore, scene string, bufferSize int) *Journal {
	if bufferSize <= 0 {
		bufferSize = DefaultJournalBuffer
	}
	return &Journal{
		store:     store,
		scene:     scene,
		queue:     make(chan event.Event, bufferSize),
		now:       time.Now,
		sessionID: uuid.New(),
	}
}

// SessionID returns the ID of the session currently being recorded.
func (j *Journal) SessionID() uuid.UUID {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.sessionID
}

// Dropped returns how many events were discarded because the queue was full.
func (j *Journal) Dropped() int64 {
	return j.dropped.Load()
}

// Notify implements event.Observer.
func (j *Journal) Notify(e event.Event) {
	select {
	case j.queue <- e:
	default:
		j.dropped.Add(1)
		slog.Warn("journal queue full, event dropped", "kind", e.Kind, "agent", e.AgentID)
	}
}

// Run opens the first session and writes queued events until ctx is canceled.
// On cancellation it drains the queue and closes the open session.
func (j *Journal) Run(ctx context.Context) error {
	if err := j.begin(ctx, j.SessionID()); err != nil {
		return err
	}
	slog.Info("session journal started", "session", j.SessionID(), "scene", j.scene)

	batch := make([]event.Event, 0, maxJournalBatch)
	for {
		select {
		case <-ctx.Done():
			j.shutdown(ctx)
			return ctx.Err()

		case e := <-j.queue:
			batch = j.collect(append(batch[:0], e))
			j.process(ctx, batch)
		}
	}
}

// collect appends whatever is already queued, up to maxJournalBatch.
func (j *Journal) collect(batch []event.Event) []event.Event {
	for len(batch) < maxJournalBatch {
		select {
		case e := <-j.queue:
			batch = append(batch, e)
		default:
			return batch
		}
	}
	return batch
}

func (j *Journal) process(ctx context.Context, events []event.Event) {
	rows := make([]EventRow, 0, len(events))
	sessionID := j.SessionID()

	for _, e := range events {
		rows = append(rows, j.row(sessionID, e))

		switch e.Kind {
		case event.KindAlertLevelChanged:
			j.lastLevel = e.Level

		case event.KindTerminal:
			j.append(ctx, rows)
			rows = nil
			j.lastLevel = e.Level
			j.finish(ctx, sessionID, e.Outcome)

		case event.KindSessionReset:
			j.append(ctx, rows)
			rows = nil
			if !j.finished {
				j.finish(ctx, sessionID, model.OutcomeNone)
			}
			sessionID = uuid.New()
			j.mu.Lock()
			j.sessionID = sessionID
			j.mu.Unlock()
			j.lastLevel = 0
			if err := j.begin(ctx, sessionID); err != nil {
				slog.Error("opening next session", "session", sessionID, "error", err)
			}
		}
	}

	j.append(ctx, rows)
}

func (j *Journal) shutdown(ctx context.Context) {
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	for {
		batch := j.collect(make([]event.Event, 0, maxJournalBatch))
		if len(batch) == 0 {
			break
		}
		j.process(flushCtx, batch)
	}
	if !j.finished {
		j.finish(flushCtx, j.SessionID(), model.OutcomeNone)
	}
	slog.Info("session journal stopped", "session", j.SessionID(), "dropped", j.Dropped())
}

func (j *Journal) begin(ctx context.Context, id uuid.UUID) error {
	if err := j.store.Create(ctx, id, j.scene, j.now()); err != nil {
		return fmt.Errorf("starting journal: %w", err)
	}
	j.finished = false
	return nil
}

func (j *Journal) finish(ctx context.Context, id uuid.UUID, outcome model.Outcome) {
	if err := j.store.Finish(ctx, id, outcome.String(), j.lastLevel, j.now()); err != nil {
		slog.Error("finishing session", "session", id, "error", err)
		return
	}
	j.finished = true
	slog.Info("session recorded", "session", id, "outcome", outcome, "level", j.lastLevel)
}

func (j *Journal) append(ctx context.Context, rows []EventRow) {
	if len(rows) == 0 {
		return
	}
	if err := j.store.AppendEvents(ctx, rows); err != nil {
		slog.Error("writing journal events", "count", len(rows), "error", err)
	}
}

func (j *Journal) row(sessionID uuid.UUID, e event.Event) EventRow {
	row := EventRow{
		SessionID:  sessionID,
		Kind:       e.Kind.String(),
		AgentID:    e.AgentID,
		Level:      e.Level,
		SimTime:    e.SimTime,
		OccurredAt: j.now(),
	}
	switch e.Kind {
	case event.KindStateEntered, event.KindStateExited, event.KindStealthChanged:
		row.State = e.State.String()
	}
	return row
}
