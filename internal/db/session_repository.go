package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSessionNotFound is returned when a session row does not exist.
var ErrSessionNotFound = errors.New("session not found")

// Session is one row of the sessions table.
type Session struct {
	ID         uuid.UUID
	Scene      string
	StartedAt  time.Time
	EndedAt    *time.Time // nil while running
	Outcome    string
	FinalLevel int
}

// EventRow is one row of the session_events table.
type EventRow struct {
	ID         int64
	SessionID  uuid.UUID
	Kind       string
	AgentID    string
	State      string
	Level      int
	SimTime    float64
	OccurredAt time.Time
}

// SessionRepository handles session journal rows.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Create inserts a running session.
func (r *SessionRepository) Create(ctx context.Context, id uuid.UUID, scene string, startedAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sessions (id, scene, started_at) VALUES ($1, $2, $3)`,
		id, scene, startedAt,
	)
	if err != nil {
		return fmt.Errorf("creating session %s: %w", id, err)
	}
	return nil
}

// Finish records the outcome and final level of a session.
func (r *SessionRepository) Finish(ctx context.Context, id uuid.UUID, outcome string, finalLevel int, endedAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE sessions SET ended_at = $2, outcome = $3, final_level = $4 WHERE id = $1`,
		id, endedAt, outcome, finalLevel,
	)
	if err != nil {
		return fmt.Errorf("finishing session %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("finishing session %s: %w", id, ErrSessionNotFound)
	}
	return nil
}

// AppendEvents inserts events in one transaction.
func (r *SessionRepository) AppendEvents(ctx context.Context, rows []EventRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction for %d events: %w", len(rows), err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "error", err)
		}
	}()

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(
			`INSERT INTO session_events (session_id, kind, agent_id, state, level, sim_time, occurred_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			row.SessionID, row.Kind, row.AgentID, row.State, row.Level, row.SimTime, row.OccurredAt,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting %d events: %w", len(rows), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction for %d events: %w", len(rows), err)
	}
	return nil
}

// Get loads a session by ID.
func (r *SessionRepository) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	var s Session
	err := r.pool.QueryRow(ctx,
		`SELECT id, scene, started_at, ended_at, outcome, final_level
		 FROM sessions WHERE id = $1`, id,
	).Scan(&s.ID, &s.Scene, &s.StartedAt, &s.EndedAt, &s.Outcome, &s.FinalLevel)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("loading session %s: %w", id, ErrSessionNotFound)
		}
		return nil, fmt.Errorf("loading session %s: %w", id, err)
	}
	return &s, nil
}

// Events loads every event of a session in insertion order.
func (r *SessionRepository) Events(ctx context.Context, sessionID uuid.UUID) ([]EventRow, error) {
	query := `
		SELECT id, session_id, kind, agent_id, state, level, sim_time, occurred_at
		FROM session_events
		WHERE session_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading events for session %s: %w", sessionID, err)
	}
	defer rows.Close()

	events := make([]EventRow, 0, 64)
	for rows.Next() {
		var e EventRow
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Kind, &e.AgentID, &e.State, &e.Level, &e.SimTime, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating event rows: %w", err)
	}

	return events, nil
}
