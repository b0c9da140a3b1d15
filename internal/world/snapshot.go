package world

import (
	"github.com/yskaart/sentry/internal/model"
)

// AgentSnapshot is a read-only view of one guard.
type AgentSnapshot struct {
	ID         string
	State      model.AgentState
	StateTimer float64
	Pose       model.Pose
	Cursor     int
}

// Snapshot is a read-only view of the whole simulation.
type Snapshot struct {
	SimTime   float64
	TimeScale float64
	Level     int
	MaxLevel  int
	Hunting   int
	Outcome   model.Outcome
	Stealth   bool
	Target    model.Pose
	Agents    []AgentSnapshot // registration order
}

// Snapshot captures the current state.
func (w *World) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := Snapshot{
		SimTime:   w.simTime,
		TimeScale: w.timeScale,
		Level:     w.coord.Level(),
		MaxLevel:  w.coord.MaxLevel(),
		Hunting:   w.coord.HuntingCount(),
		Outcome:   w.coord.Outcome(),
		Stealth:   w.stealth.Active(),
		Target:    w.target.Pose,
		Agents:    make([]AgentSnapshot, 0, len(w.entries)),
	}
	for _, e := range w.entries {
		s.Agents = append(s.Agents, AgentSnapshot{
			ID:         e.agent.ID(),
			State:      e.agent.CurrentState(),
			StateTimer: e.agent.StateTimer(),
			Pose:       e.body.Pose(),
			Cursor:     e.agent.Cursor(),
		})
	}
	return s
}

// Status returns the alert HUD line, e.g. "ALERT: 2/5".
func (w *World) Status() string { return w.coord.Status() }

// Level returns the current alert level.
func (w *World) Level() int { return w.coord.Level() }

// Outcome returns the terminal outcome, OutcomeNone while running.
func (w *World) Outcome() model.Outcome { return w.coord.Outcome() }

// IsTerminal reports whether the session has ended.
func (w *World) IsTerminal() bool { return w.coord.IsTerminal() }

// HuntingCount returns how many guards are in Attack.
func (w *World) HuntingCount() int { return w.coord.HuntingCount() }

// AgentCount returns the number of registered guards.
func (w *World) AgentCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}

// ObstacleCount returns the number of sight-blocking colliders.
func (w *World) ObstacleCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.engine.Count() - 1 // the target's own sphere
}

// ZoneCount returns the number of zones of kind, or of every kind when kind
// is empty.
func (w *World) ZoneCount(kind string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if kind == "" {
		return w.zones.Count()
	}
	return len(w.zones.ZonesByKind(kind))
}
