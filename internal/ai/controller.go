package ai

import "github.com/yskaart/sentry/internal/model"

// Controller is the per-guard decision loop driven by the world.
type Controller interface {
	// ID returns the agent identifier
	ID() string

	// Start enters the initial state (Patrol)
	Start()

	// Stop releases shared bookkeeping (hunting registration) at teardown
	Stop()

	// Tick runs one decision step on a read-only frame
	Tick(f Frame, dt float64)

	// Reset returns to Patrol at the first waypoint with empty memory
	Reset()

	// CurrentState returns the active state
	CurrentState() model.AgentState

	// StateTimer returns seconds accumulated in the active state
	StateTimer() float64

	// Cursor returns the index of the current patrol waypoint
	Cursor() int
}
