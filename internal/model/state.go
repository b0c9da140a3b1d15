package model

// AgentState is the active state of a guard's state machine.
type AgentState int32

const (
	// StatePatrol - cycling through waypoints
	StatePatrol AgentState = iota
	// StateAlert - investigating the last known target position
	StateAlert
	// StateAttack - actively hunting the target
	StateAttack
)

// String returns human-readable state name
func (s AgentState) String() string {
	switch s {
	case StatePatrol:
		return "PATROL"
	case StateAlert:
		return "ALERT"
	case StateAttack:
		return "ATTACK"
	default:
		return "UNKNOWN"
	}
}

// Outcome is the terminal result of a session.
type Outcome int32

const (
	// OutcomeNone - session still running
	OutcomeNone Outcome = iota
	// OutcomeFailure - alert level saturated (game over)
	OutcomeFailure
	// OutcomeSuccess - mission completed
	OutcomeSuccess
)

// String returns human-readable outcome name
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "NONE"
	case OutcomeFailure:
		return "FAILURE"
	case OutcomeSuccess:
		return "SUCCESS"
	default:
		return "UNKNOWN"
	}
}

// IsTerminal reports whether the outcome ends the session.
func (o Outcome) IsTerminal() bool {
	return o == OutcomeFailure || o == OutcomeSuccess
}
