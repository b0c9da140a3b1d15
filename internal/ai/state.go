package ai

import "github.com/yskaart/sentry/internal/model"

// state is the tagged variant: the kind plus the payload that belongs to it.
// Alert uses timer as time spent in the state; Attack uses it as time since the
// target was last seen; Patrol ignores it.
type state struct {
	kind  model.AgentState
	timer float64
}

// input is everything a guard observed this tick.
type input struct {
	sawTarget bool
	arrived   bool
	dt        float64
}

// decision is the result of one tick of per-state logic.
type decision struct {
	next  model.AgentState
	timer float64 // new timer for the current state; discarded on transition

	track         bool // Attack: chase the freshly seen target position
	advanceCursor bool // Patrol: move on to the next waypoint
}

// decide is the transition function (state, observations) -> (next state, effects).
// It has no side effects.
func decide(st state, in input, cfg Config) decision {
	switch st.kind {
	case model.StatePatrol:
		if in.sawTarget {
			return decision{next: model.StateAttack}
		}
		return decision{next: model.StatePatrol, advanceCursor: in.arrived}

	case model.StateAlert:
		timer := st.timer + in.dt
		if in.sawTarget {
			return decision{next: model.StateAttack, timer: timer}
		}
		if model.Elapsed(timer, cfg.AlertDuration) {
			return decision{next: model.StatePatrol, timer: timer}
		}
		return decision{next: model.StateAlert, timer: timer}

	case model.StateAttack:
		if in.sawTarget {
			return decision{next: model.StateAttack, timer: 0, track: true}
		}
		timer := st.timer + in.dt
		if model.Elapsed(timer, cfg.LoseTargetTime) {
			return decision{next: model.StateAlert, timer: timer}
		}
		return decision{next: model.StateAttack, timer: timer}
	}

	return decision{next: st.kind, timer: st.timer}
}
