package ai

import (
	"fmt"
	"log/slog"

	"github.com/yskaart/sentry/internal/event"
	"github.com/yskaart/sentry/internal/geo"
	"github.com/yskaart/sentry/internal/model"
	"github.com/yskaart/sentry/internal/perception"
)

// Navigator is the path-follow controller that moves the guard's body.
type Navigator interface {
	Pose() model.Pose
	SetDestination(pos model.Vec3)
	HasArrived() bool
}

// HuntTracker receives "am I attacking" bookkeeping. Implemented by alert.Coordinator.
type HuntTracker interface {
	NotifyHuntingStarted(agentID string)
	NotifyHuntingStopped(agentID string)
}

// Frame is the read-only snapshot a guard decides on for one tick.
// Every guard in a tick sees the same Frame.
type Frame struct {
	Target  *model.Target // nil when no target is assigned
	Stealth bool
	Prober  geo.Prober
	SimTime float64
}

// Agent is a guard running Patrol -> Attack -> Alert -> Patrol.
//
// Not safe for concurrent use; the world ticks agents sequentially under its lock.
type Agent struct {
	cfg      Config
	nav      Navigator
	hunts    HuntTracker
	observer event.Observer

	state state

	// cursor indexes cfg.Waypoints; always valid.
	cursor int

	// lastKnown is meaningful only when hasLastKnown is set.
	lastKnown    model.Vec3
	hasLastKnown bool

	started bool
}

var _ Controller = (*Agent)(nil)

// NewAgent validates cfg and creates a guard. The agent is inert until Start.
// hunts and observer may be nil.
func NewAgent(cfg Config, nav Navigator, hunts HuntTracker, observer event.Observer) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if nav == nil {
		return nil, fmt.Errorf("%w: agent %q has no navigator", ErrInvalidConfiguration, cfg.ID)
	}
	if hunts == nil {
		hunts = noopTracker{}
	}
	if observer == nil {
		observer = event.ObserverFunc(func(event.Event) {})
	}

	waypoints := make([]model.Vec3, len(cfg.Waypoints))
	copy(waypoints, cfg.Waypoints)
	cfg.Waypoints = waypoints

	return &Agent{
		cfg:      cfg,
		nav:      nav,
		hunts:    hunts,
		observer: observer,
		state:    state{kind: model.StatePatrol},
	}, nil
}

// ID returns the agent identifier.
func (a *Agent) ID() string { return a.cfg.ID }

// Config returns the agent configuration.
func (a *Agent) Config() Config { return a.cfg }

// Pose implements perception.Observer.
func (a *Agent) Pose() model.Pose { return a.nav.Pose() }

// Sight implements perception.Observer.
func (a *Agent) Sight() perception.Sight { return a.cfg.Sight }

// CurrentState returns the active state.
func (a *Agent) CurrentState() model.AgentState { return a.state.kind }

// StateTimer returns the active state's timer in seconds: time in Alert, or time
// since the target was last seen in Attack. Always 0 in Patrol.
func (a *Agent) StateTimer() float64 { return a.state.timer }

// Cursor returns the index of the current patrol waypoint.
func (a *Agent) Cursor() int { return a.cursor }

// LastKnownTargetPosition returns where the target was last seen.
// ok is false until the first detection.
func (a *Agent) LastKnownTargetPosition() (pos model.Vec3, ok bool) {
	return a.lastKnown, a.hasLastKnown
}

// Start enters Patrol. Calling Start twice is a no-op.
func (a *Agent) Start() {
	if a.started {
		return
	}
	a.started = true
	a.enter(model.StatePatrol, 0)

	if IsDebugEnabled() {
		slog.Debug("agent started",
			"agent", a.cfg.ID,
			"waypoints", len(a.cfg.Waypoints))
	}
}

// Stop releases the hunting registration if the agent is attacking.
func (a *Agent) Stop() {
	if !a.started {
		return
	}
	a.started = false
	if a.state.kind == model.StateAttack {
		a.hunts.NotifyHuntingStopped(a.cfg.ID)
	}

	if IsDebugEnabled() {
		slog.Debug("agent stopped", "agent", a.cfg.ID, "state", a.state.kind)
	}
}

// Reset returns the agent to Patrol at its first waypoint and forgets the target.
// No exit hooks run: the session owner resets shared bookkeeping itself.
func (a *Agent) Reset() {
	a.state = state{kind: model.StatePatrol}
	a.cursor = 0
	a.lastKnown = model.Vec3{}
	a.hasLastKnown = false
	a.started = true
	a.enter(model.StatePatrol, 0)
}

// Tick runs one decision step.
func (a *Agent) Tick(f Frame, dt float64) {
	if !a.started {
		return
	}

	in := input{
		sawTarget: perception.CanDetect(a, f.Target, f.Stealth, f.Prober),
		arrived:   a.nav.HasArrived(),
		dt:        dt,
	}
	d := decide(a.state, in, a.cfg)

	a.state.timer = d.timer

	if in.sawTarget {
		a.lastKnown = f.Target.Position()
		a.hasLastKnown = true
	}
	if d.track {
		a.nav.SetDestination(a.lastKnown)
	}
	if d.advanceCursor {
		a.cursor = (a.cursor + 1) % len(a.cfg.Waypoints)
		a.nav.SetDestination(a.cfg.Waypoints[a.cursor])
	}

	if d.next != a.state.kind {
		a.transition(d.next, f.SimTime)
	}
}

// transition runs exit(old), swaps the tag, zeroes timers, then enter(new).
func (a *Agent) transition(next model.AgentState, simTime float64) {
	prev := a.state.kind

	a.exit(prev, simTime)
	a.state = state{kind: next}
	a.enter(next, simTime)

	if IsDebugEnabled() {
		slog.Debug("agent state changed",
			"agent", a.cfg.ID,
			"from", prev,
			"to", next,
			"t", simTime)
	}
}

func (a *Agent) enter(kind model.AgentState, simTime float64) {
	switch kind {
	case model.StatePatrol:
		a.nav.SetDestination(a.cfg.Waypoints[a.cursor])
	case model.StateAlert:
		if a.hasLastKnown {
			a.nav.SetDestination(a.lastKnown)
		}
	case model.StateAttack:
		a.hunts.NotifyHuntingStarted(a.cfg.ID)
	}

	a.observer.Notify(event.Event{
		Kind:    event.KindStateEntered,
		SimTime: simTime,
		AgentID: a.cfg.ID,
		State:   kind,
	})
}

func (a *Agent) exit(kind model.AgentState, simTime float64) {
	if kind == model.StateAttack {
		a.hunts.NotifyHuntingStopped(a.cfg.ID)
	}

	a.observer.Notify(event.Event{
		Kind:    event.KindStateExited,
		SimTime: simTime,
		AgentID: a.cfg.ID,
		State:   kind,
	})
}

type noopTracker struct{}

func (noopTracker) NotifyHuntingStarted(string) {}
func (noopTracker) NotifyHuntingStopped(string) {}
