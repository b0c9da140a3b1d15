// Package world is the simulation root. It owns the agent registry, the
// target, the stealth signal, trigger zones and the alert coordinator, and
// advances them together one tick at a time.
package world

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/yskaart/sentry/internal/ai"
	"github.com/yskaart/sentry/internal/alert"
	"github.com/yskaart/sentry/internal/event"
	"github.com/yskaart/sentry/internal/geo"
	"github.com/yskaart/sentry/internal/model"
	"github.com/yskaart/sentry/internal/movement"
	"github.com/yskaart/sentry/internal/stealth"
	"github.com/yskaart/sentry/internal/zone"
)

// TargetID identifies the target in zones and the collider registry.
const TargetID = "player"

var (
	// ErrDuplicateAgent is returned when registering an ID twice.
	ErrDuplicateAgent = errors.New("agent already registered")
	// ErrUnknownAgent is returned for operations on an unregistered ID.
	ErrUnknownAgent = errors.New("agent not registered")
)

// Options configures a World.
type Options struct {
	Alert          alert.Config
	TargetSpawn    model.Pose
	TargetRadius   float64
	TargetSpeed    float64
	TargetRoute    []model.Vec3
	TickInterval   time.Duration // period of Run's ticker
	StopOnTerminal bool          // Run returns once the session ends
}

// DefaultOptions returns options for a stationary target at the origin.
func DefaultOptions() Options {
	return Options{
		Alert:        alert.DefaultConfig(),
		TargetSpawn:  model.NewPose(model.Vec3{}, model.Vec3{}),
		TargetRadius: 0.5,
		TickInterval: 50 * time.Millisecond,
	}
}

// entry is one registered guard.
type entry struct {
	agent ai.Controller
	body  *movement.Body
	spawn model.Pose
}

// World is safe for concurrent use; every operation is serialized on mu, so a
// tick always sees one consistent stealth flag and target pose.
type World struct {
	mu sync.Mutex

	opts Options

	engine  *geo.Engine
	zones   *zone.Manager
	stealth *stealth.Signal
	coord   *alert.Coordinator
	bus     *event.Bus

	target     *model.Target
	targetBody *movement.Body
	route      *movement.Route

	entries []*entry // registration order, also the per-tick order
	byID    map[string]*entry

	simTime   float64
	timeScale float64 // 1 while running, 0 once terminal

	stopCh   chan struct{}
	stopOnce sync.Once
}

// New creates an empty world with the target at opts.TargetSpawn.
func New(opts Options) (*World, error) {
	coord, err := alert.NewCoordinator(opts.Alert)
	if err != nil {
		return nil, fmt.Errorf("creating alert coordinator: %w", err)
	}
	if opts.TargetRadius <= 0 {
		return nil, fmt.Errorf("target radius must be positive, got %v", opts.TargetRadius)
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultOptions().TickInterval
	}

	w := &World{
		opts:       opts,
		engine:     geo.NewEngine(),
		stealth:    stealth.NewSignal(),
		coord:      coord,
		bus:        event.NewBus(),
		target:     model.NewTarget(opts.TargetSpawn),
		targetBody: movement.NewBody(opts.TargetSpawn, opts.TargetSpeed),
		byID:       make(map[string]*entry),
		timeScale:  1,
		stopCh:     make(chan struct{}),
	}
	w.zones = zone.NewManager(w.onZoneStealth)

	if len(opts.TargetRoute) > 0 {
		w.route = movement.NewRoute(w.targetBody, opts.TargetRoute)
	}

	collider := geo.NewSphere(TargetID, geo.TagTarget, geo.LayerTarget, opts.TargetSpawn.Position, opts.TargetRadius)
	if err := w.engine.Add(collider); err != nil {
		return nil, fmt.Errorf("adding target collider: %w", err)
	}

	coord.OnLevelChanged(w.onLevelChanged)
	coord.OnTerminal(w.onTerminal)

	return w, nil
}

// Subscribe adds a presentation observer. Observers must not call back into
// the world.
func (w *World) Subscribe(o event.Observer) {
	w.bus.Subscribe(o)
}

// AddObstacle registers a sight-blocking box.
func (w *World) AddObstacle(id string, a, b model.Vec3) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.engine.Add(geo.NewBox(id, geo.TagObstacle, geo.LayerObstacle, a, b)); err != nil {
		return fmt.Errorf("adding obstacle: %w", err)
	}
	return nil
}

// AddStealthZone registers a zone that hides the target while it is inside.
func (w *World) AddStealthZone(base *zone.BaseZone) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.zones.AddStealthZone(base); err != nil {
		return err
	}
	w.zones.Revalidate(TargetID, w.target.Position())
	return nil
}

// AddGoalZone registers a zone where the mission can be completed.
func (w *World) AddGoalZone(base *zone.BaseZone) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.zones.AddGoalZone(base); err != nil {
		return err
	}
	w.zones.Revalidate(TargetID, w.target.Position())
	return nil
}

// AddAgent creates a guard at spawn moving at speed and starts it in Patrol.
func (w *World) AddAgent(cfg ai.Config, spawn model.Pose, speed float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.byID[cfg.ID]; exists {
		return fmt.Errorf("adding agent %q: %w", cfg.ID, ErrDuplicateAgent)
	}

	body := movement.NewBody(spawn, speed)
	agent, err := ai.NewAgent(cfg, body, w.coord, w.bus)
	if err != nil {
		return fmt.Errorf("adding agent %q: %w", cfg.ID, err)
	}
	w.registerLocked(agent, body, spawn)
	return nil
}

// AddController registers a custom controller driving body. The world starts
// it, ticks it before bodies move, and resets body and controller on Reset.
// The controller must report hunts to Coordinator itself.
func (w *World) AddController(c ai.Controller, body *movement.Body) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.byID[c.ID()]; exists {
		return fmt.Errorf("adding agent %q: %w", c.ID(), ErrDuplicateAgent)
	}
	w.registerLocked(c, body, body.Pose())
	return nil
}

func (w *World) registerLocked(c ai.Controller, body *movement.Body, spawn model.Pose) {
	e := &entry{agent: c, body: body, spawn: spawn}
	w.entries = append(w.entries, e)
	w.byID[c.ID()] = e
	c.Start()

	slog.Debug("agent registered", "agent", c.ID())
}

// Coordinator returns the session's alert coordinator, the HuntTracker every
// controller reports to.
func (w *World) Coordinator() *alert.Coordinator { return w.coord }

// RemoveAgent stops and unregisters a guard, releasing its hunt if any.
func (w *World) RemoveAgent(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.byID[id]
	if !ok {
		return fmt.Errorf("removing agent %q: %w", id, ErrUnknownAgent)
	}
	e.agent.Stop()
	delete(w.byID, id)
	for i, x := range w.entries {
		if x == e {
			w.entries = append(w.entries[:i], w.entries[i+1:]...)
			break
		}
	}

	slog.Debug("agent unregistered", "agent", id)
	return nil
}

// Tick advances the simulation by dt seconds. No-op once the session is
// terminal, until Reset.
//
// Order: target movement and zones, then every agent decides against the same
// snapshot, then bodies move, then the coordinator escalates.
func (w *World) Tick(dt float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if dt <= 0 || w.coord.IsTerminal() {
		return
	}
	dt *= w.timeScale

	if w.route != nil {
		w.route.Advance(dt)
		w.syncTargetLocked()
	}

	snapshot := *w.target
	frame := ai.Frame{
		Target:  &snapshot,
		Stealth: w.stealth.Active(),
		Prober:  w.engine,
		SimTime: w.simTime,
	}

	for _, e := range w.entries {
		e.agent.Tick(frame, dt)
	}
	for _, e := range w.entries {
		e.body.Advance(dt)
	}

	w.simTime += dt
	w.coord.Tick(dt)

	if ai.IsDebugEnabled() {
		slog.Debug("world tick",
			"t", w.simTime,
			"agents", len(w.entries),
			"hunting", w.coord.HuntingCount(),
			"level", w.coord.Level())
	}
}

// SetStealth sets the stealth signal directly, bypassing zones.
func (w *World) SetStealth(active bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.setStealthLocked(active)
}

// MoveTarget teleports the target. A configured route continues from its
// next point.
func (w *World) MoveTarget(pose model.Pose) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.targetBody.Reset(pose)
	w.syncTargetLocked()
}

// CompleteMission ends the session with success. It only succeeds while the
// target is inside a goal zone and the session is still running.
func (w *World) CompleteMission() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.zones.InGoal(TargetID) {
		return false
	}
	return w.coord.CompleteMission()
}

// Escalate raises the alert level by one. Ignored once terminal.
func (w *World) Escalate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.coord.Escalate()
}

// Reset starts a new session: level 0, not terminal, time running, target
// and every guard back at spawn in Patrol at their first waypoint.
func (w *World) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.bus.Notify(event.Event{Kind: event.KindSessionReset, SimTime: w.simTime})

	w.coord.Reset()
	w.simTime = 0
	w.timeScale = 1

	if w.route != nil {
		w.route.Reset(w.opts.TargetSpawn)
	} else {
		w.targetBody.Reset(w.opts.TargetSpawn)
	}
	w.syncTargetLocked()
	w.setStealthLocked(w.zones.IsHidden(TargetID))

	for _, e := range w.entries {
		e.body.Reset(e.spawn)
		e.agent.Reset()
	}

	slog.Info("session reset", "agents", len(w.entries))
}

// syncTargetLocked copies the body pose to the target, its collider and zones.
func (w *World) syncTargetLocked() {
	pose := w.targetBody.Pose()
	w.target.Pose = pose
	if err := w.engine.MoveSphere(TargetID, pose.Position); err != nil {
		slog.Error("moving target collider", "error", err)
	}
	w.zones.Revalidate(TargetID, pose.Position)
}

// setStealthLocked flips the signal and, on change, tells every registered
// agent.
func (w *World) setStealthLocked(active bool) {
	if !w.stealth.Set(active) {
		return
	}
	for _, e := range w.entries {
		w.bus.Notify(event.Event{
			Kind:    event.KindStealthChanged,
			SimTime: w.simTime,
			AgentID: e.agent.ID(),
			State:   e.agent.CurrentState(),
			Stealth: active,
		})
	}
}

// Zone and coordinator callbacks run inside operations that already hold mu.

func (w *World) onZoneStealth(entityID string, hidden bool) {
	if entityID != TargetID {
		return
	}
	w.setStealthLocked(hidden)
}

func (w *World) onLevelChanged(level, maxLevel int) {
	w.bus.Notify(event.Event{
		Kind:     event.KindAlertLevelChanged,
		SimTime:  w.simTime,
		Level:    level,
		MaxLevel: maxLevel,
	})
}

func (w *World) onTerminal(outcome model.Outcome, level int) {
	w.timeScale = 0
	w.bus.Notify(event.Event{
		Kind:     event.KindTerminal,
		SimTime:  w.simTime,
		Level:    level,
		MaxLevel: w.coord.MaxLevel(),
		Outcome:  outcome,
	})
}
