package world

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yskaart/sentry/internal/ai"
	"github.com/yskaart/sentry/internal/alert"
	"github.com/yskaart/sentry/internal/config"
	"github.com/yskaart/sentry/internal/event"
	"github.com/yskaart/sentry/internal/model"
	"github.com/yskaart/sentry/internal/movement"
	"github.com/yskaart/sentry/internal/zone"
)

var forward = model.NewVec3(0, 0, 1)

// newTestWorld puts a stationary target 5 units in front of the origin.
func newTestWorld(t *testing.T, mutate ...func(o *Options)) *World {
	t.Helper()
	opts := DefaultOptions()
	opts.TargetSpawn = model.NewPose(model.NewVec3(0, 0, 5), forward)
	for _, m := range mutate {
		m(&opts)
	}
	w, err := New(opts)
	require.NoError(t, err)
	return w
}

func guardConfig(id string, waypoints ...model.Vec3) ai.Config {
	cfg := ai.DefaultConfig(id)
	cfg.Waypoints = waypoints
	return cfg
}

// addStationaryGuard adds a guard at the origin facing +Z that never moves.
func addStationaryGuard(t *testing.T, w *World, id string) {
	t.Helper()
	spawn := model.NewPose(model.Vec3{}, forward)
	require.NoError(t, w.AddAgent(guardConfig(id, model.Vec3{}), spawn, 0))
}

type recorder struct {
	events []event.Event
}

func (r *recorder) Notify(e event.Event) { r.events = append(r.events, e) }

func (r *recorder) count(kind event.Kind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Options{Alert: alert.Config{Cadence: 0, MaxLevel: 5}, TargetRadius: 1})
	assert.ErrorIs(t, err, alert.ErrInvalidConfig)

	_, err = New(Options{Alert: alert.DefaultConfig(), TargetRadius: 0})
	assert.Error(t, err)
}

func TestWorld_AgentRegistry(t *testing.T) {
	w := newTestWorld(t)
	addStationaryGuard(t, w, "g1")

	err := w.AddAgent(guardConfig("g1", model.Vec3{}), model.Pose{}, 1)
	assert.ErrorIs(t, err, ErrDuplicateAgent)

	err = w.AddAgent(guardConfig("g2"), model.Pose{}, 1)
	assert.ErrorIs(t, err, ai.ErrInvalidConfiguration, "no waypoints")

	assert.ErrorIs(t, w.RemoveAgent("ghost"), ErrUnknownAgent)
	assert.Equal(t, 1, w.AgentCount())

	snap := w.Snapshot()
	require.Len(t, snap.Agents, 1)
	assert.Equal(t, model.StatePatrol, snap.Agents[0].State)
}

// sentinel hunts from its first tick and never moves.
type sentinel struct {
	id      string
	hunts   ai.HuntTracker
	started bool
	ticks   int
	elapsed float64
	resets  int
	seen    []model.Vec3
}

func (s *sentinel) ID() string { return s.id }
func (s *sentinel) Start()     { s.started = true }
func (s *sentinel) Stop() {
	if s.ticks > 0 {
		s.hunts.NotifyHuntingStopped(s.id)
	}
	s.started = false
}

func (s *sentinel) Tick(f ai.Frame, dt float64) {
	if s.ticks == 0 {
		s.hunts.NotifyHuntingStarted(s.id)
	}
	s.ticks++
	s.elapsed += dt
	s.seen = append(s.seen, f.Target.Position())
}

func (s *sentinel) Reset() {
	s.resets++
	s.ticks = 0
	s.elapsed = 0
}

func (s *sentinel) CurrentState() model.AgentState {
	if s.ticks > 0 {
		return model.StateAttack
	}
	return model.StatePatrol
}

func (s *sentinel) StateTimer() float64 { return s.elapsed }
func (s *sentinel) Cursor() int         { return 0 }

func TestWorld_AddController(t *testing.T) {
	w := newTestWorld(t, func(o *Options) {
		o.Alert = alert.Config{Cadence: 1, MaxLevel: 3}
	})
	spawn := model.NewPose(model.NewVec3(2, 0, 0), forward)
	body := movement.NewBody(spawn, 1)
	c := &sentinel{id: "sentinel", hunts: w.Coordinator()}

	require.NoError(t, w.AddController(c, body))
	assert.True(t, c.started)
	assert.ErrorIs(t, w.AddController(&sentinel{id: "sentinel"}, body), ErrDuplicateAgent)

	for range 4 {
		w.Tick(0.5)
	}
	assert.Equal(t, 4, c.ticks)
	assert.Equal(t, model.NewVec3(0, 0, 5), c.seen[0], "sees the target snapshot")
	assert.Equal(t, 1, w.HuntingCount())
	assert.Equal(t, 2, w.Level())

	snap := w.Snapshot()
	require.Len(t, snap.Agents, 1)
	assert.Equal(t, model.StateAttack, snap.Agents[0].State)
	assert.InDelta(t, 2.0, snap.Agents[0].StateTimer, 1e-9)

	body.SetDestination(model.NewVec3(2, 0, 10))
	w.Tick(0.5)
	require.NotEqual(t, spawn.Position, body.Pose().Position)

	w.Reset()
	assert.Equal(t, 1, c.resets)
	assert.Equal(t, spawn.Position, body.Pose().Position, "body back at registration pose")
	assert.Equal(t, 0, w.HuntingCount())

	require.NoError(t, w.RemoveAgent("sentinel"))
	assert.False(t, c.started)
}

func TestWorld_DetectionStartsHunt(t *testing.T) {
	w := newTestWorld(t)
	addStationaryGuard(t, w, "g1")

	w.Tick(0.1)

	assert.Equal(t, model.StateAttack, w.Snapshot().Agents[0].State)
	assert.Equal(t, 1, w.HuntingCount())
}

func TestWorld_ObstacleBlocksSight(t *testing.T) {
	w := newTestWorld(t)
	require.NoError(t, w.AddObstacle("wall", model.NewVec3(-1, -1, 2), model.NewVec3(1, 1, 3)))
	addStationaryGuard(t, w, "g1")

	w.Tick(0.1)

	assert.Equal(t, model.StatePatrol, w.Snapshot().Agents[0].State)
	assert.Equal(t, 0, w.HuntingCount())
}

func TestWorld_RemoveHuntingAgentReleasesHunt(t *testing.T) {
	w := newTestWorld(t)
	addStationaryGuard(t, w, "g1")
	w.Tick(0.1)
	require.Equal(t, 1, w.HuntingCount())

	require.NoError(t, w.RemoveAgent("g1"))
	assert.Equal(t, 0, w.HuntingCount())
	assert.Equal(t, 0, w.AgentCount())
}

func TestWorld_EscalatesToFailureExactlyOnce(t *testing.T) {
	w := newTestWorld(t, func(o *Options) {
		o.Alert = alert.Config{Cadence: 2, MaxLevel: 5}
	})
	rec := &recorder{}
	w.Subscribe(rec)
	addStationaryGuard(t, w, "g1")

	for range 20 {
		w.Tick(0.5)
	}

	assert.Equal(t, 5, w.Level())
	assert.Equal(t, model.OutcomeFailure, w.Outcome())
	assert.Equal(t, "ALERT: 5/5", w.Status())
	assert.Equal(t, 1, rec.count(event.KindTerminal))
	assert.Equal(t, 5, rec.count(event.KindAlertLevelChanged))

	// Frozen: further ticks change nothing.
	before := w.Snapshot()
	for range 10 {
		w.Tick(0.5)
	}
	after := w.Snapshot()
	assert.Equal(t, 0.0, after.TimeScale)
	assert.Equal(t, before.SimTime, after.SimTime)
	assert.Equal(t, 5, after.Level)
	assert.Equal(t, 1, rec.count(event.KindTerminal))
}

func TestWorld_ResetAfterTerminal(t *testing.T) {
	w := newTestWorld(t, func(o *Options) {
		o.Alert = alert.Config{Cadence: 1, MaxLevel: 2}
	})
	rec := &recorder{}
	w.Subscribe(rec)

	first := model.NewVec3(0, 0, 1)
	spawn := model.NewPose(model.Vec3{}, forward)
	require.NoError(t, w.AddAgent(guardConfig("g1", first, model.NewVec3(3, 0, 1)), spawn, 0))

	for range 10 {
		w.Tick(0.5)
	}
	require.True(t, w.IsTerminal())

	w.Reset()

	snap := w.Snapshot()
	assert.Equal(t, 0, snap.Level)
	assert.Equal(t, model.OutcomeNone, snap.Outcome)
	assert.Equal(t, 1.0, snap.TimeScale)
	assert.Equal(t, 0.0, snap.SimTime)
	assert.Equal(t, 0, snap.Hunting)
	require.Len(t, snap.Agents, 1)
	assert.Equal(t, model.StatePatrol, snap.Agents[0].State)
	assert.Equal(t, 0, snap.Agents[0].Cursor)
	assert.Equal(t, spawn.Position, snap.Agents[0].Pose.Position)
	assert.Equal(t, 1, rec.count(event.KindSessionReset))

	dest, ok := w.byID["g1"].body.Destination()
	require.True(t, ok)
	assert.Equal(t, first, dest)

	// The session runs again.
	w.Tick(0.5)
	assert.Equal(t, 0.5, w.Snapshot().SimTime)
}

func TestWorld_SetStealthBroadcastsToEveryAgent(t *testing.T) {
	w := newTestWorld(t)
	rec := &recorder{}
	w.Subscribe(rec)
	addStationaryGuard(t, w, "g1")
	require.NoError(t, w.AddAgent(guardConfig("g2", model.NewVec3(9, 0, 9)), model.NewPose(model.NewVec3(9, 0, 9), forward), 1))

	w.SetStealth(true)
	w.SetStealth(true)
	assert.Equal(t, 2, rec.count(event.KindStealthChanged), "one per agent, only on change")

	w.Tick(0.1)
	assert.Equal(t, model.StatePatrol, w.Snapshot().Agents[0].State)

	w.SetStealth(false)
	assert.Equal(t, 4, rec.count(event.KindStealthChanged))

	w.Tick(0.1)
	assert.Equal(t, model.StateAttack, w.Snapshot().Agents[0].State)
}

func TestWorld_StealthZoneHidesTarget(t *testing.T) {
	w := newTestWorld(t)
	shadow, err := zone.NewBaseZone("shadow", "shadow", zone.Geometry{
		Shape: zone.ShapeCuboid,
		Min:   model.NewVec3(-2, -1, 3),
		Max:   model.NewVec3(2, 2, 7),
	})
	require.NoError(t, err)
	require.NoError(t, w.AddStealthZone(shadow))
	addStationaryGuard(t, w, "g1")

	assert.True(t, w.Snapshot().Stealth)

	w.Tick(0.1)
	assert.Equal(t, model.StatePatrol, w.Snapshot().Agents[0].State)

	w.MoveTarget(model.NewPose(model.NewVec3(0, 0, 8), forward))
	assert.False(t, w.Snapshot().Stealth)

	w.Tick(0.1)
	assert.Equal(t, model.StateAttack, w.Snapshot().Agents[0].State)
}

func TestWorld_CompleteMissionRequiresGoalZone(t *testing.T) {
	w := newTestWorld(t)
	rec := &recorder{}
	w.Subscribe(rec)
	exit, err := zone.NewBaseZone("exit", "exit", zone.Geometry{
		Shape:  zone.ShapeCylinder,
		Center: model.NewVec3(20, 0, 20),
		Radius: 2,
		Max:    model.NewVec3(0, 2, 0),
	})
	require.NoError(t, err)
	require.NoError(t, w.AddGoalZone(exit))

	assert.False(t, w.CompleteMission(), "target is not at the exit")

	w.MoveTarget(model.NewPose(model.NewVec3(20, 0, 20), forward))
	assert.True(t, w.CompleteMission())
	assert.Equal(t, model.OutcomeSuccess, w.Outcome())
	assert.False(t, w.CompleteMission(), "already terminal")

	w.Escalate()
	assert.Equal(t, 0, w.Level(), "no escalation after success")
	assert.Equal(t, 1, rec.count(event.KindTerminal))
}

func TestWorld_EscalateToFailure(t *testing.T) {
	w := newTestWorld(t, func(o *Options) {
		o.Alert = alert.Config{Cadence: 2, MaxLevel: 2}
	})
	w.Escalate()
	assert.False(t, w.IsTerminal())
	w.Escalate()
	assert.Equal(t, model.OutcomeFailure, w.Outcome())
}

func TestWorld_TargetFollowsRoute(t *testing.T) {
	w := newTestWorld(t, func(o *Options) {
		o.TargetSpawn = model.NewPose(model.Vec3{}, forward)
		o.TargetSpeed = 1
		o.TargetRoute = []model.Vec3{model.NewVec3(4, 0, 0), model.NewVec3(0, 0, 0)}
	})

	w.Tick(1)
	assert.InDelta(t, 1.0, w.Snapshot().Target.Position.X, 1e-9)

	w.Tick(1)
	assert.InDelta(t, 2.0, w.Snapshot().Target.Position.X, 1e-9)
}

func TestWorld_RunStopsOnTerminal(t *testing.T) {
	w := newTestWorld(t, func(o *Options) {
		o.Alert = alert.Config{Cadence: 1, MaxLevel: 1}
		o.TickInterval = time.Millisecond
		o.StopOnTerminal = true
	})
	w.Escalate()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, w.Run(ctx))
}

func TestWorld_RunStops(t *testing.T) {
	w := newTestWorld(t, func(o *Options) { o.TickInterval = time.Millisecond })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := w.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))

	w.Stop()
	w.Stop()
	assert.NoError(t, w.Run(context.Background()))
}

func TestFromScene(t *testing.T) {
	scene := config.DefaultScene()
	w, err := FromScene(scene)
	require.NoError(t, err)

	assert.Equal(t, len(scene.Agents), w.AgentCount())
	assert.Equal(t, len(scene.Obstacles), w.ObstacleCount())
	assert.Equal(t, len(scene.Zones), w.ZoneCount(""))
	assert.Equal(t, 1, w.ZoneCount(zone.KindStealth))
	assert.Equal(t, 1, w.ZoneCount(zone.KindGoal))

	for range 100 {
		w.Tick(0.05)
	}
	assert.NotEqual(t, scene.Target.Spawn, w.Snapshot().Target.Position, "target walks its route")

	scene.Agents = nil
	_, err = FromScene(scene)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestFromScene_ObserversSeeInitialPatrol(t *testing.T) {
	rec := &recorder{}
	_, err := FromScene(config.DefaultScene(), rec)
	require.NoError(t, err)

	require.NotEmpty(t, rec.events)
	assert.Equal(t, event.KindStateEntered, rec.events[0].Kind)
	assert.Equal(t, model.StatePatrol, rec.events[0].State)
}
