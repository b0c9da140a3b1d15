package config

import (
	"fmt"
	"time"

	"github.com/yskaart/sentry/internal/model"
)

// Scene holds everything needed to build and run one simulation.
type Scene struct {
	Name     string `yaml:"name"`
	LogLevel string `yaml:"log_level"` // debug|info|warn|error

	// Loop
	TickInterval   time.Duration `yaml:"tick_interval"`    // wall-clock period of one tick (default: 50ms)
	StopOnTerminal bool          `yaml:"stop_on_terminal"` // exit the run loop once the session ends

	// Journal
	Database DatabaseConfig `yaml:"database"`

	Alert     AlertConfig      `yaml:"alert"`
	Target    TargetConfig     `yaml:"target"`
	Agents    []AgentConfig    `yaml:"agents"`
	Obstacles []ObstacleConfig `yaml:"obstacles"`
	Zones     []ZoneConfig     `yaml:"zones"`
}

// AlertConfig holds escalation parameters.
type AlertConfig struct {
	Cadence  time.Duration `yaml:"cadence"`   // hunting time per level (default: 2s)
	MaxLevel int           `yaml:"max_level"` // level that fails the session (default: 5)
}

// TargetConfig describes the hunted entity.
type TargetConfig struct {
	Spawn  model.Vec3   `yaml:"spawn"`
	Radius float64      `yaml:"radius"` // collider radius
	Speed  float64      `yaml:"speed"`  // route speed, units/s
	Route  []model.Vec3 `yaml:"route"`  // optional looping route
}

// AgentConfig describes one guard.
type AgentConfig struct {
	ID             string        `yaml:"id"`
	Spawn          model.Vec3    `yaml:"spawn"`
	Forward        model.Vec3    `yaml:"forward"`
	Speed          float64       `yaml:"speed"`
	ViewDistance   float64       `yaml:"view_distance"`
	ViewAngle      float64       `yaml:"view_angle"` // degrees, full cone
	LoseTargetTime time.Duration `yaml:"lose_target_time"`
	AlertDuration  time.Duration `yaml:"alert_duration"`
	Waypoints      []model.Vec3  `yaml:"waypoints"`
}

// ObstacleConfig is an axis-aligned box that blocks sight.
type ObstacleConfig struct {
	ID  string     `yaml:"id"`
	Min model.Vec3 `yaml:"min"`
	Max model.Vec3 `yaml:"max"`
}

// ZoneConfig is a trigger zone. Kind is stealth or goal; Shape is cuboid,
// cylinder or npoly. Min.Y/Max.Y bound every shape.
type ZoneConfig struct {
	ID     string       `yaml:"id"`
	Name   string       `yaml:"name"`
	Kind   string       `yaml:"kind"`
	Shape  string       `yaml:"shape"`
	Min    model.Vec3   `yaml:"min"`
	Max    model.Vec3   `yaml:"max"`
	Center model.Vec3   `yaml:"center"`
	Radius float64      `yaml:"radius"`
	Nodes  []model.Vec3 `yaml:"nodes"`
}

// Agent defaults, applied to fields left zero in YAML.
const (
	DefaultAgentSpeed     = 3.5
	DefaultViewDistance   = 10.0
	DefaultViewAngle      = 60.0
	DefaultLoseTargetTime = 3 * time.Second
	DefaultAlertDuration  = 5 * time.Second
)

// DefaultScene returns a small demo: one guard walking a square next to a
// crate, a target looping through a shadow into the exit.
func DefaultScene() Scene {
	return Scene{
		Name:         "warehouse",
		LogLevel:     "info",
		TickInterval: 50 * time.Millisecond,
		Database:     DefaultDatabase(),
		Alert: AlertConfig{
			Cadence:  2 * time.Second,
			MaxLevel: 5,
		},
		Target: TargetConfig{
			Spawn:  model.NewVec3(-8, 0, -8),
			Radius: 0.5,
			Speed:  2,
			Route: []model.Vec3{
				model.NewVec3(-8, 0, 8),
				model.NewVec3(8, 0, 8),
				model.NewVec3(8, 0, -8),
				model.NewVec3(-8, 0, -8),
			},
		},
		Agents: []AgentConfig{
			{
				ID:             "guard-1",
				Spawn:          model.NewVec3(0, 0, 0),
				Forward:        model.NewVec3(0, 0, 1),
				Speed:          DefaultAgentSpeed,
				ViewDistance:   DefaultViewDistance,
				ViewAngle:      DefaultViewAngle,
				LoseTargetTime: DefaultLoseTargetTime,
				AlertDuration:  DefaultAlertDuration,
				Waypoints: []model.Vec3{
					model.NewVec3(0, 0, 4),
					model.NewVec3(4, 0, 4),
					model.NewVec3(4, 0, 0),
					model.NewVec3(0, 0, 0),
				},
			},
		},
		Obstacles: []ObstacleConfig{
			{ID: "crate-1", Min: model.NewVec3(-3, 0, 1), Max: model.NewVec3(-1, 2, 3)},
		},
		Zones: []ZoneConfig{
			{
				ID:    "shadow",
				Name:  "Loading bay shadow",
				Kind:  "stealth",
				Shape: "cuboid",
				Min:   model.NewVec3(-10, 0, 6),
				Max:   model.NewVec3(-6, 3, 10),
			},
			{
				ID:     "exit",
				Name:   "Exit door",
				Kind:   "goal",
				Shape:  "cylinder",
				Center: model.NewVec3(8, 0, -8),
				Radius: 1.5,
				Max:    model.NewVec3(0, 3, 0),
			},
		},
	}
}

// applyDefaults fills agent fields a YAML file left out.
func (s *Scene) applyDefaults() {
	for i := range s.Agents {
		a := &s.Agents[i]
		if a.Speed == 0 {
			a.Speed = DefaultAgentSpeed
		}
		if a.ViewDistance == 0 {
			a.ViewDistance = DefaultViewDistance
		}
		if a.ViewAngle == 0 {
			a.ViewAngle = DefaultViewAngle
		}
		if a.LoseTargetTime == 0 {
			a.LoseTargetTime = DefaultLoseTargetTime
		}
		if a.AlertDuration == 0 {
			a.AlertDuration = DefaultAlertDuration
		}
		if a.Forward.IsZero() {
			a.Forward = model.NewVec3(0, 0, 1)
		}
	}
}

// Validate returns the first problem found, wrapped in ErrInvalid.
func (s Scene) Validate() error {
	if _, err := ParseLogLevel(s.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if s.TickInterval <= 0 {
		return fmt.Errorf("%w: tick_interval must be positive, got %s", ErrInvalid, s.TickInterval)
	}
	if s.Alert.Cadence <= 0 {
		return fmt.Errorf("%w: alert.cadence must be positive, got %s", ErrInvalid, s.Alert.Cadence)
	}
	if s.Alert.MaxLevel < 1 {
		return fmt.Errorf("%w: alert.max_level must be at least 1, got %d", ErrInvalid, s.Alert.MaxLevel)
	}
	if s.Target.Radius <= 0 {
		return fmt.Errorf("%w: target.radius must be positive, got %v", ErrInvalid, s.Target.Radius)
	}
	if len(s.Target.Route) > 0 && s.Target.Speed <= 0 {
		return fmt.Errorf("%w: target.speed must be positive when a route is set", ErrInvalid)
	}
	if len(s.Agents) == 0 {
		return fmt.Errorf("%w: at least one agent is required", ErrInvalid)
	}

	ids := make(map[string]struct{}, len(s.Agents))
	for i, a := range s.Agents {
		if a.ID == "" {
			return fmt.Errorf("%w: agents[%d]: id is required", ErrInvalid, i)
		}
		if _, dup := ids[a.ID]; dup {
			return fmt.Errorf("%w: agents[%d]: duplicate id %q", ErrInvalid, i, a.ID)
		}
		ids[a.ID] = struct{}{}

		if len(a.Waypoints) == 0 {
			return fmt.Errorf("%w: agent %q: waypoints must not be empty", ErrInvalid, a.ID)
		}
		if a.Speed <= 0 {
			return fmt.Errorf("%w: agent %q: speed must be positive", ErrInvalid, a.ID)
		}
		if a.ViewDistance <= 0 {
			return fmt.Errorf("%w: agent %q: view_distance must be positive", ErrInvalid, a.ID)
		}
		if a.ViewAngle <= 0 || a.ViewAngle > 360 {
			return fmt.Errorf("%w: agent %q: view_angle must be in (0, 360], got %v", ErrInvalid, a.ID, a.ViewAngle)
		}
		if a.LoseTargetTime < 0 || a.AlertDuration < 0 {
			return fmt.Errorf("%w: agent %q: timers must not be negative", ErrInvalid, a.ID)
		}
	}

	for i, o := range s.Obstacles {
		if o.ID == "" {
			return fmt.Errorf("%w: obstacles[%d]: id is required", ErrInvalid, i)
		}
	}

	for i, z := range s.Zones {
		if z.ID == "" {
			return fmt.Errorf("%w: zones[%d]: id is required", ErrInvalid, i)
		}
		switch z.Kind {
		case "stealth", "goal":
		default:
			return fmt.Errorf("%w: zone %q: unknown kind %q", ErrInvalid, z.ID, z.Kind)
		}
		switch z.Shape {
		case "cuboid", "cylinder", "npoly":
		default:
			return fmt.Errorf("%w: zone %q: unknown shape %q", ErrInvalid, z.ID, z.Shape)
		}
	}

	return nil
}
