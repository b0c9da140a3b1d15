package ai

import (
	"errors"
	"fmt"

	"github.com/yskaart/sentry/internal/model"
	"github.com/yskaart/sentry/internal/perception"
)

// Defaults for guard perception and timing.
const (
	DefaultViewDistance   = 10.0 // world units
	DefaultViewAngle      = 60.0 // degrees, full cone
	DefaultLoseTargetTime = 3.0  // seconds without sight before Attack -> Alert
	DefaultAlertDuration  = 5.0  // seconds at the last known position before Alert -> Patrol
)

// ErrInvalidConfiguration is returned when an agent cannot be constructed.
var ErrInvalidConfiguration = errors.New("invalid agent configuration")

// Config describes one guard.
type Config struct {
	ID             string
	Sight          perception.Sight
	LoseTargetTime float64      // seconds
	AlertDuration  float64      // seconds
	Waypoints      []model.Vec3 // patrol route, visited in order and wrapped
}

// DefaultConfig returns a config with default perception and timing for id.
// Waypoints must still be supplied.
func DefaultConfig(id string) Config {
	return Config{
		ID: id,
		Sight: perception.Sight{
			ViewDistance: DefaultViewDistance,
			ViewAngle:    DefaultViewAngle,
		},
		LoseTargetTime: DefaultLoseTargetTime,
		AlertDuration:  DefaultAlertDuration,
	}
}

// Validate checks that the config describes a workable guard.
func (c Config) Validate() error {
	switch {
	case c.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidConfiguration)
	case len(c.Waypoints) == 0:
		return fmt.Errorf("%w: agent %q has no patrol waypoints", ErrInvalidConfiguration, c.ID)
	case c.Sight.ViewDistance <= 0:
		return fmt.Errorf("%w: agent %q view distance must be positive, got %v",
			ErrInvalidConfiguration, c.ID, c.Sight.ViewDistance)
	case c.Sight.ViewAngle <= 0 || c.Sight.ViewAngle > 360:
		return fmt.Errorf("%w: agent %q view angle must be in (0, 360], got %v",
			ErrInvalidConfiguration, c.ID, c.Sight.ViewAngle)
	case c.LoseTargetTime < 0:
		return fmt.Errorf("%w: agent %q lose-target time is negative", ErrInvalidConfiguration, c.ID)
	case c.AlertDuration < 0:
		return fmt.Errorf("%w: agent %q alert duration is negative", ErrInvalidConfiguration, c.ID)
	}
	return nil
}
