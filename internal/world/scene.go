package world

import (
	"fmt"

	"github.com/yskaart/sentry/internal/ai"
	"github.com/yskaart/sentry/internal/alert"
	"github.com/yskaart/sentry/internal/config"
	"github.com/yskaart/sentry/internal/event"
	"github.com/yskaart/sentry/internal/model"
	"github.com/yskaart/sentry/internal/perception"
	"github.com/yskaart/sentry/internal/zone"
)

// FromScene builds a world from a scene config. Observers are subscribed
// before any guard is added, so they see every guard enter Patrol.
func FromScene(scene config.Scene, observers ...event.Observer) (*World, error) {
	if err := scene.Validate(); err != nil {
		return nil, err
	}

	w, err := New(Options{
		Alert: alert.Config{
			Cadence:  scene.Alert.Cadence.Seconds(),
			MaxLevel: scene.Alert.MaxLevel,
		},
		TargetSpawn:    model.NewPose(scene.Target.Spawn, model.Vec3{}),
		TargetRadius:   scene.Target.Radius,
		TargetSpeed:    scene.Target.Speed,
		TargetRoute:    scene.Target.Route,
		TickInterval:   scene.TickInterval,
		StopOnTerminal: scene.StopOnTerminal,
	})
	if err != nil {
		return nil, fmt.Errorf("building scene %q: %w", scene.Name, err)
	}
	for _, o := range observers {
		w.Subscribe(o)
	}

	for _, o := range scene.Obstacles {
		if err := w.AddObstacle(o.ID, o.Min, o.Max); err != nil {
			return nil, fmt.Errorf("building scene %q: %w", scene.Name, err)
		}
	}

	for _, zc := range scene.Zones {
		base, err := zone.NewBaseZone(zc.ID, zc.Name, zone.Geometry{
			Shape:  zone.Shape(zc.Shape),
			Min:    zc.Min,
			Max:    zc.Max,
			Center: zc.Center,
			Radius: zc.Radius,
			Nodes:  zc.Nodes,
		})
		if err != nil {
			return nil, fmt.Errorf("building scene %q: %w", scene.Name, err)
		}

		switch zc.Kind {
		case zone.KindStealth:
			err = w.AddStealthZone(base)
		case zone.KindGoal:
			err = w.AddGoalZone(base)
		}
		if err != nil {
			return nil, fmt.Errorf("building scene %q: %w", scene.Name, err)
		}
	}

	for _, ac := range scene.Agents {
		cfg := ai.Config{
			ID: ac.ID,
			Sight: perception.Sight{
				ViewDistance: ac.ViewDistance,
				ViewAngle:    ac.ViewAngle,
			},
			LoseTargetTime: ac.LoseTargetTime.Seconds(),
			AlertDuration:  ac.AlertDuration.Seconds(),
			Waypoints:      ac.Waypoints,
		}
		if err := w.AddAgent(cfg, model.NewPose(ac.Spawn, ac.Forward), ac.Speed); err != nil {
			return nil, fmt.Errorf("building scene %q: %w", scene.Name, err)
		}
	}

	return w, nil
}
