// Package perception decides whether an observer can see the target.
package perception

import (
	"github.com/yskaart/sentry/internal/geo"
	"github.com/yskaart/sentry/internal/model"
)

// Sight holds the perception parameters of an observer.
type Sight struct {
	ViewDistance float64 // max sight range in world units
	ViewAngle    float64 // full view cone width in degrees
}

// Observer is anything with a pose and a view cone.
type Observer interface {
	Pose() model.Pose
	Sight() Sight
}

// CanDetect reports whether observer sees target this tick.
//
// Checks run cheapest first: stealth override, missing target, range, view cone,
// then a single occlusion probe toward the target. Only a probe that resolves to a
// surface tagged as the target counts as a detection; hitting nothing or hitting
// anything else is "not seen".
func CanDetect(observer Observer, target *model.Target, stealth bool, prober geo.Prober) bool {
	if stealth {
		return false
	}
	if target == nil || prober == nil {
		return false
	}

	pose := observer.Pose()
	sight := observer.Sight()

	toTarget := target.Position().Sub(pose.Position)
	dist := toTarget.Length()
	if dist > sight.ViewDistance {
		return false
	}
	// Coincident positions have no direction to look along.
	if dist < model.Epsilon {
		return false
	}

	if pose.Forward.AngleTo(toTarget) > sight.ViewAngle/2 {
		return false
	}

	hit, ok := prober.Probe(pose.Position, toTarget, sight.ViewDistance, geo.SightMask)
	if !ok {
		return false
	}
	return hit.Tag == geo.TagTarget
}

// ConeEdges returns the far left and right boundary points of the view cone,
// for debug overlays.
func ConeEdges(pose model.Pose, sight Sight) (left, right model.Vec3) {
	half := sight.ViewAngle / 2
	left = pose.Position.Add(pose.Forward.RotateY(-half).Scale(sight.ViewDistance))
	right = pose.Position.Add(pose.Forward.RotateY(half).Scale(sight.ViewDistance))
	return left, right
}
