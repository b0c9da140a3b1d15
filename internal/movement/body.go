// Package movement provides a kinematic path-follow controller: it walks a body
// in a straight line toward its destination at a fixed speed.
package movement

import (
	"sync"

	"github.com/yskaart/sentry/internal/model"
)

// ArrivalEpsilon is the remaining distance below which a body has arrived.
const ArrivalEpsilon = 0.5

// Body tracks a moving entity and its current destination.
//
// SetDestination marks the path as pending until the next Advance, so a body
// never reports arrival in the same tick it was re-targeted.
// Thread-safe: uses RWMutex for concurrent access.
type Body struct {
	mu sync.RWMutex

	pose  model.Pose
	speed float64 // units per second

	destination    model.Vec3
	hasDestination bool
	pending        bool
}

// NewBody creates a body at pose moving at speed units per second.
func NewBody(pose model.Pose, speed float64) *Body {
	return &Body{
		pose:  pose,
		speed: speed,
	}
}

// Pose returns the current pose.
func (b *Body) Pose() model.Pose {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pose
}

// Speed returns the movement speed.
func (b *Body) Speed() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.speed
}

// SetDestination sets a new target position.
func (b *Body) SetDestination(pos model.Vec3) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.destination = pos
	b.hasDestination = true
	b.pending = true
}

// Destination returns the current destination, if any.
func (b *Body) Destination() (model.Vec3, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.destination, b.hasDestination
}

// RemainingDistance returns the distance left to the destination (0 without one).
func (b *Body) RemainingDistance() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.remainingLocked()
}

func (b *Body) remainingLocked() float64 {
	if !b.hasDestination {
		return 0
	}
	return b.pose.Position.Distance(b.destination)
}

// HasArrived reports whether no path is pending and the remaining distance is
// below ArrivalEpsilon.
func (b *Body) HasArrived() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return !b.pending && b.remainingLocked() < ArrivalEpsilon
}

// Advance moves the body toward its destination for dt seconds and turns it to
// face the direction of travel.
func (b *Body) Advance(dt float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.hasDestination {
		return
	}
	b.pending = false
	if dt <= 0 || b.speed <= 0 {
		return
	}

	delta := b.destination.Sub(b.pose.Position)
	remaining := delta.Length()
	if remaining < model.Epsilon {
		return
	}

	step := b.speed * dt
	if step >= remaining {
		b.pose = b.pose.Facing(delta).WithPosition(b.destination)
		return
	}
	dir := delta.Scale(1 / remaining)
	b.pose = b.pose.Facing(dir).WithPosition(b.pose.Position.Add(dir.Scale(step)))
}

// Reset teleports the body to pose and clears its destination.
func (b *Body) Reset(pose model.Pose) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pose = pose
	b.destination = model.Vec3{}
	b.hasDestination = false
	b.pending = false
}
