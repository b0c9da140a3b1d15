// Package zone implements trigger volumes with enter/exit callbacks: stealth
// zones that hide the target and goal zones where the mission can be completed.
package zone

import "github.com/yskaart/sentry/internal/model"

// Zone kinds.
const (
	KindStealth = "stealth"
	KindGoal    = "goal"
)

// Zone is a trigger volume that tracks which entities are inside it.
type Zone interface {
	ID() string
	Name() string
	Kind() string
	Contains(p model.Vec3) bool

	// RevalidateInZone checks whether the entity is inside and fires onEnter/onExit
	// on the edge.
	RevalidateInZone(entityID string, p model.Vec3)
	// RemoveEntity forcibly removes the entity and fires onExit if it was inside.
	RemoveEntity(entityID string)
	// IsInside reports whether the entity is currently tracked inside.
	IsInside(entityID string) bool
}

// StealthZone hides whoever stands in it.
type StealthZone struct {
	*BaseZone
}

// NewStealthZone creates a StealthZone. onEnter/onExit are called with the entity ID.
func NewStealthZone(base *BaseZone, onEnter, onExit func(entityID string)) *StealthZone {
	base.kind = KindStealth
	base.onEnterFn = onEnter
	base.onExitFn = onExit
	return &StealthZone{BaseZone: base}
}

// GoalZone marks where the mission can be completed.
type GoalZone struct {
	*BaseZone
}

// NewGoalZone creates a GoalZone. onEnter/onExit are called with the entity ID.
func NewGoalZone(base *BaseZone, onEnter, onExit func(entityID string)) *GoalZone {
	base.kind = KindGoal
	base.onEnterFn = onEnter
	base.onExitFn = onExit
	return &GoalZone{BaseZone: base}
}
