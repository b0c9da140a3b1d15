package model

// Pose is a position plus a facing direction.
type Pose struct {
	Position Vec3 `yaml:"position"`
	Forward  Vec3 `yaml:"forward"`
}

// NewPose creates a Pose. The forward direction is normalized; a zero forward
// falls back to +Z.
func NewPose(position, forward Vec3) Pose {
	f := forward.Normalized()
	if f.IsZero() {
		f = Vec3{Z: 1}
	}
	return Pose{Position: position, Forward: f}
}

// WithPosition returns a copy of p at a new position (immutable pattern).
func (p Pose) WithPosition(pos Vec3) Pose {
	p.Position = pos
	return p
}

// Facing returns a copy of p turned toward dir. A zero dir keeps the current facing.
func (p Pose) Facing(dir Vec3) Pose {
	if f := dir.Normalized(); !f.IsZero() {
		p.Forward = f
	}
	return p
}

// Target is the entity being hunted.
type Target struct {
	Pose Pose
}

// NewTarget creates a target at pose.
func NewTarget(pose Pose) *Target {
	return &Target{Pose: pose}
}

// Position returns the target's current position.
func (t *Target) Position() Vec3 {
	return t.Pose.Position
}
