// Package geo implements the occlusion test service: a registry of tagged
// colliders that answers "what does a ray from here hit first".
package geo

import "github.com/yskaart/sentry/internal/model"

// Layer is a collision layer bit. Probes carry a mask of layers they can hit.
type Layer uint32

const (
	// LayerDefault is used by colliders that do not set a layer.
	LayerDefault Layer = 1 << iota
	// LayerObstacle holds static geometry that blocks sight.
	LayerObstacle
	// LayerTarget holds the hunted entity.
	LayerTarget
)

// LayerAll matches every layer.
const LayerAll = ^Layer(0)

// SightMask is the filter used by line-of-sight probes: only surfaces that
// could be the target or something in front of it.
const SightMask = LayerObstacle | LayerTarget

// Has reports whether l contains any bit of other.
func (l Layer) Has(other Layer) bool {
	return l&other != 0
}

// Surface tags.
const (
	TagTarget   = "Player"
	TagObstacle = "Obstacle"
)

// Hit describes the first surface a probe resolved to.
type Hit struct {
	ColliderID string
	Tag        string
	Distance   float64
	Point      model.Vec3
}

// Prober is the occlusion test contract consumed by perception.
type Prober interface {
	// Probe casts a ray from origin along direction, up to maxDistance, and
	// returns the closest collider in mask. ok is false when nothing was hit.
	Probe(origin, direction model.Vec3, maxDistance float64, mask Layer) (hit Hit, ok bool)
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(origin, direction model.Vec3, maxDistance float64, mask Layer) (Hit, bool)

// Probe calls f.
func (f ProberFunc) Probe(origin, direction model.Vec3, maxDistance float64, mask Layer) (Hit, bool) {
	return f(origin, direction, maxDistance, mask)
}
