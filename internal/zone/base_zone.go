package zone

import (
	"fmt"
	"math"
	"sync"

	"github.com/yskaart/sentry/internal/model"
)

// Shape is the zone geometry type.
type Shape string

// Supported shapes. All shapes are vertical prisms limited to [MinY, MaxY].
const (
	ShapeCuboid   Shape = "cuboid"   // axis-aligned box between Min and Max
	ShapeCylinder Shape = "cylinder" // circle of Radius around Center on the XZ plane
	ShapeNPoly    Shape = "npoly"    // polygon of Nodes on the XZ plane
)

// Geometry describes a zone volume.
type Geometry struct {
	Shape  Shape
	Min    model.Vec3 // cuboid corners; Min.Y/Max.Y bound every shape
	Max    model.Vec3
	Center model.Vec3
	Radius float64
	Nodes  []model.Vec3
}

type onEnterExitFunc func(entityID string)

// BaseZone holds zone geometry, metadata and entity tracking.
// Concrete zone types embed BaseZone and set onEnter/onExit callbacks.
type BaseZone struct {
	id   string
	name string
	kind string
	geom Geometry

	// entities stores IDs currently inside. Key: entityID, Value: struct{}.
	entities sync.Map

	onEnterFn onEnterExitFunc
	onExitFn  onEnterExitFunc
}

// NewBaseZone validates geometry and creates a zone.
func NewBaseZone(id, name string, geom Geometry) (*BaseZone, error) {
	if geom.Max.Y < geom.Min.Y {
		return nil, fmt.Errorf("zone %q: max y %v below min y %v", id, geom.Max.Y, geom.Min.Y)
	}
	switch geom.Shape {
	case ShapeCuboid:
		if geom.Max.X < geom.Min.X || geom.Max.Z < geom.Min.Z {
			return nil, fmt.Errorf("zone %q: cuboid max corner below min corner", id)
		}
	case ShapeCylinder:
		if geom.Radius <= 0 {
			return nil, fmt.Errorf("zone %q: cylinder radius must be positive", id)
		}
	case ShapeNPoly:
		if len(geom.Nodes) < 3 {
			return nil, fmt.Errorf("zone %q: polygon needs at least 3 nodes, got %d", id, len(geom.Nodes))
		}
	default:
		return nil, fmt.Errorf("zone %q: unknown shape %q", id, geom.Shape)
	}

	nodes := make([]model.Vec3, len(geom.Nodes))
	copy(nodes, geom.Nodes)
	geom.Nodes = nodes

	return &BaseZone{id: id, name: name, geom: geom}, nil
}

// ID returns the zone identifier.
func (z *BaseZone) ID() string { return z.id }

// Name returns the zone display name.
func (z *BaseZone) Name() string { return z.name }

// Kind returns the zone kind (stealth, goal).
func (z *BaseZone) Kind() string { return z.kind }

// Geometry returns the zone volume.
func (z *BaseZone) Geometry() Geometry { return z.geom }

// Contains checks if p is inside the zone volume.
func (z *BaseZone) Contains(p model.Vec3) bool {
	if p.Y < z.geom.Min.Y || p.Y > z.geom.Max.Y {
		return false
	}

	switch z.geom.Shape {
	case ShapeCuboid:
		return p.X >= z.geom.Min.X && p.X <= z.geom.Max.X &&
			p.Z >= z.geom.Min.Z && p.Z <= z.geom.Max.Z
	case ShapeCylinder:
		dx := p.X - z.geom.Center.X
		dz := p.Z - z.geom.Center.Z
		return dx*dx+dz*dz <= z.geom.Radius*z.geom.Radius
	default:
		return z.containsNPoly(p.X, p.Z)
	}
}

// containsNPoly is point-in-polygon by ray casting on the XZ plane.
// Points on an edge count as inside.
func (z *BaseZone) containsNPoly(x, zc float64) bool {
	nodes := z.geom.Nodes
	n := len(nodes)
	inside := false
	j := n - 1

	for i := range n {
		xi, zi := nodes[i].X, nodes[i].Z
		xj, zj := nodes[j].X, nodes[j].Z

		// On-edge check: collinear and within the segment's bounding box.
		cross := (x-xi)*(zj-zi) - (xj-xi)*(zc-zi)
		if math.Abs(cross) < model.Epsilon &&
			x >= math.Min(xi, xj) && x <= math.Max(xi, xj) &&
			zc >= math.Min(zi, zj) && zc <= math.Max(zi, zj) {
			return true
		}

		if (zi > zc) != (zj > zc) {
			xCross := xi + (zc-zi)*(xj-xi)/(zj-zi)
			if x < xCross {
				inside = !inside
			}
		}
		j = i
	}

	return inside
}

// RevalidateInZone adds the entity and calls onEnter when it just walked in,
// or removes it and calls onExit when it just walked out.
func (z *BaseZone) RevalidateInZone(entityID string, p model.Vec3) {
	if z.Contains(p) {
		_, loaded := z.entities.LoadOrStore(entityID, struct{}{})
		if !loaded && z.onEnterFn != nil {
			z.onEnterFn(entityID)
		}
		return
	}
	z.RemoveEntity(entityID)
}

// RemoveEntity removes the entity from the zone, calling onExit if it was inside.
func (z *BaseZone) RemoveEntity(entityID string) {
	_, loaded := z.entities.LoadAndDelete(entityID)
	if loaded && z.onExitFn != nil {
		z.onExitFn(entityID)
	}
}

// IsInside reports whether the entity is tracked inside the zone.
func (z *BaseZone) IsInside(entityID string) bool {
	_, ok := z.entities.Load(entityID)
	return ok
}

// EntityCount returns the number of entities currently inside.
func (z *BaseZone) EntityCount() int {
	count := 0
	z.entities.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}
