package geo

import (
	"math"

	"github.com/yskaart/sentry/internal/model"
)

// Collider is a tagged surface that rays can hit.
type Collider interface {
	ID() string
	Tag() string
	Layer() Layer
	// Raycast returns the distance along a unit direction at which the ray
	// enters the collider. A ray starting inside the collider does not hit it.
	Raycast(origin, dir model.Vec3, maxDistance float64) (float64, bool)
}

// Box is an axis-aligned box collider.
type Box struct {
	id    string
	tag   string
	layer Layer
	min   model.Vec3
	max   model.Vec3
}

// NewBox creates a box from two opposite corners (any order).
func NewBox(id, tag string, layer Layer, a, b model.Vec3) *Box {
	return &Box{
		id:    id,
		tag:   tag,
		layer: layer,
		min:   model.NewVec3(math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)),
		max:   model.NewVec3(math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)),
	}
}

// ID returns the collider identifier.
func (b *Box) ID() string { return b.id }

// Tag returns the surface tag.
func (b *Box) Tag() string { return b.tag }

// Layer returns the collision layer.
func (b *Box) Layer() Layer { return b.layer }

// Bounds returns the min and max corners.
func (b *Box) Bounds() (model.Vec3, model.Vec3) { return b.min, b.max }

// Raycast uses the slab method.
func (b *Box) Raycast(origin, dir model.Vec3, maxDistance float64) (float64, bool) {
	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	axes := [3][4]float64{
		{origin.X, dir.X, b.min.X, b.max.X},
		{origin.Y, dir.Y, b.min.Y, b.max.Y},
		{origin.Z, dir.Z, b.min.Z, b.max.Z},
	}

	for _, a := range axes {
		o, d, lo, hi := a[0], a[1], a[2], a[3]
		if math.Abs(d) < 1e-12 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		inv := 1 / d
		t1 := (lo - o) * inv
		t2 := (hi - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	// Negative entry: box is behind the origin or contains it.
	if tMin < 0 || tMin > maxDistance {
		return 0, false
	}
	return tMin, true
}

// Sphere is a sphere collider whose center can move.
type Sphere struct {
	id     string
	tag    string
	layer  Layer
	center model.Vec3
	radius float64
}

// NewSphere creates a sphere collider.
func NewSphere(id, tag string, layer Layer, center model.Vec3, radius float64) *Sphere {
	return &Sphere{id: id, tag: tag, layer: layer, center: center, radius: radius}
}

// ID returns the collider identifier.
func (s *Sphere) ID() string { return s.id }

// Tag returns the surface tag.
func (s *Sphere) Tag() string { return s.tag }

// Layer returns the collision layer.
func (s *Sphere) Layer() Layer { return s.layer }

// Center returns the current center.
func (s *Sphere) Center() model.Vec3 { return s.center }

// Radius returns the sphere radius.
func (s *Sphere) Radius() float64 { return s.radius }

// Raycast solves |o + t*d - c|² = r² for the nearest non-negative t.
func (s *Sphere) Raycast(origin, dir model.Vec3, maxDistance float64) (float64, bool) {
	oc := origin.Sub(s.center)
	b := oc.Dot(dir)
	c := oc.LengthSquared() - s.radius*s.radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	t := -b - math.Sqrt(disc)
	if t < 0 || t > maxDistance {
		return 0, false
	}
	return t, true
}
