package geo

import (
	"fmt"
	"sync"

	"github.com/yskaart/sentry/internal/model"
)

// Engine holds every collider in the scene and answers probes.
// Thread-safe: colliders are added and moved under a write lock, probes take a read lock.
type Engine struct {
	mu        sync.RWMutex
	colliders map[string]Collider
	order     []string // insertion order, keeps tie-breaking stable
}

// NewEngine creates an empty occlusion engine.
func NewEngine() *Engine {
	return &Engine{
		colliders: make(map[string]Collider),
	}
}

// Add registers a collider. IDs must be unique.
func (e *Engine) Add(c Collider) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.colliders[c.ID()]; exists {
		return fmt.Errorf("adding collider %q: already registered", c.ID())
	}
	e.colliders[c.ID()] = c
	e.order = append(e.order, c.ID())
	return nil
}

// MoveSphere moves a registered sphere collider to a new center.
func (e *Engine) MoveSphere(id string, center model.Vec3) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.colliders[id]
	if !ok {
		return fmt.Errorf("moving collider %q: not found", id)
	}
	s, ok := c.(*Sphere)
	if !ok {
		return fmt.Errorf("moving collider %q: not a sphere", id)
	}
	s.center = center
	return nil
}

// Count returns the number of registered colliders.
func (e *Engine) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.colliders)
}

// Probe implements Prober. The direction does not need to be normalized;
// a zero direction never hits anything.
func (e *Engine) Probe(origin, direction model.Vec3, maxDistance float64, mask Layer) (Hit, bool) {
	dir := direction.Normalized()
	if dir.IsZero() || maxDistance <= 0 {
		return Hit{}, false
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	var (
		best  Hit
		found bool
	)
	for _, id := range e.order {
		c := e.colliders[id]
		if !c.Layer().Has(mask) {
			continue
		}
		t, ok := c.Raycast(origin, dir, maxDistance)
		if !ok {
			continue
		}
		if !found || t < best.Distance {
			best = Hit{
				ColliderID: c.ID(),
				Tag:        c.Tag(),
				Distance:   t,
				Point:      origin.Add(dir.Scale(t)),
			}
			found = true
		}
	}
	return best, found
}
