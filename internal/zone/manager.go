package zone

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/yskaart/sentry/internal/model"
)

// StealthFunc is called when an entity starts or stops being hidden by any
// stealth zone. Overlapping zones count once.
type StealthFunc func(entityID string, hidden bool)

// Manager owns every trigger zone in the scene.
type Manager struct {
	mu sync.Mutex

	zones  []Zone
	byID   map[string]Zone
	byKind map[string][]Zone

	// Per-entity count of stealth/goal zones it is inside.
	stealthDepth map[string]int
	goalDepth    map[string]int

	onStealth StealthFunc
}

// NewManager creates an empty manager. onStealth may be nil.
func NewManager(onStealth StealthFunc) *Manager {
	return &Manager{
		byID:         make(map[string]Zone),
		byKind:       make(map[string][]Zone),
		stealthDepth: make(map[string]int),
		goalDepth:    make(map[string]int),
		onStealth:    onStealth,
	}
}

// AddStealthZone registers a stealth zone over base.
func (m *Manager) AddStealthZone(base *BaseZone) (*StealthZone, error) {
	z := NewStealthZone(base, m.enterStealth, m.exitStealth)
	if err := m.add(z); err != nil {
		return nil, err
	}
	return z, nil
}

// AddGoalZone registers a goal zone over base.
func (m *Manager) AddGoalZone(base *BaseZone) (*GoalZone, error) {
	z := NewGoalZone(base, m.enterGoal, m.exitGoal)
	if err := m.add(z); err != nil {
		return nil, err
	}
	return z, nil
}

func (m *Manager) add(z Zone) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byID[z.ID()]; exists {
		return fmt.Errorf("adding zone %q: duplicate id", z.ID())
	}
	m.zones = append(m.zones, z)
	m.byID[z.ID()] = z
	m.byKind[z.Kind()] = append(m.byKind[z.Kind()], z)

	slog.Debug("zone registered", "id", z.ID(), "name", z.Name(), "kind", z.Kind())
	return nil
}

// Revalidate re-checks the entity against every zone, firing enter/exit callbacks.
func (m *Manager) Revalidate(entityID string, p model.Vec3) {
	m.mu.Lock()
	zones := m.zones
	m.mu.Unlock()

	for _, z := range zones {
		z.RevalidateInZone(entityID, p)
	}
}

// IsHidden reports whether the entity is inside any stealth zone.
func (m *Manager) IsHidden(entityID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stealthDepth[entityID] > 0
}

// InGoal reports whether the entity is inside any goal zone.
func (m *Manager) InGoal(entityID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.goalDepth[entityID] > 0
}

// ZonesByKind returns every zone of kind.
func (m *Manager) ZonesByKind(kind string) []Zone {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Zone(nil), m.byKind[kind]...)
}

// Count returns the number of zones.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.zones)
}

func (m *Manager) enterStealth(entityID string) {
	m.mu.Lock()
	m.stealthDepth[entityID]++
	first := m.stealthDepth[entityID] == 1
	m.mu.Unlock()

	if first && m.onStealth != nil {
		m.onStealth(entityID, true)
	}
}

func (m *Manager) exitStealth(entityID string) {
	m.mu.Lock()
	if m.stealthDepth[entityID] == 0 {
		m.mu.Unlock()
		return
	}
	m.stealthDepth[entityID]--
	last := m.stealthDepth[entityID] == 0
	if last {
		delete(m.stealthDepth, entityID)
	}
	m.mu.Unlock()

	if last && m.onStealth != nil {
		m.onStealth(entityID, false)
	}
}

func (m *Manager) enterGoal(entityID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goalDepth[entityID]++
	slog.Debug("entity reached goal zone", "entity", entityID)
}

func (m *Manager) exitGoal(entityID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.goalDepth[entityID] == 0 {
		return
	}
	m.goalDepth[entityID]--
	if m.goalDepth[entityID] == 0 {
		delete(m.goalDepth, entityID)
		slog.Debug("entity left goal zone", "entity", entityID)
	}
}
