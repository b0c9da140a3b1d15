// Package alert aggregates how many guards are hunting and escalates the shared
// alert level until the session ends.
package alert

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/yskaart/sentry/internal/model"
)

// Defaults for a new coordinator.
const (
	DefaultCadence  = 2.0 // seconds of active hunting per level
	DefaultMaxLevel = 5
)

// ErrInvalidConfig is returned by NewCoordinator for unusable parameters.
var ErrInvalidConfig = errors.New("invalid alert configuration")

// Config holds escalation parameters.
type Config struct {
	Cadence  float64 // seconds between level increments while anyone hunts
	MaxLevel int     // level at which the session fails
}

// DefaultConfig returns the standard escalation parameters.
func DefaultConfig() Config {
	return Config{Cadence: DefaultCadence, MaxLevel: DefaultMaxLevel}
}

// TerminalFunc is called once when the session reaches a terminal outcome.
type TerminalFunc func(outcome model.Outcome, level int)

// LevelFunc is called whenever the alert level changes.
type LevelFunc func(level, maxLevel int)

// Coordinator is the single per-session alert aggregator.
// Thread-safe: every operation is serialized on one mutex; listeners run after
// the lock is released.
type Coordinator struct {
	mu sync.Mutex

	cfg     Config
	level   int
	timer   float64
	hunters map[string]struct{} // agentID set, makes Started/Stopped idempotent
	outcome model.Outcome

	onTerminal []TerminalFunc
	onLevel    []LevelFunc
}

// NewCoordinator creates a coordinator at level 0.
func NewCoordinator(cfg Config) (*Coordinator, error) {
	if cfg.Cadence <= 0 {
		return nil, fmt.Errorf("%w: cadence must be positive, got %v", ErrInvalidConfig, cfg.Cadence)
	}
	if cfg.MaxLevel < 1 {
		return nil, fmt.Errorf("%w: max level must be at least 1, got %d", ErrInvalidConfig, cfg.MaxLevel)
	}
	return &Coordinator{
		cfg:     cfg,
		hunters: make(map[string]struct{}),
	}, nil
}

// OnTerminal registers a terminal-outcome listener.
func (c *Coordinator) OnTerminal(fn TerminalFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTerminal = append(c.onTerminal, fn)
}

// OnLevelChanged registers a level-change listener.
func (c *Coordinator) OnLevelChanged(fn LevelFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onLevel = append(c.onLevel, fn)
}

// NotifyHuntingStarted marks agentID as hunting. Repeated calls are no-ops.
func (c *Coordinator) NotifyHuntingStarted(agentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hunters[agentID] = struct{}{}
}

// NotifyHuntingStopped clears agentID. Stopping an agent that is not hunting is
// a pairing defect in the caller; it is logged and ignored so the count never
// goes negative.
func (c *Coordinator) NotifyHuntingStopped(agentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.hunters[agentID]; !ok {
		slog.Warn("hunting stopped without matching start", "agent", agentID)
		return
	}
	delete(c.hunters, agentID)
}

// HuntingCount returns how many agents are currently hunting.
func (c *Coordinator) HuntingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.hunters)
}

// IsHunting reports whether agentID is registered as hunting.
func (c *Coordinator) IsHunting(agentID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.hunters[agentID]
	return ok
}

// Tick advances the cadence timer by dt seconds while anyone is hunting.
// No-op once terminal.
func (c *Coordinator) Tick(dt float64) {
	c.mu.Lock()
	if c.outcome.IsTerminal() || len(c.hunters) == 0 {
		c.mu.Unlock()
		return
	}

	c.timer += dt
	if !model.Elapsed(c.timer, c.cfg.Cadence) {
		c.mu.Unlock()
		return
	}
	c.timer = 0
	c.escalateAndUnlock()
}

// Escalate raises the level by one immediately. Ignored once terminal.
func (c *Coordinator) Escalate() {
	c.mu.Lock()
	if c.outcome.IsTerminal() {
		c.mu.Unlock()
		return
	}
	c.escalateAndUnlock()
}

// escalateAndUnlock must be called with mu held and releases it before
// running listeners.
func (c *Coordinator) escalateAndUnlock() {
	if c.level >= c.cfg.MaxLevel {
		c.mu.Unlock()
		return
	}
	c.level++
	level := c.level
	levelFns := append([]LevelFunc(nil), c.onLevel...)

	var terminalFns []TerminalFunc
	if c.level >= c.cfg.MaxLevel {
		c.outcome = model.OutcomeFailure
		terminalFns = append(terminalFns, c.onTerminal...)
	}
	c.mu.Unlock()

	for _, fn := range levelFns {
		fn(level, c.cfg.MaxLevel)
	}
	for _, fn := range terminalFns {
		fn(model.OutcomeFailure, level)
	}
}

// CompleteMission ends the session with success. Returns false if the session
// was already terminal.
func (c *Coordinator) CompleteMission() bool {
	c.mu.Lock()
	if c.outcome.IsTerminal() {
		c.mu.Unlock()
		return false
	}
	c.outcome = model.OutcomeSuccess
	level := c.level
	fns := append([]TerminalFunc(nil), c.onTerminal...)
	c.mu.Unlock()

	for _, fn := range fns {
		fn(model.OutcomeSuccess, level)
	}
	return true
}

// Level returns the current alert level.
func (c *Coordinator) Level() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.level
}

// MaxLevel returns the saturation level.
func (c *Coordinator) MaxLevel() int {
	return c.cfg.MaxLevel
}

// Outcome returns the terminal outcome (OutcomeNone while running).
func (c *Coordinator) Outcome() model.Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome
}

// IsTerminal reports whether the session has ended.
func (c *Coordinator) IsTerminal() bool {
	return c.Outcome().IsTerminal()
}

// Status returns the HUD line, e.g. "ALERT: 2/5".
func (c *Coordinator) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("ALERT: %d/%d", c.level, c.cfg.MaxLevel)
}

// Reset starts a new session: level 0, no hunters, not terminal.
// Listeners stay registered.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.level = 0
	c.timer = 0
	c.outcome = model.OutcomeNone
	clear(c.hunters)
}
