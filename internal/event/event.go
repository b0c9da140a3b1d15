// Package event carries presentation notifications out of the simulation.
// Observers are fire-and-forget: nothing they do feeds back into decisions.
package event

import (
	"log/slog"
	"sync"

	"github.com/yskaart/sentry/internal/model"
)

// Kind identifies a presentation event.
type Kind int32

const (
	// KindStateEntered - an agent entered a state
	KindStateEntered Kind = iota
	// KindStateExited - an agent left a state
	KindStateExited
	// KindStealthChanged - the stealth signal flipped (one per registered agent)
	KindStealthChanged
	// KindAlertLevelChanged - the shared alert level rose
	KindAlertLevelChanged
	// KindTerminal - the session ended (success or failure)
	KindTerminal
	// KindSessionReset - a new session started
	KindSessionReset
)

// String returns human-readable kind name
func (k Kind) String() string {
	switch k {
	case KindStateEntered:
		return "STATE_ENTERED"
	case KindStateExited:
		return "STATE_EXITED"
	case KindStealthChanged:
		return "STEALTH_CHANGED"
	case KindAlertLevelChanged:
		return "ALERT_LEVEL_CHANGED"
	case KindTerminal:
		return "TERMINAL"
	case KindSessionReset:
		return "SESSION_RESET"
	default:
		return "UNKNOWN"
	}
}

// Event is a single notification. Fields irrelevant to Kind are zero.
type Event struct {
	Kind    Kind
	SimTime float64 // seconds of simulated time since session start

	AgentID string
	State   model.AgentState

	Stealth bool

	Level    int
	MaxLevel int
	Outcome  model.Outcome
}

// Observer receives presentation events.
type Observer interface {
	Notify(e Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(e Event)

// Notify calls f.
func (f ObserverFunc) Notify(e Event) {
	f(e)
}

// Bus fans events out to every subscribed observer, in subscription order.
type Bus struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe adds an observer.
func (b *Bus) Subscribe(o Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers = append(b.observers, o)
}

// Notify implements Observer.
func (b *Bus) Notify(e Event) {
	b.mu.RLock()
	observers := b.observers
	b.mu.RUnlock()

	for _, o := range observers {
		o.Notify(e)
	}
}

// LogObserver writes events to slog. Per-agent events go to Debug,
// session-level events to Info.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates a LogObserver. A nil logger uses slog.Default().
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

// Notify implements Observer.
func (l *LogObserver) Notify(e Event) {
	switch e.Kind {
	case KindStateEntered, KindStateExited:
		l.logger.Debug("agent state event",
			"kind", e.Kind,
			"agent", e.AgentID,
			"state", e.State,
			"t", e.SimTime)
	case KindStealthChanged:
		l.logger.Debug("stealth changed",
			"agent", e.AgentID,
			"stealth", e.Stealth,
			"t", e.SimTime)
	case KindAlertLevelChanged:
		l.logger.Info("alert level changed",
			"level", e.Level,
			"max", e.MaxLevel,
			"t", e.SimTime)
	case KindTerminal:
		l.logger.Info("session ended",
			"outcome", e.Outcome,
			"level", e.Level,
			"t", e.SimTime)
	case KindSessionReset:
		l.logger.Info("session reset")
	}
}
