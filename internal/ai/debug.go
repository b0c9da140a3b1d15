package ai

import "sync/atomic"

// debugLoggingEnabled gates per-tick and per-transition debug logs.
// Checking an atomic is cheaper than building slog attributes that the handler drops.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging turns AI debug logging on or off.
// Called once at start-up from the configured log level.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled reports whether AI debug logging is on.
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
