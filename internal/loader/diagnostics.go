package loader

import (
	"time"

	"sift/internal/logging"
)

// Diagnostics is the side channel for per-artifact and per-root outcomes.
// The returned unit sequence carries no failure signal; anything a host
// wants to surface about skipped artifacts or unreadable roots arrives
// here. The session id is unique per Load call.
type Diagnostics interface {
	ListingFailed(session, root string, err error)
	ArtifactSkipped(session, path string, err error)
	RootLoaded(session, root string, units int, elapsed time.Duration)
}

// NopDiagnostics discards all events
type NopDiagnostics struct{}

func (NopDiagnostics) ListingFailed(string, string, error)           {}
func (NopDiagnostics) ArtifactSkipped(string, string, error)         {}
func (NopDiagnostics) RootLoaded(string, string, int, time.Duration) {}

// LogDiagnostics forwards events to a structured logger
type LogDiagnostics struct {
	Logger *logging.Logger
}

func (d LogDiagnostics) ListingFailed(session, root string, err error) {
	d.Logger.Warn("root listing failed", map[string]interface{}{
		"session": session,
		"root":    root,
		"error":   err.Error(),
	})
}

func (d LogDiagnostics) ArtifactSkipped(session, path string, err error) {
	d.Logger.Debug("artifact skipped", map[string]interface{}{
		"session": session,
		"path":    path,
		"error":   err.Error(),
	})
}

func (d LogDiagnostics) RootLoaded(session, root string, units int, elapsed time.Duration) {
	d.Logger.Debug("root loaded", map[string]interface{}{
		"session":   session,
		"root":      root,
		"units":     units,
		"elapsedMs": elapsed.Milliseconds(),
	})
}
