package loader

import "time"

// FreshnessState is the tri-state freshness policy for one artifact path.
type FreshnessState uint8

const (
	// Unseen means the path has no prior knowledge; always load.
	Unseen FreshnessState = iota
	// KnownAt means the path was loaded at Freshness.ModTime; load only
	// when the observed mtime is strictly newer.
	KnownAt
	// Pinned means the path must never be refreshed.
	Pinned
)

// String returns the state name
func (s FreshnessState) String() string {
	switch s {
	case KnownAt:
		return "known"
	case Pinned:
		return "pinned"
	default:
		return "unseen"
	}
}

// Freshness is prior knowledge about one artifact path. ModTime is only
// meaningful when State is KnownAt.
type Freshness struct {
	State   FreshnessState
	ModTime time.Time
}

// KnownSince returns a Freshness recording a load at t
func KnownSince(t time.Time) Freshness {
	return Freshness{State: KnownAt, ModTime: t}
}

// Pin returns a Freshness that suppresses all refreshes
func Pin() Freshness {
	return Freshness{State: Pinned}
}

// ShouldLoad decides whether an artifact with the observed modification
// time must be (re)loaded under this prior knowledge.
func (f Freshness) ShouldLoad(observed time.Time) bool {
	switch f.State {
	case Pinned:
		return false
	case KnownAt:
		return observed.After(f.ModTime)
	default:
		return true
	}
}

// Snapshot maps artifact paths to prior knowledge. It is read-only for the
// duration of a Load call; paths it has never heard of are Unseen.
type Snapshot interface {
	Freshness(path string) Freshness
}

// MapSnapshot is the simplest Snapshot: a plain map. Missing keys are
// Unseen.
type MapSnapshot map[string]Freshness

// Freshness implements Snapshot
func (m MapSnapshot) Freshness(path string) Freshness {
	return m[path]
}
