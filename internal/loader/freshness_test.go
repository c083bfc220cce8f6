package loader

import (
	"testing"
	"time"
)

func TestFreshnessShouldLoad(t *testing.T) {
	base := time.Unix(1000, 0)

	tests := []struct {
		name     string
		prior    Freshness
		observed time.Time
		want     bool
	}{
		{"unseen always loads", Freshness{}, base, true},
		{"unseen loads even with zero mtime", Freshness{}, time.Time{}, true},
		{"known older than observed", KnownSince(base), base.Add(time.Second), true},
		{"known equal to observed", KnownSince(base), base, false},
		{"known newer than observed", KnownSince(base.Add(time.Minute)), base, false},
		{"pinned never loads", Pin(), base.Add(time.Hour), false},
		{"pinned ignores zero mtime", Pin(), time.Time{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.prior.ShouldLoad(tc.observed); got != tc.want {
				t.Errorf("ShouldLoad = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMapSnapshotMissingKeysAreUnseen(t *testing.T) {
	snap := MapSnapshot{"known.json": KnownSince(time.Unix(500, 0))}

	if f := snap.Freshness("never-heard-of.json"); f.State != Unseen {
		t.Errorf("missing key state = %s, want unseen", f.State)
	}
	if f := snap.Freshness("known.json"); f.State != KnownAt {
		t.Errorf("known key state = %s, want known", f.State)
	}

	var nilSnap MapSnapshot
	if f := nilSnap.Freshness("x"); f.State != Unseen {
		t.Errorf("nil map state = %s, want unseen", f.State)
	}
}

func TestFreshnessStateString(t *testing.T) {
	tests := []struct {
		state FreshnessState
		want  string
	}{
		{Unseen, "unseen"},
		{KnownAt, "known"},
		{Pinned, "pinned"},
	}
	for _, tc := range tests {
		if got := tc.state.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in      string
		want    Target
		wantErr bool
	}{
		{"", TargetDebug, false},
		{"debug", TargetDebug, false},
		{"release", TargetRelease, false},
		{"profile", "", true},
	}
	for _, tc := range tests {
		got, err := ParseTarget(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseTarget(%q) err = %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTarget(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
