package loader

import (
	"fmt"
	"path/filepath"
)

// Target is the build flavor whose analysis artifacts are consumed.
type Target string

const (
	// TargetDebug selects unoptimized-build artifacts
	TargetDebug Target = "debug"
	// TargetRelease selects optimized-build artifacts
	TargetRelease Target = "release"
)

// String returns the flavor's directory name
func (t Target) String() string {
	return string(t)
}

// ParseTarget converts a flavor name, defaulting the empty string to debug
func ParseTarget(s string) (Target, error) {
	switch s {
	case "", "debug":
		return TargetDebug, nil
	case "release":
		return TargetRelease, nil
	}
	return "", fmt.Errorf("unknown target %q (expected debug or release)", s)
}

// AnalysisDir resolves the artifact directory for one build dir and flavor.
// The producer writes artifacts under <buildDir>/<flavor>/save-analysis.
func AnalysisDir(buildDir string, t Target) string {
	return filepath.Join(buildDir, t.String(), "save-analysis")
}
