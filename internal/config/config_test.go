package config

import (
	"os"
	"path/filepath"
	"testing"

	"sift/internal/loader"
)

func TestLoadMissingConfigReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("version = %d", cfg.Version)
	}
	if cfg.Target != "debug" {
		t.Errorf("target = %q", cfg.Target)
	}
	if cfg.Loader.Workers != 4 {
		t.Errorf("workers = %d", cfg.Loader.Workers)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	root := t.TempDir()

	cfg := DefaultConfig()
	cfg.Roots = []string{"/data/analysis"}
	cfg.BuildDirs = []string{"/proj/target"}
	cfg.Target = "release"
	cfg.Pinned = []string{"/data/analysis/vendored-*.json"}

	if err := cfg.Save(root); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Roots) != 1 || loaded.Roots[0] != "/data/analysis" {
		t.Errorf("roots = %v", loaded.Roots)
	}
	if loaded.Target != "release" {
		t.Errorf("target = %q", loaded.Target)
	}
	if len(loaded.Pinned) != 1 {
		t.Errorf("pinned = %v", loaded.Pinned)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".sift")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	doc := `{"version": 1, "target": "profile"}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(root); err == nil {
		t.Fatal("Load accepted an invalid target")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"bad version", func(c *Config) { c.Version = 2 }, true},
		{"bad target", func(c *Config) { c.Target = "fast" }, true},
		{"negative workers", func(c *Config) { c.Loader.Workers = -1 }, true},
		{"release target", func(c *Config) { c.Target = "release" }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() err = %v, wantErr = %v", err, tc.wantErr)
			}
		})
	}
}

func TestEffectiveRoots(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Roots = []string{"/data/analysis"}
	cfg.BuildDirs = []string{"/proj/target"}
	cfg.Target = "release"

	roots := cfg.EffectiveRoots()
	want := []string{
		"/data/analysis",
		loader.AnalysisDir("/proj/target", loader.TargetRelease),
	}
	if len(roots) != 2 || roots[0] != want[0] || roots[1] != want[1] {
		t.Errorf("EffectiveRoots = %v, want %v", roots, want)
	}
}
