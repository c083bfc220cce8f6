// Package config loads and persists sift configuration from
// .sift/config.json.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"sift/internal/errors"
	"sift/internal/loader"
)

// Config represents the complete sift configuration
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	// Roots are artifact directories scanned as-is on every load
	Roots []string `json:"roots" mapstructure:"roots"`

	// BuildDirs are build output directories; each contributes
	// <dir>/<target>/save-analysis as a root
	BuildDirs []string `json:"buildDirs" mapstructure:"buildDirs"`

	// Target is the build flavor for BuildDirs (debug or release)
	Target string `json:"target" mapstructure:"target"`

	// Pinned are glob patterns for artifact paths that are pinned into
	// the snapshot before the first scan
	Pinned []string `json:"pinned" mapstructure:"pinned"`

	Loader  LoaderConfig  `json:"loader" mapstructure:"loader"`
	Watch   WatchConfig   `json:"watch" mapstructure:"watch"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// LoaderConfig tunes the incremental loader
type LoaderConfig struct {
	Workers          int `json:"workers" mapstructure:"workers"`
	FailureCacheSize int `json:"failureCacheSize" mapstructure:"failureCacheSize"`
}

// WatchConfig tunes watch mode
type WatchConfig struct {
	DebounceMs    int `json:"debounceMs" mapstructure:"debounceMs"`
	RescanSeconds int `json:"rescanSeconds" mapstructure:"rescanSeconds"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Target:  string(loader.TargetDebug),
		Loader: LoaderConfig{
			Workers:          4,
			FailureCacheSize: 256,
		},
		Watch: WatchConfig{
			DebounceMs:    500,
			RescanSeconds: 5,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// Load loads configuration from <root>/.sift/config.json, falling back to
// defaults when no config file exists.
func Load(root string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)
	v.SetDefault("target", string(loader.TargetDebug))
	v.SetDefault("loader.workers", 4)
	v.SetDefault("loader.failureCacheSize", 256)
	v.SetDefault("watch.debounceMs", 500)
	v.SetDefault("watch.rescanSeconds", 5)
	v.SetDefault("logging.format", "human")
	v.SetDefault("logging.level", "info")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(root, ".sift"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, errors.New(errors.ConfigInvalid, "cannot read config", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New(errors.ConfigInvalid, "cannot unmarshal config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to <root>/.sift/config.json
func (c *Config) Save(root string) error {
	dir := filepath.Join(root, ".sift")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.New(errors.ConfigInvalid, "cannot create .sift directory", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0o644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return errors.Newf(errors.ConfigInvalid, nil, "unsupported config version %d", c.Version)
	}
	if _, err := loader.ParseTarget(c.Target); err != nil {
		return errors.New(errors.ConfigInvalid, "invalid target", err)
	}
	if c.Loader.Workers < 0 {
		return errors.New(errors.ConfigInvalid, "loader.workers must not be negative", nil)
	}
	return nil
}

// EffectiveRoots resolves the full root list: Roots verbatim, plus the
// per-flavor analysis directory of every BuildDir.
func (c *Config) EffectiveRoots() []string {
	target, err := loader.ParseTarget(c.Target)
	if err != nil {
		target = loader.TargetDebug
	}

	roots := append([]string(nil), c.Roots...)
	for _, dir := range c.BuildDirs {
		roots = append(roots, loader.AnalysisDir(dir, target))
	}
	return roots
}
