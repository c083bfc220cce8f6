package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sift/internal/config"
	"sift/internal/loader"
	"sift/internal/logging"
	"sift/internal/snapshot"
)

var (
	scanFormat string
	scanFull   bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Load changed analysis artifacts",
	Long: `Scan every configured root, load artifacts that are new or newer than the
snapshot, record them into the snapshot, and print a summary.`,
	Run: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanFormat, "format", "human", "Output format (human, json, yaml)")
	scanCmd.Flags().BoolVar(&scanFull, "full", false, "Ignore the snapshot and reload everything")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) {
	start := time.Now()
	cfg := mustLoadConfig()
	logger := newLogger(cfg)
	store := mustOpenStore(logger)
	defer store.Close()

	applyPins(cfg, store, logger)

	l := loader.New(loader.Options{
		Diagnostics:      loader.LogDiagnostics{Logger: logger},
		Workers:          cfg.Loader.Workers,
		FailureCacheSize: cfg.Loader.FailureCacheSize,
	})

	roots := loader.StaticRoots(cfg.EffectiveRoots())
	if len(roots) == 0 {
		fmt.Fprintln(os.Stderr, "No roots configured; set roots or buildDirs in .sift/config.json")
		os.Exit(1)
	}

	var units []loader.Unit
	if scanFull {
		units = l.LoadAll(context.Background(), roots)
	} else {
		units = l.Load(context.Background(), roots, store)
	}

	if err := store.Record(units); err != nil {
		fmt.Fprintf(os.Stderr, "Error recording snapshot: %v\n", err)
		os.Exit(1)
	}

	summary := summarize(units, time.Since(start))
	output, err := formatSummary(summary, scanFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}

// applyPins pins every artifact matching a configured glob
func applyPins(cfg *config.Config, store *snapshot.Store, logger *logging.Logger) {
	for _, pattern := range cfg.Pinned {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			logger.Warn("invalid pin pattern", map[string]interface{}{
				"pattern": pattern,
				"error":   err.Error(),
			})
			continue
		}
		for _, path := range matches {
			if err := store.Pin(path); err != nil {
				logger.Warn("pin failed", map[string]interface{}{
					"path":  path,
					"error": err.Error(),
				})
			}
		}
	}
}

// ScanSummary is the scan command's output document
type ScanSummary struct {
	Units     []UnitSummary `json:"units" yaml:"units"`
	Total     int           `json:"total" yaml:"total"`
	ElapsedMs int64         `json:"elapsedMs" yaml:"elapsedMs"`
}

// UnitSummary describes one loaded unit
type UnitSummary struct {
	Path      string `json:"path" yaml:"path"`
	Unit      string `json:"unit,omitempty" yaml:"unit,omitempty"`
	Format    string `json:"format" yaml:"format"`
	Defs      int    `json:"defs" yaml:"defs"`
	Refs      int    `json:"refs" yaml:"refs"`
	Imports   int    `json:"imports" yaml:"imports"`
	MacroRefs int    `json:"macroRefs" yaml:"macroRefs"`
}

func summarize(units []loader.Unit, elapsed time.Duration) ScanSummary {
	summary := ScanSummary{
		Units:     make([]UnitSummary, 0, len(units)),
		Total:     len(units),
		ElapsedMs: elapsed.Milliseconds(),
	}
	for _, u := range units {
		us := UnitSummary{
			Path:      u.Path,
			Format:    string(u.Analysis.Kind),
			Defs:      len(u.Analysis.Defs),
			Refs:      len(u.Analysis.Refs),
			Imports:   len(u.Analysis.Imports),
			MacroRefs: len(u.Analysis.MacroRefs),
		}
		if u.Analysis.Prelude != nil {
			us.Unit = u.Analysis.Prelude.UnitName
		}
		summary.Units = append(summary.Units, us)
	}
	return summary
}

func formatSummary(s ScanSummary, format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(s, "", "  ")
		return string(data), err
	case "yaml":
		data, err := yaml.Marshal(s)
		return string(data), err
	case "human", "":
		out := fmt.Sprintf("Loaded %d unit(s) in %dms\n", s.Total, s.ElapsedMs)
		for _, u := range s.Units {
			name := u.Unit
			if name == "" {
				name = "<unnamed>"
			}
			out += fmt.Sprintf("  %-20s %s (defs=%d refs=%d imports=%d macros=%d)\n",
				name, u.Path, u.Defs, u.Refs, u.Imports, u.MacroRefs)
		}
		return out, nil
	}
	return "", fmt.Errorf("unknown format %q", format)
}
