package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sift/internal/loader"
	"sift/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch roots and rescan as artifacts change",
	Long: `Watch every configured root for artifact changes. Changed paths are
forgotten from the snapshot and picked up by a periodic rescan.`,
	Run: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	logger := newLogger(cfg)
	store := mustOpenStore(logger)
	defer store.Close()

	applyPins(cfg, store, logger)

	roots := cfg.EffectiveRoots()
	if len(roots) == 0 {
		fmt.Fprintln(os.Stderr, "No roots configured; set roots or buildDirs in .sift/config.json")
		os.Exit(1)
	}

	l := loader.New(loader.Options{
		Diagnostics:      loader.LogDiagnostics{Logger: logger},
		Workers:          cfg.Loader.Workers,
		FailureCacheSize: cfg.Loader.FailureCacheSize,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Changed paths are forgotten immediately; the rescan ticker turns
	// them back into loaded units.
	w, err := watcher.New(watcher.Config{DebounceMs: cfg.Watch.DebounceMs}, store, logger, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating watcher: %v\n", err)
		os.Exit(1)
	}
	defer w.Close()

	if err := w.Watch(roots); err != nil {
		fmt.Fprintf(os.Stderr, "Error watching roots: %v\n", err)
		os.Exit(1)
	}

	rescan := time.Duration(cfg.Watch.RescanSeconds) * time.Second
	if rescan <= 0 {
		rescan = 5 * time.Second
	}
	ticker := time.NewTicker(rescan)
	defer ticker.Stop()

	logger.Info("watching", map[string]interface{}{
		"roots":         roots,
		"rescanSeconds": int(rescan.Seconds()),
	})

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down", nil)
			return
		case <-ticker.C:
			units := l.Load(ctx, loader.StaticRoots(roots), store)
			if len(units) == 0 {
				continue
			}
			if err := store.Record(units); err != nil {
				logger.Error("snapshot record failed", map[string]interface{}{
					"error": err.Error(),
				})
				continue
			}
			logger.Info("rescan loaded units", map[string]interface{}{
				"count": len(units),
			})
		}
	}
}
