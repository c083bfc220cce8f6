package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var pinCmd = &cobra.Command{
	Use:   "pin <path>...",
	Short: "Pin artifacts so they are never refreshed",
	Args:  cobra.MinimumNArgs(1),
	Run:   runPin,
}

var forgetCmd = &cobra.Command{
	Use:   "forget <path>...",
	Short: "Drop snapshot knowledge of artifacts (also clears pins)",
	Args:  cobra.MinimumNArgs(1),
	Run:   runForget,
}

func init() {
	rootCmd.AddCommand(pinCmd)
	rootCmd.AddCommand(forgetCmd)
}

func runPin(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	store := mustOpenStore(newLogger(cfg))
	defer store.Close()

	for _, arg := range args {
		path, err := filepath.Abs(arg)
		if err != nil {
			path = arg
		}
		if err := store.Pin(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error pinning %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("pinned %s\n", path)
	}
}

func runForget(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	store := mustOpenStore(newLogger(cfg))
	defer store.Close()

	for _, arg := range args {
		path, err := filepath.Abs(arg)
		if err != nil {
			path = arg
		}
		if err := store.Forget(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error forgetting %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("forgot %s\n", path)
	}
}
