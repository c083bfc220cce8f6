package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sift/internal/version"
)

var statusFormat string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show snapshot state",
	Long:  "Display what the freshness snapshot currently knows: tracked and pinned artifacts.",
	Run:   runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusFormat, "format", "human", "Output format (human, json)")
	rootCmd.AddCommand(statusCmd)
}

// StatusResponse summarizes the snapshot for CLI output
type StatusResponse struct {
	SiftVersion string     `json:"siftVersion"`
	Tracked     int        `json:"tracked"`
	Pinned      []string   `json:"pinned,omitempty"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	logger := newLogger(cfg)
	store := mustOpenStore(logger)
	defer store.Close()

	states, err := store.All()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading snapshot: %v\n", err)
		os.Exit(1)
	}

	resp := StatusResponse{SiftVersion: version.Info()}
	for _, st := range states {
		if st.Pinned {
			resp.Pinned = append(resp.Pinned, st.Path)
			continue
		}
		resp.Tracked++
		if resp.LastUpdated == nil || st.UpdatedAt.After(*resp.LastUpdated) {
			updated := st.UpdatedAt
			resp.LastUpdated = &updated
		}
	}

	if statusFormat == "json" {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	fmt.Printf("sift %s\n", resp.SiftVersion)
	fmt.Printf("Tracked artifacts: %d\n", resp.Tracked)
	fmt.Printf("Pinned artifacts:  %d\n", len(resp.Pinned))
	for _, path := range resp.Pinned {
		fmt.Printf("  pinned: %s\n", path)
	}
	if resp.LastUpdated != nil {
		fmt.Printf("Last updated: %s\n", resp.LastUpdated.Format(time.RFC3339))
	}
}
