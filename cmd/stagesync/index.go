package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ecmaops/stagesync/internal/cache"
	"github.com/ecmaops/stagesync/internal/index"
	"github.com/ecmaops/stagesync/internal/ui"
)

var (
	indexOutPath string
	indexToCache bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the identifier index from a live query",
	Long: `Query the tracking service for all existing tracked issues in the
configured project and component, extract the proposal identifier from
each issue description, and write the resulting index snapshot.

The query is paginated; any page failure aborts the whole build, since a
partial index would cause duplicate issue creation on the next sync.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()
		client := mustGateway(cfg)

		pager := &index.ComponentSearch{
			Client:     client,
			ProjectKey: cfg.ProjectKey,
			Component:  cfg.Component,
		}

		idx, err := index.FromSearch(cmd.Context(), pager)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building index: %v\n", err)
			os.Exit(1)
		}

		outPath := indexOutPath
		if outPath == "" {
			outPath = cfg.SnapshotPath
		}
		if err := idx.Save(outPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing snapshot: %v\n", err)
			os.Exit(1)
		}

		if indexToCache {
			db, err := cache.Open(cfg.CachePath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error opening cache: %v\n", err)
				os.Exit(1)
			}
			defer db.Close()

			if err := db.InitSchema(); err != nil {
				fmt.Fprintf(os.Stderr, "Error initializing cache schema: %v\n", err)
				os.Exit(1)
			}
			if err := db.SaveMappings(idx.Mappings()); err != nil {
				fmt.Fprintf(os.Stderr, "Error saving mappings to cache: %v\n", err)
				os.Exit(1)
			}
		}

		fmt.Printf("%s Indexed %d tracked issues\n", ui.RenderPass("✓"), idx.Len())
		fmt.Printf("   Snapshot: %s\n", outPath)
	},
}

func init() {
	indexCmd.Flags().StringVar(&indexOutPath, "out", "", "snapshot output path (default from config)")
	indexCmd.Flags().BoolVar(&indexToCache, "cache", false, "also store the index in the local cache database")
	rootCmd.AddCommand(indexCmd)
}
