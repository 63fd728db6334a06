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
	importOutPath string
	importToCache bool
)

var importCmd = &cobra.Command{
	Use:   "import <export-file>",
	Short: "Bootstrap the identifier index from a bulk export",
	Long: `Parse a bulk text export of the tracking service and write an
identifier-to-key index snapshot.

This is the one-time bootstrap path used before live query access was
available. A line contributes an association only if it contains both an
issue key and an "id: <identifier>" marker; "id: undefined" lines are
ignored, and the last occurrence of an identifier wins.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		f, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening export file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()

		idx, err := index.FromBulkExport(f, cfg.ProjectKey)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing export: %v\n", err)
			os.Exit(1)
		}

		outPath := importOutPath
		if outPath == "" {
			outPath = cfg.SnapshotPath
		}
		if err := idx.Save(outPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing snapshot: %v\n", err)
			os.Exit(1)
		}

		if importToCache {
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

		fmt.Printf("%s Imported %d associations\n", ui.RenderPass("✓"), idx.Len())
		fmt.Printf("   Snapshot: %s\n", outPath)
	},
}

func init() {
	importCmd.Flags().StringVar(&importOutPath, "out", "", "snapshot output path (default from config)")
	importCmd.Flags().BoolVar(&importToCache, "cache", false, "also store the index in the local cache database")
	rootCmd.AddCommand(importCmd)
}
