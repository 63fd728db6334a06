package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecmaops/stagesync/internal/cache"
	"github.com/ecmaops/stagesync/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show local cache status",
	Long: `Display the state of the local cache database.

Shows:
  - Cache file location and mapping count
  - Recent sync runs with their outcome counters`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		if _, err := os.Stat(cfg.CachePath); os.IsNotExist(err) {
			fmt.Printf("\n%s Cache not initialized\n", ui.RenderWarn("⚠"))
			fmt.Printf("   Run 'stagesync sync --cache' to create it\n\n")
			return
		}

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

		mappings, err := db.MappingCount()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error counting mappings: %v\n", err)
			os.Exit(1)
		}

		runs, err := db.RecentRuns(5)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading run history: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("\n%s Stagesync Cache Status\n\n", ui.RenderAccent("📊"))
		fmt.Printf("Location: %s\n", db.Path())
		fmt.Printf("Mappings: %d\n", mappings)

		if len(runs) == 0 {
			fmt.Printf("Runs: none recorded\n\n")
			return
		}

		fmt.Printf("\nRecent runs:\n")
		for _, rec := range runs {
			fmt.Printf("  %s  created=%d updated=%d skipped=%d failed=%d (%v)\n",
				rec.StartedAt.Local().Format("2006-01-02 15:04:05"),
				rec.Created, rec.Updated, rec.Skipped, rec.Failed,
				rec.FinishedAt.Sub(rec.StartedAt).Round(time.Millisecond))
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
