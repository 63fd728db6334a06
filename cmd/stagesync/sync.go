package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecmaops/stagesync/internal/cache"
	"github.com/ecmaops/stagesync/internal/config"
	"github.com/ecmaops/stagesync/internal/index"
	"github.com/ecmaops/stagesync/internal/logging"
	"github.com/ecmaops/stagesync/internal/proposal"
	syncpkg "github.com/ecmaops/stagesync/internal/sync"
	"github.com/ecmaops/stagesync/internal/ui"
)

var (
	syncDatasetFile  string
	syncSnapshotPath string
	syncUseCache     bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a full synchronization",
	Long: `Synchronize every proposal in the dataset with the tracking service.

The run:
  1. Loads the proposal dataset (remote URL, or --file)
  2. Builds the identifier index (live query, or --snapshot)
  3. For each relevant proposal, creates or updates its tracked issue
  4. Reports one result line per proposal

Individual create/update failures do not stop the run; the command exits
non-zero if any proposal failed.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()
		logger := logging.New("sync", os.Stderr)

		res, err := runSyncOnce(cmd.Context(), cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if res.Failed > 0 {
			fmt.Printf("%s Sync finished with %d failures\n", ui.RenderFail("✗"), res.Failed)
			os.Exit(1)
		}
		fmt.Printf("%s Sync complete\n", ui.RenderPass("✓"))
	},
}

// runSyncOnce performs one full synchronization pass. Setup errors
// (dataset load, index construction) abort before any proposal is
// touched; per-proposal failures are reported in the result.
func runSyncOnce(ctx context.Context, cfg *config.Config, logger *log.Logger) (*syncpkg.Result, error) {
	loader := proposal.NewLoader(cfg.Timeout())

	var proposals []proposal.Proposal
	var err error
	if syncDatasetFile != "" {
		proposals, err = loader.LoadFile(syncDatasetFile)
	} else {
		proposals, err = loader.Fetch(ctx, cfg.DatasetURL)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	client := mustGateway(cfg)

	var idx *index.Index
	if syncSnapshotPath != "" {
		idx, err = index.LoadSnapshot(syncSnapshotPath)
	} else {
		pager := &index.ComponentSearch{
			Client:     client,
			ProjectKey: cfg.ProjectKey,
			Component:  cfg.Component,
		}
		idx, err = index.FromSearch(ctx, pager)
	}
	if err != nil {
		// A partial index would cause duplicate creations, so nothing
		// has been synced at this point.
		return nil, fmt.Errorf("failed to build identifier index: %w", err)
	}

	planner, err := syncpkg.New(cfg.SyncConfig(), idx, client, logger)
	if err != nil {
		return nil, err
	}

	fmt.Printf("%s Syncing %d proposals against %d tracked issues...\n",
		ui.RenderAccent("🔄"), len(proposals), idx.Len())
	start := time.Now()

	res := planner.Run(ctx, proposals)

	for _, out := range res.Outcomes {
		printOutcome(out)
	}

	elapsed := time.Since(start)
	fmt.Printf("\nCreated: %d  Updated: %d  Skipped: %d  Failed: %d  (%v)\n",
		res.Created, res.Updated, res.Skipped, res.Failed, elapsed.Round(time.Millisecond))

	if syncUseCache {
		recordRun(cfg.CachePath, start, time.Now(), res)
	}

	return res, nil
}

// printOutcome writes one human-readable result line per proposal.
func printOutcome(out syncpkg.Outcome) {
	switch {
	case out.Err != nil:
		if status := syncpkg.StatusOf(out.Err); status != 0 {
			fmt.Printf("%s %s: %s failed (status %d)\n", ui.RenderFail("✗"), out.Name, out.Action, status)
		} else {
			fmt.Printf("%s %s: %v\n", ui.RenderFail("✗"), out.Name, out.Err)
		}
	case out.Action == syncpkg.ActionCreate:
		fmt.Printf("%s %s → created %s\n", ui.RenderPass("✓"), out.Name, out.Key)
	case out.Action == syncpkg.ActionUpdate:
		fmt.Printf("%s %s → updated %s\n", ui.RenderPass("✓"), out.Name, out.Key)
	default:
		fmt.Printf("%s %s: skipped (%s)\n", ui.RenderWarn("−"), out.Name, out.Reason)
	}
}

// recordRun appends run statistics to the local cache database. Cache
// problems are reported but never fail a completed sync.
func recordRun(path string, started, finished time.Time, res *syncpkg.Result) {
	db, err := cache.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to open cache: %v\n", err)
		return
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize cache schema: %v\n", err)
		return
	}

	rec := cache.RunRecord{
		StartedAt:  started,
		FinishedAt: finished,
		Created:    res.Created,
		Updated:    res.Updated,
		Skipped:    res.Skipped,
		Failed:     res.Failed,
	}
	if err := db.RecordRun(rec); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to record run: %v\n", err)
	}
}

func init() {
	syncCmd.Flags().StringVar(&syncDatasetFile, "file", "", "read the dataset from a local file instead of fetching")
	syncCmd.Flags().StringVar(&syncSnapshotPath, "snapshot", "", "build the index from a snapshot file instead of a live query")
	syncCmd.Flags().BoolVar(&syncUseCache, "cache", false, "record run statistics in the local cache database")
	rootCmd.AddCommand(syncCmd)
}
