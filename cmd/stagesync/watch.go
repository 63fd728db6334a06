package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecmaops/stagesync/internal/config"
	"github.com/ecmaops/stagesync/internal/daemon"
	"github.com/ecmaops/stagesync/internal/dashboard"
	"github.com/ecmaops/stagesync/internal/logging"
	"github.com/ecmaops/stagesync/internal/ui"
)

var (
	watchDashboardPort int
	watchLogFile       string
)

var watchCmd = &cobra.Command{
	Use:   "watch <dataset-file>",
	Short: "Re-sync whenever a local dataset file changes",
	Long: `Watch a local dataset file and run a full synchronization each time it
changes.

This is useful while curating the dataset locally before publishing.
With --dashboard-port, a WebSocket server broadcasts per-proposal
outcomes and run statistics to connected monitoring clients.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()
		datasetPath := args[0]

		logger := logging.New("watch", os.Stderr)
		if watchLogFile != "" {
			logger = logging.NewRotating(watchLogFile, "watch")
		}

		var handler *dashboard.Handler
		if watchDashboardPort > 0 {
			server := dashboard.NewServer(&dashboard.Config{
				Port:   watchDashboardPort,
				Logger: logger,
			})
			if err := server.Start(); err != nil {
				fmt.Fprintf(os.Stderr, "Error starting dashboard: %v\n", err)
				os.Exit(1)
			}
			defer server.Stop()
			handler = dashboard.NewHandler(server, logger)
			fmt.Printf("%s Dashboard at ws://%s/ws\n", ui.RenderAccent("📊"), server.GetAddr())
		}

		watcher, err := daemon.NewDatasetWatcher(datasetPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating watcher: %v\n", err)
			os.Exit(1)
		}
		if err := watcher.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting watcher: %v\n", err)
			os.Exit(1)
		}
		defer watcher.Stop()

		fmt.Printf("%s Watching %s\n", ui.RenderAccent("👀"), datasetPath)
		fmt.Printf("\nPress Ctrl+C to stop\n\n")

		// Sync reads from the watched file, not the remote dataset.
		syncDatasetFile = datasetPath

		// Initial run before the first change.
		runWatchSync(cmd, cfg, logger, handler)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		for {
			select {
			case <-sigCh:
				logger.Printf("Shutting down")
				return

			case err, ok := <-watcher.Errors():
				if !ok {
					return
				}
				logger.Printf("WARNING: watcher error: %v", err)

			case _, ok := <-watcher.Changes():
				if !ok {
					return
				}
				logger.Printf("Dataset changed, re-syncing")
				runWatchSync(cmd, cfg, logger, handler)
			}
		}
	},
}

// runWatchSync runs one sync pass and forwards outcomes to the
// dashboard when one is attached. A failed pass (for example a dataset
// saved mid-edit) is logged and the watch continues.
func runWatchSync(cmd *cobra.Command, cfg *config.Config, logger *log.Logger, handler *dashboard.Handler) {
	start := time.Now()
	res, err := runSyncOnce(cmd.Context(), cfg, logger)
	if err != nil {
		logger.Printf("WARNING: sync pass failed: %v", err)
		return
	}

	if handler != nil {
		for _, out := range res.Outcomes {
			handler.OnProposalSynced(out)
		}
		handler.OnRunComplete(res, time.Since(start))
	}
}

func init() {
	watchCmd.Flags().IntVar(&watchDashboardPort, "dashboard-port", 0, "serve a monitoring WebSocket dashboard on this port")
	watchCmd.Flags().StringVar(&watchLogFile, "log-file", "", "write watch logs to a rotated file instead of stderr")
	rootCmd.AddCommand(watchCmd)
}
