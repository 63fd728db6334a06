package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ecmaops/stagesync/internal/config"
	"github.com/ecmaops/stagesync/internal/jira"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "stagesync",
	Short: "Sync standardization proposals to tracked issues",
	Long: `stagesync keeps a tracking-service project in sync with the public
standardization-proposal dataset.

Each proposal at stage 1 or above maps to one tracked issue. The issue's
description and parent grouping are refreshed on every run; descriptions
are rendered deterministically, so unchanged proposals produce no-op
updates.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default .stagesync.yaml)")
}

// mustLoadConfig resolves configuration or exits.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// mustGateway builds the tracking-service client from config and the
// stored credentials, or exits.
func mustGateway(cfg *config.Config) *jira.Client {
	creds, err := config.LoadCredentials(cfg.CredentialsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading credentials: %v\n", err)
		fmt.Fprintf(os.Stderr, "Run 'stagesync login' to store credentials\n")
		os.Exit(1)
	}

	client, err := jira.NewClient(jira.Config{
		BaseURL: cfg.JiraURL,
		Email:   creds.Email,
		Token:   creds.Token,
		Timeout: cfg.Timeout(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating gateway client: %v\n", err)
		os.Exit(1)
	}
	return client
}
