package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/ecmaops/stagesync/internal/config"
	"github.com/ecmaops/stagesync/internal/ui"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store tracking-service credentials",
	Long: `Prompt for the tracking-service email and API token and store them in
the credentials file with owner-only permissions.

The token is an API token, not your account password.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		var creds config.Credentials
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Email").
					Value(&creds.Email),
				huh.NewInput().
					Title("API token").
					EchoMode(huh.EchoModePassword).
					Value(&creds.Token),
			),
		)

		if err := form.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading credentials: %v\n", err)
			os.Exit(1)
		}

		if err := config.SaveCredentials(cfg.CredentialsPath, &creds); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving credentials: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%s Credentials saved to %s\n", ui.RenderPass("✓"), cfg.CredentialsPath)
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
