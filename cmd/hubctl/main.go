package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vaulthub/hubctl/cmd/hubctl/commands"
	"github.com/vaulthub/hubctl/internal/config"
	"github.com/vaulthub/hubctl/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Global flags
	var (
		configFile     string
		noColor        bool
		debug          bool
		nonInteractive bool
	)

	// Create config placeholder
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "hubctl",
		Short: "Vault Hub CLI - Manage secrets from your terminal",
		Long: `hubctl talks to a Vault Hub server: sign in with a password, magic
link, or OIDC, then manage vault secrets, API keys, and audit logs.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize logger with parsed flags
			logger := logging.New(debug, noColor)

			// Update config with parsed values
			cfg.Path = configFile
			cfg.Logger = logger
			cfg.NonInteractive = nonInteractive
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultPath(), "Config file path")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Non-interactive mode")

	// Add commands
	rootCmd.AddCommand(
		commands.NewInitCommand(cfg),
		commands.NewLoginCommand(cfg),
		commands.NewSignupCommand(cfg),
		commands.NewLogoutCommand(cfg),
		commands.NewWhoamiCommand(cfg),
		commands.NewMagicLinkCommand(cfg),
		commands.NewResetPasswordCommand(cfg),
		commands.NewVaultCommand(cfg),
		commands.NewAPIKeyCommand(cfg),
		commands.NewAuditCommand(cfg),
		commands.NewDoctorCommand(cfg),
		commands.NewCompletionCommand(cfg),
	)

	return rootCmd.Execute()
}
