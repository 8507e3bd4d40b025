package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/vaulthub/hubctl/internal/config"
	huberrors "github.com/vaulthub/hubctl/internal/errors"
)

func NewInitCommand(cfg *config.Config) *cobra.Command {
	var (
		serverURL    string
		tokenStorage string
		force        bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the hubctl configuration",
		Long: `Create the hubctl config file pointing at your Vault Hub server.

Examples:
  hubctl init --server https://vault.example.com
  hubctl init --server https://vault.example.com --token-storage file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if serverURL == "" {
				var err error
				serverURL, err = promptLine(cfg, "Server URL")
				if err != nil {
					return err
				}
			}

			if _, err := os.Stat(cfg.Path); err == nil && !force {
				return huberrors.UserError{
					Message:    "Configuration file already exists: " + cfg.Path,
					Suggestion: "Use --force to overwrite it",
				}
			}

			def := &config.Definition{
				Version:      0,
				ServerURL:    serverURL,
				TokenStorage: tokenStorage,
			}
			if err := cfg.Write(def); err != nil {
				return err
			}

			cfg.Logger.Info("Created %s", cfg.Path)
			cfg.Logger.Info("Next: run 'hubctl login' to authenticate")
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "Vault Hub server URL (e.g. https://vault.example.com)")
	cmd.Flags().StringVar(&tokenStorage, "token-storage", "keyring", "Where to store the session token: keyring or file")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")

	return cmd
}
