package commands

import (
	"github.com/spf13/cobra"
	"github.com/vaulthub/hubctl/internal/config"
)

func NewLogoutCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Long: `Clear the stored session token. The server is told so the logout
shows up in the audit trail, but local state is cleared even when that
call fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, store, err := buildSession(cfg)
			if err != nil {
				return err
			}

			if err := session.Logout(cmd.Context()); err != nil {
				return err
			}

			cfg.Logger.Info("Logged out (token cleared from %s)", store.Source())
			return nil
		},
	}
}
