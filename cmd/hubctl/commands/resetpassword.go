package commands

import (
	"github.com/spf13/cobra"
	"github.com/vaulthub/hubctl/internal/auth"
	"github.com/vaulthub/hubctl/internal/auth/passreset"
	"github.com/vaulthub/hubctl/internal/config"
)

func NewResetPasswordCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset a forgotten password",
	}

	cmd.AddCommand(
		newResetRequestCommand(cfg),
		newResetConfirmCommand(cfg),
	)
	return cmd
}

func newResetRequestCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "request <email>",
		Short: "Email password reset instructions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := buildClient(cfg)
			if err != nil {
				return err
			}
			flow := passreset.NewFlow(client, auth.NewLogNotifier(cfg.Logger), auth.NopNavigator(), cfg.Logger)
			return flow.Request(cmd.Context(), args[0])
		},
	}
}

func newResetConfirmCommand(cfg *config.Config) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "confirm",
		Short: "Set a new password using a reset token",
		Long: `Complete a password reset with the token from the emailed link.

The new password must be at least 8 characters and contain an uppercase
letter, a lowercase letter, a number, and a special character.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := buildClient(cfg)
			if err != nil {
				return err
			}
			flow := passreset.NewFlow(client, auth.NewLogNotifier(cfg.Logger), auth.NopNavigator(), cfg.Logger)

			// A missing token is rejected before any prompting; there is
			// nothing a typed password could fix.
			if token == "" {
				return flow.Confirm(cmd.Context(), "", "", "")
			}

			password, err := promptPassword(cfg, "New password")
			if err != nil {
				return err
			}
			confirm, err := promptPassword(cfg, "Confirm new password")
			if err != nil {
				return err
			}

			return flow.Confirm(cmd.Context(), token, password, confirm)
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Reset token from the emailed link")
	return cmd
}
