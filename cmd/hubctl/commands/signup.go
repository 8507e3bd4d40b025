package commands

import (
	"github.com/spf13/cobra"
	"github.com/vaulthub/hubctl/internal/auth/passreset"
	"github.com/vaulthub/hubctl/internal/config"
	huberrors "github.com/vaulthub/hubctl/internal/errors"
)

func NewSignupCommand(cfg *config.Config) *cobra.Command {
	var (
		email string
		name  string
	)

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a Vault Hub account",
		Long: `Register a new account on the configured server and start a session.

The password must be at least 8 characters and contain an uppercase
letter, a lowercase letter, a number, and a special character.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, _, err := buildSession(cfg)
			if err != nil {
				return err
			}

			if email == "" {
				email, err = promptLine(cfg, "Email")
				if err != nil {
					return err
				}
			}
			if name == "" {
				name, err = promptLine(cfg, "Name")
				if err != nil {
					return err
				}
			}

			password, err := promptPassword(cfg, "Password")
			if err != nil {
				return err
			}
			confirm, err := promptPassword(cfg, "Confirm password")
			if err != nil {
				return err
			}

			if err := passreset.Validate(password, confirm); err != nil {
				return huberrors.UserError{
					Message:    "Password does not meet the requirements",
					Details:    err.Error(),
					Suggestion: "Use at least 8 characters with upper and lower case letters, a number, and a special character",
				}
			}

			if err := session.Signup(cmd.Context(), email, password, name); err != nil {
				return huberrors.AuthError("signup", err)
			}

			cfg.Logger.Info("Account created. You are logged in as %s", session.User().Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&name, "name", "", "Display name")

	return cmd
}
