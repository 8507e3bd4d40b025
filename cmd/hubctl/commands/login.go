package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/vaulthub/hubctl/internal/auth"
	"github.com/vaulthub/hubctl/internal/browserflow"
	"github.com/vaulthub/hubctl/internal/config"
	huberrors "github.com/vaulthub/hubctl/internal/errors"
)

// oidcWait bounds how long the CLI waits for the browser to come back.
const oidcWait = 2 * time.Minute

func NewLoginCommand(cfg *config.Config) *cobra.Command {
	var (
		email         string
		passwordStdin bool
		oidc          bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the Vault Hub server",
		Long: `Sign in with your email and password, or with your identity provider.

Examples:
  hubctl login                          # Prompt for email and password
  hubctl login --email ops@example.com  # Prompt only for the password
  hubctl login --oidc                   # Sign in through the browser
  echo "$PASSWORD" | hubctl login --email ops@example.com --password-stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, client, _, err := buildSession(cfg)
			if err != nil {
				return err
			}

			if oidc {
				return oidcLogin(cmd.Context(), cfg, session)
			}

			if email == "" {
				email, err = promptLine(cfg, "Email")
				if err != nil {
					return err
				}
			}

			var password string
			if passwordStdin {
				password, err = readStdinLine()
			} else {
				password, err = promptPassword(cfg, "Password")
			}
			if err != nil {
				return err
			}

			if err := session.Login(cmd.Context(), email, password); err != nil {
				return huberrors.AuthError("login", err)
			}

			user := session.User()
			cfg.Logger.Info("Logged in to %s as %s", client.BaseURL(), user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	cmd.Flags().BoolVar(&oidc, "oidc", false, "Sign in through your identity provider in a browser")

	return cmd
}

// oidcLogin runs the browser round trip: start the loopback listener,
// send the browser to the server's OIDC entry point, and hand the
// returned fragment to the session bootstrap.
func oidcLogin(ctx context.Context, cfg *config.Config, session *auth.Session) error {
	if cfg.NonInteractive {
		return huberrors.UserError{
			Message:    "OIDC login needs a browser and cannot run in non-interactive mode",
			Suggestion: "Use password login with --password-stdin instead",
		}
	}

	flow, err := browserflow.Listen(cfg.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = flow.Close() }()

	loginURL := session.OIDCEntryURL(flow.RedirectURI())
	cfg.Logger.Info("Opening your browser to complete sign-in...")
	browserflow.Open(loginURL, cfg.Logger)

	waitCtx, cancel := context.WithTimeout(ctx, oidcWait)
	defer cancel()

	fragment, err := flow.Wait(waitCtx)
	if err != nil {
		return huberrors.UserError{
			Message:    "Timed out waiting for the browser sign-in to finish",
			Details:    err.Error(),
			Suggestion: "Re-run 'hubctl login --oidc' and complete the sign-in within two minutes",
			Err:        err,
		}
	}

	if state := session.Bootstrap(ctx, fragment); state != auth.StateAuthenticated {
		return huberrors.UserError{
			Message:    "The identity provider did not return a valid session",
			Suggestion: "Re-run 'hubctl login --oidc', or check the server's OIDC configuration with 'hubctl doctor'",
		}
	}

	cfg.Logger.Info("Logged in as %s", session.User().Email)
	return nil
}
