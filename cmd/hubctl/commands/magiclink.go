package commands

import (
	"net/url"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vaulthub/hubctl/internal/auth"
	"github.com/vaulthub/hubctl/internal/auth/magiclink"
	"github.com/vaulthub/hubctl/internal/config"
	huberrors "github.com/vaulthub/hubctl/internal/errors"
)

func NewMagicLinkCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "magic-link",
		Short: "Log in via an emailed link",
	}

	cmd.AddCommand(
		newMagicLinkRequestCommand(cfg),
		newMagicLinkVerifyCommand(cfg),
	)
	return cmd
}

func newMagicLinkRequestCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "request <email>",
		Short: "Email yourself a one-time login link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, _, err := buildSession(cfg)
			if err != nil {
				return err
			}
			if err := session.RequestMagicLink(cmd.Context(), args[0]); err != nil {
				return huberrors.AuthError("magic-link request", err)
			}
			cfg.Logger.Info("Then run: hubctl magic-link verify <link-or-token>")
			return nil
		},
	}
}

func newMagicLinkVerifyCommand(cfg *config.Config) *cobra.Command {
	var retry bool

	cmd := &cobra.Command{
		Use:   "verify <link-or-token>",
		Short: "Exchange a login link for a session",
		Long: `Verify a magic link. Accepts either the raw token or the full link
from the email; the token is extracted from the link's fragment.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, client, _, err := buildSession(cfg)
			if err != nil {
				return err
			}

			token := extractLinkToken(args[0])
			verifier := magiclink.NewVerifier(client, session, auth.NopNavigator(), cfg.Logger)

			status := verifier.Verify(cmd.Context(), token)
			if status == magiclink.StatusError && retry && verifier.CanRetry() {
				cfg.Logger.Warn("Verification failed (%s), retrying once...", verifier.Message())
				status = verifier.Retry(cmd.Context())
			}

			if status != magiclink.StatusSuccess {
				userErr := huberrors.UserError{
					Message:    verifier.Message(),
					Suggestion: "Request a fresh link with 'hubctl magic-link request <email>'",
				}
				if verifier.CanRetry() {
					userErr.Suggestion = "The server had a temporary problem. Re-run the same command to retry"
				}
				return userErr
			}

			// A redirect-style reply means the session lives in a browser
			// cookie rather than a token we can store.
			if !session.IsAuthenticated() {
				cfg.Logger.Warn("The server completed the login in browser-cookie mode; no CLI token was issued.")
				cfg.Logger.Info("Use 'hubctl login' for a CLI session.")
				return nil
			}

			cfg.Logger.Info("Logged in as %s", session.User().Email)
			return nil
		},
	}

	cmd.Flags().BoolVar(&retry, "retry", false, "Retry once if the server fails transiently")
	return cmd
}

// extractLinkToken accepts a raw token, a full magic link whose
// fragment carries token and source, or a link with a token query
// parameter. Unrecognized input is returned as-is so the verifier can
// report a precise shape error.
func extractLinkToken(arg string) string {
	if !strings.Contains(arg, "://") {
		return arg
	}
	u, err := url.Parse(arg)
	if err != nil {
		return arg
	}
	if intent := auth.ParseFragment(u.Fragment); intent.Kind != auth.IntentNone {
		return intent.Token
	}
	if token := u.Query().Get("token"); token != "" {
		return token
	}
	return arg
}
