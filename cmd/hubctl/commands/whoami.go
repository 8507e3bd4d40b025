package commands

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/vaulthub/hubctl/internal/config"
	huberrors "github.com/vaulthub/hubctl/internal/errors"
	"github.com/vaulthub/hubctl/internal/tokenstore"
)

func NewWhoamiCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, store, err := buildClient(cfg)
			if err != nil {
				return err
			}

			if _, err := store.Get(); err != nil {
				if errors.Is(err, tokenstore.ErrNotFound) {
					return huberrors.UserError{
						Message:    "Not logged in",
						Suggestion: "Run 'hubctl login' to authenticate",
					}
				}
				return err
			}

			user, err := client.GetCurrentUser(cmd.Context())
			if err != nil {
				return huberrors.AuthError("whoami", err)
			}

			if user.Name != "" {
				cfg.Logger.Info("%s (%s)", user.Name, user.Email)
			} else {
				cfg.Logger.Info("%s", user.Email)
			}
			cfg.Logger.Debug("server: %s, token storage: %s", client.BaseURL(), store.Source())
			return nil
		},
	}
}
