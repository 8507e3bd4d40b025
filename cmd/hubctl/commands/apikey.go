package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/vaulthub/hubctl/internal/api"
	"github.com/vaulthub/hubctl/internal/config"
	huberrors "github.com/vaulthub/hubctl/internal/errors"
)

func NewAPIKeyCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage API keys",
	}

	cmd.AddCommand(
		newAPIKeyListCommand(cfg),
		newAPIKeyCreateCommand(cfg),
		newAPIKeyUpdateCommand(cfg),
		newAPIKeyDeleteCommand(cfg),
	)
	return cmd
}

func newAPIKeyListCommand(cfg *config.Config) *cobra.Command {
	var (
		pageSize  int
		pageIndex int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List API keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := buildClient(cfg)
			if err != nil {
				return err
			}

			resp, err := client.GetAPIKeys(cmd.Context(), pageSize, pageIndex)
			if err != nil {
				return huberrors.AuthError("apikey list", err)
			}

			if len(resp.APIKeys) == 0 {
				cfg.Logger.Info("No API keys found")
				return nil
			}

			fmt.Printf("%-6s %-24s %-8s %-18s %s\n", "ID", "NAME", "VAULTS", "LAST USED", "EXPIRES")
			for _, k := range resp.APIKeys {
				lastUsed := "never"
				if k.LastUsedAt != nil {
					lastUsed = k.LastUsedAt.Format("2006-01-02 15:04")
				}
				expires := "never"
				if k.ExpiresAt != nil {
					expires = k.ExpiresAt.Format("2006-01-02")
				}
				fmt.Printf("%-6d %-24s %-8d %-18s %s\n", k.ID, k.Name, len(k.VaultUniqueIDs), lastUsed, expires)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&pageSize, "page-size", 20, "Results per page")
	cmd.Flags().IntVar(&pageIndex, "page", 1, "Page number")
	return cmd
}

func newAPIKeyCreateCommand(cfg *config.Config) *cobra.Command {
	var (
		name      string
		vaultIDs  []string
		expiresIn time.Duration
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an API key",
		Long: `Create a programmatic access key scoped to a set of vaults.

The plaintext key is printed exactly once; it cannot be retrieved
again.

Examples:
  hubctl apikey create --name ci-deploy --vault v-1 --vault v-2
  hubctl apikey create --name temp-access --expires-in 720h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := buildClient(cfg)
			if err != nil {
				return err
			}

			if name == "" {
				return huberrors.UserError{
					Message:    "An API key name is required",
					Suggestion: "Pass one with --name",
				}
			}

			req := api.CreateAPIKeyRequest{Name: name, VaultUniqueIDs: vaultIDs}
			if expiresIn > 0 {
				at := time.Now().Add(expiresIn)
				req.ExpiresAt = &at
			}

			resp, err := client.CreateAPIKey(cmd.Context(), req)
			if err != nil {
				return huberrors.AuthError("apikey create", err)
			}

			cfg.Logger.Info("Created API key %s (id %d)", resp.APIKey.Name, resp.APIKey.ID)
			cfg.Logger.Warn("Store this key now; it will not be shown again:")
			fmt.Println(resp.Key)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Key name")
	cmd.Flags().StringArrayVar(&vaultIDs, "vault", nil, "Vault ID the key may access (repeatable)")
	cmd.Flags().DurationVar(&expiresIn, "expires-in", 0, "Lifetime, e.g. 720h (default: no expiry)")
	return cmd
}

func newAPIKeyUpdateCommand(cfg *config.Config) *cobra.Command {
	var (
		name     string
		vaultIDs []string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename an API key or change its vault scope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := buildClient(cfg)
			if err != nil {
				return err
			}

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return huberrors.UserError{
					Message:    "API key IDs are numeric",
					Suggestion: "Find the ID with 'hubctl apikey list'",
				}
			}

			key, err := client.UpdateAPIKey(cmd.Context(), id, api.UpdateAPIKeyRequest{
				Name:           name,
				VaultUniqueIDs: vaultIDs,
			})
			if err != nil {
				return huberrors.AuthError("apikey update", err)
			}

			cfg.Logger.Info("Updated API key %s (id %d)", key.Name, key.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringArrayVar(&vaultIDs, "vault", nil, "New vault scope (repeatable)")
	return cmd
}

func newAPIKeyDeleteCommand(cfg *config.Config) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Revoke an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := buildClient(cfg)
			if err != nil {
				return err
			}

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return huberrors.UserError{
					Message:    "API key IDs are numeric",
					Suggestion: "Find the ID with 'hubctl apikey list'",
				}
			}

			if !yes {
				answer, err := promptLine(cfg, fmt.Sprintf("Revoke API key %d? [y/N]", id))
				if err != nil {
					return err
				}
				if answer != "y" && answer != "yes" {
					cfg.Logger.Info("Aborted")
					return nil
				}
			}

			if err := client.DeleteAPIKey(cmd.Context(), id); err != nil {
				return huberrors.AuthError("apikey delete", err)
			}
			cfg.Logger.Info("Revoked API key %d", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
