package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vaulthub/hubctl/internal/api"
	"github.com/vaulthub/hubctl/internal/config"
	huberrors "github.com/vaulthub/hubctl/internal/errors"
	"github.com/vaulthub/hubctl/internal/logging"
)

func NewVaultCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Manage vault secrets",
	}

	cmd.AddCommand(
		newVaultListCommand(cfg),
		newVaultGetCommand(cfg),
		newVaultCreateCommand(cfg),
		newVaultUpdateCommand(cfg),
		newVaultDeleteCommand(cfg),
	)
	return cmd
}

func newVaultListCommand(cfg *config.Config) *cobra.Command {
	var (
		pageSize  int
		pageIndex int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List vaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := buildClient(cfg)
			if err != nil {
				return err
			}

			resp, err := client.GetVaults(cmd.Context(), pageSize, pageIndex)
			if err != nil {
				return huberrors.AuthError("vault list", err)
			}

			if len(resp.Vaults) == 0 {
				cfg.Logger.Info("No vaults found")
				return nil
			}

			fmt.Printf("%-24s %-20s %-12s %s\n", "ID", "NAME", "CATEGORY", "UPDATED")
			for _, v := range resp.Vaults {
				fmt.Printf("%-24s %-20s %-12s %s\n",
					v.UniqueID, v.Name, v.Category, v.UpdatedAt.Format("2006-01-02 15:04"))
			}
			fmt.Printf("\n%d of %d vaults (page %d)\n", len(resp.Vaults), resp.TotalCount, pageIndex)
			return nil
		},
	}

	cmd.Flags().IntVar(&pageSize, "page-size", 20, "Results per page")
	cmd.Flags().IntVar(&pageIndex, "page", 1, "Page number")
	return cmd
}

func newVaultGetCommand(cfg *config.Config) *cobra.Command {
	var showValue bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one vault",
		Long:  "Show a vault's metadata. The secret value stays redacted unless --show is given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := buildClient(cfg)
			if err != nil {
				return err
			}

			vault, err := client.GetVault(cmd.Context(), args[0])
			if err != nil {
				return huberrors.AuthError("vault get", err)
			}

			fmt.Printf("ID:          %s\n", vault.UniqueID)
			fmt.Printf("Name:        %s\n", vault.Name)
			if vault.Category != "" {
				fmt.Printf("Category:    %s\n", vault.Category)
			}
			if vault.Description != "" {
				fmt.Printf("Description: %s\n", vault.Description)
			}
			fmt.Printf("Created:     %s\n", vault.CreatedAt.Format("2006-01-02 15:04"))
			fmt.Printf("Updated:     %s\n", vault.UpdatedAt.Format("2006-01-02 15:04"))
			if showValue {
				fmt.Printf("Value:       %s\n", vault.Value)
			} else {
				fmt.Printf("Value:       %s\n", logging.Secret(vault.Value))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showValue, "show", false, "Print the secret value in plaintext")
	return cmd
}

func newVaultCreateCommand(cfg *config.Config) *cobra.Command {
	var (
		name        string
		value       string
		valueStdin  bool
		category    string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a vault",
		Long: `Create a vault secret.

Examples:
  hubctl vault create --name prod-db --value "postgres://..."
  cat key.pem | hubctl vault create --name signing-key --value-stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := buildClient(cfg)
			if err != nil {
				return err
			}

			if name == "" {
				return huberrors.UserError{
					Message:    "A vault name is required",
					Suggestion: "Pass one with --name",
				}
			}
			if valueStdin {
				value, err = readStdinLine()
				if err != nil {
					return err
				}
			}
			if value == "" {
				value, err = promptPassword(cfg, "Secret value")
				if err != nil {
					return err
				}
			}

			vault, err := client.CreateVault(cmd.Context(), api.CreateVaultRequest{
				Name:        name,
				Value:       value,
				Category:    category,
				Description: description,
			})
			if err != nil {
				return huberrors.AuthError("vault create", err)
			}

			cfg.Logger.Info("Created vault %s (%s)", vault.Name, vault.UniqueID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Vault name")
	cmd.Flags().StringVar(&value, "value", "", "Secret value (prefer --value-stdin to keep it out of shell history)")
	cmd.Flags().BoolVar(&valueStdin, "value-stdin", false, "Read the secret value from stdin")
	cmd.Flags().StringVar(&category, "category", "", "Category label")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	return cmd
}

func newVaultUpdateCommand(cfg *config.Config) *cobra.Command {
	var (
		name        string
		value       string
		valueStdin  bool
		category    string
		description string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a vault",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := buildClient(cfg)
			if err != nil {
				return err
			}

			if valueStdin {
				value, err = readStdinLine()
				if err != nil {
					return err
				}
			}

			vault, err := client.UpdateVault(cmd.Context(), args[0], api.UpdateVaultRequest{
				Name:        name,
				Value:       value,
				Category:    category,
				Description: description,
			})
			if err != nil {
				return huberrors.AuthError("vault update", err)
			}

			cfg.Logger.Info("Updated vault %s (%s)", vault.Name, vault.UniqueID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&value, "value", "", "New secret value")
	cmd.Flags().BoolVar(&valueStdin, "value-stdin", false, "Read the new secret value from stdin")
	cmd.Flags().StringVar(&category, "category", "", "New category")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	return cmd
}

func newVaultDeleteCommand(cfg *config.Config) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a vault",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := buildClient(cfg)
			if err != nil {
				return err
			}

			if !yes {
				answer, err := promptLine(cfg, fmt.Sprintf("Delete vault %s? [y/N]", args[0]))
				if err != nil {
					return err
				}
				if answer != "y" && answer != "yes" {
					cfg.Logger.Info("Aborted")
					return nil
				}
			}

			if err := client.DeleteVault(cmd.Context(), args[0]); err != nil {
				return huberrors.AuthError("vault delete", err)
			}
			cfg.Logger.Info("Deleted vault %s", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
