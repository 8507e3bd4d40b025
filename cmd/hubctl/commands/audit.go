package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vaulthub/hubctl/internal/api"
	"github.com/vaulthub/hubctl/internal/config"
	huberrors "github.com/vaulthub/hubctl/internal/errors"
)

func NewAuditCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the audit trail",
	}

	cmd.AddCommand(
		newAuditListCommand(cfg),
		newAuditMetricsCommand(cfg),
	)
	return cmd
}

func newAuditListCommand(cfg *config.Config) *cobra.Command {
	var (
		pageSize  int
		pageIndex int
		vaultID   string
		source    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audit log entries",
		Long: `List recorded actions, newest first.

Examples:
  hubctl audit list
  hubctl audit list --vault v-1
  hubctl audit list --source api_key`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := buildClient(cfg)
			if err != nil {
				return err
			}

			resp, err := client.GetAuditLogs(cmd.Context(), pageSize, pageIndex, api.AuditLogFilter{
				VaultUniqueID: vaultID,
				Source:        source,
			})
			if err != nil {
				return huberrors.AuthError("audit list", err)
			}

			if len(resp.AuditLogs) == 0 {
				cfg.Logger.Info("No audit entries found")
				return nil
			}

			fmt.Printf("%-18s %-20s %-10s %-16s %s\n", "TIME", "ACTION", "SOURCE", "IP", "VAULT")
			for _, entry := range resp.AuditLogs {
				vault := ""
				if entry.Vault != nil {
					vault = entry.Vault.Name
				}
				fmt.Printf("%-18s %-20s %-10s %-16s %s\n",
					entry.CreatedAt.Format("2006-01-02 15:04"),
					entry.Action, entry.Source, entry.IPAddress, vault)
			}
			fmt.Printf("\n%d of %d entries (page %d)\n", len(resp.AuditLogs), resp.TotalCount, pageIndex)
			return nil
		},
	}

	cmd.Flags().IntVar(&pageSize, "page-size", 20, "Results per page")
	cmd.Flags().IntVar(&pageIndex, "page", 1, "Page number")
	cmd.Flags().StringVar(&vaultID, "vault", "", "Only entries touching this vault ID")
	cmd.Flags().StringVar(&source, "source", "", "Only entries from this source (web, api_key, ...)")
	return cmd
}

func newAuditMetricsCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Summarize recent audit activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := buildClient(cfg)
			if err != nil {
				return err
			}

			m, err := client.GetAuditMetrics(cmd.Context())
			if err != nil {
				return huberrors.AuthError("audit metrics", err)
			}

			fmt.Printf("Total entries:   %d\n", m.TotalLogs)
			fmt.Printf("Last 24 hours:   %d\n", m.Last24Hours)
			fmt.Printf("Last 7 days:     %d\n", m.Last7Days)
			fmt.Printf("Unique sources:  %d\n", m.UniqueSources)
			return nil
		},
	}
}
