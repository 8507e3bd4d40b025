package commands

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/vaulthub/hubctl/internal/config"
	"github.com/vaulthub/hubctl/internal/metrics"
	"github.com/vaulthub/hubctl/internal/tokenstore"
)

func NewDoctorCommand(cfg *config.Config) *cobra.Command {
	var dumpMetrics bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration and connectivity",
		Long: `Check the local configuration, server reachability, and session
health, and report what needs fixing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			failures := 0

			if err := requireConfig(cfg); err != nil {
				cfg.Logger.Error("Config: %v", err)
				return err
			}
			cfg.Logger.Info("Config: %s (server %s)", cfg.Path, cfg.Definition.ServerURL)

			client, store, err := buildClient(cfg)
			if err != nil {
				return err
			}

			status, err := client.GetStatus(cmd.Context())
			if err != nil {
				cfg.Logger.Error("Server: unreachable (%v)", err)
				failures++
			} else {
				cfg.Logger.Info("Server: %s (version %s)", status.Status, status.Version)
			}

			appCfg, err := client.GetAppConfig(cmd.Context())
			if err != nil {
				cfg.Logger.Warn("Login methods: could not be determined (%v)", err)
			} else {
				cfg.Logger.Info("Login methods: password%s%s",
					boolSuffix(appCfg.EmailEnabled, ", magic-link"),
					boolSuffix(appCfg.OidcEnabled, ", oidc"))
			}

			switch _, err := store.Get(); {
			case err == nil:
				if _, err := client.GetCurrentUser(cmd.Context()); err != nil {
					cfg.Logger.Warn("Session: stored token was rejected; run 'hubctl login'")
					failures++
				} else {
					cfg.Logger.Info("Session: valid (token in %s)", store.Source())
				}
			case errors.Is(err, tokenstore.ErrNotFound):
				cfg.Logger.Warn("Session: not logged in; run 'hubctl login'")
			default:
				cfg.Logger.Error("Session: token store error: %v", err)
				failures++
			}

			if dumpMetrics {
				if err := metrics.Dump(os.Stdout); err != nil {
					cfg.Logger.Warn("Metrics: %v", err)
				}
			}

			if failures > 0 {
				cfg.Logger.Warn("%d check(s) need attention", failures)
			} else {
				cfg.Logger.Info("All checks passed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dumpMetrics, "metrics", false, "Dump client metrics after the checks")
	return cmd
}

func boolSuffix(enabled bool, suffix string) string {
	if enabled {
		return suffix
	}
	return ""
}
