package commands

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/vaulthub/hubctl/internal/api"
	"github.com/vaulthub/hubctl/internal/auth"
	"github.com/vaulthub/hubctl/internal/config"
	huberrors "github.com/vaulthub/hubctl/internal/errors"
	"github.com/vaulthub/hubctl/internal/metrics"
	"github.com/vaulthub/hubctl/internal/tokenstore"
)

// requireConfig loads the config file if it has not been loaded yet.
func requireConfig(cfg *config.Config) error {
	if cfg.Definition != nil {
		return nil
	}
	return cfg.Load()
}

// buildStore picks the token backend the config asks for. Keyring is
// the default; the file backend exists for headless hosts without a
// system keychain.
func buildStore(cfg *config.Config) tokenstore.Store {
	if cfg.Definition != nil && cfg.Definition.TokenStorage == "file" {
		return tokenstore.NewFile(cfg.TokenFilePath())
	}
	return tokenstore.NewKeyring(cfg.ServerHost())
}

// buildClient wires the API client against the configured server.
func buildClient(cfg *config.Config) (*api.Client, tokenstore.Store, error) {
	if err := requireConfig(cfg); err != nil {
		return nil, nil, err
	}

	store := buildStore(cfg)
	client := api.NewClient(
		cfg.Definition.ServerURL,
		api.WithHTTPClient(&http.Client{Timeout: cfg.Timeout()}),
		api.WithTokenSource(api.StoreTokenSource(store)),
		api.WithLogger(cfg.Logger),
		api.WithMetrics(metrics.NewClient()),
		api.WithUnauthorizedHandler(func() {
			cfg.Logger.Warn("Session expired or invalid. Run 'hubctl login' to re-authenticate.")
		}),
	)
	return client, store, nil
}

// buildSession wires the auth state machine for commands that log in
// or out. Navigation is advisory in a CLI, so it is dropped.
func buildSession(cfg *config.Config) (*auth.Session, *api.Client, tokenstore.Store, error) {
	client, store, err := buildClient(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	session := auth.NewSession(
		client, store, cfg.Logger,
		auth.NewLogNotifier(cfg.Logger),
		auth.NopNavigator(),
		metrics.NewClient(),
	)
	return session, client, store, nil
}

// promptLine reads one line from stdin.
func promptLine(cfg *config.Config, label string) (string, error) {
	if cfg.NonInteractive {
		return "", huberrors.UserError{
			Message:    fmt.Sprintf("Cannot prompt for %s in non-interactive mode", label),
			Suggestion: "Provide the value with a flag, or drop --non-interactive",
		}
	}
	fmt.Fprintf(os.Stderr, "%s: ", label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", label, err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a value with terminal echo disabled.
func promptPassword(cfg *config.Config, label string) (string, error) {
	if cfg.NonInteractive {
		return "", huberrors.UserError{
			Message:    fmt.Sprintf("Cannot prompt for %s in non-interactive mode", label),
			Suggestion: "Pipe the value on stdin with --password-stdin, or drop --non-interactive",
		}
	}
	fmt.Fprintf(os.Stderr, "%s: ", label)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", label, err)
	}
	return string(raw), nil
}

// readStdinLine reads a single trimmed line from stdin, for
// --password-stdin style flags.
func readStdinLine() (string, error) {
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimSpace(line), nil
}
