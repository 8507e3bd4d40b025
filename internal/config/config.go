package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	huberrors "github.com/vaulthub/hubctl/internal/errors"
	"github.com/vaulthub/hubctl/internal/logging"
)

// Config holds the runtime configuration
type Config struct {
	Path           string
	Logger         *logging.Logger
	NonInteractive bool
	Definition     *Definition
}

// Definition represents the hubctl.yaml structure
type Definition struct {
	Version      int    `yaml:"version" json:"version"`
	ServerURL    string `yaml:"server_url" json:"server_url"`
	TokenStorage string `yaml:"token_storage,omitempty" json:"token_storage,omitempty"` // keyring (default) or file
	TokenFile    string `yaml:"token_file,omitempty" json:"token_file,omitempty"`
	TimeoutMs    int    `yaml:"timeout_ms,omitempty" json:"timeout_ms,omitempty"` // default: 30000
}

// DefaultPath returns the per-user config location, honoring an
// explicit HUBCTL_CONFIG override.
func DefaultPath() string {
	if p := os.Getenv("HUBCTL_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "hubctl.yaml"
	}
	return filepath.Join(dir, "hubctl", "config.yaml")
}

// Load reads and parses the hubctl.yaml file
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return huberrors.ConfigError{
				Field:      "path",
				Value:      c.Path,
				Message:    "configuration file not found",
				Suggestion: "Run 'hubctl init' to create a new configuration file",
			}
		}
		return huberrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return huberrors.ConfigError{
			Message:    "invalid YAML syntax in configuration file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters. Use a YAML validator",
		}
	}

	if err := validateDefinition(&def); err != nil {
		return err
	}

	c.Definition = &def
	return nil
}

// Write marshals the definition to c.Path with private permissions.
func (c *Config) Write(def *Definition) error {
	if err := validateDefinition(def); err != nil {
		return err
	}

	data, err := yaml.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(c.Path, data, 0o600); err != nil {
		return huberrors.UserError{
			Message:    "Failed to write configuration file",
			Details:    err.Error(),
			Suggestion: "Check directory permissions",
			Err:        err,
		}
	}

	c.Definition = def
	return nil
}

// ServerURL returns the configured server base URL.
func (c *Config) ServerURL() (string, error) {
	if c.Definition == nil {
		return "", huberrors.UserError{
			Message:    "Configuration not loaded",
			Suggestion: "This is an internal error. Please report it",
		}
	}
	return c.Definition.ServerURL, nil
}

// ServerHost returns the host portion of the server URL, used to scope
// keyring entries.
func (c *Config) ServerHost() string {
	if c.Definition == nil {
		return ""
	}
	u, err := url.Parse(c.Definition.ServerURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// Timeout returns the request timeout, defaulting to 30 seconds.
func (c *Config) Timeout() time.Duration {
	if c.Definition == nil || c.Definition.TimeoutMs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Definition.TimeoutMs) * time.Millisecond
}

// TokenFilePath returns where the file token backend stores its token.
func (c *Config) TokenFilePath() string {
	if c.Definition != nil && c.Definition.TokenFile != "" {
		return c.Definition.TokenFile
	}
	return filepath.Join(filepath.Dir(c.Path), "token")
}
