package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	huberrors "github.com/vaulthub/hubctl/internal/errors"
)

// definitionSchema constrains the parsed hubctl.yaml document. YAML is
// converted to JSON before validation.
const definitionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "server_url"],
  "properties": {
    "version": {"type": "integer", "enum": [0]},
    "server_url": {"type": "string", "minLength": 1},
    "token_storage": {"type": "string", "enum": ["", "keyring", "file"]},
    "token_file": {"type": "string"},
    "timeout_ms": {"type": "integer", "minimum": 0}
  },
  "additionalProperties": false
}`

// validateDefinition checks the document shape against the schema and
// applies constraints the schema cannot express.
func validateDefinition(def *Definition) error {
	jsonData, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration for validation: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(definitionSchema),
		gojsonschema.NewBytesLoader(jsonData),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var errorMessages []string
		for _, desc := range result.Errors() {
			errorMessages = append(errorMessages, desc.String())
		}
		return huberrors.ConfigError{
			Message:    "configuration failed schema validation:\n  - " + strings.Join(errorMessages, "\n  - "),
			Suggestion: "Run 'hubctl init' to regenerate a valid configuration",
		}
	}

	u, err := url.Parse(def.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return huberrors.ConfigError{
			Field:      "server_url",
			Value:      def.ServerURL,
			Message:    "must be an absolute http(s) URL",
			Suggestion: "Example: server_url: https://vault.example.com",
		}
	}

	return nil
}
