package config

import (
	"encoding/json"
	"fmt"
	"strings"

	rerrors "github.com/elaunira/r2index/internal/errors"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// SecretsMapping maps logical field names to "path#key" secret
// references. In YAML it may appear either as an inline mapping or as a
// JSON object string, matching how orchestration frameworks store
// connection extras.
type SecretsMapping map[string]string

// secretsMappingSchema constrains the JSON-string form before use: an
// object whose values are non-trivial strings.
const secretsMappingSchema = `{
	"type": "object",
	"minProperties": 1,
	"additionalProperties": {
		"type": "string",
		"minLength": 3
	}
}`

// UnmarshalYAML accepts both forms of the mapping.
func (m *SecretsMapping) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var raw string
		if err := value.Decode(&raw); err != nil {
			return err
		}
		parsed, err := parseMappingJSON(raw)
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	}

	var inline map[string]string
	if err := value.Decode(&inline); err != nil {
		return rerrors.ConfigError{
			Field:      "vault_secrets_mapping",
			Message:    "must be a mapping of field names to \"path#key\" strings, or a JSON object string",
			Suggestion: "Example: vault_secrets_mapping: {api_url: \"cloudflare/r2index#api-url\"}",
		}
	}
	*m = inline
	return nil
}

// parseMappingJSON validates a JSON object string against the mapping
// schema and decodes it.
func parseMappingJSON(raw string) (SecretsMapping, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(secretsMappingSchema),
		gojsonschema.NewStringLoader(raw),
	)
	if err != nil {
		return nil, rerrors.ConfigError{
			Field:      "vault_secrets_mapping",
			Message:    "invalid JSON: " + err.Error(),
			Suggestion: "The mapping must be a JSON object like {\"api_url\": \"path#key\", ...}",
		}
	}
	if !result.Valid() {
		var details []string
		for _, issue := range result.Errors() {
			details = append(details, issue.String())
		}
		return nil, rerrors.ConfigError{
			Field:      "vault_secrets_mapping",
			Message:    fmt.Sprintf("mapping failed validation: %s", strings.Join(details, "; ")),
			Suggestion: "Every value must be a \"path#key\" secret reference string",
		}
	}

	var m SecretsMapping
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, rerrors.ConfigError{
			Field:      "vault_secrets_mapping",
			Message:    "failed to decode mapping: " + err.Error(),
			Suggestion: "The mapping must be a JSON object with string values",
		}
	}
	return m, nil
}
