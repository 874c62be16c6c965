package config

import (
	"errors"
	"os"
	"strings"

	"github.com/elaunira/r2index/internal/credentials"
	rerrors "github.com/elaunira/r2index/internal/errors"
	"github.com/elaunira/r2index/internal/logging"
	"github.com/elaunira/r2index/internal/secretstore"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime configuration
type Config struct {
	Path       string
	Logger     *logging.Logger
	Definition *Definition
}

// Definition represents the r2index.yaml structure: one connection
// definition plus the secret stores it may reference.
type Definition struct {
	Version     int                                  `yaml:"version"`
	Connection  ConnectionConfig                     `yaml:"connection"`
	VaultStores map[string]secretstore.OpenBaoConfig `yaml:"vaultStores,omitempty"`
}

// ConnectionConfig is the configuration surface for credential
// resolution. All fields are optional; which ones are present decides
// the resolution mode (vault-backed > direct > environment fallback).
type ConnectionConfig struct {
	VaultConnID         string         `yaml:"vault_conn_id,omitempty"`
	VaultNamespace      string         `yaml:"vault_namespace,omitempty"`
	VaultSecretsMapping SecretsMapping `yaml:"vault_secrets_mapping,omitempty"`

	APIURL          string `yaml:"api_url,omitempty"`
	APIToken        string `yaml:"api_token,omitempty"`
	AccessKeyID     string `yaml:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty"`
	EndpointURL     string `yaml:"endpoint_url,omitempty"`
}

// Inputs converts the connection definition into resolver inputs.
func (c ConnectionConfig) Inputs() credentials.Inputs {
	return credentials.Inputs{
		VaultConnID:    c.VaultConnID,
		VaultNamespace: c.VaultNamespace,
		SecretsMapping: c.VaultSecretsMapping,
		Direct: map[string]string{
			credentials.FieldAPIURL:          c.APIURL,
			credentials.FieldAPIToken:        c.APIToken,
			credentials.FieldAccessKeyID:     c.AccessKeyID,
			credentials.FieldSecretAccessKey: c.SecretAccessKey,
			credentials.FieldEndpointURL:     c.EndpointURL,
		},
	}
}

// Load reads and parses the r2index.yaml file
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return rerrors.ConfigError{
				Field:      "path",
				Value:      c.Path,
				Message:    "configuration file not found",
				Suggestion: "Create an r2index.yaml with a 'connection:' section, or rely on environment variables",
			}
		}
		return rerrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		// Field-level unmarshalers (the secrets mapping) raise their own
		// ConfigError; pass it through instead of the generic one.
		var cfgErr rerrors.ConfigError
		if errors.As(err, &cfgErr) {
			return cfgErr
		}
		return rerrors.ConfigError{
			Message:    "invalid YAML syntax in configuration file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters. Use a YAML validator",
		}
	}

	if def.Version != 0 {
		return rerrors.ConfigError{
			Field:      "version",
			Value:      def.Version,
			Message:    "unsupported configuration version",
			Suggestion: "Set 'version: 0' at the top of your r2index.yaml file",
		}
	}

	c.Definition = &def
	return nil
}

// GetVaultStore returns the store settings the connection references.
func (c *Config) GetVaultStore(name string) (secretstore.OpenBaoConfig, error) {
	if c.Definition == nil {
		return secretstore.OpenBaoConfig{}, rerrors.UserError{
			Message:    "Configuration not loaded",
			Suggestion: "This is an internal error. Please report it",
		}
	}

	store, ok := c.Definition.VaultStores[name]
	if !ok {
		var available []string
		for storeName := range c.Definition.VaultStores {
			available = append(available, storeName)
		}

		suggestion := "Add the store to the 'vaultStores:' section of your r2index.yaml"
		if len(available) > 0 {
			suggestion = "Available stores: " + strings.Join(available, ", ")
		}

		return secretstore.OpenBaoConfig{}, rerrors.ConfigError{
			Field:      "vault_conn_id",
			Value:      name,
			Message:    "vault store not found",
			Suggestion: suggestion,
		}
	}

	return store, nil
}
