package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/elaunira/r2index/internal/credentials"
	rerrors "github.com/elaunira/r2index/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes content to a temp r2index.yaml and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "r2index.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfigLoad(t *testing.T) {
	t.Parallel()

	t.Run("loads_vault_backed_connection", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Path: writeConfig(t, `
version: 0
connection:
  vault_conn_id: openbao-prod
  vault_namespace: team/prod
  vault_secrets_mapping:
    api_url: "cloudflare/r2index#api-url"
    api_token: "cloudflare/r2index#api-token"
    access_key_id: "cloudflare/r2#access-key-id"
    secret_access_key: "cloudflare/r2#secret-access-key"
    endpoint_url: "cloudflare/r2#endpoint-url"
vaultStores:
  openbao-prod:
    address: https://bao.example.com:8200
    mount: kv
`)}

		require.NoError(t, cfg.Load())

		conn := cfg.Definition.Connection
		assert.Equal(t, "openbao-prod", conn.VaultConnID)
		assert.Equal(t, "team/prod", conn.VaultNamespace)
		assert.Len(t, conn.VaultSecretsMapping, 5)
		assert.Equal(t, "cloudflare/r2index#api-url", conn.VaultSecretsMapping["api_url"])

		store, err := cfg.GetVaultStore("openbao-prod")
		require.NoError(t, err)
		assert.Equal(t, "https://bao.example.com:8200", store.Address)
		assert.Equal(t, "kv", store.Mount)
	})

	t.Run("loads_direct_connection", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Path: writeConfig(t, `
version: 0
connection:
  api_url: https://idx.example.com
  api_token: tok-123
  access_key_id: AKID
  secret_access_key: SECRET
  endpoint_url: https://acct.r2.cloudflarestorage.com
`)}

		require.NoError(t, cfg.Load())

		inputs := cfg.Definition.Connection.Inputs()
		assert.Equal(t, credentials.ModeDirect, inputs.Mode())
		assert.Equal(t, "tok-123", inputs.Direct[credentials.FieldAPIToken])
	})

	t.Run("empty_connection_selects_environment_mode", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Path: writeConfig(t, "version: 0\n")}

		require.NoError(t, cfg.Load())
		assert.Equal(t, credentials.ModeEnvironment, cfg.Definition.Connection.Inputs().Mode())
	})

	t.Run("missing_file_reports_path", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Path: filepath.Join(t.TempDir(), "absent.yaml")}

		err := cfg.Load()
		var cfgErr rerrors.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "path", cfgErr.Field)
	})

	t.Run("rejects_invalid_yaml", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Path: writeConfig(t, "connection: [unclosed\n")}

		err := cfg.Load()
		var cfgErr rerrors.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, cfgErr.Message, "YAML")
	})

	t.Run("rejects_unsupported_version", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Path: writeConfig(t, "version: 7\n")}

		err := cfg.Load()
		var cfgErr rerrors.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "version", cfgErr.Field)
	})

	t.Run("unknown_vault_store_lists_available", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Path: writeConfig(t, `
version: 0
vaultStores:
  openbao-prod:
    address: https://bao.example.com:8200
`)}
		require.NoError(t, cfg.Load())

		_, err := cfg.GetVaultStore("openbao-staging")
		var cfgErr rerrors.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, cfgErr.Suggestion, "openbao-prod")
	})
}

func TestSecretsMapping(t *testing.T) {
	t.Parallel()

	t.Run("accepts_json_string_form", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Path: writeConfig(t, `
version: 0
connection:
  vault_conn_id: openbao-prod
  vault_namespace: team/prod
  vault_secrets_mapping: '{"api_url": "cloudflare/r2index#api-url", "api_token": "cloudflare/r2index#api-token"}'
`)}

		require.NoError(t, cfg.Load())

		mapping := cfg.Definition.Connection.VaultSecretsMapping
		assert.Equal(t, "cloudflare/r2index#api-url", mapping["api_url"])
		assert.Equal(t, "cloudflare/r2index#api-token", mapping["api_token"])
	})

	t.Run("rejects_json_string_with_non_string_values", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Path: writeConfig(t, `
version: 0
connection:
  vault_secrets_mapping: '{"api_url": 42}'
`)}

		err := cfg.Load()
		var cfgErr rerrors.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "vault_secrets_mapping", cfgErr.Field)
	})

	t.Run("rejects_empty_json_object", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Path: writeConfig(t, `
version: 0
connection:
  vault_secrets_mapping: '{}'
`)}

		err := cfg.Load()
		var cfgErr rerrors.ConfigError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("rejects_malformed_json", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Path: writeConfig(t, `
version: 0
connection:
  vault_secrets_mapping: '{"api_url": '
`)}

		err := cfg.Load()
		var cfgErr rerrors.ConfigError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("blank_json_string_means_no_mapping", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Path: writeConfig(t, `
version: 0
connection:
  vault_secrets_mapping: "   "
`)}

		require.NoError(t, cfg.Load())
		assert.Empty(t, cfg.Definition.Connection.VaultSecretsMapping)
	})

	t.Run("rejects_sequence_node", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Path: writeConfig(t, `
version: 0
connection:
  vault_secrets_mapping:
    - not
    - a
    - mapping
`)}

		err := cfg.Load()
		require.Error(t, err)
	})
}

func TestLoadManifest(t *testing.T) {
	t.Parallel()

	t.Run("loads_uploads_and_downloads", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, `
bucket: data-lake
uploads:
  - source: /tmp/data.csv
    category: example
    entity: sample-data
    extension: csv
    media_type: text/csv
    destination_path: example/data
    destination_filename: data.csv
    destination_version: "2024-01-01"
    tags: [demo, sample]
downloads:
  - category: example
    entity: sample-data
    source_path: example/data
    source_filename: data.csv
    source_version: "2024-01-01"
    destination: /tmp/out/data.csv
`)

		m, err := LoadManifest(path)
		require.NoError(t, err)

		assert.Equal(t, "data-lake", m.Bucket)
		require.Len(t, m.Uploads, 1)
		assert.Equal(t, "example", m.Uploads[0].Category)
		assert.Equal(t, []string{"demo", "sample"}, m.Uploads[0].Tags)
		require.Len(t, m.Downloads, 1)
		assert.Equal(t, "/tmp/out/data.csv", m.Downloads[0].Destination)
	})

	t.Run("download_overwrite_defaults_to_true", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, `
bucket: data-lake
downloads:
  - category: c
    entity: e
    source_path: p
    source_filename: f.csv
    source_version: v1
    destination: /tmp/f.csv
  - category: c
    entity: e
    source_path: p
    source_filename: g.csv
    source_version: v1
    destination: /tmp/g.csv
    overwrite: false
`)

		m, err := LoadManifest(path)
		require.NoError(t, err)
		require.Len(t, m.Downloads, 2)

		assert.True(t, m.Downloads[0].Overwrite, "absent key defaults to overwrite")
		assert.False(t, m.Downloads[1].Overwrite, "explicit false is honored")
	})

	t.Run("rejects_missing_bucket", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "uploads: []\n")

		_, err := LoadManifest(path)
		var cfgErr rerrors.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "bucket", cfgErr.Field)
	})

	t.Run("rejects_missing_file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadManifest(filepath.Join(t.TempDir(), "absent.yaml"))
		var cfgErr rerrors.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "manifest", cfgErr.Field)
	})
}
