package credentials_test

import (
	"context"
	"errors"
	"testing"

	"github.com/elaunira/r2index/internal/credentials"
	"github.com/elaunira/r2index/internal/secretstore"
	"github.com/elaunira/r2index/tests/fakes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fullMapping maps every logical field to a distinct secret reference.
func fullMapping() map[string]string {
	return map[string]string{
		"api_url":           "cloudflare/r2index#api-url",
		"api_token":         "cloudflare/r2index#api-token",
		"access_key_id":     "cloudflare/r2#access-key-id",
		"secret_access_key": "cloudflare/r2#secret-access-key",
		"endpoint_url":      "cloudflare/r2#endpoint-url",
	}
}

// seededStore returns a fake store holding a value for every reference
// in fullMapping under the given namespace.
func seededStore(namespace string) *fakes.FakeSecretStore {
	return fakes.NewFakeSecretStore().
		WithSecret(namespace, "cloudflare/r2index", "api-url", "https://idx.example.com").
		WithSecret(namespace, "cloudflare/r2index", "api-token", "tok-123").
		WithSecret(namespace, "cloudflare/r2", "access-key-id", "AKID").
		WithSecret(namespace, "cloudflare/r2", "secret-access-key", "SECRET").
		WithSecret(namespace, "cloudflare/r2", "endpoint-url", "https://acct.r2.cloudflarestorage.com")
}

func fullDirect() map[string]string {
	return map[string]string{
		"api_url":           "https://idx.example.com",
		"api_token":         "tok-123",
		"access_key_id":     "AKID",
		"secret_access_key": "SECRET",
		"endpoint_url":      "https://acct.r2.cloudflarestorage.com",
	}
}

func noEnv(string) (string, bool) { return "", false }

func TestInputsMode(t *testing.T) {
	t.Parallel()

	t.Run("vault_backed_when_fully_configured", func(t *testing.T) {
		t.Parallel()
		in := credentials.Inputs{
			VaultConnID:    "openbao-prod",
			VaultNamespace: "team/prod",
			SecretsMapping: fullMapping(),
		}
		assert.Equal(t, credentials.ModeVaultBacked, in.Mode())
	})

	t.Run("vault_takes_precedence_over_direct", func(t *testing.T) {
		t.Parallel()
		in := credentials.Inputs{
			VaultConnID:    "openbao-prod",
			VaultNamespace: "team/prod",
			SecretsMapping: fullMapping(),
			Direct:         fullDirect(),
		}
		assert.Equal(t, credentials.ModeVaultBacked, in.Mode())
	})

	t.Run("direct_when_all_literals_present", func(t *testing.T) {
		t.Parallel()
		in := credentials.Inputs{Direct: fullDirect()}
		assert.Equal(t, credentials.ModeDirect, in.Mode())
	})

	t.Run("environment_when_nothing_configured", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, credentials.ModeEnvironment, credentials.Inputs{}.Mode())
	})

	t.Run("environment_when_one_direct_field_missing", func(t *testing.T) {
		t.Parallel()
		direct := fullDirect()
		delete(direct, "endpoint_url")
		in := credentials.Inputs{Direct: direct}
		assert.Equal(t, credentials.ModeEnvironment, in.Mode())
	})

	t.Run("environment_when_direct_field_is_whitespace", func(t *testing.T) {
		t.Parallel()
		direct := fullDirect()
		direct["api_token"] = "   "
		in := credentials.Inputs{Direct: direct}
		assert.Equal(t, credentials.ModeEnvironment, in.Mode())
	})

	t.Run("incomplete_vault_config_falls_through", func(t *testing.T) {
		t.Parallel()
		// A connection id alone (no namespace, no mapping) is not enough
		// to select vault-backed mode.
		in := credentials.Inputs{
			VaultConnID: "openbao-prod",
			Direct:      fullDirect(),
		}
		assert.Equal(t, credentials.ModeDirect, in.Mode())
	})

	t.Run("vault_requires_namespace", func(t *testing.T) {
		t.Parallel()
		in := credentials.Inputs{
			VaultConnID:    "openbao-prod",
			SecretsMapping: fullMapping(),
		}
		assert.Equal(t, credentials.ModeEnvironment, in.Mode())
	})

	t.Run("mode_strings", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "vault-backed", credentials.ModeVaultBacked.String())
		assert.Equal(t, "direct", credentials.ModeDirect.String())
		assert.Equal(t, "environment", credentials.ModeEnvironment.String())
	})
}

func TestResolveVaultBacked(t *testing.T) {
	t.Parallel()

	inputs := func(mapping map[string]string) credentials.Inputs {
		return credentials.Inputs{
			VaultConnID:    "openbao-prod",
			VaultNamespace: "team/prod",
			SecretsMapping: mapping,
		}
	}

	t.Run("resolves_all_fields_from_store", func(t *testing.T) {
		t.Parallel()
		store := seededStore("team/prod")
		resolver := credentials.NewResolver(store, noEnv, nil)

		bundle, err := resolver.Resolve(context.Background(), inputs(fullMapping()))
		require.NoError(t, err)

		assert.Equal(t, "https://idx.example.com", bundle.APIURL)
		assert.Equal(t, "tok-123", bundle.APIToken.Reveal())
		assert.Equal(t, "AKID", bundle.AccessKeyID)
		assert.Equal(t, "SECRET", bundle.SecretAccessKey.Reveal())
		assert.Equal(t, "https://acct.r2.cloudflarestorage.com", bundle.EndpointURL)
		assert.Equal(t, 5, store.FetchCount())
	})

	t.Run("missing_mapping_field_makes_no_store_call", func(t *testing.T) {
		t.Parallel()
		mapping := fullMapping()
		delete(mapping, "secret_access_key")
		store := seededStore("team/prod")
		resolver := credentials.NewResolver(store, noEnv, nil)

		_, err := resolver.Resolve(context.Background(), inputs(mapping))

		var missing credentials.MissingSecretMappingError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "secret_access_key", missing.Field)
		assert.Zero(t, store.FetchCount(), "a missing mapping must fail before any fetch")
	})

	t.Run("malformed_reference_makes_no_store_call", func(t *testing.T) {
		t.Parallel()
		mapping := fullMapping()
		mapping["endpoint_url"] = "no-separator-here"
		store := seededStore("team/prod")
		resolver := credentials.NewResolver(store, noEnv, nil)

		_, err := resolver.Resolve(context.Background(), inputs(mapping))

		var malformed credentials.MalformedReferenceError
		require.ErrorAs(t, err, &malformed)
		assert.Zero(t, store.FetchCount())
	})

	t.Run("fetch_failure_aborts_bundle", func(t *testing.T) {
		t.Parallel()
		storeErr := errors.New("store sealed")
		store := seededStore("team/prod").
			WithError("cloudflare/r2", "access-key-id", storeErr)
		resolver := credentials.NewResolver(store, noEnv, nil)

		_, err := resolver.Resolve(context.Background(), inputs(fullMapping()))

		var fetchErr credentials.SecretFetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, "access_key_id", fetchErr.Field)
		assert.Equal(t, "cloudflare/r2#access-key-id", fetchErr.Ref.String())
		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("missing_secret_surfaces_not_found", func(t *testing.T) {
		t.Parallel()
		store := fakes.NewFakeSecretStore()
		resolver := credentials.NewResolver(store, noEnv, nil)

		_, err := resolver.Resolve(context.Background(), inputs(fullMapping()))

		var notFound secretstore.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "cloudflare/r2index", notFound.Path)
	})

	t.Run("nil_store_fails_without_panicking", func(t *testing.T) {
		t.Parallel()
		resolver := credentials.NewResolver(nil, noEnv, nil)

		_, err := resolver.Resolve(context.Background(), inputs(fullMapping()))

		var fetchErr credentials.SecretFetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Contains(t, err.Error(), "no secret store")
	})

	t.Run("secrets_are_refetched_on_every_pass", func(t *testing.T) {
		t.Parallel()
		store := seededStore("team/prod")
		resolver := credentials.NewResolver(store, noEnv, nil)

		_, err := resolver.Resolve(context.Background(), inputs(fullMapping()))
		require.NoError(t, err)

		// A rotated secret must be picked up by the next pass.
		store.WithSecret("team/prod", "cloudflare/r2index", "api-token", "tok-456")
		bundle, err := resolver.Resolve(context.Background(), inputs(fullMapping()))
		require.NoError(t, err)

		assert.Equal(t, "tok-456", bundle.APIToken.Reveal())
		assert.Equal(t, 10, store.FetchCount())
	})

	t.Run("namespace_is_forwarded_to_store", func(t *testing.T) {
		t.Parallel()
		store := seededStore("team/staging")
		resolver := credentials.NewResolver(store, noEnv, nil)

		// Same mapping, wrong namespace: every secret looks absent.
		_, err := resolver.Resolve(context.Background(), inputs(fullMapping()))
		require.Error(t, err)

		in := inputs(fullMapping())
		in.VaultNamespace = "team/staging"
		_, err = resolver.Resolve(context.Background(), in)
		assert.NoError(t, err)
	})
}

func TestResolveDirect(t *testing.T) {
	t.Parallel()

	t.Run("resolves_from_literals", func(t *testing.T) {
		t.Parallel()
		resolver := credentials.NewResolver(nil, noEnv, nil)

		bundle, err := resolver.Resolve(context.Background(),
			credentials.Inputs{Direct: fullDirect()})
		require.NoError(t, err)

		assert.Equal(t, "https://idx.example.com", bundle.APIURL)
		assert.Equal(t, "SECRET", bundle.SecretAccessKey.Reveal())
	})

	t.Run("trims_literal_whitespace", func(t *testing.T) {
		t.Parallel()
		direct := fullDirect()
		direct["api_url"] = "  https://idx.example.com  "
		resolver := credentials.NewResolver(nil, noEnv, nil)

		bundle, err := resolver.Resolve(context.Background(),
			credentials.Inputs{Direct: direct})
		require.NoError(t, err)
		assert.Equal(t, "https://idx.example.com", bundle.APIURL)
	})
}

func TestResolveEnvironment(t *testing.T) {
	t.Parallel()

	env := func(vars map[string]string) credentials.EnvLookup {
		return func(name string) (string, bool) {
			v, ok := vars[name]
			return v, ok
		}
	}

	fullEnv := map[string]string{
		"R2INDEX_API_URL":      "https://idx.example.com",
		"R2INDEX_API_TOKEN":    "tok-env",
		"R2_ACCESS_KEY_ID":     "AKID-env",
		"R2_SECRET_ACCESS_KEY": "SECRET-env",
		"R2_ENDPOINT_URL":      "https://acct.r2.cloudflarestorage.com",
	}

	t.Run("resolves_from_environment_variables", func(t *testing.T) {
		t.Parallel()
		resolver := credentials.NewResolver(nil, env(fullEnv), nil)

		bundle, err := resolver.Resolve(context.Background(), credentials.Inputs{})
		require.NoError(t, err)

		assert.Equal(t, "https://idx.example.com", bundle.APIURL)
		assert.Equal(t, "tok-env", bundle.APIToken.Reveal())
		assert.Equal(t, "AKID-env", bundle.AccessKeyID)
		assert.Equal(t, "SECRET-env", bundle.SecretAccessKey.Reveal())
	})

	t.Run("missing_variable_names_the_variable", func(t *testing.T) {
		t.Parallel()
		partial := map[string]string{
			"R2INDEX_API_URL":   "https://idx.example.com",
			"R2INDEX_API_TOKEN": "tok-env",
		}
		resolver := credentials.NewResolver(nil, env(partial), nil)

		_, err := resolver.Resolve(context.Background(), credentials.Inputs{})

		var missing credentials.MissingEnvVarError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "R2_ACCESS_KEY_ID", missing.Name)
	})

	t.Run("empty_variable_counts_as_unset", func(t *testing.T) {
		t.Parallel()
		vars := map[string]string{}
		for k, v := range fullEnv {
			vars[k] = v
		}
		vars["R2_ENDPOINT_URL"] = ""
		resolver := credentials.NewResolver(nil, env(vars), nil)

		_, err := resolver.Resolve(context.Background(), credentials.Inputs{})

		var missing credentials.MissingEnvVarError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "R2_ENDPOINT_URL", missing.Name)
	})

	t.Run("partial_direct_config_uses_environment", func(t *testing.T) {
		t.Parallel()
		direct := fullDirect()
		delete(direct, "api_token")
		resolver := credentials.NewResolver(nil, env(fullEnv), nil)

		bundle, err := resolver.Resolve(context.Background(),
			credentials.Inputs{Direct: direct})
		require.NoError(t, err)

		// Environment fallback is all-or-nothing: no mixing with the
		// partial direct values.
		assert.Equal(t, "tok-env", bundle.APIToken.Reveal())
		assert.Equal(t, "AKID-env", bundle.AccessKeyID)
	})
}

func TestBundleValidate(t *testing.T) {
	t.Parallel()

	t.Run("complete_bundle_passes", func(t *testing.T) {
		t.Parallel()
		bundle := credentials.Bundle{
			APIURL:          "https://idx.example.com",
			APIToken:        "tok",
			AccessKeyID:     "AKID",
			SecretAccessKey: "SECRET",
			EndpointURL:     "https://acct.r2.cloudflarestorage.com",
		}
		assert.NoError(t, bundle.Validate())
		assert.Empty(t, bundle.MissingFields())
	})

	t.Run("reports_all_missing_fields", func(t *testing.T) {
		t.Parallel()
		bundle := credentials.Bundle{APIURL: "https://idx.example.com"}

		err := bundle.Validate()
		var incomplete credentials.IncompleteBundleError
		require.ErrorAs(t, err, &incomplete)
		assert.Equal(t,
			[]string{"api_token", "access_key_id", "secret_access_key", "endpoint_url"},
			incomplete.Fields)
	})
}

func TestFields(t *testing.T) {
	t.Parallel()

	t.Run("lists_fields_in_resolution_order", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t,
			[]string{"api_url", "api_token", "access_key_id", "secret_access_key", "endpoint_url"},
			credentials.Fields())
	})

	t.Run("maps_fields_to_environment_variables", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "R2INDEX_API_URL", credentials.EnvVarName("api_url"))
		assert.Equal(t, "R2_SECRET_ACCESS_KEY", credentials.EnvVarName("secret_access_key"))
		assert.Empty(t, credentials.EnvVarName("unknown"))
	})
}
