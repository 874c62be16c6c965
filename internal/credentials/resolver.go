package credentials

import (
	"context"
	"os"
	"strings"

	"github.com/elaunira/r2index/internal/logging"
)

// Mode identifies the single source a resolution pass pulls credentials
// from. Exactly one mode is selected per pass; sources are never mixed,
// so an operator can always tell where a credential came from.
type Mode int

const (
	// ModeVaultBacked fetches every field from the secret store.
	ModeVaultBacked Mode = iota
	// ModeDirect reads literal values from the connection definition.
	ModeDirect
	// ModeEnvironment falls back to fixed environment variables.
	ModeEnvironment
)

func (m Mode) String() string {
	switch m {
	case ModeVaultBacked:
		return "vault-backed"
	case ModeDirect:
		return "direct"
	case ModeEnvironment:
		return "environment"
	}
	return "unknown"
}

// Inputs is the configuration surface of one connection: the optional
// secret-store settings and the optional direct literals, both keyed by
// the logical field names.
type Inputs struct {
	VaultConnID    string
	VaultNamespace string
	SecretsMapping map[string]string
	Direct         map[string]string
}

// Mode selects the resolution mode with fixed precedence:
// vault-backed > direct > environment. Vault-backed requires connection
// id, namespace and a non-empty mapping; direct requires all five
// literals; anything else falls through to the environment.
func (in Inputs) Mode() Mode {
	if in.VaultConnID != "" && in.VaultNamespace != "" && len(in.SecretsMapping) > 0 {
		return ModeVaultBacked
	}
	for _, field := range requiredFields {
		if strings.TrimSpace(in.Direct[field]) == "" {
			return ModeEnvironment
		}
	}
	return ModeDirect
}

// SecretFetcher is the opaque secret-store capability consumed in
// vault-backed mode. One call fetches one field's value.
type SecretFetcher interface {
	Fetch(ctx context.Context, namespace, path, key string) (string, error)
}

// EnvLookup reads one environment variable. Injecting it keeps
// environment-fallback resolution testable without mutating the real
// process environment.
type EnvLookup func(name string) (string, bool)

// Resolver turns connection inputs into a validated credential bundle.
type Resolver struct {
	store  SecretFetcher
	env    EnvLookup
	logger *logging.Logger
}

// NewResolver creates a resolver. store may be nil when no vault-backed
// connection is configured; env defaults to os.LookupEnv when nil.
func NewResolver(store SecretFetcher, env EnvLookup, logger *logging.Logger) *Resolver {
	if env == nil {
		env = os.LookupEnv
	}
	if logger == nil {
		logger = logging.New(false, true)
	}
	return &Resolver{store: store, env: env, logger: logger}
}

// Resolve produces a complete credential bundle or a specific error
// naming the first field that could not be resolved. Resolution is
// atomic: a single field failure aborts the whole bundle, and secrets
// are re-fetched on every pass so store-side rotation takes effect.
func (r *Resolver) Resolve(ctx context.Context, in Inputs) (Bundle, error) {
	mode := in.Mode()
	r.logger.Debug("Resolving credentials in %s mode", mode)

	var (
		bundle Bundle
		err    error
	)
	switch mode {
	case ModeVaultBacked:
		bundle, err = r.resolveVaultBacked(ctx, in)
	case ModeDirect:
		bundle, err = resolveDirect(in)
	default:
		bundle, err = r.resolveEnvironment()
	}
	if err != nil {
		return Bundle{}, err
	}

	// Defensive completeness check. The per-mode resolvers fail on the
	// first empty field, so this only fires for a custom extension that
	// returned a partial bundle.
	if err := bundle.Validate(); err != nil {
		return Bundle{}, err
	}

	return bundle, nil
}

// resolveVaultBacked collects and parses every field's reference before
// the first store call, so a missing or malformed mapping never costs a
// network round trip.
func (r *Resolver) resolveVaultBacked(ctx context.Context, in Inputs) (Bundle, error) {
	refs := make(map[string]SecretRef, len(requiredFields))
	for _, field := range requiredFields {
		raw, ok := in.SecretsMapping[field]
		if !ok || strings.TrimSpace(raw) == "" {
			return Bundle{}, MissingSecretMappingError{Field: field}
		}
		ref, err := ParseSecretRef(raw)
		if err != nil {
			return Bundle{}, err
		}
		refs[field] = ref
	}

	if r.store == nil {
		return Bundle{}, SecretFetchError{Field: requiredFields[0], Ref: refs[requiredFields[0]],
			Err: errNoStore}
	}

	values := make(map[string]string, len(requiredFields))
	for _, field := range requiredFields {
		ref := refs[field]
		value, err := r.store.Fetch(ctx, in.VaultNamespace, ref.Path, ref.Key)
		if err != nil {
			return Bundle{}, SecretFetchError{Field: field, Ref: ref, Err: err}
		}
		values[field] = value
	}

	return bundleFromValues(values), nil
}

func resolveDirect(in Inputs) (Bundle, error) {
	values := make(map[string]string, len(requiredFields))
	for _, field := range requiredFields {
		value := strings.TrimSpace(in.Direct[field])
		if value == "" {
			return Bundle{}, MissingDirectFieldError{Field: field}
		}
		values[field] = value
	}
	return bundleFromValues(values), nil
}

func (r *Resolver) resolveEnvironment() (Bundle, error) {
	values := make(map[string]string, len(requiredFields))
	for _, field := range requiredFields {
		name := envVarNames[field]
		value, ok := r.env(name)
		if !ok || strings.TrimSpace(value) == "" {
			return Bundle{}, MissingEnvVarError{Name: name}
		}
		values[field] = value
	}
	return bundleFromValues(values), nil
}

type noStoreError struct{}

func (noStoreError) Error() string {
	return "vault-backed connection configured but no secret store client is available"
}

var errNoStore = noStoreError{}
