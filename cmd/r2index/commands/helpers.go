package commands

import (
	"context"
	"os"

	"github.com/elaunira/r2index/internal/clients"
	"github.com/elaunira/r2index/internal/config"
	"github.com/elaunira/r2index/internal/credentials"
	"github.com/elaunira/r2index/internal/secretstore"
	"github.com/elaunira/r2index/internal/transfer"
)

// loadConfig reads the config file if it exists. A missing file is not
// an error: resolution then falls through to environment variables.
func loadConfig(cfg *config.Config) error {
	if _, err := os.Stat(cfg.Path); os.IsNotExist(err) {
		cfg.Definition = &config.Definition{}
		return nil
	}
	return cfg.Load()
}

// buildResolver wires the resolver for the configured connection,
// constructing the secret store client only when the connection is
// vault-backed.
func buildResolver(cfg *config.Config) (*credentials.Resolver, credentials.Inputs, error) {
	inputs := cfg.Definition.Connection.Inputs()

	var store credentials.SecretFetcher
	if inputs.Mode() == credentials.ModeVaultBacked {
		storeCfg, err := cfg.GetVaultStore(cfg.Definition.Connection.VaultConnID)
		if err != nil {
			return nil, credentials.Inputs{}, err
		}
		s, err := secretstore.NewOpenBaoStore(storeCfg, cfg.Logger)
		if err != nil {
			return nil, credentials.Inputs{}, err
		}
		store = s
	}

	return credentials.NewResolver(store, nil, cfg.Logger), inputs, nil
}

// buildOrchestrator resolves credentials and builds the client pair for
// one bucket. Credentials are resolved fresh on every invocation so
// store-side rotation takes effect.
func buildOrchestrator(ctx context.Context, cfg *config.Config, bucket string) (*transfer.Orchestrator, error) {
	resolver, inputs, err := buildResolver(cfg)
	if err != nil {
		return nil, err
	}

	bundle, err := resolver.Resolve(ctx, inputs)
	if err != nil {
		return nil, err
	}

	pair, err := clients.Build(ctx, bundle, bucket)
	if err != nil {
		return nil, err
	}

	return transfer.New(pair.Storage, pair.Index, cfg.Logger), nil
}

// failedCount tallies unsuccessful results.
func failedCount(results []transfer.Result) int {
	n := 0
	for _, r := range results {
		if !r.Success {
			n++
		}
	}
	return n
}
