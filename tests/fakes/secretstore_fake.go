package fakes

import (
	"context"
	"sync"

	"github.com/elaunira/r2index/internal/secretstore"
)

// FakeSecretStore is an in-memory secret store keyed by namespace, path
// and key. It records every fetch so tests can assert which (and how
// many) store calls a resolution pass made.
//
// Example usage:
//
//	store := fakes.NewFakeSecretStore().
//	    WithSecret("team/prod", "cloudflare/r2index", "api-url", "https://idx.example.com").
//	    WithError("cloudflare/r2", "access-key-id", errors.New("sealed"))
type FakeSecretStore struct {
	mu      sync.Mutex
	secrets map[string]string
	failOn  map[string]error
	calls   []string
}

// NewFakeSecretStore creates an empty fake store.
func NewFakeSecretStore() *FakeSecretStore {
	return &FakeSecretStore{
		secrets: make(map[string]string),
		failOn:  make(map[string]error),
	}
}

// WithSecret adds a secret value. Fluent API for configuring test data.
func (f *FakeSecretStore) WithSecret(namespace, path, key, value string) *FakeSecretStore {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.secrets[storeKey(namespace, path, key)] = value
	return f
}

// WithError makes fetches of path#key fail with err in any namespace.
func (f *FakeSecretStore) WithError(path, key string, err error) *FakeSecretStore {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failOn[path+"#"+key] = err
	return f
}

// Fetch implements the secret-store capability.
func (f *FakeSecretStore) Fetch(ctx context.Context, namespace, path, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, path+"#"+key)

	if err, ok := f.failOn[path+"#"+key]; ok {
		return "", err
	}
	value, ok := f.secrets[storeKey(namespace, path, key)]
	if !ok {
		return "", secretstore.NotFoundError{Path: path, Key: key}
	}
	return value, nil
}

// Calls returns the path#key of every fetch made so far, in order.
func (f *FakeSecretStore) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// FetchCount returns the number of fetches made so far.
func (f *FakeSecretStore) FetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func storeKey(namespace, path, key string) string {
	return namespace + "|" + path + "|" + key
}
