// Package secretstore provides clients for the external secret store
// consulted by vault-backed credential resolution.
package secretstore

import (
	"context"
	"fmt"
)

// Store fetches individual secret values addressed by namespace, path
// and key. Implementations must pass the context through to network
// calls and perform no internal retries; retry policy belongs to the
// caller.
type Store interface {
	Fetch(ctx context.Context, namespace, path, key string) (string, error)
}

// NotFoundError indicates the secret path exists but holds no such key,
// or the path itself is absent.
type NotFoundError struct {
	Path string
	Key  string
}

func (e NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("secret not found at path %q", e.Path)
	}
	return fmt.Sprintf("secret key %q not found at path %q", e.Key, e.Path)
}

// ConnectionError indicates the store could not be reached or answered
// with a non-success status. Distinguishing it from NotFoundError lets
// callers apply a differentiated retry policy.
type ConnectionError struct {
	Address string
	Err     error
}

func (e ConnectionError) Error() string {
	return fmt.Sprintf("secret store %s unreachable: %v", e.Address, e.Err)
}

func (e ConnectionError) Unwrap() error {
	return e.Err
}
