// Package storage provides the object-storage capability used by
// transfers: put, get and list by canonical key.
package storage

import (
	"context"
	"fmt"
	"io"
)

// Client is the opaque object-storage capability. Keys are the canonical
// storage keys derived by the key mapper; implementations attach them to
// a single configured bucket.
type Client interface {
	// Put writes an object. Re-putting the same key overwrites it.
	Put(ctx context.Context, key string, body io.Reader, contentType string) error

	// Get reads an object. Returns NotFoundError if the key is absent.
	// The caller owns the returned body and must close it.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// List returns the keys under a prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// NotFoundError indicates no object exists at the requested key.
type NotFoundError struct {
	Key string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("object not found: %s", e.Key)
}
