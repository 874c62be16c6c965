// Package index provides the client for the R2Index metadata API. An
// index record is registered against every uploaded storage key so files
// can be found later without listing the storage backend.
package index

import (
	"context"
	"fmt"
)

// Record is the metadata registered against one storage key.
type Record struct {
	ID         string                 `json:"id,omitempty"`
	StorageKey string                 `json:"storage_key"`
	Category   string                 `json:"category"`
	Entity     string                 `json:"entity"`
	Extension  string                 `json:"extension"`
	MediaType  string                 `json:"media_type"`
	Version    string                 `json:"version"`
	Name       string                 `json:"name,omitempty"`
	Tags       []string               `json:"tags,omitempty"`
	Extra      map[string]interface{} `json:"extra,omitempty"`
}

// Query filters a record listing. Zero-value fields are not applied.
type Query struct {
	Category  string
	Entity    string
	Extension string
	Tags      []string
	Limit     int
}

// Client is the opaque indexing API capability.
type Client interface {
	// Register creates a record and returns its server-assigned id.
	Register(ctx context.Context, rec Record) (string, error)

	// Get retrieves a record by id.
	Get(ctx context.Context, id string) (Record, error)

	// List returns records matching the query.
	List(ctx context.Context, q Query) ([]Record, error)
}

// NotFoundError indicates no record exists with the requested id.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("index record not found: %s", e.ID)
}
