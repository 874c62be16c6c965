// Package clients builds the index and storage client pair from a
// resolved credential bundle.
package clients

import (
	"context"

	"github.com/elaunira/r2index/internal/credentials"
	"github.com/elaunira/r2index/internal/index"
	"github.com/elaunira/r2index/internal/storage"
)

// Pair holds the two client handles a transfer needs.
type Pair struct {
	Index   index.Client
	Storage storage.Client
}

// Build constructs both clients from the bundle. Construction is pure:
// the first network call happens at transfer time. An incomplete bundle
// is rejected here as a second line of defense behind the resolver.
func Build(ctx context.Context, bundle credentials.Bundle, bucket string) (Pair, error) {
	if err := bundle.Validate(); err != nil {
		return Pair{}, err
	}

	idx := index.NewHTTPClient(bundle.APIURL, bundle.APIToken)

	st, err := storage.NewR2Client(ctx,
		bundle.AccessKeyID,
		bundle.SecretAccessKey.Reveal(),
		bundle.EndpointURL,
		bucket,
	)
	if err != nil {
		return Pair{}, err
	}

	return Pair{Index: idx, Storage: st}, nil
}
