package clients_test

import (
	"context"
	"testing"

	"github.com/elaunira/r2index/internal/clients"
	"github.com/elaunira/r2index/internal/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeBundle() credentials.Bundle {
	return credentials.Bundle{
		APIURL:          "https://idx.example.com",
		APIToken:        "tok-123",
		AccessKeyID:     "AKID",
		SecretAccessKey: "SECRET",
		EndpointURL:     "https://acct.r2.cloudflarestorage.com",
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	t.Run("builds_both_clients_without_network_io", func(t *testing.T) {
		t.Parallel()
		pair, err := clients.Build(context.Background(), completeBundle(), "data-lake")
		require.NoError(t, err)
		assert.NotNil(t, pair.Index)
		assert.NotNil(t, pair.Storage)
	})

	t.Run("rejects_incomplete_bundle", func(t *testing.T) {
		t.Parallel()
		bundle := completeBundle()
		bundle.SecretAccessKey = ""

		_, err := clients.Build(context.Background(), bundle, "data-lake")

		var incomplete credentials.IncompleteBundleError
		require.ErrorAs(t, err, &incomplete)
		assert.Equal(t, []string{"secret_access_key"}, incomplete.Fields)
	})

	t.Run("rejects_empty_bucket", func(t *testing.T) {
		t.Parallel()
		_, err := clients.Build(context.Background(), completeBundle(), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket")
	})
}
