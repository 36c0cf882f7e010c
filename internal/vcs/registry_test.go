package vcs_test

import (
	"context"
	"testing"

	"github.com/Tomas-vilte/cicd-utils/internal/config"
	domainErrors "github.com/Tomas-vilte/cicd-utils/internal/errors"
	"github.com/Tomas-vilte/cicd-utils/internal/vcs"
	"github.com/Tomas-vilte/cicd-utils/internal/vcs/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderRegistry_Register(t *testing.T) {
	registry := vcs.NewProviderRegistry()

	require.NoError(t, registry.Register(github.ProviderName, github.NewProviderFactory()))
	assert.Error(t, registry.Register(github.ProviderName, github.NewProviderFactory()))

	assert.True(t, registry.IsRegistered("github"))
	assert.False(t, registry.IsRegistered("gitlab"))
	assert.Equal(t, []string{"github"}, registry.List())
}

func TestProviderRegistry_CreateClient(t *testing.T) {
	ctx := context.Background()
	registry := vcs.NewProviderRegistry()
	require.NoError(t, registry.Register(github.ProviderName, github.NewProviderFactory()))

	t.Run("creates a bound client", func(t *testing.T) {
		cfg := config.Default()
		cfg.GitHub.Token = "tok"

		client, err := registry.CreateClient(ctx, "github", "acme", "widgets", cfg)

		require.NoError(t, err)
		assert.Equal(t, "acme/widgets", client.Repository())
	})

	t.Run("requires a token", func(t *testing.T) {
		_, err := registry.CreateClient(ctx, "github", "acme", "widgets", config.Default())

		assert.ErrorIs(t, err, domainErrors.ErrTokenMissing)
	})

	t.Run("rejects unknown providers", func(t *testing.T) {
		cfg := config.Default()
		cfg.GitHub.Token = "tok"

		_, err := registry.CreateClient(ctx, "gitlab", "acme", "widgets", cfg)

		assert.ErrorIs(t, err, domainErrors.ErrVCSProviderNotSupported)
	})
}
