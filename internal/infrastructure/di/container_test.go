package di

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Tomas-vilte/cicd-utils/internal/config"
	domainErrors "github.com/Tomas-vilte/cicd-utils/internal/errors"
	"github.com/Tomas-vilte/cicd-utils/internal/i18n"
	"github.com/Tomas-vilte/cicd-utils/internal/vcs/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepoInfo struct {
	mock.Mock
}

func (m *mockRepoInfo) GetRepoInfo(ctx context.Context) (string, string, string, error) {
	args := m.Called(ctx)
	return args.String(0), args.String(1), args.String(2), args.Error(3)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func newTestContainer(t *testing.T, opts *Options, extra ...Option) *Container {
	t.Helper()
	t.Setenv(config.TokenEnvVar, "")

	trans, err := i18n.NewTranslations("en")
	require.NoError(t, err)

	options := append([]Option{WithLogOutput(&bytes.Buffer{})}, extra...)
	c := NewContainer(opts, trans, options...)
	require.NoError(t, c.RegisterVCSProvider(github.ProviderName, github.NewProviderFactory()))
	return c
}

func TestContainer_GetConfig(t *testing.T) {
	t.Run("flags override the file", func(t *testing.T) {
		path := writeConfig(t, `
language = "en"
[github]
token = "from-file"
repository = "acme/file"
`)
		c := newTestContainer(t, &Options{
			ConfigPath: path,
			Token:      "from-flag",
			Repository: "acme/flag",
			Language:   "es",
		})

		cfg, err := c.GetConfig()

		require.NoError(t, err)
		assert.Equal(t, "from-flag", cfg.GitHub.Token)
		assert.Equal(t, "acme/flag", cfg.GitHub.Repository)
		assert.Equal(t, "es", cfg.Language)
		assert.Equal(t, "Detalles", c.GetTranslations().GetMessage("error_details", 0, nil))
	})

	t.Run("loads only once", func(t *testing.T) {
		c := newTestContainer(t, &Options{ConfigPath: writeConfig(t, "")})

		first, err := c.GetConfig()
		require.NoError(t, err)
		second, err := c.GetConfig()
		require.NoError(t, err)

		assert.Same(t, first, second)
	})

	t.Run("rejects a malformed repository flag", func(t *testing.T) {
		c := newTestContainer(t, &Options{ConfigPath: writeConfig(t, ""), Repository: "not-a-repo"})

		_, err := c.GetConfig()

		assert.ErrorIs(t, err, domainErrors.ErrInvalidRepository)
	})

	t.Run("rejects an unsupported language", func(t *testing.T) {
		c := newTestContainer(t, &Options{ConfigPath: writeConfig(t, ""), Language: "fr"})

		_, err := c.GetConfig()

		assert.ErrorIs(t, err, domainErrors.ErrConfigLoad)
	})
}

func TestContainer_GetVCSClient(t *testing.T) {
	ctx := context.Background()

	t.Run("uses the configured repository", func(t *testing.T) {
		repoInfo := new(mockRepoInfo)
		c := newTestContainer(t, &Options{
			ConfigPath: writeConfig(t, ""),
			Token:      "tok",
			Repository: "acme/widgets",
		}, withRepoInfoProvider(repoInfo))

		client, err := c.GetVCSClient(ctx)

		require.NoError(t, err)
		assert.Equal(t, "acme/widgets", client.Repository())
		repoInfo.AssertNotCalled(t, "GetRepoInfo", mock.Anything)
	})

	t.Run("falls back to the origin remote", func(t *testing.T) {
		repoInfo := new(mockRepoInfo)
		repoInfo.On("GetRepoInfo", mock.Anything).Return("octo", "cat", "github", nil).Once()
		c := newTestContainer(t, &Options{ConfigPath: writeConfig(t, ""), Token: "tok"}, withRepoInfoProvider(repoInfo))

		client, err := c.GetVCSClient(ctx)
		require.NoError(t, err)
		again, err := c.GetVCSClient(ctx)
		require.NoError(t, err)

		assert.Equal(t, "octo/cat", client.Repository())
		assert.Same(t, client, again)
		repoInfo.AssertExpectations(t)
	})

	t.Run("treats unknown hosts as enterprise when an api url is set", func(t *testing.T) {
		repoInfo := new(mockRepoInfo)
		repoInfo.On("GetRepoInfo", mock.Anything).Return("octo", "cat", "unknown", nil)
		path := writeConfig(t, `
[github]
api_url = "https://git.example.com/"
`)
		c := newTestContainer(t, &Options{ConfigPath: path, Token: "tok"}, withRepoInfoProvider(repoInfo))

		client, err := c.GetVCSClient(ctx)

		require.NoError(t, err)
		assert.Equal(t, "octo/cat", client.Repository())
	})

	t.Run("unknown provider", func(t *testing.T) {
		repoInfo := new(mockRepoInfo)
		repoInfo.On("GetRepoInfo", mock.Anything).Return("octo", "cat", "gitlab", nil)
		c := newTestContainer(t, &Options{ConfigPath: writeConfig(t, ""), Token: "tok"}, withRepoInfoProvider(repoInfo))

		_, err := c.GetVCSClient(ctx)

		assert.ErrorIs(t, err, domainErrors.ErrVCSProviderNotSupported)
	})

	t.Run("missing token", func(t *testing.T) {
		c := newTestContainer(t, &Options{ConfigPath: writeConfig(t, ""), Repository: "acme/widgets"})

		_, err := c.GetVCSClient(ctx)

		assert.ErrorIs(t, err, domainErrors.ErrTokenMissing)
	})
}

func TestContainer_GetTagService(t *testing.T) {
	ctx := context.Background()

	t.Run("local operations need no token", func(t *testing.T) {
		c := newTestContainer(t, &Options{ConfigPath: writeConfig(t, "")})

		service, err := c.GetTagService(ctx, false)

		require.NoError(t, err)
		assert.NotNil(t, service)
	})

	t.Run("remote operations need a token", func(t *testing.T) {
		c := newTestContainer(t, &Options{ConfigPath: writeConfig(t, ""), Repository: "acme/widgets"})

		_, err := c.GetTagService(ctx, true)

		assert.ErrorIs(t, err, domainErrors.ErrTokenMissing)
	})
}
