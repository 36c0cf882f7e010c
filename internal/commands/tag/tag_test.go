package tag

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/Tomas-vilte/cicd-utils/internal/config"
	domainErrors "github.com/Tomas-vilte/cicd-utils/internal/errors"
	"github.com/Tomas-vilte/cicd-utils/internal/i18n"
	"github.com/Tomas-vilte/cicd-utils/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

type MockTagService struct {
	mock.Mock
}

func (m *MockTagService) LatestTag(ctx context.Context, branch, pattern string) (string, error) {
	args := m.Called(ctx, branch, pattern)
	return args.String(0), args.Error(1)
}

func (m *MockTagService) CommitSHA(ctx context.Context, ref string) (string, error) {
	args := m.Called(ctx, ref)
	return args.String(0), args.Error(1)
}

func (m *MockTagService) FindTag(ctx context.Context, pattern, sha string) (string, bool, error) {
	args := m.Called(ctx, pattern, sha)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockTagService) PushTag(ctx context.Context, tag, sha string) error {
	args := m.Called(ctx, tag, sha)
	return args.Error(0)
}

func (m *MockTagService) TagRelease(ctx context.Context, branch, pattern string, bump models.BumpType) (models.TagResult, error) {
	args := m.Called(ctx, branch, pattern, bump)
	return args.Get(0).(models.TagResult), args.Error(1)
}

type testCommand struct {
	cmd     *cli.Command
	service *MockTagService
	remote  []bool
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
}

func setupTagTest(t *testing.T) *testCommand {
	t.Helper()
	color.NoColor = true

	translations, err := i18n.NewTranslations("en")
	require.NoError(t, err)

	tc := &testCommand{service: new(MockTagService), stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	factory := NewCommandFactory(func(ctx context.Context, remote bool) (TagService, error) {
		tc.remote = append(tc.remote, remote)
		return tc.service, nil
	})
	tc.cmd = factory.CreateCommand(translations, func() (*config.Config, error) { return config.Default(), nil })
	tc.cmd.Writer = tc.stdout
	tc.cmd.ErrWriter = tc.stderr
	return tc
}

func TestLatestCommand(t *testing.T) {
	t.Run("should print the latest local tag", func(t *testing.T) {
		tc := setupTagTest(t)
		tc.service.On("LatestTag", mock.Anything, "HEAD", "").Return("v1.2.3", nil).Once()

		err := tc.cmd.Run(context.Background(), []string{"tag", "latest"})

		require.NoError(t, err)
		assert.Equal(t, "v1.2.3\n", tc.stdout.String())
		assert.Equal(t, []bool{false}, tc.remote)
	})

	t.Run("should pass branch and glob", func(t *testing.T) {
		tc := setupTagTest(t)
		tc.service.On("LatestTag", mock.Anything, "release/1.0", "v1.*").Return("v1.9.0", nil).Once()

		err := tc.cmd.Run(context.Background(), []string{"tag", "latest", "--branch", "release/1.0", "--pattern", "v1.*"})

		require.NoError(t, err)
		assert.Equal(t, "v1.9.0\n", tc.stdout.String())
	})

	t.Run("should propagate git errors", func(t *testing.T) {
		tc := setupTagTest(t)
		tc.service.On("LatestTag", mock.Anything, "HEAD", "").Return("", domainErrors.ErrDescribeTag)

		err := tc.cmd.Run(context.Background(), []string{"tag", "latest"})

		assert.ErrorIs(t, err, domainErrors.ErrDescribeTag)
	})
}

func TestFindCommand(t *testing.T) {
	t.Run("should use the sha and configured pattern", func(t *testing.T) {
		tc := setupTagTest(t)
		tc.service.On("FindTag", mock.Anything, "v", "abc").Return("v1.2.3", true, nil).Once()

		err := tc.cmd.Run(context.Background(), []string{"tag", "find", "--sha", "abc"})

		require.NoError(t, err)
		assert.Equal(t, "v1.2.3\n", tc.stdout.String())
		assert.Equal(t, []bool{true}, tc.remote)
		tc.service.AssertNotCalled(t, "CommitSHA", mock.Anything, mock.Anything)
	})

	t.Run("should resolve the branch when no sha is given", func(t *testing.T) {
		tc := setupTagTest(t)
		tc.service.On("CommitSHA", mock.Anything, "main").Return("def", nil).Once()
		tc.service.On("FindTag", mock.Anything, `v1\.`, "def").Return("v1.0.0", true, nil).Once()

		err := tc.cmd.Run(context.Background(), []string{"tag", "find", "--branch", "main", "--pattern", `v1\.`})

		require.NoError(t, err)
		assert.Equal(t, "v1.0.0\n", tc.stdout.String())
		tc.service.AssertExpectations(t)
	})

	t.Run("should report absence without failing", func(t *testing.T) {
		tc := setupTagTest(t)
		tc.service.On("FindTag", mock.Anything, "v", "abc").Return("", false, nil).Once()

		err := tc.cmd.Run(context.Background(), []string{"tag", "find", "--sha", "abc"})

		require.NoError(t, err)
		assert.Empty(t, tc.stdout.String())
		assert.Contains(t, tc.stderr.String(), "No tag matching v points at abc")
	})
}

func TestPushCommand(t *testing.T) {
	t.Run("should push the tag at the given sha", func(t *testing.T) {
		tc := setupTagTest(t)
		tc.service.On("PushTag", mock.Anything, "v1.3.0", "abc").Return(nil).Once()

		err := tc.cmd.Run(context.Background(), []string{"tag", "push", "--tag", "v1.3.0", "--sha", "abc"})

		require.NoError(t, err)
		assert.Contains(t, tc.stderr.String(), "Created tag v1.3.0 at abc")
		tc.service.AssertExpectations(t)
	})

	t.Run("should resolve HEAD by default", func(t *testing.T) {
		tc := setupTagTest(t)
		tc.service.On("CommitSHA", mock.Anything, "HEAD").Return("fff", nil).Once()
		tc.service.On("PushTag", mock.Anything, "v2.0.0", "fff").Return(nil).Once()

		err := tc.cmd.Run(context.Background(), []string{"tag", "push", "-t", "v2.0.0"})

		require.NoError(t, err)
		tc.service.AssertExpectations(t)
	})

	t.Run("should propagate rejection", func(t *testing.T) {
		tc := setupTagTest(t)
		tc.service.On("PushTag", mock.Anything, "v1.3.0", "abc").Return(domainErrors.ErrTagRefRejected)

		err := tc.cmd.Run(context.Background(), []string{"tag", "push", "--tag", "v1.3.0", "--sha", "abc"})

		assert.ErrorIs(t, err, domainErrors.ErrTagRefRejected)
	})
}

func TestReleaseCommand(t *testing.T) {
	t.Run("should create the next tag", func(t *testing.T) {
		tc := setupTagTest(t)
		tc.service.On("TagRelease", mock.Anything, "HEAD", "v", models.BumpMinor).
			Return(models.TagResult{Tag: "v1.3.0", CommitSHA: "abc", Created: true}, nil).Once()

		err := tc.cmd.Run(context.Background(), []string{"tag", "release", "--bump", "minor"})

		require.NoError(t, err)
		assert.Equal(t, "v1.3.0\n", tc.stdout.String())
		assert.Contains(t, tc.stderr.String(), "Created tag v1.3.0 at abc")
	})

	t.Run("should report an existing tag", func(t *testing.T) {
		tc := setupTagTest(t)
		result := models.TagResult{Tag: "v1.2.3", CommitSHA: "abc"}
		tc.service.On("TagRelease", mock.Anything, "main", "v", models.BumpPatch).Return(result, nil).Once()

		err := tc.cmd.Run(context.Background(), []string{"tag", "release", "--branch", "main", "--json"})

		require.NoError(t, err)
		var got models.TagResult
		require.NoError(t, json.Unmarshal(tc.stdout.Bytes(), &got))
		assert.Equal(t, result, got)
		assert.Contains(t, tc.stderr.String(), "already tagged as v1.2.3")
	})

	t.Run("should reject an unknown bump", func(t *testing.T) {
		tc := setupTagTest(t)

		err := tc.cmd.Run(context.Background(), []string{"tag", "release", "--bump", "huge"})

		assert.ErrorIs(t, err, domainErrors.ErrInvalidBump)
		assert.Empty(t, tc.remote)
	})
}
