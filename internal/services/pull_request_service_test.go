package services

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/Tomas-vilte/cicd-utils/internal/errors"
	"github.com/Tomas-vilte/cicd-utils/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func defaultQuery(head string) models.LatestPullRequestQuery {
	return models.LatestPullRequestQuery{
		State:                models.PullRequestStateAll,
		HeadBranch:           head,
		ReleaseBranchPattern: "release/.*",
		MainBranchPattern:    "main|master",
	}
}

func newPullRequestService(prs []models.PullRequest) (*PullRequestService, *MockVCSClient) {
	mockVCS := new(MockVCSClient)
	mockVCS.On("Repository").Return("acme/widgets").Maybe()
	mockVCS.On("ListPullRequests", mock.Anything, models.PullRequestStateAll).Return(prs, nil)
	return NewPullRequestService(WithPullRequestVCSClient(mockVCS)), mockVCS
}

func TestPullRequestService_FetchLatestPullRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("release branch takes precedence", func(t *testing.T) {
		service, mockVCS := newPullRequestService([]models.PullRequest{
			pr(3, "feature/x", "release/1.0"),
			pr(5, "feature/x", "release/1.1"),
			pr(7, "feature/x", "main"),
		})

		latest, err := service.FetchLatestPullRequest(ctx, defaultQuery("feature/x"))

		require.NoError(t, err)
		assert.Equal(t, 5, latest.Number)
		mockVCS.AssertExpectations(t)
	})

	t.Run("falls back to main when nothing targets a release", func(t *testing.T) {
		service, _ := newPullRequestService([]models.PullRequest{
			pr(3, "feature/x", "main"),
			pr(2, "feature/x", "master"),
			pr(8, "feature/x", "develop"),
		})

		latest, err := service.FetchLatestPullRequest(ctx, defaultQuery("feature/x"))

		require.NoError(t, err)
		assert.Equal(t, 3, latest.Number)
	})

	t.Run("head filter applies before base selection", func(t *testing.T) {
		service, _ := newPullRequestService([]models.PullRequest{
			pr(9, "feature/y", "release/2.0"),
			pr(4, "feature/x", "main"),
		})

		latest, err := service.FetchLatestPullRequest(ctx, defaultQuery("feature/x"))

		require.NoError(t, err)
		assert.Equal(t, 4, latest.Number)
	})

	t.Run("empty head pattern keeps every head branch", func(t *testing.T) {
		service, _ := newPullRequestService([]models.PullRequest{
			pr(7, "feature/x", "main"),
		})

		latest, err := service.FetchLatestPullRequest(ctx, defaultQuery(""))

		require.NoError(t, err)
		assert.Equal(t, 7, latest.Number)
	})

	t.Run("empty release pattern keeps every base branch", func(t *testing.T) {
		service, _ := newPullRequestService([]models.PullRequest{
			pr(3, "feature/x", "main"),
			pr(8, "feature/x", "develop"),
		})
		query := defaultQuery("feature/x")
		query.ReleaseBranchPattern = ""

		latest, err := service.FetchLatestPullRequest(ctx, query)

		require.NoError(t, err)
		assert.Equal(t, 8, latest.Number)
	})

	t.Run("unbalanced pattern fails before listing", func(t *testing.T) {
		mockVCS := new(MockVCSClient)
		service := NewPullRequestService(WithPullRequestVCSClient(mockVCS))

		_, err := service.FetchLatestPullRequest(ctx, defaultQuery("zzz)|(.*"))

		assert.ErrorIs(t, err, domainErrors.ErrInvalidPattern)
		mockVCS.AssertNotCalled(t, "ListPullRequests", mock.Anything, mock.Anything)
	})

	t.Run("no candidates", func(t *testing.T) {
		service, _ := newPullRequestService([]models.PullRequest{})

		_, err := service.FetchLatestPullRequest(ctx, defaultQuery("feature/x"))

		assert.ErrorIs(t, err, domainErrors.ErrNoPullRequestFound)
		var appErr *domainErrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, domainErrors.TypeNotFound, appErr.Type)
		assert.Equal(t, "feature/x", appErr.Context["head_branch"])
	})

	t.Run("only unnumbered candidates", func(t *testing.T) {
		service, _ := newPullRequestService([]models.PullRequest{pr(0, "feature/x", "main")})

		_, err := service.FetchLatestPullRequest(ctx, defaultQuery("feature/x"))

		assert.ErrorIs(t, err, domainErrors.ErrNoPullRequestFound)
	})

	t.Run("invalid pattern fails before any request", func(t *testing.T) {
		mockVCS := new(MockVCSClient)
		service := NewPullRequestService(WithPullRequestVCSClient(mockVCS))
		query := defaultQuery("feature/x")
		query.ReleaseBranchPattern = "release/("

		_, err := service.FetchLatestPullRequest(ctx, query)

		assert.ErrorIs(t, err, domainErrors.ErrInvalidPattern)
		mockVCS.AssertNotCalled(t, "ListPullRequests", mock.Anything, mock.Anything)
	})

	t.Run("propagates listing errors", func(t *testing.T) {
		mockVCS := new(MockVCSClient)
		listErr := domainErrors.ErrGitHubTokenInvalid.WithError(errors.New("401"))
		mockVCS.On("ListPullRequests", mock.Anything, models.PullRequestStateOpen).Return(nil, listErr)
		service := NewPullRequestService(WithPullRequestVCSClient(mockVCS))
		query := defaultQuery("feature/x")
		query.State = models.PullRequestStateOpen

		_, err := service.FetchLatestPullRequest(ctx, query)

		assert.ErrorIs(t, err, domainErrors.ErrGitHubTokenInvalid)
	})

	t.Run("requires a client", func(t *testing.T) {
		_, err := NewPullRequestService().FetchLatestPullRequest(ctx, defaultQuery("feature/x"))

		assert.ErrorIs(t, err, domainErrors.ErrTokenMissing)
	})
}

func TestPullRequestService_AddLabels(t *testing.T) {
	ctx := context.Background()

	t.Run("forwards labels in one call", func(t *testing.T) {
		mockVCS := new(MockVCSClient)
		mockVCS.On("AddLabelsToPR", ctx, 12, []string{"bug", "urgent"}).Return(nil).Once()
		service := NewPullRequestService(WithPullRequestVCSClient(mockVCS))

		err := service.AddLabels(ctx, 12, []string{"bug", "urgent"})

		assert.NoError(t, err)
		mockVCS.AssertExpectations(t)
	})

	t.Run("propagates errors", func(t *testing.T) {
		mockVCS := new(MockVCSClient)
		mockVCS.On("AddLabelsToPR", ctx, 12, []string{"bug"}).Return(domainErrors.ErrRepositoryNotFound)
		service := NewPullRequestService(WithPullRequestVCSClient(mockVCS))

		err := service.AddLabels(ctx, 12, []string{"bug"})

		assert.ErrorIs(t, err, domainErrors.ErrRepositoryNotFound)
	})
}
