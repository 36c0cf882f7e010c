package services

import (
	"context"

	"github.com/Tomas-vilte/cicd-utils/internal/models"
	"github.com/stretchr/testify/mock"
)

type (
	MockVCSClient struct {
		mock.Mock
	}

	MockGitService struct {
		mock.Mock
	}
)

func (m *MockVCSClient) Repository() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockVCSClient) ListPullRequests(ctx context.Context, state models.PullRequestState) ([]models.PullRequest, error) {
	args := m.Called(ctx, state)
	if prs, ok := args.Get(0).([]models.PullRequest); ok {
		return prs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVCSClient) AddLabelsToPR(ctx context.Context, prNumber int, labels []string) error {
	args := m.Called(ctx, prNumber, labels)
	return args.Error(0)
}

func (m *MockVCSClient) ListTags(ctx context.Context) ([]models.Tag, error) {
	args := m.Called(ctx)
	if tags, ok := args.Get(0).([]models.Tag); ok {
		return tags, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVCSClient) PushTag(ctx context.Context, tag, sha string) error {
	args := m.Called(ctx, tag, sha)
	return args.Error(0)
}

func (m *MockGitService) GetLatestVersionTag(ctx context.Context, branch, pattern string) (string, error) {
	args := m.Called(ctx, branch, pattern)
	return args.String(0), args.Error(1)
}

func (m *MockGitService) GetCommitSHA(ctx context.Context, ref string) (string, error) {
	args := m.Called(ctx, ref)
	return args.String(0), args.Error(1)
}
