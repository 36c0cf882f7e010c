package github

import (
	"context"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/mock"
)

type MockPRService struct {
	mock.Mock
}

func (m *MockPRService) List(ctx context.Context, owner, repo string, opts *github.PullRequestListOptions) ([]*github.PullRequest, *github.Response, error) {
	args := m.Called(ctx, owner, repo, opts)
	prs, _ := args.Get(0).([]*github.PullRequest)
	resp, _ := args.Get(1).(*github.Response)
	return prs, resp, args.Error(2)
}

type MockIssuesService struct {
	mock.Mock
}

func (m *MockIssuesService) AddLabels(ctx context.Context, owner, repo string, number int, labels []string) (*github.Response, error) {
	args := m.Called(ctx, owner, repo, number, labels)
	resp, _ := args.Get(0).(*github.Response)
	return resp, args.Error(1)
}

type MockRepoService struct {
	mock.Mock
}

func (m *MockRepoService) ListTags(ctx context.Context, owner, repo string, opts *github.ListOptions) ([]*github.RepositoryTag, *github.Response, error) {
	args := m.Called(ctx, owner, repo, opts)
	tags, _ := args.Get(0).([]*github.RepositoryTag)
	resp, _ := args.Get(1).(*github.Response)
	return tags, resp, args.Error(2)
}

type MockGitService struct {
	mock.Mock
}

func (m *MockGitService) CreateRef(ctx context.Context, owner, repo string, ref github.CreateRef) (*github.Reference, *github.Response, error) {
	args := m.Called(ctx, owner, repo, ref)
	created, _ := args.Get(0).(*github.Reference)
	resp, _ := args.Get(1).(*github.Response)
	return created, resp, args.Error(2)
}
