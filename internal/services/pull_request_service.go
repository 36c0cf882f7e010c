package services

import (
	"context"

	domainErrors "github.com/Tomas-vilte/cicd-utils/internal/errors"
	"github.com/Tomas-vilte/cicd-utils/internal/logger"
	"github.com/Tomas-vilte/cicd-utils/internal/models"
)

// prVCSClient defines the methods needed by PullRequestService from a VCS provider.
type prVCSClient interface {
	Repository() string
	ListPullRequests(ctx context.Context, state models.PullRequestState) ([]models.PullRequest, error)
	AddLabelsToPR(ctx context.Context, prNumber int, labels []string) error
}

type PullRequestService struct {
	vcsClient prVCSClient
}

type PullRequestOption func(*PullRequestService)

func WithPullRequestVCSClient(vcs prVCSClient) PullRequestOption {
	return func(s *PullRequestService) {
		s.vcsClient = vcs
	}
}

func NewPullRequestService(opts ...PullRequestOption) *PullRequestService {
	s := &PullRequestService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchLatestPullRequest returns the highest-numbered pull request whose head
// branch matches query.HeadBranch and whose base branch matches the release
// pattern, or the main pattern when no release-targeting pull request exists.
func (s *PullRequestService) FetchLatestPullRequest(ctx context.Context, query models.LatestPullRequestQuery) (models.PullRequest, error) {
	if s.vcsClient == nil {
		return models.PullRequest{}, domainErrors.ErrTokenMissing
	}

	headFilter, err := HeadRefMatches(query.HeadBranch)
	if err != nil {
		return models.PullRequest{}, err
	}
	releaseFilter, err := BaseRefMatches(query.ReleaseBranchPattern)
	if err != nil {
		return models.PullRequest{}, err
	}
	mainFilter, err := BaseRefMatches(query.MainBranchPattern)
	if err != nil {
		return models.PullRequest{}, err
	}

	prs, err := s.vcsClient.ListPullRequests(ctx, query.State)
	if err != nil {
		return models.PullRequest{}, err
	}

	candidates := FilterPullRequests(prs, headFilter)
	targeted := FirstNonEmpty(candidates, releaseFilter, mainFilter)

	latest, ok := LatestPullRequest(targeted)
	if !ok {
		return models.PullRequest{}, domainErrors.ErrNoPullRequestFound.
			WithContext("repo", s.vcsClient.Repository()).
			WithContext("head_branch", query.HeadBranch).
			WithContext("state", query.State.String())
	}

	logger.Debug(ctx, "resolved latest pull request",
		"repo", s.vcsClient.Repository(),
		"total", len(prs),
		"count", len(candidates),
		"number", latest.Number,
		"base", latest.BaseRef)

	return latest, nil
}

// AddLabels attaches labels to pull request number.
func (s *PullRequestService) AddLabels(ctx context.Context, number int, labels []string) error {
	if s.vcsClient == nil {
		return domainErrors.ErrTokenMissing
	}
	return s.vcsClient.AddLabelsToPR(ctx, number, labels)
}
