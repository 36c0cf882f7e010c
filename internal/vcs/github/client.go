package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v80/github"
	domainErrors "github.com/Tomas-vilte/cicd-utils/internal/errors"
	"github.com/Tomas-vilte/cicd-utils/internal/logger"
	"github.com/Tomas-vilte/cicd-utils/internal/models"
	"github.com/Tomas-vilte/cicd-utils/internal/vcs"
)

var _ vcs.VCSClient = (*GitHubClient)(nil)

const perPage = 100

type PullRequestsService interface {
	List(ctx context.Context, owner, repo string, opts *github.PullRequestListOptions) ([]*github.PullRequest, *github.Response, error)
}

// IssuesService adds labels to an issue or pull request.
type IssuesService interface {
	AddLabels(ctx context.Context, owner, repo string, number int, labels []string) (*github.Response, error)
}

type RepositoriesService interface {
	ListTags(ctx context.Context, owner, repo string, opts *github.ListOptions) ([]*github.RepositoryTag, *github.Response, error)
}

type GitService interface {
	CreateRef(ctx context.Context, owner, repo string, ref github.CreateRef) (*github.Reference, *github.Response, error)
}

type GitHubClient struct {
	prService     PullRequestsService
	issuesService IssuesService
	repoService   RepositoriesService
	gitService    GitService
	owner         string
	repo          string
}

type clientOptions struct {
	apiURL string
}

type Option func(*clientOptions)

// WithEnterpriseURL targets a GitHub Enterprise server instead of api.github.com.
func WithEnterpriseURL(apiURL string) Option {
	return func(o *clientOptions) {
		o.apiURL = apiURL
	}
}

func NewGitHubClient(owner, repo, token string, opts ...Option) (*GitHubClient, error) {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	client := github.NewClient(newHTTPClient(token, nil))
	if o.apiURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(o.apiURL, o.apiURL)
		if err != nil {
			return nil, domainErrors.ErrGitHubRequest.
				WithError(err).
				WithContext("api_url", o.apiURL).
				WithSuggestion("Check [github].api_url in the config file")
		}
	}

	return &GitHubClient{
		prService:     client.PullRequests,
		issuesService: &labelsService{client: client},
		repoService:   client.Repositories,
		gitService:    client.Git,
		owner:         owner,
		repo:          repo,
	}, nil
}

func NewGitHubClientWithServices(
	prService PullRequestsService,
	issuesService IssuesService,
	repoService RepositoriesService,
	gitService GitService,
	owner string,
	repo string,
) *GitHubClient {
	return &GitHubClient{
		prService:     prService,
		issuesService: issuesService,
		repoService:   repoService,
		gitService:    gitService,
		owner:         owner,
		repo:          repo,
	}
}

// Repository returns owner/name.
func (ghc *GitHubClient) Repository() string {
	return fmt.Sprintf("%s/%s", ghc.owner, ghc.repo)
}

// ListPullRequests fetches every page of pull requests in the given state.
func (ghc *GitHubClient) ListPullRequests(ctx context.Context, state models.PullRequestState) ([]models.PullRequest, error) {
	log := logger.FromContext(ctx)

	opts := &github.PullRequestListOptions{
		State:       state.String(),
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var all []models.PullRequest
	for {
		prs, resp, err := ghc.prService.List(ctx, ghc.owner, ghc.repo, opts)
		if err != nil {
			return nil, ghc.wrapError("list pull requests", resp, err)
		}

		for _, pr := range prs {
			all = append(all, toPullRequest(pr))
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	log.Debug("fetched github pull requests",
		"repo", ghc.Repository(),
		"state", state.String(),
		"count", len(all))

	return all, nil
}

// AddLabelsToPR adds labels to a pull request in a single request. Labels are
// sent as given.
func (ghc *GitHubClient) AddLabelsToPR(ctx context.Context, prNumber int, labels []string) error {
	resp, err := ghc.issuesService.AddLabels(ctx, ghc.owner, ghc.repo, prNumber, labels)
	if err != nil {
		return ghc.wrapError("add labels", resp, err).WithContext("pr_number", prNumber)
	}

	logger.Debug(ctx, "labels added", "repo", ghc.Repository(), "pr_number", prNumber, "labels", labels)
	return nil
}

// ListTags fetches every page of repository tags, in API order.
func (ghc *GitHubClient) ListTags(ctx context.Context) ([]models.Tag, error) {
	opts := &github.ListOptions{PerPage: perPage}

	var all []models.Tag
	for {
		tags, resp, err := ghc.repoService.ListTags(ctx, ghc.owner, ghc.repo, opts)
		if err != nil {
			return nil, ghc.wrapError("list tags", resp, err)
		}

		for _, tag := range tags {
			all = append(all, models.Tag{
				Name:      tag.GetName(),
				CommitSHA: tag.GetCommit().GetSHA(),
			})
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	logger.Debug(ctx, "fetched github tags", "repo", ghc.Repository(), "count", len(all))
	return all, nil
}

// PushTag creates refs/tags/{tag} pointing at sha.
func (ghc *GitHubClient) PushTag(ctx context.Context, tag, sha string) error {
	_, resp, err := ghc.gitService.CreateRef(ctx, ghc.owner, ghc.repo, github.CreateRef{
		Ref: "refs/tags/" + tag,
		SHA: sha,
	})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnprocessableEntity {
			return domainErrors.ErrTagRefRejected.
				WithError(err).
				WithContext("status_code", resp.StatusCode).
				WithContext("tag", tag).
				WithContext("sha", sha).
				WithContext("repo", ghc.Repository())
		}
		return ghc.wrapError("push tag", resp, err).WithContext("tag", tag)
	}

	logger.Info(ctx, "tag pushed", "repo", ghc.Repository(), "tag", tag, "sha", sha)
	return nil
}

func (ghc *GitHubClient) wrapError(operation string, resp *github.Response, err error) *domainErrors.AppError {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return domainErrors.ErrGitHubRateLimit.
			WithError(err).
			WithContext("operation", operation).
			WithContext("repo", ghc.Repository())
	}

	base := domainErrors.ErrGitHubRequest
	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			base = domainErrors.ErrGitHubTokenInvalid
		case http.StatusForbidden:
			base = domainErrors.ErrGitHubInsufficientPerms
		case http.StatusNotFound:
			base = domainErrors.ErrRepositoryNotFound
		case http.StatusTooManyRequests:
			base = domainErrors.ErrGitHubRateLimit.WithContext("retry_after", resp.Header.Get("Retry-After"))
		}
	}

	return base.
		WithError(err).
		WithContext("operation", operation).
		WithContext("status_code", statusCode).
		WithContext("repo", ghc.Repository())
}

func toPullRequest(pr *github.PullRequest) models.PullRequest {
	return models.PullRequest{
		Number:  pr.GetNumber(),
		Title:   pr.GetTitle(),
		State:   pr.GetState(),
		BaseRef: pr.GetBase().GetRef(),
		HeadRef: pr.GetHead().GetRef(),
		URL:     pr.GetHTMLURL(),
	}
}
