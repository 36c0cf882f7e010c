package services

import (
	"context"

	"github.com/Tomas-vilte/cicd-utils/internal/config"
	domainErrors "github.com/Tomas-vilte/cicd-utils/internal/errors"
	"github.com/Tomas-vilte/cicd-utils/internal/logger"
	"github.com/Tomas-vilte/cicd-utils/internal/models"
	"github.com/Tomas-vilte/cicd-utils/internal/regex"
)

// tagVCSClient defines the methods needed by TagService from a VCS provider.
type tagVCSClient interface {
	Repository() string
	ListTags(ctx context.Context) ([]models.Tag, error)
	PushTag(ctx context.Context, tag, sha string) error
}

// tagGitService defines the local git operations needed by TagService.
type tagGitService interface {
	GetLatestVersionTag(ctx context.Context, branch, pattern string) (string, error)
	GetCommitSHA(ctx context.Context, ref string) (string, error)
}

type TagService struct {
	vcsClient  tagVCSClient
	git        tagGitService
	tagPattern string
}

type TagOption func(*TagService)

func WithTagVCSClient(vcs tagVCSClient) TagOption {
	return func(s *TagService) {
		s.vcsClient = vcs
	}
}

func WithTagGitService(git tagGitService) TagOption {
	return func(s *TagService) {
		s.git = git
	}
}

// WithTagConfig takes the describe glob used for local version tags.
func WithTagConfig(cfg *config.Config) TagOption {
	return func(s *TagService) {
		if cfg != nil && cfg.Tags.Pattern != "" {
			s.tagPattern = cfg.Tags.Pattern
		}
	}
}

func NewTagService(opts ...TagOption) *TagService {
	s := &TagService{tagPattern: config.DefaultTagPattern}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindTag returns the first remote tag, in API order, that points at sha and
// whose name matches pattern from its first character. The match is not
// anchored at the end.
func (s *TagService) FindTag(ctx context.Context, pattern, sha string) (string, bool, error) {
	if s.vcsClient == nil {
		return "", false, domainErrors.ErrTokenMissing
	}

	re, err := regex.PrefixMatch(pattern)
	if err != nil {
		return "", false, domainErrors.ErrInvalidPattern.
			WithError(err).
			WithContext("key", "tag_pattern").
			WithContext("pattern", pattern)
	}

	tags, err := s.vcsClient.ListTags(ctx)
	if err != nil {
		return "", false, err
	}

	for _, tag := range tags {
		if tag.CommitSHA == sha && re.MatchString(tag.Name) {
			logger.Debug(ctx, "found remote tag", "repo", s.vcsClient.Repository(), "tag", tag.Name, "sha", sha)
			return tag.Name, true, nil
		}
	}

	logger.Debug(ctx, "no remote tag for commit", "repo", s.vcsClient.Repository(), "sha", sha, "count", len(tags))
	return "", false, nil
}

// PushTag creates tag on the remote pointing at sha.
func (s *TagService) PushTag(ctx context.Context, tag, sha string) error {
	if s.vcsClient == nil {
		return domainErrors.ErrTokenMissing
	}
	return s.vcsClient.PushTag(ctx, tag, sha)
}

// LatestTag returns the most recent tag matching the describe glob that is
// reachable from branch. An empty pattern uses the configured one.
func (s *TagService) LatestTag(ctx context.Context, branch, pattern string) (string, error) {
	if pattern == "" {
		pattern = s.tagPattern
	}
	return s.git.GetLatestVersionTag(ctx, branch, pattern)
}

func (s *TagService) CommitSHA(ctx context.Context, ref string) (string, error) {
	return s.git.GetCommitSHA(ctx, ref)
}

// LatestVersion parses the most recent local version tag reachable from branch.
func (s *TagService) LatestVersion(ctx context.Context, branch string) (models.SemanticVersion, error) {
	tag, err := s.LatestTag(ctx, branch, "")
	if err != nil {
		return models.SemanticVersion{}, err
	}
	return models.ParseSemanticVersion(tag)
}

// NextVersion bumps the latest local version tag reachable from branch.
func (s *TagService) NextVersion(ctx context.Context, branch string, bump models.BumpType) (models.SemanticVersion, error) {
	current, err := s.LatestVersion(ctx, branch)
	if err != nil {
		return models.SemanticVersion{}, err
	}

	next, err := current.Bump(bump)
	if err != nil {
		return models.SemanticVersion{}, err
	}

	logger.Debug(ctx, "computed next version", "branch", branch, "current", current.String(), "next", next.String())
	return next, nil
}

// TagRelease tags the commit at branch with the next version unless a remote
// tag matching pattern already points at it.
func (s *TagService) TagRelease(ctx context.Context, branch, pattern string, bump models.BumpType) (models.TagResult, error) {
	sha, err := s.git.GetCommitSHA(ctx, branch)
	if err != nil {
		return models.TagResult{}, err
	}

	existing, found, err := s.FindTag(ctx, pattern, sha)
	if err != nil {
		return models.TagResult{}, err
	}
	if found {
		logger.Info(ctx, "commit already tagged", "tag", existing, "sha", sha)
		return models.TagResult{Tag: existing, CommitSHA: sha}, nil
	}

	next, err := s.NextVersion(ctx, branch, bump)
	if err != nil {
		return models.TagResult{}, err
	}

	if err := s.PushTag(ctx, next.String(), sha); err != nil {
		return models.TagResult{}, err
	}

	return models.TagResult{Tag: next.String(), CommitSHA: sha, Created: true}, nil
}
