package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/Tomas-vilte/cicd-utils/internal/config"
	"github.com/Tomas-vilte/cicd-utils/internal/errors"
	"github.com/Tomas-vilte/cicd-utils/internal/logger"
	"github.com/Tomas-vilte/cicd-utils/internal/regex"
)

type GitService struct {
	dir string
}

type Option func(*GitService)

// WithDir runs every git command inside dir instead of the process working
// directory.
func WithDir(dir string) Option {
	return func(s *GitService) {
		s.dir = dir
	}
}

func NewGitService(opts ...Option) *GitService {
	s := &GitService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetLatestVersionTag returns the nearest tag reachable from branch that
// matches the glob pattern. An empty pattern falls back to
// config.DefaultTagPattern.
func (s *GitService) GetLatestVersionTag(ctx context.Context, branch, pattern string) (string, error) {
	if pattern == "" {
		pattern = config.DefaultTagPattern
	}

	out, err := s.run(ctx, "describe", "--match="+pattern, "--abbrev=0", "--tags", branch)
	if err != nil {
		return "", errors.ErrDescribeTag.
			WithError(err.cause).
			WithContext("branch", branch).
			WithContext("pattern", pattern).
			WithContext("stderr", err.stderr)
	}
	return out, nil
}

// GetCommitSHA resolves ref to its full commit hash.
func (s *GitService) GetCommitSHA(ctx context.Context, ref string) (string, error) {
	out, err := s.run(ctx, "rev-parse", ref)
	if err != nil {
		return "", errors.ErrRevParse.
			WithError(err.cause).
			WithContext("ref", ref).
			WithContext("stderr", err.stderr)
	}
	return out, nil
}

// GetRepoInfo returns owner, repository name and provider of the origin remote.
func (s *GitService) GetRepoInfo(ctx context.Context) (string, string, string, error) {
	out, err := s.run(ctx, "remote", "get-url", "origin")
	if err != nil {
		return "", "", "", errors.ErrGetRepoURL.
			WithError(err.cause).
			WithContext("stderr", err.stderr)
	}
	return parseRepoURL(out)
}

type commandError struct {
	cause  error
	stderr string
}

func (s *GitService) run(ctx context.Context, args ...string) (string, *commandError) {
	logger.Debug(ctx, "running git command", "args", strings.Join(args, " "), "dir", s.dir)

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = s.dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &commandError{cause: err, stderr: strings.TrimSpace(stderr.String())}
	}
	return strings.TrimSpace(stdout.String()), nil
}

func parseRepoURL(url string) (string, string, string, error) {
	var matches []string
	if regex.SSHRepo.MatchString(url) {
		matches = regex.SSHRepo.FindStringSubmatch(url)
	} else if regex.HTTPSRepo.MatchString(url) {
		matches = regex.HTTPSRepo.FindStringSubmatch(url)
	}

	if len(matches) >= 4 {
		provider := detectProvider(matches[1])
		repoName := strings.TrimSuffix(matches[3], ".git")
		return matches[2], repoName, provider, nil
	}

	return "", "", "", errors.ErrExtractRepoInfo.WithContext("url", url)
}

func detectProvider(host string) string {
	if strings.Contains(host, "github") {
		return "github"
	}
	if strings.Contains(host, "gitlab") {
		return "gitlab"
	}
	return "unknown"
}
