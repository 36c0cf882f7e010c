package services

import (
	"regexp"

	domainErrors "github.com/Tomas-vilte/cicd-utils/internal/errors"
	"github.com/Tomas-vilte/cicd-utils/internal/models"
	"github.com/Tomas-vilte/cicd-utils/internal/regex"
)

// PullRequestPredicate reports whether a pull request should be kept.
type PullRequestPredicate func(models.PullRequest) bool

// HeadRefMatches keeps pull requests whose head branch fully matches pattern.
// An empty pattern keeps every pull request.
func HeadRefMatches(pattern string) (PullRequestPredicate, error) {
	if pattern == "" {
		return keepAll, nil
	}
	re, err := compileFullMatch("head_branch", pattern)
	if err != nil {
		return nil, err
	}
	return func(pr models.PullRequest) bool {
		return re.MatchString(pr.HeadRef)
	}, nil
}

// BaseRefMatches keeps pull requests whose base branch fully matches pattern.
// An empty pattern keeps every pull request.
func BaseRefMatches(pattern string) (PullRequestPredicate, error) {
	if pattern == "" {
		return keepAll, nil
	}
	re, err := compileFullMatch("base_branch", pattern)
	if err != nil {
		return nil, err
	}
	return func(pr models.PullRequest) bool {
		return re.MatchString(pr.BaseRef)
	}, nil
}

func keepAll(models.PullRequest) bool { return true }

// All keeps a pull request only when every predicate keeps it.
func All(predicates ...PullRequestPredicate) PullRequestPredicate {
	return func(pr models.PullRequest) bool {
		for _, p := range predicates {
			if !p(pr) {
				return false
			}
		}
		return true
	}
}

// FilterPullRequests returns the pull requests kept by predicate, in order.
func FilterPullRequests(prs []models.PullRequest, predicate PullRequestPredicate) []models.PullRequest {
	var kept []models.PullRequest
	for _, pr := range prs {
		if predicate(pr) {
			kept = append(kept, pr)
		}
	}
	return kept
}

// FirstNonEmpty applies each predicate to prs in turn and returns the first
// non-empty selection. Selections are never combined.
func FirstNonEmpty(prs []models.PullRequest, predicates ...PullRequestPredicate) []models.PullRequest {
	for _, p := range predicates {
		if kept := FilterPullRequests(prs, p); len(kept) > 0 {
			return kept
		}
	}
	return nil
}

// LatestPullRequest returns the pull request with the greatest number.
// Pull requests without a number are ignored.
func LatestPullRequest(prs []models.PullRequest) (models.PullRequest, bool) {
	var latest models.PullRequest
	found := false
	for _, pr := range prs {
		if pr.Number == 0 {
			continue
		}
		if !found || pr.Number > latest.Number {
			latest = pr
			found = true
		}
	}
	return latest, found
}

func compileFullMatch(key, pattern string) (*regexp.Regexp, error) {
	re, err := regex.FullMatch(pattern)
	if err != nil {
		return nil, domainErrors.ErrInvalidPattern.
			WithError(err).
			WithContext("key", key).
			WithContext("pattern", pattern)
	}
	return re, nil
}
