package models

import (
	domainErrors "github.com/Tomas-vilte/cicd-utils/internal/errors"
)

// PullRequestState filters pull requests by state when listing them.
type PullRequestState int

const (
	PullRequestStateOpen PullRequestState = iota
	PullRequestStateClosed
	PullRequestStateAll
)

var pullRequestStateNames = map[PullRequestState]string{
	PullRequestStateOpen:   "open",
	PullRequestStateClosed: "closed",
	PullRequestStateAll:    "all",
}

// String returns the value GitHub expects in the state query parameter.
func (s PullRequestState) String() string {
	if name, ok := pullRequestStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParsePullRequestState is the inverse of PullRequestState.String.
func ParsePullRequestState(s string) (PullRequestState, error) {
	for state, name := range pullRequestStateNames {
		if name == s {
			return state, nil
		}
	}
	return 0, domainErrors.ErrInvalidPullRequestState.WithContext("state", s)
}

type (
	// PullRequest is the subset of a GitHub pull request used for resolution.
	// Number is zero when the API item carried no number.
	PullRequest struct {
		Number  int    `json:"number"`
		Title   string `json:"title"`
		State   string `json:"state"`
		BaseRef string `json:"base_ref"`
		HeadRef string `json:"head_ref"`
		URL     string `json:"url"`
	}

	// LatestPullRequestQuery describes which pull request is considered latest.
	LatestPullRequestQuery struct {
		State                PullRequestState
		HeadBranch           string
		ReleaseBranchPattern string
		MainBranchPattern    string
	}
)
