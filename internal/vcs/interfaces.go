package vcs

import (
	"context"

	"github.com/Tomas-vilte/cicd-utils/internal/models"
)

// VCSClient defines the hosting-platform operations used by CI helpers.
type VCSClient interface {
	// Repository returns the owner/name the client is bound to.
	Repository() string
	// ListPullRequests returns every pull request in the given state.
	ListPullRequests(ctx context.Context, state models.PullRequestState) ([]models.PullRequest, error)
	// AddLabelsToPR adds labels to a pull request.
	AddLabelsToPR(ctx context.Context, prNumber int, labels []string) error
	// ListTags returns every tag of the repository in the provider's order.
	ListTags(ctx context.Context) ([]models.Tag, error)
	// PushTag creates a tag pointing at sha.
	PushTag(ctx context.Context, tag, sha string) error
}
