package github

import (
	"context"

	"github.com/Tomas-vilte/cicd-utils/internal/config"
	domainErrors "github.com/Tomas-vilte/cicd-utils/internal/errors"
	"github.com/Tomas-vilte/cicd-utils/internal/vcs"
)

const ProviderName = "github"

// ProviderFactory creates GitHub clients from the [github] config section.
type ProviderFactory struct{}

func NewProviderFactory() *ProviderFactory {
	return &ProviderFactory{}
}

func (f *ProviderFactory) CreateClient(_ context.Context, owner, repo string, cfg *config.Config) (vcs.VCSClient, error) {
	var opts []Option
	if cfg.GitHub.APIURL != "" {
		opts = append(opts, WithEnterpriseURL(cfg.GitHub.APIURL))
	}
	return NewGitHubClient(owner, repo, cfg.GitHub.Token, opts...)
}

func (f *ProviderFactory) ValidateConfig(cfg *config.Config) error {
	if cfg == nil || cfg.GitHub.Token == "" {
		return domainErrors.ErrTokenMissing
	}
	return nil
}

func (f *ProviderFactory) Name() string {
	return ProviderName
}
