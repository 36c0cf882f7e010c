package di

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/Tomas-vilte/cicd-utils/internal/config"
	domainErrors "github.com/Tomas-vilte/cicd-utils/internal/errors"
	"github.com/Tomas-vilte/cicd-utils/internal/git"
	"github.com/Tomas-vilte/cicd-utils/internal/i18n"
	"github.com/Tomas-vilte/cicd-utils/internal/logger"
	"github.com/Tomas-vilte/cicd-utils/internal/services"
	"github.com/Tomas-vilte/cicd-utils/internal/vcs"
	"github.com/Tomas-vilte/cicd-utils/internal/vcs/github"
)

// Options holds the global flag values. The CLI binds flags to these fields,
// so they are only read once an action runs.
type Options struct {
	ConfigPath string
	Repository string
	Token      string
	Language   string
	Debug      bool
	Verbose    bool
}

// repoInfoProvider resolves owner, name and provider of the current checkout.
type repoInfoProvider interface {
	GetRepoInfo(ctx context.Context) (string, string, string, error)
}

// Container manages the application dependencies. Everything is built lazily.
type Container struct {
	opts         *Options
	translations *i18n.Translations
	logOutput    io.Writer

	vcsRegistry *vcs.ProviderRegistry
	gitService  *git.GitService
	repoInfo    repoInfoProvider

	configOnce sync.Once
	config     *config.Config
	configErr  error

	vcsClient vcs.VCSClient
}

type Option func(*Container)

// WithGitService replaces the git service, and the origin lookup with it.
func WithGitService(gitService *git.GitService) Option {
	return func(c *Container) {
		c.gitService = gitService
		c.repoInfo = gitService
	}
}

// WithLogOutput sets where logs are written. Defaults to stderr.
func WithLogOutput(w io.Writer) Option {
	return func(c *Container) {
		c.logOutput = w
	}
}

func withRepoInfoProvider(p repoInfoProvider) Option {
	return func(c *Container) {
		c.repoInfo = p
	}
}

func NewContainer(opts *Options, trans *i18n.Translations, options ...Option) *Container {
	gitService := git.NewGitService()
	c := &Container{
		opts:         opts,
		translations: trans,
		logOutput:    os.Stderr,
		vcsRegistry:  vcs.NewProviderRegistry(),
		gitService:   gitService,
		repoInfo:     gitService,
	}
	for _, o := range options {
		o(c)
	}
	return c
}

// RegisterVCSProvider registers a VCS provider factory.
func (c *Container) RegisterVCSProvider(name string, factory vcs.ProviderFactory) error {
	return c.vcsRegistry.Register(name, factory)
}

func (c *Container) GetVCSRegistry() *vcs.ProviderRegistry {
	return c.vcsRegistry
}

// GetGitService returns the local git service once the configuration, and
// with it logging, is set up.
func (c *Container) GetGitService() (*git.GitService, error) {
	if _, err := c.GetConfig(); err != nil {
		return nil, err
	}
	return c.gitService, nil
}

func (c *Container) GetTranslations() *i18n.Translations {
	return c.translations
}

// GetConfig loads the configuration once, applying the global flags on top
// of the file and the environment. The logger is initialized on first use.
func (c *Container) GetConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		logger.Initialize(c.logOutput, c.opts.Debug, c.opts.Verbose)
		c.config, c.configErr = c.loadConfig()
	})
	return c.config, c.configErr
}

func (c *Container) loadConfig() (*config.Config, error) {
	path := c.opts.ConfigPath
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, domainErrors.ErrConfigLoad.WithError(err)
		}
		path = config.DefaultPath(homeDir)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if c.opts.Token != "" {
		cfg.GitHub.Token = c.opts.Token
	}
	if c.opts.Repository != "" {
		if _, _, err := config.SplitRepository(c.opts.Repository); err != nil {
			return nil, err
		}
		cfg.GitHub.Repository = c.opts.Repository
	}
	if c.opts.Language != "" {
		cfg.Language = c.opts.Language
	}

	if c.translations != nil {
		if err := c.translations.SetLanguage(cfg.Language); err != nil {
			return nil, domainErrors.ErrConfigLoad.WithError(err).WithContext("language", cfg.Language)
		}
	}

	return cfg, nil
}

// GetVCSClient returns the client for the configured repository, or for the
// origin remote when none is configured.
func (c *Container) GetVCSClient(ctx context.Context) (vcs.VCSClient, error) {
	if c.vcsClient != nil {
		return c.vcsClient, nil
	}

	cfg, err := c.GetConfig()
	if err != nil {
		return nil, err
	}

	owner, repo, provider, err := c.resolveRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client, err := c.vcsRegistry.CreateClient(ctx, provider, owner, repo, cfg)
	if err != nil {
		return nil, err
	}

	logger.Debug(ctx, "vcs client created", "provider", provider, "repo", client.Repository())
	c.vcsClient = client
	return client, nil
}

func (c *Container) resolveRepository(ctx context.Context, cfg *config.Config) (string, string, string, error) {
	if cfg.GitHub.Repository != "" {
		owner, repo, err := config.SplitRepository(cfg.GitHub.Repository)
		return owner, repo, github.ProviderName, err
	}

	owner, repo, provider, err := c.repoInfo.GetRepoInfo(ctx)
	if err != nil {
		return "", "", "", err
	}

	// Enterprise hosts rarely carry "github" in their name.
	if !c.vcsRegistry.IsRegistered(provider) && cfg.GitHub.APIURL != "" {
		provider = github.ProviderName
	}
	return owner, repo, provider, nil
}

func (c *Container) GetPullRequestService(ctx context.Context) (*services.PullRequestService, error) {
	client, err := c.GetVCSClient(ctx)
	if err != nil {
		return nil, err
	}
	return services.NewPullRequestService(services.WithPullRequestVCSClient(client)), nil
}

// GetTagService returns a tag service. Without remote only local git
// operations are available, and no token is needed.
func (c *Container) GetTagService(ctx context.Context, remote bool) (*services.TagService, error) {
	cfg, err := c.GetConfig()
	if err != nil {
		return nil, err
	}

	opts := []services.TagOption{
		services.WithTagGitService(c.gitService),
		services.WithTagConfig(cfg),
	}

	if remote {
		client, err := c.GetVCSClient(ctx)
		if err != nil {
			return nil, err
		}
		opts = append(opts, services.WithTagVCSClient(client))
	}

	return services.NewTagService(opts...), nil
}
