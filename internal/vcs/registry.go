package vcs

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Tomas-vilte/cicd-utils/internal/config"
	domainErrors "github.com/Tomas-vilte/cicd-utils/internal/errors"
)

// ProviderFactory creates clients for one hosting platform.
type ProviderFactory interface {
	// CreateClient creates a client bound to owner/repo.
	CreateClient(ctx context.Context, owner, repo string, cfg *config.Config) (VCSClient, error)

	// ValidateConfig checks the settings this provider needs.
	ValidateConfig(cfg *config.Config) error

	Name() string
}

// ProviderRegistry maps provider names, as detected from remote URLs, to factories.
type ProviderRegistry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		factories: make(map[string]ProviderFactory),
	}
}

func (r *ProviderRegistry) Register(name string, factory ProviderFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("VCS provider '%s' is already registered", name)
	}

	r.factories[name] = factory
	return nil
}

func (r *ProviderRegistry) Get(name string) (ProviderFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factories[name]
	if !exists {
		return nil, domainErrors.ErrVCSProviderNotSupported.WithContext("provider", name)
	}

	return factory, nil
}

// List returns the registered provider names, sorted.
func (r *ProviderRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]string, 0, len(r.factories))
	for name := range r.factories {
		providers = append(providers, name)
	}
	sort.Strings(providers)
	return providers
}

func (r *ProviderRegistry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[name]
	return exists
}

// CreateClient validates cfg for provider and creates a client for owner/repo.
func (r *ProviderRegistry) CreateClient(ctx context.Context, provider, owner, repo string, cfg *config.Config) (VCSClient, error) {
	factory, err := r.Get(provider)
	if err != nil {
		return nil, err
	}

	if err := factory.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return factory.CreateClient(ctx, owner, repo, cfg)
}
