package registry

import (
	"fmt"
	"sort"

	cfg "github.com/Tomas-vilte/cicd-utils/internal/config"
	"github.com/Tomas-vilte/cicd-utils/internal/i18n"
	"github.com/urfave/cli/v3"
)

type CommandFactory interface {
	CreateCommand(t *i18n.Translations, config cfg.Provider) *cli.Command
}

type Registry struct {
	factories map[string]CommandFactory
	config    cfg.Provider
	t         *i18n.Translations
}

func NewRegistry(config cfg.Provider, t *i18n.Translations) *Registry {
	return &Registry{
		factories: make(map[string]CommandFactory),
		config:    config,
		t:         t,
	}
}

func (r *Registry) Register(name string, factory CommandFactory) error {
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("command factory '%s' is already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// CreateCommands builds one command per factory, ordered by registered name.
func (r *Registry) CreateCommands() []*cli.Command {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)

	commands := make([]*cli.Command, 0, len(names))
	for _, name := range names {
		commands = append(commands, r.factories[name].CreateCommand(r.t, r.config))
	}
	return commands
}
