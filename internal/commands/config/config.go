package config

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/Tomas-vilte/cicd-utils/internal/commands/completion_helper"
	"github.com/Tomas-vilte/cicd-utils/internal/commands/output"
	cfg "github.com/Tomas-vilte/cicd-utils/internal/config"
	domainErrors "github.com/Tomas-vilte/cicd-utils/internal/errors"
	"github.com/Tomas-vilte/cicd-utils/internal/i18n"
	"github.com/Tomas-vilte/cicd-utils/internal/ui"
	"github.com/urfave/cli/v3"
)

const maskedToken = "********"

type setting struct {
	key   string
	field func(c *cfg.Config) *string
}

// settings lists the keys accepted by config set, named after their TOML path.
var settings = []setting{
	{"language", func(c *cfg.Config) *string { return &c.Language }},
	{"github.api_url", func(c *cfg.Config) *string { return &c.GitHub.APIURL }},
	{"github.repository", func(c *cfg.Config) *string { return &c.GitHub.Repository }},
	{"pull_requests.state", func(c *cfg.Config) *string { return &c.PullRequests.State }},
	{"pull_requests.release_branch_pattern", func(c *cfg.Config) *string { return &c.PullRequests.ReleaseBranchPattern }},
	{"pull_requests.main_branch_pattern", func(c *cfg.Config) *string { return &c.PullRequests.MainBranchPattern }},
	{"tags.pattern", func(c *cfg.Config) *string { return &c.Tags.Pattern }},
	{"tags.remote_pattern", func(c *cfg.Config) *string { return &c.Tags.RemotePattern }},
}

func lookupSetting(key string) (setting, bool) {
	for _, s := range settings {
		if s.key == key {
			return s, true
		}
	}
	return setting{}, false
}

type CommandFactory struct{}

func NewCommandFactory() *CommandFactory {
	return &CommandFactory{}
}

func (f *CommandFactory) CreateCommand(t *i18n.Translations, config cfg.Provider) *cli.Command {
	return &cli.Command{
		Name:          "config",
		Usage:         t.GetMessage("config_command_usage", 0, nil),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Commands: []*cli.Command{
			showCommand(t, config),
			setCommand(t, config),
			pathCommand(t, config),
		},
	}
}

func showCommand(t *i18n.Translations, config cfg.Provider) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("config_show_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			conf, err := config()
			if err != nil {
				return err
			}

			effective := *conf
			if effective.GitHub.Token != "" {
				effective.GitHub.Token = maskedToken
			}
			return toml.NewEncoder(output.Stdout(cmd)).Encode(effective)
		},
	}
}

func setCommand(t *i18n.Translations, config cfg.Provider) *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     t.GetMessage("config_set_usage", 0, nil),
		ArgsUsage: "<key> <value>",
		ShellComplete: func(ctx context.Context, cmd *cli.Command) {
			if cmd.NArg() > 0 {
				return
			}
			for _, s := range settings {
				_, _ = fmt.Fprintln(output.Stdout(cmd), s.key)
			}
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() < 2 {
				return fmt.Errorf("%s", t.GetMessage("error_missing_argument", 0, map[string]interface{}{
					"Name": "key value",
				}))
			}
			key, value := cmd.Args().Get(0), cmd.Args().Get(1)

			s, ok := lookupSetting(key)
			if !ok {
				return domainErrors.ErrUnknownConfigKey.WithContext("key", key)
			}
			if key == "language" {
				if _, err := i18n.NewTranslations(value); err != nil {
					return domainErrors.ErrUnsupportedLanguage.WithError(err).WithContext("language", value)
				}
			}

			effective, err := config()
			if err != nil {
				return err
			}

			// Reload the file so global flag overrides are not persisted.
			stored, err := cfg.LoadConfig(effective.PathFile)
			if err != nil {
				return err
			}
			*s.field(stored) = value

			if err := cfg.SaveConfig(stored); err != nil {
				return err
			}

			ui.PrintSuccess(output.Stderr(cmd), t.GetMessage("config_set_success", 0, map[string]interface{}{
				"Key":   key,
				"Value": value,
				"Path":  stored.PathFile,
			}))
			return nil
		},
	}
}

func pathCommand(t *i18n.Translations, config cfg.Provider) *cli.Command {
	return &cli.Command{
		Name:  "path",
		Usage: t.GetMessage("config_path_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			conf, err := config()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(output.Stdout(cmd), conf.PathFile)
			return err
		},
	}
}
