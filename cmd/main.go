package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Tomas-vilte/cicd-utils/internal/commands/commit"
	"github.com/Tomas-vilte/cicd-utils/internal/commands/completion"
	"github.com/Tomas-vilte/cicd-utils/internal/commands/completion_helper"
	configcmd "github.com/Tomas-vilte/cicd-utils/internal/commands/config"
	"github.com/Tomas-vilte/cicd-utils/internal/commands/pr"
	"github.com/Tomas-vilte/cicd-utils/internal/commands/registry"
	"github.com/Tomas-vilte/cicd-utils/internal/commands/tag"
	versioncmd "github.com/Tomas-vilte/cicd-utils/internal/commands/version"
	cfg "github.com/Tomas-vilte/cicd-utils/internal/config"
	"github.com/Tomas-vilte/cicd-utils/internal/i18n"
	"github.com/Tomas-vilte/cicd-utils/internal/infrastructure/di"
	"github.com/Tomas-vilte/cicd-utils/internal/ui"
	"github.com/Tomas-vilte/cicd-utils/internal/vcs/github"
	"github.com/Tomas-vilte/cicd-utils/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	translations, err := i18n.NewTranslations(startupLanguage())
	if err != nil {
		ui.HandleAppError(stderr, err, nil)
		return 1
	}

	app, err := initializeApp(translations, stdout, stderr)
	if err != nil {
		ui.HandleAppError(stderr, err, translations)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		ui.HandleAppError(stderr, err, translations)
		return 1
	}
	return 0
}

// startupLanguage picks the language for help texts from the default config
// file. --lang and --config only apply once a command runs.
func startupLanguage() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return cfg.DefaultLanguage
	}
	conf, err := cfg.LoadConfig(cfg.DefaultPath(homeDir))
	if err != nil {
		return cfg.DefaultLanguage
	}
	return conf.Language
}

func initializeApp(translations *i18n.Translations, stdout, stderr io.Writer) (*cli.Command, error) {
	opts := &di.Options{}
	container := di.NewContainer(opts, translations, di.WithLogOutput(stderr))

	if err := container.RegisterVCSProvider(github.ProviderName, github.NewProviderFactory()); err != nil {
		return nil, err
	}

	prProvider := func(ctx context.Context) (pr.PullRequestService, error) {
		service, err := container.GetPullRequestService(ctx)
		if err != nil {
			return nil, err
		}
		return service, nil
	}

	tagProvider := func(ctx context.Context, remote bool) (tag.TagService, error) {
		service, err := container.GetTagService(ctx, remote)
		if err != nil {
			return nil, err
		}
		return service, nil
	}

	commitProvider := func(ctx context.Context) (commit.Resolver, error) {
		gitService, err := container.GetGitService()
		if err != nil {
			return nil, err
		}
		return gitService, nil
	}

	registerCommand := registry.NewRegistry(container.GetConfig, translations)

	factories := map[string]registry.CommandFactory{
		"pr":         pr.NewCommandFactory(prProvider),
		"tag":        tag.NewCommandFactory(tagProvider),
		"commit":     commit.NewCommandFactory(commitProvider),
		"version":    versioncmd.NewCommandFactory(),
		"config":     configcmd.NewCommandFactory(),
		"completion": completion.NewCommandFactory(),
	}
	for name, factory := range factories {
		if err := registerCommand.Register(name, factory); err != nil {
			return nil, err
		}
	}

	return &cli.Command{
		Name:                  "cicd-utils",
		Usage:                 translations.GetMessage("app_description", 0, nil),
		Version:               version.FullVersion(),
		Writer:                stdout,
		ErrWriter:             stderr,
		EnableShellCompletion: true,
		ShellComplete:         completion_helper.DefaultFlagComplete,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Usage:       translations.GetMessage("flag_config", 0, nil),
				Destination: &opts.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "repo",
				Aliases:     []string{"R"},
				Usage:       translations.GetMessage("flag_repo", 0, nil),
				Destination: &opts.Repository,
			},
			&cli.StringFlag{
				Name:        "token",
				Usage:       translations.GetMessage("flag_token", 0, nil),
				Destination: &opts.Token,
			},
			&cli.StringFlag{
				Name:        "lang",
				Usage:       translations.GetMessage("flag_lang", 0, nil),
				Destination: &opts.Language,
			},
			&cli.BoolFlag{
				Name:        "debug",
				Usage:       translations.GetMessage("flag_debug", 0, nil),
				Destination: &opts.Debug,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Usage:       translations.GetMessage("flag_verbose", 0, nil),
				Destination: &opts.Verbose,
			},
		},
		Commands: registerCommand.CreateCommands(),
	}, nil
}
