package pr

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Tomas-vilte/cicd-utils/internal/commands/completion_helper"
	"github.com/Tomas-vilte/cicd-utils/internal/commands/output"
	cfg "github.com/Tomas-vilte/cicd-utils/internal/config"
	"github.com/Tomas-vilte/cicd-utils/internal/i18n"
	"github.com/Tomas-vilte/cicd-utils/internal/logger"
	"github.com/Tomas-vilte/cicd-utils/internal/models"
	"github.com/Tomas-vilte/cicd-utils/internal/ui"
	"github.com/urfave/cli/v3"
)

// PullRequestService is the subset of the pull request service the commands use.
type PullRequestService interface {
	FetchLatestPullRequest(ctx context.Context, query models.LatestPullRequestQuery) (models.PullRequest, error)
	AddLabels(ctx context.Context, number int, labels []string) error
}

// ServiceProvider returns a PullRequestService on demand.
type ServiceProvider func(ctx context.Context) (PullRequestService, error)

type CommandFactory struct {
	provider ServiceProvider
}

func NewCommandFactory(provider ServiceProvider) *CommandFactory {
	return &CommandFactory{provider: provider}
}

func (f *CommandFactory) CreateCommand(t *i18n.Translations, config cfg.Provider) *cli.Command {
	return &cli.Command{
		Name:          "pr",
		Usage:         t.GetMessage("pr_command_usage", 0, nil),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Commands: []*cli.Command{
			f.latestCommand(t, config),
			f.labelCommand(t),
		},
	}
}

func (f *CommandFactory) latestCommand(t *i18n.Translations, config cfg.Provider) *cli.Command {
	return &cli.Command{
		Name:  "latest",
		Usage: t.GetMessage("pr_latest_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "head",
				Usage:    t.GetMessage("flag_head", 0, nil),
				Required: true,
			},
			&cli.StringFlag{
				Name:  "state",
				Usage: t.GetMessage("flag_state", 0, nil),
			},
			&cli.StringFlag{
				Name:  "release-pattern",
				Usage: t.GetMessage("flag_release_pattern", 0, nil),
			},
			&cli.StringFlag{
				Name:  "main-pattern",
				Usage: t.GetMessage("flag_main_pattern", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: t.GetMessage("flag_json", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			start := time.Now()

			conf, err := config()
			if err != nil {
				return err
			}

			query, err := buildQuery(cmd, conf)
			if err != nil {
				return err
			}

			log := logger.FromContext(ctx)
			log.Info("executing pr latest command",
				"head", query.HeadBranch,
				"state", query.State.String(),
				"release_pattern", query.ReleaseBranchPattern,
				"main_pattern", query.MainBranchPattern)

			service, err := f.provider(ctx)
			if err != nil {
				return err
			}

			latest, err := service.FetchLatestPullRequest(ctx, query)
			if err != nil {
				log.Error("failed to resolve latest pull request",
					"error", err,
					"duration_ms", time.Since(start).Milliseconds())
				return err
			}

			log.Info("latest pull request resolved",
				"number", latest.Number,
				"duration_ms", time.Since(start).Milliseconds())

			if cmd.Bool("json") {
				return json.NewEncoder(output.Stdout(cmd)).Encode(latest)
			}
			_, err = fmt.Fprintln(output.Stdout(cmd), latest.Number)
			return err
		},
	}
}

func buildQuery(cmd *cli.Command, conf *cfg.Config) (models.LatestPullRequestQuery, error) {
	state := conf.PullRequests.State
	if cmd.IsSet("state") {
		state = cmd.String("state")
	}
	parsed, err := models.ParsePullRequestState(state)
	if err != nil {
		return models.LatestPullRequestQuery{}, err
	}

	query := models.LatestPullRequestQuery{
		State:                parsed,
		HeadBranch:           cmd.String("head"),
		ReleaseBranchPattern: conf.PullRequests.ReleaseBranchPattern,
		MainBranchPattern:    conf.PullRequests.MainBranchPattern,
	}
	if cmd.IsSet("release-pattern") {
		query.ReleaseBranchPattern = cmd.String("release-pattern")
	}
	if cmd.IsSet("main-pattern") {
		query.MainBranchPattern = cmd.String("main-pattern")
	}
	return query, nil
}

func (f *CommandFactory) labelCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:      "label",
		Usage:     t.GetMessage("pr_label_usage", 0, nil),
		ArgsUsage: "<label>...",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "number",
				Aliases:  []string{"n"},
				Usage:    t.GetMessage("flag_number", 0, nil),
				Required: true,
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			number := int(cmd.Int("number"))
			labels := cmd.Args().Slice()
			if len(labels) == 0 {
				return fmt.Errorf("%s", t.GetMessage("error_missing_labels", 0, nil))
			}

			service, err := f.provider(ctx)
			if err != nil {
				return err
			}

			logger.Info(ctx, "executing pr label command", "number", number, "labels", labels)

			if err := service.AddLabels(ctx, number, labels); err != nil {
				return err
			}

			ui.PrintSuccess(output.Stderr(cmd), t.GetMessage("labels_added", len(labels), map[string]interface{}{
				"Count":  len(labels),
				"Number": number,
			}))
			return nil
		},
	}
}
