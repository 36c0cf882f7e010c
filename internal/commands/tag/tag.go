package tag

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

const defaultBranch = "HEAD"

// TagService is the subset of the tag service the commands use.
type TagService interface {
	LatestTag(ctx context.Context, branch, pattern string) (string, error)
	CommitSHA(ctx context.Context, ref string) (string, error)
	FindTag(ctx context.Context, pattern, sha string) (string, bool, error)
	PushTag(ctx context.Context, tag, sha string) error
	TagRelease(ctx context.Context, branch, pattern string, bump models.BumpType) (models.TagResult, error)
}

// ServiceProvider returns a TagService on demand. Remote operations need a
// VCS client, and therefore a token.
type ServiceProvider func(ctx context.Context, remote bool) (TagService, error)

type CommandFactory struct {
	provider ServiceProvider
}

func NewCommandFactory(provider ServiceProvider) *CommandFactory {
	return &CommandFactory{provider: provider}
}

func (f *CommandFactory) CreateCommand(t *i18n.Translations, config cfg.Provider) *cli.Command {
	return &cli.Command{
		Name:          "tag",
		Usage:         t.GetMessage("tag_command_usage", 0, nil),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Commands: []*cli.Command{
			f.latestCommand(t),
			f.findCommand(t, config),
			f.pushCommand(t),
			f.releaseCommand(t, config),
		},
	}
}

func branchFlag(t *i18n.Translations) cli.Flag {
	return &cli.StringFlag{
		Name:    "branch",
		Aliases: []string{"b"},
		Usage:   t.GetMessage("flag_branch", 0, nil),
		Value:   defaultBranch,
	}
}

func remotePatternFlag(t *i18n.Translations) cli.Flag {
	return &cli.StringFlag{
		Name:  "pattern",
		Usage: t.GetMessage("flag_tag_pattern", 0, nil),
	}
}

// remotePattern returns the --pattern flag or the configured remote pattern.
func remotePattern(cmd *cli.Command, config cfg.Provider) (string, error) {
	if cmd.IsSet("pattern") {
		return cmd.String("pattern"), nil
	}
	conf, err := config()
	if err != nil {
		return "", err
	}
	return conf.Tags.RemotePattern, nil
}

// resolveSHA returns --sha when given, otherwise the commit --branch points at.
func resolveSHA(ctx context.Context, cmd *cli.Command, service TagService) (string, error) {
	if sha := cmd.String("sha"); sha != "" {
		return sha, nil
	}
	return service.CommitSHA(ctx, cmd.String("branch"))
}

func (f *CommandFactory) latestCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:  "latest",
		Usage: t.GetMessage("tag_latest_usage", 0, nil),
		Flags: []cli.Flag{
			branchFlag(t),
			&cli.StringFlag{
				Name:  "pattern",
				Usage: t.GetMessage("flag_describe_pattern", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			service, err := f.provider(ctx, false)
			if err != nil {
				return err
			}

			tag, err := service.LatestTag(ctx, cmd.String("branch"), cmd.String("pattern"))
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(output.Stdout(cmd), tag)
			return err
		},
	}
}

func (f *CommandFactory) findCommand(t *i18n.Translations, config cfg.Provider) *cli.Command {
	return &cli.Command{
		Name:  "find",
		Usage: t.GetMessage("tag_find_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "sha",
				Usage: t.GetMessage("flag_sha", 0, nil),
			},
			branchFlag(t),
			remotePatternFlag(t),
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			pattern, err := remotePattern(cmd, config)
			if err != nil {
				return err
			}

			service, err := f.provider(ctx, true)
			if err != nil {
				return err
			}

			sha, err := resolveSHA(ctx, cmd, service)
			if err != nil {
				return err
			}

			name, found, err := service.FindTag(ctx, pattern, sha)
			if err != nil {
				return err
			}

			if !found {
				ui.PrintWarning(output.Stderr(cmd), t.GetMessage("tag_not_found", 0, map[string]interface{}{
					"Pattern": pattern,
					"SHA":     sha,
				}))
				return nil
			}

			_, err = fmt.Fprintln(output.Stdout(cmd), name)
			return err
		},
	}
}

func (f *CommandFactory) pushCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:  "push",
		Usage: t.GetMessage("tag_push_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "tag",
				Aliases:  []string{"t"},
				Usage:    t.GetMessage("flag_tag", 0, nil),
				Required: true,
			},
			&cli.StringFlag{
				Name:  "sha",
				Usage: t.GetMessage("flag_sha", 0, nil),
			},
			branchFlag(t),
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			service, err := f.provider(ctx, true)
			if err != nil {
				return err
			}

			sha, err := resolveSHA(ctx, cmd, service)
			if err != nil {
				return err
			}

			tag := cmd.String("tag")
			if err := service.PushTag(ctx, tag, sha); err != nil {
				return err
			}

			ui.PrintSuccess(output.Stderr(cmd), t.GetMessage("tag_created", 0, map[string]interface{}{
				"Tag": tag,
				"SHA": sha,
			}))
			return nil
		},
	}
}

func (f *CommandFactory) releaseCommand(t *i18n.Translations, config cfg.Provider) *cli.Command {
	return &cli.Command{
		Name:  "release",
		Usage: t.GetMessage("tag_release_usage", 0, nil),
		Flags: []cli.Flag{
			branchFlag(t),
			remotePatternFlag(t),
			&cli.StringFlag{
				Name:  "bump",
				Usage: t.GetMessage("flag_bump", 0, nil),
				Value: string(models.BumpPatch),
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: t.GetMessage("flag_json", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			start := time.Now()

			bump, err := models.ParseBumpType(cmd.String("bump"))
			if err != nil {
				return err
			}

			pattern, err := remotePattern(cmd, config)
			if err != nil {
				return err
			}

			service, err := f.provider(ctx, true)
			if err != nil {
				return err
			}

			branch := cmd.String("branch")
			log := logger.FromContext(ctx)
			log.Info("executing tag release command",
				"branch", branch,
				"pattern", pattern,
				"bump", string(bump))

			result, err := service.TagRelease(ctx, branch, pattern, bump)
			if err != nil {
				log.Error("tag release failed",
					"error", err,
					"duration_ms", time.Since(start).Milliseconds())
				return err
			}

			log.Info("tag release finished",
				"tag", result.Tag,
				"created", result.Created,
				"duration_ms", time.Since(start).Milliseconds())

			data := map[string]interface{}{"Tag": result.Tag, "SHA": result.CommitSHA}
			if result.Created {
				ui.PrintSuccess(output.Stderr(cmd), t.GetMessage("tag_created", 0, data))
			} else {
				ui.PrintWarning(output.Stderr(cmd), t.GetMessage("tag_already_exists", 0, data))
			}

			if cmd.Bool("json") {
				return json.NewEncoder(output.Stdout(cmd)).Encode(result)
			}
			_, err = fmt.Fprintln(output.Stdout(cmd), result.Tag)
			return err
		},
	}
}
