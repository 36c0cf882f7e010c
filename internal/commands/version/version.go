package version

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Tomas-vilte/cicd-utils/internal/commands/completion_helper"
	"github.com/Tomas-vilte/cicd-utils/internal/commands/output"
	cfg "github.com/Tomas-vilte/cicd-utils/internal/config"
	"github.com/Tomas-vilte/cicd-utils/internal/i18n"
	"github.com/Tomas-vilte/cicd-utils/internal/models"
	"github.com/urfave/cli/v3"
)

type CommandFactory struct{}

func NewCommandFactory() *CommandFactory {
	return &CommandFactory{}
}

func (f *CommandFactory) CreateCommand(t *i18n.Translations, _ cfg.Provider) *cli.Command {
	return &cli.Command{
		Name:          "version",
		Usage:         t.GetMessage("version_command_usage", 0, nil),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Commands: []*cli.Command{
			parseCommand(t),
			bumpCommand(t),
			compareCommand(t),
		},
	}
}

func versionArg(t *i18n.Translations, cmd *cli.Command, index int, name string) (models.SemanticVersion, error) {
	raw := cmd.Args().Get(index)
	if raw == "" {
		return models.SemanticVersion{}, fmt.Errorf("%s", t.GetMessage("error_missing_argument", 0, map[string]interface{}{
			"Name": name,
		}))
	}
	return models.ParseSemanticVersion(raw)
}

func parseCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     t.GetMessage("version_parse_usage", 0, nil),
		ArgsUsage: "<version>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: t.GetMessage("flag_json", 0, nil),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			v, err := versionArg(t, cmd, 0, "version")
			if err != nil {
				return err
			}

			out := output.Stdout(cmd)
			if cmd.Bool("json") {
				return json.NewEncoder(out).Encode(map[string]int{
					"major": v.Major,
					"minor": v.Minor,
					"patch": v.Patch,
				})
			}
			// key=value lines can be appended to $GITHUB_OUTPUT as is.
			_, err = fmt.Fprintf(out, "major=%d\nminor=%d\npatch=%d\n", v.Major, v.Minor, v.Patch)
			return err
		},
	}
}

func bumpCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:      "bump",
		Usage:     t.GetMessage("version_bump_usage", 0, nil),
		ArgsUsage: "<version>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "type",
				Usage: t.GetMessage("flag_bump", 0, nil),
				Value: string(models.BumpPatch),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			v, err := versionArg(t, cmd, 0, "version")
			if err != nil {
				return err
			}

			bump, err := models.ParseBumpType(cmd.String("type"))
			if err != nil {
				return err
			}

			next, err := v.Bump(bump)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(output.Stdout(cmd), next.String())
			return err
		},
	}
}

func compareCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     t.GetMessage("version_compare_usage", 0, nil),
		ArgsUsage: "<version> <version>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := versionArg(t, cmd, 0, "first version")
			if err != nil {
				return err
			}
			b, err := versionArg(t, cmd, 1, "second version")
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(output.Stdout(cmd), a.Compare(b))
			return err
		},
	}
}
