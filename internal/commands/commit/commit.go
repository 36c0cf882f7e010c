package commit

import (
	"context"
	"fmt"

	"github.com/Tomas-vilte/cicd-utils/internal/commands/completion_helper"
	"github.com/Tomas-vilte/cicd-utils/internal/commands/output"
	cfg "github.com/Tomas-vilte/cicd-utils/internal/config"
	"github.com/Tomas-vilte/cicd-utils/internal/i18n"
	"github.com/urfave/cli/v3"
)

// Resolver resolves refs to commit SHAs.
type Resolver interface {
	GetCommitSHA(ctx context.Context, ref string) (string, error)
}

type ResolverProvider func(ctx context.Context) (Resolver, error)

type CommandFactory struct {
	provider ResolverProvider
}

func NewCommandFactory(provider ResolverProvider) *CommandFactory {
	return &CommandFactory{provider: provider}
}

func (f *CommandFactory) CreateCommand(t *i18n.Translations, _ cfg.Provider) *cli.Command {
	return &cli.Command{
		Name:          "commit",
		Usage:         t.GetMessage("commit_command_usage", 0, nil),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Commands: []*cli.Command{
			{
				Name:  "sha",
				Usage: t.GetMessage("commit_sha_usage", 0, nil),
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "branch",
						Aliases: []string{"b"},
						Usage:   t.GetMessage("flag_branch", 0, nil),
						Value:   "HEAD",
					},
				},
				ShellComplete: completion_helper.DefaultFlagComplete,
				Action: func(ctx context.Context, cmd *cli.Command) error {
					resolver, err := f.provider(ctx)
					if err != nil {
						return err
					}

					sha, err := resolver.GetCommitSHA(ctx, cmd.String("branch"))
					if err != nil {
						return err
					}

					_, err = fmt.Fprintln(output.Stdout(cmd), sha)
					return err
				},
			},
		},
	}
}
