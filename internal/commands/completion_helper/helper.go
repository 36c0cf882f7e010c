package completion_helper

import (
	"context"
	"fmt"

	"github.com/Tomas-vilte/cicd-utils/internal/commands/output"
	"github.com/urfave/cli/v3"
)

// DefaultFlagComplete prints the subcommands and flags of the current command
// for shell completion.
func DefaultFlagComplete(_ context.Context, cmd *cli.Command) {
	w := output.Stdout(cmd)
	for _, sub := range cmd.Commands {
		if !sub.Hidden {
			_, _ = fmt.Fprintln(w, sub.Name)
		}
	}
	for _, f := range cmd.Flags {
		for _, name := range f.Names() {
			if len(name) == 1 {
				_, _ = fmt.Fprintln(w, "-"+name)
			} else {
				_, _ = fmt.Fprintln(w, "--"+name)
			}
		}
	}
}
