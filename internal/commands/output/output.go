// Package output gives commands their writers. Results go to stdout so CI
// scripts can capture them; messages go to stderr.
package output

import (
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

func Stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func Stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}
