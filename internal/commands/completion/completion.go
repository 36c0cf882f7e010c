package completion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Tomas-vilte/cicd-utils/internal/commands/output"
	cfg "github.com/Tomas-vilte/cicd-utils/internal/config"
	"github.com/Tomas-vilte/cicd-utils/internal/i18n"
	"github.com/Tomas-vilte/cicd-utils/internal/ui"
	"github.com/urfave/cli/v3"
)

const bashCompletionScript = `#! /bin/bash

_cicd_utils_bash_autocomplete() {
  if [[ "${COMP_WORDS[0]}" != "source" ]]; then
    local cur opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    # Ask the binary for suggestions based on every word before the cursor
    local cmd_context=("${COMP_WORDS[@]:0:$COMP_CWORD}")
    opts=$( "${cmd_context[@]}" --generate-shell-completion )
    COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
    return 0
  fi
}

complete -o bashdefault -o default -o nospace -F _cicd_utils_bash_autocomplete cicd-utils
`

const zshCompletionScript = `#compdef cicd-utils

_cicd_utils() {
  local -a opts
  local cmd_context=("${(@)words[1,$CURRENT-1]}")
  opts=("${(@f)$("${cmd_context[@]}" --generate-shell-completion)}")
  _describe 'values' opts
}

compdef _cicd_utils cicd-utils
`

const installMarker = "# cicd-utils shell completion"

const installSnippet = `
` + installMarker + `
if command -v cicd-utils >/dev/null 2>&1; then
	source <(cicd-utils completion %s)
fi
`

type CommandFactory struct{}

func NewCommandFactory() *CommandFactory {
	return &CommandFactory{}
}

func (f *CommandFactory) CreateCommand(t *i18n.Translations, _ cfg.Provider) *cli.Command {
	return &cli.Command{
		Name:  "completion",
		Usage: t.GetMessage("completion_command_usage", 0, nil),
		Commands: []*cli.Command{
			scriptCommand("bash", t.GetMessage("completion_bash_usage", 0, nil), bashCompletionScript),
			scriptCommand("zsh", t.GetMessage("completion_zsh_usage", 0, nil), zshCompletionScript),
			installCommand(t),
		},
	}
}

func scriptCommand(name, usage, script string) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, err := fmt.Fprint(output.Stdout(cmd), script)
			return err
		},
	}
}

// rcFile maps $SHELL to the shell and the rc file the snippet goes into.
func rcFile(shell, home string) (string, string, bool) {
	switch {
	case strings.Contains(shell, "zsh"):
		return "zsh", filepath.Join(home, ".zshrc"), true
	case strings.Contains(shell, "bash"):
		return "bash", filepath.Join(home, ".bashrc"), true
	default:
		return "", "", false
	}
}

func installCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: t.GetMessage("completion_install_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("error getting home directory: %w", err)
			}

			shell := os.Getenv("SHELL")
			shellName, configFile, ok := rcFile(shell, home)
			if !ok {
				return fmt.Errorf("%s", t.GetMessage("completion_unsupported_shell", 0, map[string]interface{}{
					"Shell": shell,
				}))
			}

			stderr := output.Stderr(cmd)
			content, err := os.ReadFile(configFile)
			if err == nil && strings.Contains(string(content), installMarker) {
				ui.PrintWarning(stderr, t.GetMessage("completion_already_installed", 0, map[string]interface{}{
					"File": configFile,
				}))
				return nil
			}

			f, err := os.OpenFile(configFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
			if err != nil {
				return fmt.Errorf("error opening %s: %w", configFile, err)
			}
			defer func() { _ = f.Close() }()

			if _, err := fmt.Fprintf(f, installSnippet, shellName); err != nil {
				return fmt.Errorf("error writing %s: %w", configFile, err)
			}

			ui.PrintSuccess(stderr, t.GetMessage("completion_installed", 0, map[string]interface{}{
				"File": configFile,
			}))
			return nil
		},
	}
}
