package ui

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	domainErrors "github.com/Tomas-vilte/cicd-utils/internal/errors"
	"github.com/Tomas-vilte/cicd-utils/internal/i18n"
)

var (
	Success = color.New(color.FgGreen, color.Bold)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow, color.Bold)
	Info    = color.New(color.FgCyan, color.Bold)
	Dim     = color.New(color.FgHiBlack)
)

// HandleAppError writes err to w. AppErrors are rendered with their type,
// context and suggestion. If translations is nil, English labels are used.
func HandleAppError(w io.Writer, err error, t *i18n.Translations) {
	if err == nil {
		return
	}

	label := func(id, fallback string) string {
		if t == nil {
			return fallback
		}
		return t.GetMessage(id, 0, nil)
	}

	var appErr *domainErrors.AppError
	if !errors.As(err, &appErr) {
		PrintError(w, label("error_label", "Error")+": "+err.Error())
		return
	}

	_, _ = Error.Fprintf(w, "%s: %s\n", appErr.Type, appErr.Message)

	if len(appErr.Context) > 0 {
		_, _ = Dim.Fprintf(w, "  %s:\n", label("error_details", "Details"))
		keys := make([]string, 0, len(appErr.Context))
		for k := range appErr.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			PrintKeyValue(w, k, fmt.Sprint(appErr.Context[k]))
		}
	}

	if appErr.Err != nil {
		_, _ = Dim.Fprintf(w, "  %s: %v\n", label("error_cause", "Cause"), appErr.Err)
	}

	if appErr.Suggestion != "" {
		_, _ = Info.Fprintf(w, "  %s: ", label("error_suggestion", "Suggestion"))
		lines := strings.Split(appErr.Suggestion, "\n")
		for i, line := range lines {
			if i == 0 {
				_, _ = fmt.Fprintln(w, line)
			} else {
				_, _ = fmt.Fprintf(w, "    %s\n", line)
			}
		}
	}
}

func PrintError(w io.Writer, msg string) {
	_, _ = Error.Fprintln(w, msg)
}

func PrintSuccess(w io.Writer, msg string) {
	_, _ = Success.Fprintln(w, msg)
}

func PrintWarning(w io.Writer, msg string) {
	_, _ = Warning.Fprintln(w, msg)
}

func PrintKeyValue(w io.Writer, key, value string) {
	keyColored := Dim.Sprint(key + ":")
	valueColored := color.New(color.FgWhite, color.Bold).Sprint(value)
	_, _ = fmt.Fprintf(w, "    %s %s\n", keyColored, valueColored)
}
