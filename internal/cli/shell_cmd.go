package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newShellCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell over one long-lived session",
		Long: `Start an interactive shell. The workbook is loaded once and every
command runs against the same session; use 'save' to write it back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(app)
		},
	}
}

func runShell(app *App) error {
	app.inShell = true
	defer func() { app.inShell = false }()

	m := newShellModel(app)
	m.watchWorkbook = true
	// Init waits on the watcher started here; the shell works the same
	// without one.
	m.followWorkbook()

	final, err := tea.NewProgram(m).Run()
	if sm, ok := final.(shellModel); ok {
		m = sm
	}
	if m.watcher != nil {
		_ = m.watcher.Close()
	}
	if err != nil {
		return fmt.Errorf("running shell: %w", err)
	}
	return nil
}

// splitShellArgs tokenizes a shell line. Single quotes are literal,
// double quotes allow backslash escapes, and an unquoted backslash escapes
// the next rune, so names with spaces can be passed as one argument.
func splitShellArgs(input string) ([]string, error) {
	var parts []string
	var cur strings.Builder

	inSingle := false
	inDouble := false
	escaped := false
	tokenStarted := false

	flush := func() {
		parts = append(parts, cur.String())
		cur.Reset()
		tokenStarted = false
	}

	for _, r := range input {
		if escaped {
			cur.WriteRune(r)
			tokenStarted = true
			escaped = false
			continue
		}

		if inSingle {
			if r == '\'' {
				inSingle = false
			} else {
				cur.WriteRune(r)
			}
			tokenStarted = true
			continue
		}

		if inDouble {
			switch r {
			case '"':
				inDouble = false
			case '\\':
				escaped = true
			default:
				cur.WriteRune(r)
			}
			tokenStarted = true
			continue
		}

		switch r {
		case '\\':
			escaped = true
			tokenStarted = true
		case '\'':
			inSingle = true
			tokenStarted = true
		case '"':
			inDouble = true
			tokenStarted = true
		case ' ', '\t', '\n', '\r':
			if tokenStarted {
				flush()
			}
		default:
			cur.WriteRune(r)
			tokenStarted = true
		}
	}

	if escaped {
		return nil, fmt.Errorf("unterminated escape sequence")
	}
	if inSingle || inDouble {
		return nil, fmt.Errorf("unterminated quoted string")
	}
	if tokenStarted {
		flush()
	}

	return parts, nil
}
