package cli

import (
	"fmt"

	"github.com/alexanderramin/projman/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// projmanHuhTheme returns a huh theme using the formatter's Gruvbox palette.
func projmanHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// huhConfirm asks question on the terminal.
func huhConfirm(question string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(projmanHuhTheme()).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}

// confirmDestructive gates commands that discard data, described by
// action ("delete project \"Apollo\""). --yes always passes; otherwise a
// terminal is required to ask. A false result with a nil error means the
// user declined.
func confirmDestructive(app *App, yes bool, action string) (bool, error) {
	if yes {
		return true, nil
	}
	if app.inShell || !app.interactive() {
		return false, fmt.Errorf("refusing to %s without --yes", action)
	}
	ask := app.Confirm
	if ask == nil {
		ask = huhConfirm
	}
	ok, err := ask(action + "?")
	if err != nil {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	return ok, nil
}
