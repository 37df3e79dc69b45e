package formatter

import (
	"fmt"
	"strings"
)

// FormatShellWelcome renders the banner shown on shell startup. workbook is
// the file the session was loaded from, or empty for a fresh session.
func FormatShellWelcome(workbook string) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(StylePurple.Render("  projman") + "\n")
	b.WriteString(StyleDim.Render("  ─────────────────────────────") + "\n")
	if workbook != "" {
		b.WriteString(StyleDim.Render("  workbook: ") + StyleFg.Render(workbook) + "\n")
	}
	b.WriteString("\n")
	b.WriteString("  " + StyleGreen.Render("project list") + StyleDim.Render("    List active projects") + "\n")
	b.WriteString("  " + StyleGreen.Render("project show 1") + StyleDim.Render("  Show the first project") + "\n")
	b.WriteString("  " + StyleGreen.Render("person list") + StyleDim.Render("     List personnel") + "\n")
	b.WriteString("  " + StyleGreen.Render("save") + StyleDim.Render("            Write the workbook") + "\n")
	b.WriteString("  " + StyleGreen.Render("help") + StyleDim.Render("            Show all commands") + "\n")
	b.WriteString("\n")

	return b.String()
}

// helpCategory groups commands under a section header for the help display.
type helpCategory struct {
	title    string
	commands [][]string
}

func renderHelpCategory(cat helpCategory) string {
	var b strings.Builder
	b.WriteString("\n " + StyleHeader.Render(strings.ToUpper(cat.title)) + "\n")
	for _, c := range cat.commands {
		b.WriteString(fmt.Sprintf("  %-34s %s\n",
			StyleGreen.Render(c[0]),
			StyleDim.Render(c[1])))
	}
	return b.String()
}

// FormatShellHelp renders the categorized command reference.
func FormatShellHelp() string {
	categories := []helpCategory{
		{
			title: "Projects",
			commands: [][]string{
				{"project list [--completed|--all]", "List projects by collection"},
				{"project show REF", "Overview, sub-processes and personnel"},
				{"project add --name N", "Add a project (--status, --start, --end)"},
				{"project edit REF", "Change status or dates"},
				{"project up REF / down REF", "Reorder active projects"},
				{"project revert REF --status S", "Move a completed project back"},
				{"project delete REF", "Delete an active project"},
			},
		},
		{
			title: "Sub-Processes",
			commands: [][]string{
				{"sub list REF", "List a project's sub-processes"},
				{"sub add REF --name N", "Add a sub-process"},
				{"sub edit REF SUB", "Rename or change status and dates"},
				{"sub remove REF SUB", "Remove a sub-process"},
			},
		},
		{
			title: "Personnel",
			commands: [][]string{
				{"person list", "List everyone"},
				{"person add NAME", "Register a person"},
				{"person rename OLD NEW", "Rename everywhere"},
				{"person remove NAME", "Remove and drop their assignments"},
				{"assign list REF [--sub SUB]", "Show an assignment list"},
				{"assign add REF --person P", "Assign someone (--role, --sub)"},
				{"assign edit REF N", "Change assignment N"},
				{"assign remove REF N", "Remove assignment N"},
			},
		},
		{
			title: "Workbook",
			commands: [][]string{
				{"save [PATH]", "Write the workbook (default: current file)"},
				{"load PATH", "Replace the session from a workbook"},
				{"export PATH / import PATH", "Same, without changing the current file"},
			},
		},
		{
			title: "Utilities",
			commands: [][]string{
				{"help", "Show this command reference"},
				{"clear", "Clear the screen"},
				{"exit / quit", "Leave the shell"},
			},
		},
	}

	var b strings.Builder
	for _, cat := range categories {
		b.WriteString(renderHelpCategory(cat))
	}
	b.WriteString("\n" + StyleDim.Render(
		"REF is an active index (1), a completed index (c1) or a project name.\n"+
			"SUB is an index within the project or a sub-process name."))

	return RenderBox("Commands", b.String())
}

// FormatUnsavedWarning is shown when the user tries to leave with changes
// that have not been written to a workbook.
func FormatUnsavedWarning() string {
	return StyleYellow.Render("Unsaved changes.") + " " +
		Dim("Run 'save' to keep them, or 'exit' again to discard.")
}

// FormatWorkbookChanged notes that another program rewrote the workbook.
func FormatWorkbookChanged(path string) string {
	return StyleYellow.Render(fmt.Sprintf("%s changed on disk.", path)) + " " +
		Dim(fmt.Sprintf("Run 'load %s' to pick it up, or 'save' to overwrite it.", path))
}
