package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/projman/internal/service"
)

// FormatPeople renders the personnel set in its stored order.
func FormatPeople(names []string) string {
	if len(names) == 0 {
		return RenderBox("Personnel", Dim("No personnel. Add someone with 'person add NAME'."))
	}
	var b strings.Builder
	for _, n := range names {
		b.WriteString(StyleGreen.Render("• ") + StyleFg.Render(n) + "\n")
	}
	b.WriteString(Dim(fmt.Sprintf("%d %s", len(names), Plural(len(names), "person", "people"))))
	return RenderBox("Personnel", b.String())
}

// FormatRename reports a personnel rename and the lists it rewrote.
func FormatRename(res *service.CascadeResult) string {
	if res.Person == res.NewName {
		return Dim(fmt.Sprintf("%s unchanged.", res.Person))
	}
	msg := fmt.Sprintf("Renamed %s to %s.", Bold(res.Person), Bold(res.NewName))
	if n := len(res.Affected); n > 0 {
		msg += " " + Dim(fmt.Sprintf("Updated %d assignment %s.", n, Plural(n, "list", "lists")))
	}
	return StyleGreen.Render("✔ ") + msg
}

// FormatRemoval reports a personnel removal and the assignments it swept.
func FormatRemoval(res *service.CascadeResult) string {
	msg := fmt.Sprintf("Removed %s.", Bold(res.Person))
	if res.Removed > 0 {
		msg += " " + Dim(fmt.Sprintf("Dropped %d %s from %d %s.",
			res.Removed, Plural(res.Removed, "assignment", "assignments"),
			len(res.Affected), Plural(len(res.Affected), "list", "lists")))
	}
	return StyleGreen.Render("✔ ") + msg
}

// FormatImportSummary reports what an import loaded from path.
func FormatImportSummary(path string, res *service.ImportResult) string {
	var b strings.Builder
	b.WriteString(StyleGreen.Render("✔ ") + fmt.Sprintf("Loaded %s\n", Bold(path)))
	b.WriteString(Dim(fmt.Sprintf("  %d people, %d active, %d completed, %d sub-processes, %d assignments",
		res.People, res.Active, res.Completed, res.SubProcesses, res.Assignments)))
	if n := res.Stats.Dropped; n > 0 {
		b.WriteString("\n" + StyleYellow.Render(fmt.Sprintf("  %d %s skipped: unknown project or sub-process",
			n, Plural(n, "row", "rows"))))
	}
	if n := res.Stats.Replaced; n > 0 {
		b.WriteString("\n" + StyleYellow.Render(fmt.Sprintf("  %d duplicate %s replaced by a later row",
			n, Plural(n, "project", "projects"))))
	}
	if names := res.Stats.AutoRegistered; len(names) > 0 {
		b.WriteString("\n" + Dim("  registered from assignments: "+strings.Join(names, ", ")))
	}
	return b.String()
}
