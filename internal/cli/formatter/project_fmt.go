package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/projman/internal/domain"
)

// CompletedRefPrefix marks a 1-based index into the completed collection.
const CompletedRefPrefix = "c"

// ProjectRef returns the short reference users type for the project at
// 0-based index in collection c: "3" for active, "c3" for completed.
func ProjectRef(c domain.Collection, index int) string {
	ref := strconv.Itoa(index + 1)
	if c == domain.CollectionCompleted {
		return CompletedRefPrefix + ref
	}
	return ref
}

// FormatProjectList renders one collection as a table inside a box.
func FormatProjectList(c domain.Collection, projects []*domain.Project) string {
	title := "Active Projects"
	if c == domain.CollectionCompleted {
		title = "Completed Projects"
	}
	if len(projects) == 0 {
		return RenderBox(title, Dim(fmt.Sprintf("No %s projects.", c)))
	}

	headers := []string{"REF", "NAME", "STATUS", "START", "END"}
	rows := make([][]string, 0, len(projects))
	for i, p := range projects {
		rows = append(rows, []string{
			StyleBlue.Render(ProjectRef(c, i)),
			Bold(p.Name),
			StatusPill(p.Status),
			OrDash(p.StartDate),
			OrDash(p.EndDate),
		})
	}
	return RenderBox(title, strings.TrimRight(RenderTable(headers, rows), "\n"))
}

// FormatProjectDetail renders the full view of one project: overview,
// sub-processes with their personnel, then project personnel.
func FormatProjectDetail(p *domain.Project) string {
	var b strings.Builder

	b.WriteString(StyleBold.Render(p.Name) + "\n\n")
	b.WriteString(Header("Overview") + "\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("STATUS"), StatusPill(p.Status)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("START "), OrDash(p.StartDate)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("END   "), OrDash(p.EndDate)))

	b.WriteString("\n" + Header("Sub-Processes") + "\n")
	b.WriteString(formatSubProcessTable(p.SubProcesses))

	b.WriteString("\n" + Header("Personnel") + "\n")
	b.WriteString(formatAssignmentTable(p.Assignments))

	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}

// FormatSubProcessList renders the sub-processes of project p.
func FormatSubProcessList(p *domain.Project) string {
	return RenderBox(p.Name+" sub-processes", strings.TrimRight(formatSubProcessTable(p.SubProcesses), "\n"))
}

func formatSubProcessTable(subs []*domain.SubProcess) string {
	if len(subs) == 0 {
		return Dim("No sub-processes.") + "\n"
	}
	headers := []string{"#", "NAME", "STATUS", "START", "END"}
	var rows [][]string
	for i, sp := range subs {
		rows = append(rows, []string{
			StyleBlue.Render(strconv.Itoa(i + 1)),
			Bold(sp.Name),
			StatusPill(sp.Status),
			OrDash(sp.StartDate),
			OrDash(sp.EndDate),
		})
		for _, a := range sp.Assignments {
			rows = append(rows, []string{"", Dim("└ ") + StyleFg.Render(a.Person), Dim(a.Role)})
		}
	}
	return RenderTable(headers, rows)
}

// FormatAssignments renders one assignment list under title.
func FormatAssignments(title string, assignments []domain.Assignment) string {
	return RenderBox(title, strings.TrimRight(formatAssignmentTable(assignments), "\n"))
}

func formatAssignmentTable(assignments []domain.Assignment) string {
	if len(assignments) == 0 {
		return Dim("No personnel assigned.") + "\n"
	}
	rows := make([][]string, 0, len(assignments))
	for i, a := range assignments {
		rows = append(rows, []string{
			StyleBlue.Render(strconv.Itoa(i + 1)),
			StyleFg.Render(a.Person),
			OrDash(a.Role),
		})
	}
	return RenderTable([]string{"#", "NAME", "ROLE"}, rows)
}
