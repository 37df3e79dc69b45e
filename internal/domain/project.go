package domain

import (
	"sort"
	"strings"
)

// Assignment pairs a person from the global personnel set with a role.
// The same person may appear several times in one list.
type Assignment struct {
	ID     string
	Person string
	Role   string
}

// SubProcess is a named task owned by exactly one project. Its status is
// informational and never moves it between collections.
type SubProcess struct {
	ID          string
	ProjectID   string
	Name        string
	Status      Status
	StartDate   string
	EndDate     string
	Position    int
	Assignments []Assignment
}

// Project is the top-level unit of work. Dates are free text.
type Project struct {
	ID           string
	Name         string
	Status       Status
	StartDate    string
	EndDate      string
	Position     int
	Assignments  []Assignment
	SubProcesses []*SubProcess
}

// Collection returns the partition the project belongs in given its status.
func (p *Project) Collection() Collection {
	return CollectionFor(p.Status)
}

// FindSubProcess returns the first sub-process named name, or nil.
func (p *Project) FindSubProcess(name string) *SubProcess {
	for _, sp := range p.SubProcesses {
		if sp.Name == name {
			return sp
		}
	}
	return nil
}

// Workbook is a complete snapshot of the model: the global personnel set
// and both project collections in display order.
type Workbook struct {
	People    []string
	Active    []*Project
	Completed []*Project
}

// NewWorkbook returns an empty workbook.
func NewWorkbook() *Workbook {
	return &Workbook{}
}

// Projects returns active projects followed by completed ones.
func (w *Workbook) Projects() []*Project {
	out := make([]*Project, 0, len(w.Active)+len(w.Completed))
	out = append(out, w.Active...)
	return append(out, w.Completed...)
}

// HasPerson reports whether name is in the personnel set.
func (w *Workbook) HasPerson(name string) bool {
	for _, p := range w.People {
		if p == name {
			return true
		}
	}
	return false
}

// AddPerson registers name if it is not already present and reports
// whether it was added.
func (w *Workbook) AddPerson(name string) bool {
	if w.HasPerson(name) {
		return false
	}
	w.People = append(w.People, name)
	return true
}

// SortPeople orders the personnel set by name.
func (w *Workbook) SortPeople() {
	sort.Strings(w.People)
}

// IsEmpty reports whether the workbook holds no people and no projects.
func (w *Workbook) IsEmpty() bool {
	return len(w.People) == 0 && len(w.Active) == 0 && len(w.Completed) == 0
}

// TrimField normalizes free-text input the way the entry forms do.
func TrimField(s string) string {
	return strings.TrimSpace(NormalizeNewlines(s))
}

var newlineReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// NormalizeNewlines turns CRLF and lone CR into LF. The model stores no
// carriage returns, since the workbook uses CRLF as its record terminator.
func NormalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	return newlineReplacer.Replace(s)
}

// AssignmentOwner addresses one assignment list: a project's or a
// sub-process's.
type AssignmentOwner struct {
	Kind OwnerKind
	ID   string
}

// ProjectOwner addresses the project-level assignment list of id.
func ProjectOwner(id string) AssignmentOwner {
	return AssignmentOwner{Kind: OwnerProject, ID: id}
}

// SubProcessOwner addresses the assignment list of sub-process id.
func SubProcessOwner(id string) AssignmentOwner {
	return AssignmentOwner{Kind: OwnerSubProcess, ID: id}
}
