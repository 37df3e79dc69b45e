package testutil

import (
	"github.com/alexanderramin/projman/internal/domain"
	"github.com/google/uuid"
)

// ProjectOption customizes a fixture project.
type ProjectOption func(*domain.Project)

func WithStatus(s domain.Status) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithDates(start, end string) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = start
		p.EndDate = end
	}
}

// WithPersonnel appends (person, role) pairs to the project's own list.
// Pairs are given flat: person, role, person, role...
func WithPersonnel(pairs ...string) ProjectOption {
	return func(p *domain.Project) {
		p.Assignments = append(p.Assignments, assignments(pairs)...)
	}
}

// WithSubProcess appends a sub-process to the project.
func WithSubProcess(sp *domain.SubProcess) ProjectOption {
	return func(p *domain.Project) {
		sp.ProjectID = p.ID
		p.SubProcesses = append(p.SubProcesses, sp)
	}
}

// NewTestProject returns an in-memory project with a fresh ID, status
// Not Started and no nested data unless options add it.
func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	p := &domain.Project{
		ID:     uuid.New().String(),
		Name:   name,
		Status: domain.StatusNotStarted,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SubProcessOption customizes a fixture sub-process.
type SubProcessOption func(*domain.SubProcess)

func WithSubStatus(s domain.Status) SubProcessOption {
	return func(sp *domain.SubProcess) {
		sp.Status = s
	}
}

func WithSubDates(start, end string) SubProcessOption {
	return func(sp *domain.SubProcess) {
		sp.StartDate = start
		sp.EndDate = end
	}
}

func WithSubPersonnel(pairs ...string) SubProcessOption {
	return func(sp *domain.SubProcess) {
		sp.Assignments = append(sp.Assignments, assignments(pairs)...)
	}
}

func NewTestSubProcess(name string, opts ...SubProcessOption) *domain.SubProcess {
	sp := &domain.SubProcess{
		ID:     uuid.New().String(),
		Name:   name,
		Status: domain.StatusNotStarted,
	}
	for _, opt := range opts {
		opt(sp)
	}
	return sp
}

// NewTestWorkbook builds a workbook from projects, splitting them into
// collections by status, and registers people plus every assigned person.
func NewTestWorkbook(people []string, projects ...*domain.Project) *domain.Workbook {
	w := domain.NewWorkbook()
	for _, name := range people {
		w.AddPerson(name)
	}
	for _, p := range projects {
		for _, a := range p.Assignments {
			w.AddPerson(a.Person)
		}
		for _, sp := range p.SubProcesses {
			for _, a := range sp.Assignments {
				w.AddPerson(a.Person)
			}
		}
		if p.Collection() == domain.CollectionCompleted {
			w.Completed = append(w.Completed, p)
		} else {
			w.Active = append(w.Active, p)
		}
	}
	w.SortPeople()
	return w
}

// Pairs flattens assignments into person, role, person, role...
func Pairs(as []domain.Assignment) []string {
	out := make([]string, 0, len(as)*2)
	for _, a := range as {
		out = append(out, a.Person, a.Role)
	}
	return out
}

func assignments(pairs []string) []domain.Assignment {
	out := make([]domain.Assignment, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domain.Assignment{ID: uuid.New().String(), Person: pairs[i], Role: pairs[i+1]})
	}
	return out
}
