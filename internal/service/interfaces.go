package service

import (
	"context"
	"io"

	"github.com/alexanderramin/projman/internal/csvcodec"
	"github.com/alexanderramin/projman/internal/domain"
)

// ProjectFields carries the editable attributes of a project. Name is
// ignored by Edit; project names are fixed once created.
type ProjectFields struct {
	Name      string
	Status    domain.Status
	StartDate string
	EndDate   string
}

// SubProcessFields carries the editable attributes of a sub-process.
type SubProcessFields struct {
	Name      string
	Status    domain.Status
	StartDate string
	EndDate   string
}

type ProjectService interface {
	Add(ctx context.Context, in ProjectFields) (*domain.Project, error)
	Edit(ctx context.Context, id string, in ProjectFields) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
	Revert(ctx context.Context, id string, status domain.Status) (*domain.Project, error)
	// MoveUp and MoveDown take a 0-based index into the active collection
	// and return the project's index afterwards.
	MoveUp(ctx context.Context, index int) (int, error)
	MoveDown(ctx context.Context, index int) (int, error)
	ListActive(ctx context.Context) ([]*domain.Project, error)
	ListCompleted(ctx context.Context) ([]*domain.Project, error)
	// Get returns the project with its assignments and sub-processes.
	Get(ctx context.Context, id string) (*domain.Project, error)
	FindByName(ctx context.Context, name string) ([]*domain.Project, error)
}

type SubProcessService interface {
	Add(ctx context.Context, projectID string, in SubProcessFields) (*domain.SubProcess, error)
	Edit(ctx context.Context, id string, in SubProcessFields) (*domain.SubProcess, error)
	Remove(ctx context.Context, id string) error
	List(ctx context.Context, projectID string) ([]*domain.SubProcess, error)
	Get(ctx context.Context, id string) (*domain.SubProcess, error)
}

// CascadeResult reports what a personnel change did to assignment lists.
type CascadeResult struct {
	Person  string
	NewName string
	// Affected lists every assignment list that was rewritten.
	Affected []domain.AssignmentOwner
	// Removed counts assignments dropped by the consistency sweep.
	Removed int
}

type PersonnelService interface {
	Add(ctx context.Context, name string) (string, error)
	Rename(ctx context.Context, oldName, newName string) (*CascadeResult, error)
	Remove(ctx context.Context, name string) (*CascadeResult, error)
	List(ctx context.Context) ([]string, error)
}

type AssignmentService interface {
	Add(ctx context.Context, owner domain.AssignmentOwner, person, role string) (domain.Assignment, error)
	// Edit and Remove take a 0-based index into the owner's list.
	Edit(ctx context.Context, owner domain.AssignmentOwner, index int, person, role string) (domain.Assignment, error)
	Remove(ctx context.Context, owner domain.AssignmentOwner, index int) error
	List(ctx context.Context, owner domain.AssignmentOwner) ([]domain.Assignment, error)
}

// ImportResult holds the outcome of a workbook import.
type ImportResult struct {
	People       int
	Active       int
	Completed    int
	SubProcesses int
	Assignments  int
	Stats        csvcodec.DecodeStats
}

type ExchangeService interface {
	Snapshot(ctx context.Context) (*domain.Workbook, error)
	Export(ctx context.Context, w io.Writer) error
	// ExportFile writes the workbook atomically and returns the path used,
	// which gains a .csv extension when it has none.
	ExportFile(ctx context.Context, path string) (string, error)
	// Import replaces the whole session with the decoded workbook. On any
	// error the session is left as it was.
	Import(ctx context.Context, r io.Reader) (*ImportResult, error)
	ImportFile(ctx context.Context, path string) (*ImportResult, error)
}
