package repository

import (
	"context"

	"github.com/alexanderramin/projman/internal/domain"
)

// PersonRepo stores the global personnel set.
type PersonRepo interface {
	Add(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
	Rename(ctx context.Context, oldName, newName string) error
	Delete(ctx context.Context, name string) error
}

// ProjectRepo stores project rows. Methods return projects without their
// assignments or sub-processes.
type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, c domain.Collection) ([]*domain.Project, error)
	FindByName(ctx context.Context, name string) ([]*domain.Project, error)
	NextPosition(ctx context.Context, c domain.Collection) (int, error)
	Update(ctx context.Context, p *domain.Project) error
	SetPosition(ctx context.Context, id string, position int) error
	Delete(ctx context.Context, id string) error
}

// SubProcessRepo stores sub-process rows, ordered within their project.
type SubProcessRepo interface {
	Create(ctx context.Context, sp *domain.SubProcess) error
	GetByID(ctx context.Context, id string) (*domain.SubProcess, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.SubProcess, error)
	Update(ctx context.Context, sp *domain.SubProcess) error
	Delete(ctx context.Context, id string) error
}

// AssignmentRepo stores the ordered (person, role) lists of projects and
// sub-processes, and runs the personnel cascades across all of them.
type AssignmentRepo interface {
	Append(ctx context.Context, owner domain.AssignmentOwner, a *domain.Assignment) error
	ListByOwner(ctx context.Context, owner domain.AssignmentOwner) ([]domain.Assignment, error)
	Update(ctx context.Context, a domain.Assignment) error
	Delete(ctx context.Context, id string) error
	RenamePerson(ctx context.Context, oldName, newName string) ([]domain.AssignmentOwner, error)
	DeleteOrphans(ctx context.Context) ([]domain.AssignmentOwner, int, error)
}

// StoreRepo operates on the session store as a whole.
type StoreRepo interface {
	Clear(ctx context.Context) error
}
