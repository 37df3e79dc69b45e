package service

import (
	"context"
	"strconv"
	"time"

	"github.com/alexanderramin/projman/internal/db"
	"github.com/alexanderramin/projman/internal/domain"
	"github.com/alexanderramin/projman/internal/repository"
	"github.com/google/uuid"
)

type projectService struct {
	projects repository.ProjectRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewProjectService(projects repository.ProjectRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ProjectService {
	return &projectService{
		projects: projects,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *projectService) Add(ctx context.Context, in ProjectFields) (p *domain.Project, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project": in.Name, "status": string(in.Status)}
	defer func() { observe(ctx, s.observer, "project-add", startedAt, fields, err) }()

	name, err := domain.RequireName("project name", in.Name)
	if err != nil {
		return nil, err
	}
	if err = validStatus(in.Status); err != nil {
		return nil, err
	}

	p = &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		Status:    in.Status,
		StartDate: domain.TrimField(in.StartDate),
		EndDate:   domain.TrimField(in.EndDate),
	}
	if err = s.projects.Create(ctx, p); err != nil {
		return nil, err
	}
	fields["collection"] = string(p.Collection())
	return p, nil
}

// Edit overwrites status and dates. A project whose status crosses the
// Completed boundary moves to the end of the other collection.
func (s *projectService) Edit(ctx context.Context, id string, in ProjectFields) (p *domain.Project, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": id, "status": string(in.Status)}
	defer func() { observe(ctx, s.observer, "project-edit", startedAt, fields, err) }()

	if err = validStatus(in.Status); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)

		var err error
		p, err = txProjects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		from := p.Collection()
		p.Status = in.Status
		p.StartDate = domain.TrimField(in.StartDate)
		p.EndDate = domain.TrimField(in.EndDate)

		if to := p.Collection(); to != from {
			fields["moved_to"] = string(to)
			if p.Position, err = txProjects.NextPosition(ctx, to); err != nil {
				return err
			}
		}
		if err := txProjects.Update(ctx, p); err != nil {
			return err
		}
		return loadProject(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes an active project and everything it owns. Completed
// projects must be reverted first.
func (s *projectService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": id}
	defer func() { observe(ctx, s.observer, "project-delete", startedAt, fields, err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		p, err := txProjects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		fields["project"] = p.Name
		if p.Collection() == domain.CollectionCompleted {
			return &domain.ValidationError{
				Field:  "project",
				Reason: "is completed and cannot be deleted (revert it first)",
			}
		}
		return txProjects.Delete(ctx, id)
	})
}

// Revert moves a completed project back to the end of the active
// collection with a non-Completed status.
func (s *projectService) Revert(ctx context.Context, id string, status domain.Status) (p *domain.Project, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": id, "status": string(status)}
	defer func() { observe(ctx, s.observer, "project-revert", startedAt, fields, err) }()

	if err = validStatus(status); err != nil {
		return nil, err
	}
	if status == domain.StatusCompleted {
		return nil, &domain.ValidationError{Field: "status", Reason: "must not be Completed when reverting"}
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)

		var err error
		p, err = txProjects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p.Collection() != domain.CollectionCompleted {
			return &domain.NotFoundError{Kind: "completed project", Ref: p.Name}
		}
		p.Status = status
		if p.Position, err = txProjects.NextPosition(ctx, domain.CollectionActive); err != nil {
			return err
		}
		if err := txProjects.Update(ctx, p); err != nil {
			return err
		}
		return loadProject(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *projectService) MoveUp(ctx context.Context, index int) (int, error) {
	return s.move(ctx, "project-move-up", index, -1)
}

func (s *projectService) MoveDown(ctx context.Context, index int) (int, error) {
	return s.move(ctx, "project-move-down", index, 1)
}

// move swaps the active project at index with its neighbour in direction
// delta. Moving past either end is a no-op.
func (s *projectService) move(ctx context.Context, name string, index, delta int) (newIndex int, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"index": index}
	defer func() { observe(ctx, s.observer, name, startedAt, fields, err) }()

	newIndex = index
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		active, err := txProjects.List(ctx, domain.CollectionActive)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(active) {
			return &domain.NotFoundError{Kind: "active project", Ref: strconv.Itoa(index + 1)}
		}
		other := index + delta
		if other < 0 || other >= len(active) {
			fields["noop"] = true
			return nil
		}
		a, b := active[index], active[other]
		if err := txProjects.SetPosition(ctx, a.ID, b.Position); err != nil {
			return err
		}
		if err := txProjects.SetPosition(ctx, b.ID, a.Position); err != nil {
			return err
		}
		newIndex = other
		return nil
	})
	if err != nil {
		return index, err
	}
	return newIndex, nil
}

func (s *projectService) ListActive(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx, domain.CollectionActive)
}

func (s *projectService) ListCompleted(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx, domain.CollectionCompleted)
}

func (s *projectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	var p *domain.Project
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		p, err = repository.NewSQLiteProjectRepo(tx).GetByID(ctx, id)
		if err != nil {
			return err
		}
		return loadProject(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *projectService) FindByName(ctx context.Context, name string) ([]*domain.Project, error) {
	return s.projects.FindByName(ctx, domain.TrimField(name))
}
