package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/projman/internal/db"
	"github.com/alexanderramin/projman/internal/domain"
	"github.com/alexanderramin/projman/internal/repository"
)

// validStatus rejects statuses outside the enumerated set.
func validStatus(s domain.Status) error {
	if !s.Valid() {
		return &domain.ValidationError{
			Field:  "status",
			Reason: fmt.Sprintf("invalid value %q (expected one of %s)", s, domain.StatusLabels()),
		}
	}
	return nil
}

// loadProject fills p's assignments and sub-processes, each sub-process
// with its own assignments.
func loadProject(ctx context.Context, q db.DBTX, p *domain.Project) error {
	assignments := repository.NewSQLiteAssignmentRepo(q)
	subs := repository.NewSQLiteSubProcessRepo(q)

	as, err := assignments.ListByOwner(ctx, domain.ProjectOwner(p.ID))
	if err != nil {
		return err
	}
	p.Assignments = as

	p.SubProcesses, err = subs.ListByProject(ctx, p.ID)
	if err != nil {
		return err
	}
	for _, sp := range p.SubProcesses {
		if err := loadSubProcess(ctx, q, sp); err != nil {
			return err
		}
	}
	return nil
}

func loadSubProcess(ctx context.Context, q db.DBTX, sp *domain.SubProcess) error {
	as, err := repository.NewSQLiteAssignmentRepo(q).ListByOwner(ctx, domain.SubProcessOwner(sp.ID))
	if err != nil {
		return err
	}
	sp.Assignments = as
	return nil
}

// loadCollection lists one collection with every project fully loaded.
func loadCollection(ctx context.Context, q db.DBTX, c domain.Collection) ([]*domain.Project, error) {
	projects, err := repository.NewSQLiteProjectRepo(q).List(ctx, c)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if err := loadProject(ctx, q, p); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

// checkOwner verifies that the project or sub-process owning an
// assignment list exists.
func checkOwner(ctx context.Context, q db.DBTX, owner domain.AssignmentOwner) error {
	switch owner.Kind {
	case domain.OwnerProject:
		_, err := repository.NewSQLiteProjectRepo(q).GetByID(ctx, owner.ID)
		return err
	case domain.OwnerSubProcess:
		_, err := repository.NewSQLiteSubProcessRepo(q).GetByID(ctx, owner.ID)
		return err
	default:
		return fmt.Errorf("unknown assignment owner kind %q", owner.Kind)
	}
}
