package service

import (
	"context"
	"time"

	"github.com/alexanderramin/projman/internal/db"
	"github.com/alexanderramin/projman/internal/domain"
	"github.com/alexanderramin/projman/internal/repository"
)

type personnelService struct {
	people   repository.PersonRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewPersonnelService returns the only writer of the personnel set. Rename
// and Remove cascade into every assignment list in the same transaction.
func NewPersonnelService(people repository.PersonRepo, uow db.UnitOfWork, observers ...UseCaseObserver) PersonnelService {
	return &personnelService{
		people:   people,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *personnelService) Add(ctx context.Context, name string) (added string, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"person": name}
	defer func() { observe(ctx, s.observer, "person-add", startedAt, fields, err) }()

	added, err = domain.RequireName("person name", name)
	if err != nil {
		return "", err
	}
	if err = s.people.Add(ctx, added); err != nil {
		return "", err
	}
	return added, nil
}

// Rename changes a name in the personnel set and in every assignment that
// uses it. Renaming to the same name changes nothing.
func (s *personnelService) Rename(ctx context.Context, oldName, newName string) (res *CascadeResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"person": oldName, "new_name": newName}
	defer func() { observe(ctx, s.observer, "person-rename", startedAt, fields, err) }()

	oldName = domain.TrimField(oldName)
	newName, err = domain.RequireName("new name", newName)
	if err != nil {
		return nil, err
	}

	res = &CascadeResult{Person: oldName, NewName: newName}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPeople := repository.NewSQLitePersonRepo(tx)

		ok, err := txPeople.Exists(ctx, oldName)
		if err != nil {
			return err
		}
		if !ok {
			return &domain.NotFoundError{Kind: "person", Ref: oldName}
		}
		if oldName == newName {
			return nil
		}
		taken, err := txPeople.Exists(ctx, newName)
		if err != nil {
			return err
		}
		if taken {
			return &domain.DuplicateError{Name: newName}
		}

		if err := txPeople.Rename(ctx, oldName, newName); err != nil {
			return err
		}
		res.Affected, err = repository.NewSQLiteAssignmentRepo(tx).RenamePerson(ctx, oldName, newName)
		return err
	})
	if err != nil {
		return nil, err
	}
	fields["cascade_lists"] = len(res.Affected)
	return res, nil
}

// Remove deletes a person and then sweeps every assignment list for
// entries naming anyone outside the personnel set.
func (s *personnelService) Remove(ctx context.Context, name string) (res *CascadeResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"person": name}
	defer func() { observe(ctx, s.observer, "person-remove", startedAt, fields, err) }()

	name = domain.TrimField(name)
	res = &CascadeResult{Person: name}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLitePersonRepo(tx).Delete(ctx, name); err != nil {
			return err
		}
		var err error
		res.Affected, res.Removed, err = repository.NewSQLiteAssignmentRepo(tx).DeleteOrphans(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	fields["cascade_lists"] = len(res.Affected)
	fields["cascade_removed"] = res.Removed
	return res, nil
}

func (s *personnelService) List(ctx context.Context) ([]string, error) {
	return s.people.List(ctx)
}
