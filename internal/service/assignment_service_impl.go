package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/projman/internal/db"
	"github.com/alexanderramin/projman/internal/domain"
	"github.com/alexanderramin/projman/internal/repository"
	"github.com/google/uuid"
)

type assignmentService struct {
	assignments repository.AssignmentRepo
	uow         db.UnitOfWork
	observer    UseCaseObserver
}

func NewAssignmentService(assignments repository.AssignmentRepo, uow db.UnitOfWork, observers ...UseCaseObserver) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		uow:         uow,
		observer:    useCaseObserverOrNoop(observers),
	}
}

// Add appends (person, role) to owner's list. The person must already be
// in the personnel set; the same person may be added more than once.
func (s *assignmentService) Add(ctx context.Context, owner domain.AssignmentOwner, person, role string) (a domain.Assignment, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"owner_kind": string(owner.Kind), "owner_id": owner.ID, "person": person}
	defer func() { observe(ctx, s.observer, "assignment-add", startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := checkOwner(ctx, tx, owner); err != nil {
			return err
		}
		name, err := requireMember(ctx, repository.NewSQLitePersonRepo(tx), person)
		if err != nil {
			return err
		}
		a = domain.Assignment{ID: uuid.New().String(), Person: name, Role: domain.TrimField(role)}
		return repository.NewSQLiteAssignmentRepo(tx).Append(ctx, owner, &a)
	})
	if err != nil {
		return domain.Assignment{}, err
	}
	return a, nil
}

// Edit replaces the entry at index in place.
func (s *assignmentService) Edit(ctx context.Context, owner domain.AssignmentOwner, index int, person, role string) (a domain.Assignment, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"owner_kind": string(owner.Kind), "owner_id": owner.ID, "index": index}
	defer func() { observe(ctx, s.observer, "assignment-edit", startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txAssignments := repository.NewSQLiteAssignmentRepo(tx)
		list, err := txAssignments.ListByOwner(ctx, owner)
		if err != nil {
			return err
		}
		if err := checkIndex(list, index); err != nil {
			return err
		}
		name, err := requireMember(ctx, repository.NewSQLitePersonRepo(tx), person)
		if err != nil {
			return err
		}
		a = list[index]
		a.Person = name
		a.Role = domain.TrimField(role)
		return txAssignments.Update(ctx, a)
	})
	if err != nil {
		return domain.Assignment{}, err
	}
	return a, nil
}

func (s *assignmentService) Remove(ctx context.Context, owner domain.AssignmentOwner, index int) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"owner_kind": string(owner.Kind), "owner_id": owner.ID, "index": index}
	defer func() { observe(ctx, s.observer, "assignment-remove", startedAt, fields, err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txAssignments := repository.NewSQLiteAssignmentRepo(tx)
		list, err := txAssignments.ListByOwner(ctx, owner)
		if err != nil {
			return err
		}
		if err := checkIndex(list, index); err != nil {
			return err
		}
		fields["person"] = list[index].Person
		return txAssignments.Delete(ctx, list[index].ID)
	})
}

func (s *assignmentService) List(ctx context.Context, owner domain.AssignmentOwner) ([]domain.Assignment, error) {
	var out []domain.Assignment
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := checkOwner(ctx, tx, owner); err != nil {
			return err
		}
		var err error
		out, err = repository.NewSQLiteAssignmentRepo(tx).ListByOwner(ctx, owner)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// requireMember trims person and checks it against the personnel set.
func requireMember(ctx context.Context, people repository.PersonRepo, person string) (string, error) {
	n, err := people.Count(ctx)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", &domain.ValidationError{Field: "personnel", Reason: "is empty; add people before assigning them"}
	}
	name, err := domain.RequireName("person", person)
	if err != nil {
		return "", err
	}
	ok, err := people.Exists(ctx, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &domain.ValidationError{Field: "person", Reason: fmt.Sprintf("%q is not in the personnel set", name)}
	}
	return name, nil
}

func checkIndex(list []domain.Assignment, index int) error {
	if index < 0 || index >= len(list) {
		return &domain.NotFoundError{Kind: "assignment", Ref: strconv.Itoa(index + 1)}
	}
	return nil
}
