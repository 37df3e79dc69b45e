package service

import (
	"context"
	"time"

	"github.com/alexanderramin/projman/internal/db"
	"github.com/alexanderramin/projman/internal/domain"
	"github.com/alexanderramin/projman/internal/repository"
	"github.com/google/uuid"
)

type subProcessService struct {
	subs     repository.SubProcessRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewSubProcessService(subs repository.SubProcessRepo, uow db.UnitOfWork, observers ...UseCaseObserver) SubProcessService {
	return &subProcessService{
		subs:     subs,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *subProcessService) Add(ctx context.Context, projectID string, in SubProcessFields) (sp *domain.SubProcess, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": projectID, "subprocess": in.Name}
	defer func() { observe(ctx, s.observer, "subprocess-add", startedAt, fields, err) }()

	name, err := domain.RequireName("sub-process name", in.Name)
	if err != nil {
		return nil, err
	}
	if err = validStatus(in.Status); err != nil {
		return nil, err
	}

	sp = &domain.SubProcess{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		Status:    in.Status,
		StartDate: domain.TrimField(in.StartDate),
		EndDate:   domain.TrimField(in.EndDate),
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, projectID); err != nil {
			return err
		}
		return repository.NewSQLiteSubProcessRepo(tx).Create(ctx, sp)
	})
	if err != nil {
		return nil, err
	}
	return sp, nil
}

// Edit overwrites every field, including the name. Sub-process status
// never affects which collection the parent project is in.
func (s *subProcessService) Edit(ctx context.Context, id string, in SubProcessFields) (sp *domain.SubProcess, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"subprocess_id": id, "status": string(in.Status)}
	defer func() { observe(ctx, s.observer, "subprocess-edit", startedAt, fields, err) }()

	name, err := domain.RequireName("sub-process name", in.Name)
	if err != nil {
		return nil, err
	}
	if err = validStatus(in.Status); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSubs := repository.NewSQLiteSubProcessRepo(tx)

		var err error
		sp, err = txSubs.GetByID(ctx, id)
		if err != nil {
			return err
		}
		sp.Name = name
		sp.Status = in.Status
		sp.StartDate = domain.TrimField(in.StartDate)
		sp.EndDate = domain.TrimField(in.EndDate)
		if err := txSubs.Update(ctx, sp); err != nil {
			return err
		}
		return loadSubProcess(ctx, tx, sp)
	})
	if err != nil {
		return nil, err
	}
	return sp, nil
}

func (s *subProcessService) Remove(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"subprocess_id": id}
	defer func() { observe(ctx, s.observer, "subprocess-remove", startedAt, fields, err) }()

	return s.subs.Delete(ctx, id)
}

func (s *subProcessService) List(ctx context.Context, projectID string) ([]*domain.SubProcess, error) {
	var out []*domain.SubProcess
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, projectID); err != nil {
			return err
		}
		var err error
		out, err = repository.NewSQLiteSubProcessRepo(tx).ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		for _, sp := range out {
			if err := loadSubProcess(ctx, tx, sp); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *subProcessService) Get(ctx context.Context, id string) (*domain.SubProcess, error) {
	var sp *domain.SubProcess
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		sp, err = repository.NewSQLiteSubProcessRepo(tx).GetByID(ctx, id)
		if err != nil {
			return err
		}
		return loadSubProcess(ctx, tx, sp)
	})
	if err != nil {
		return nil, err
	}
	return sp, nil
}
