package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alexanderramin/projman/internal/csvcodec"
	"github.com/alexanderramin/projman/internal/db"
	"github.com/alexanderramin/projman/internal/domain"
	"github.com/alexanderramin/projman/internal/fsutil"
	"github.com/alexanderramin/projman/internal/repository"
)

// ExchangeOptions configures workbook file writes.
type ExchangeOptions struct {
	// Backup keeps the previous file as <path>.bak on export.
	Backup bool
}

type exchangeService struct {
	uow      db.UnitOfWork
	opts     ExchangeOptions
	observer UseCaseObserver
}

func NewExchangeService(uow db.UnitOfWork, opts ExchangeOptions, observers ...UseCaseObserver) ExchangeService {
	return &exchangeService{
		uow:      uow,
		opts:     opts,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Snapshot reads the whole session in one transaction.
func (s *exchangeService) Snapshot(ctx context.Context) (*domain.Workbook, error) {
	wb := domain.NewWorkbook()
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		if wb.People, err = repository.NewSQLitePersonRepo(tx).List(ctx); err != nil {
			return err
		}
		if wb.Active, err = loadCollection(ctx, tx, domain.CollectionActive); err != nil {
			return err
		}
		wb.Completed, err = loadCollection(ctx, tx, domain.CollectionCompleted)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	return wb, nil
}

func (s *exchangeService) Export(ctx context.Context, w io.Writer) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, "workbook-export", startedAt, fields, err) }()

	wb, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	fields["projects"] = len(wb.Active) + len(wb.Completed)
	return csvcodec.Encode(w, wb)
}

func (s *exchangeService) ExportFile(ctx context.Context, path string) (written string, err error) {
	startedAt := time.Now().UTC()
	written = fsutil.WithDefaultExt(path, ".csv")
	fields := map[string]any{"path": written}
	defer func() { observe(ctx, s.observer, "workbook-export-file", startedAt, fields, err) }()

	wb, err := s.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err = csvcodec.Encode(&buf, wb); err != nil {
		return "", err
	}
	fields["bytes"] = buf.Len()

	err = fsutil.AtomicWrite(written, buf.Bytes(), fsutil.Options{
		Backup: s.opts.Backup,
		Validate: func(content []byte) error {
			_, _, err := csvcodec.Decode(bytes.NewReader(content))
			return err
		},
	})
	if err != nil {
		return "", fmt.Errorf("writing workbook %s: %w", written, err)
	}
	return written, nil
}

// Import decodes r completely before touching the session, then clears
// and repopulates the store inside a single transaction.
func (s *exchangeService) Import(ctx context.Context, r io.Reader) (res *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, "workbook-import", startedAt, fields, err) }()

	wb, stats, err := csvcodec.Decode(r)
	if err != nil {
		return nil, err
	}

	res = &ImportResult{Stats: stats}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteStoreRepo(tx).Clear(ctx); err != nil {
			return err
		}
		return storeWorkbook(ctx, tx, wb, res)
	})
	if err != nil {
		return nil, fmt.Errorf("loading workbook into session: %w", err)
	}

	fields["people"] = res.People
	fields["active"] = res.Active
	fields["completed"] = res.Completed
	fields["dropped_rows"] = stats.Dropped
	fields["auto_registered"] = len(stats.AutoRegistered)
	return res, nil
}

func (s *exchangeService) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	res, err := s.Import(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", path, err)
	}
	return res, nil
}

// storeWorkbook inserts wb into an empty store, keeping collection order.
func storeWorkbook(ctx context.Context, tx db.DBTX, wb *domain.Workbook, res *ImportResult) error {
	people := repository.NewSQLitePersonRepo(tx)
	projects := repository.NewSQLiteProjectRepo(tx)
	subs := repository.NewSQLiteSubProcessRepo(tx)
	assignments := repository.NewSQLiteAssignmentRepo(tx)

	for _, name := range wb.People {
		if err := people.Add(ctx, name); err != nil {
			return err
		}
		res.People++
	}

	appendAll := func(owner domain.AssignmentOwner, as []domain.Assignment) error {
		for i := range as {
			if err := assignments.Append(ctx, owner, &as[i]); err != nil {
				return err
			}
			res.Assignments++
		}
		return nil
	}

	for _, p := range wb.Projects() {
		if err := projects.Create(ctx, p); err != nil {
			return err
		}
		if p.Collection() == domain.CollectionCompleted {
			res.Completed++
		} else {
			res.Active++
		}
		if err := appendAll(domain.ProjectOwner(p.ID), p.Assignments); err != nil {
			return err
		}
		for _, sp := range p.SubProcesses {
			sp.ProjectID = p.ID
			if err := subs.Create(ctx, sp); err != nil {
				return err
			}
			res.SubProcesses++
			if err := appendAll(domain.SubProcessOwner(sp.ID), sp.Assignments); err != nil {
				return err
			}
		}
	}
	return nil
}
