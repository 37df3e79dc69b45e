package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/projman/internal/db"
	"github.com/alexanderramin/projman/internal/domain"
)

// SQLiteSubProcessRepo implements SubProcessRepo on the session store.
type SQLiteSubProcessRepo struct {
	db db.DBTX
}

// NewSQLiteSubProcessRepo creates a new SQLiteSubProcessRepo.
func NewSQLiteSubProcessRepo(q db.DBTX) *SQLiteSubProcessRepo {
	return &SQLiteSubProcessRepo{db: q}
}

const subProcessColumns = `id, project_id, name, status, start_date, end_date, position`

// Create appends sp at the end of its project's sub-process list and sets
// sp.Position accordingly.
func (r *SQLiteSubProcessRepo) Create(ctx context.Context, sp *domain.SubProcess) error {
	pos, err := nextPosition(ctx, r.db, `SELECT MAX(position) FROM subprocesses WHERE project_id = ?`, sp.ProjectID)
	if err != nil {
		return err
	}
	sp.Position = pos

	query := `INSERT INTO subprocesses (` + subProcessColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		sp.ID,
		sp.ProjectID,
		sp.Name,
		string(sp.Status),
		sp.StartDate,
		sp.EndDate,
		sp.Position,
	)
	if err != nil {
		return fmt.Errorf("inserting sub-process: %w", err)
	}
	return nil
}

func (r *SQLiteSubProcessRepo) GetByID(ctx context.Context, id string) (*domain.SubProcess, error) {
	query := `SELECT ` + subProcessColumns + ` FROM subprocesses WHERE id = ?`
	sp, err := scanSubProcess(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "sub-process", id)
	}
	return sp, nil
}

func (r *SQLiteSubProcessRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.SubProcess, error) {
	query := `SELECT ` + subProcessColumns + ` FROM subprocesses WHERE project_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing sub-processes: %w", err)
	}
	defer rows.Close()

	var out []*domain.SubProcess
	for rows.Next() {
		sp, err := scanSubProcess(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sub-process row: %w", err)
		}
		out = append(out, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sub-processes: %w", err)
	}
	return out, nil
}

func (r *SQLiteSubProcessRepo) Update(ctx context.Context, sp *domain.SubProcess) error {
	query := `UPDATE subprocesses SET name = ?, status = ?, start_date = ?, end_date = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		sp.Name,
		string(sp.Status),
		sp.StartDate,
		sp.EndDate,
		sp.ID,
	)
	if err != nil {
		return fmt.Errorf("updating sub-process: %w", err)
	}
	return checkAffected(res, "sub-process", sp.ID)
}

func (r *SQLiteSubProcessRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subprocesses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting sub-process: %w", err)
	}
	return checkAffected(res, "sub-process", id)
}

func scanSubProcess(s rowScanner) (*domain.SubProcess, error) {
	var sp domain.SubProcess
	var status string
	err := s.Scan(&sp.ID, &sp.ProjectID, &sp.Name, &status, &sp.StartDate, &sp.EndDate, &sp.Position)
	if err != nil {
		return nil, err
	}
	sp.Status = domain.Status(status)
	return &sp, nil
}
