package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/projman/internal/db"
	"github.com/alexanderramin/projman/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo on the session store.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(q db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: q}
}

const projectColumns = `id, name, status, start_date, end_date, position`

// Create appends p at the end of the collection its status selects and
// sets p.Position accordingly.
func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	pos, err := r.NextPosition(ctx, p.Collection())
	if err != nil {
		return err
	}
	p.Position = pos

	query := `INSERT INTO projects (` + projectColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		string(p.Status),
		p.StartDate,
		p.EndDate,
		p.Position,
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "project", id)
	}
	return p, nil
}

func (r *SQLiteProjectRepo) List(ctx context.Context, c domain.Collection) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE ` + collectionClause(c) + ` ORDER BY position`
	return r.query(ctx, query)
}

// FindByName matches case-insensitively, active projects first.
func (r *SQLiteProjectRepo) FindByName(ctx context.Context, name string) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects
		WHERE name = ? COLLATE NOCASE
		ORDER BY status = 'Completed', position`
	return r.query(ctx, query, name)
}

func (r *SQLiteProjectRepo) NextPosition(ctx context.Context, c domain.Collection) (int, error) {
	return nextPosition(ctx, r.db, `SELECT MAX(position) FROM projects WHERE `+collectionClause(c))
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET name = ?, status = ?, start_date = ?, end_date = ?, position = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		string(p.Status),
		p.StartDate,
		p.EndDate,
		p.Position,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return checkAffected(res, "project", p.ID)
}

func (r *SQLiteProjectRepo) SetPosition(ctx context.Context, id string, position int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE projects SET position = ? WHERE id = ?`, position, id)
	if err != nil {
		return fmt.Errorf("repositioning project: %w", err)
	}
	return checkAffected(res, "project", id)
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return checkAffected(res, "project", id)
}

func (r *SQLiteProjectRepo) query(ctx context.Context, query string, args ...any) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

var (
	_ rowScanner = (*sql.Row)(nil)
	_ rowScanner = (*sql.Rows)(nil)
)

func scanProject(s rowScanner) (*domain.Project, error) {
	var p domain.Project
	var status string
	if err := s.Scan(&p.ID, &p.Name, &status, &p.StartDate, &p.EndDate, &p.Position); err != nil {
		return nil, err
	}
	p.Status = domain.Status(status)
	return &p, nil
}
