package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/projman/internal/db"
	"github.com/alexanderramin/projman/internal/domain"
)

// SQLiteAssignmentRepo implements AssignmentRepo on the session store.
type SQLiteAssignmentRepo struct {
	db db.DBTX
}

// NewSQLiteAssignmentRepo creates a new SQLiteAssignmentRepo.
func NewSQLiteAssignmentRepo(q db.DBTX) *SQLiteAssignmentRepo {
	return &SQLiteAssignmentRepo{db: q}
}

// Append adds a at the end of owner's list.
func (r *SQLiteAssignmentRepo) Append(ctx context.Context, owner domain.AssignmentOwner, a *domain.Assignment) error {
	col, err := ownerColumn(owner)
	if err != nil {
		return err
	}
	pos, err := nextPosition(ctx, r.db, `SELECT MAX(position) FROM assignments WHERE `+col+` = ?`, owner.ID)
	if err != nil {
		return err
	}

	query := `INSERT INTO assignments (id, ` + col + `, person, role, position) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, a.ID, owner.ID, a.Person, a.Role, pos); err != nil {
		return fmt.Errorf("inserting assignment: %w", err)
	}
	return nil
}

func (r *SQLiteAssignmentRepo) ListByOwner(ctx context.Context, owner domain.AssignmentOwner) ([]domain.Assignment, error) {
	col, err := ownerColumn(owner)
	if err != nil {
		return nil, err
	}
	query := `SELECT id, person, role FROM assignments WHERE ` + col + ` = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	defer rows.Close()

	var out []domain.Assignment
	for rows.Next() {
		var a domain.Assignment
		if err := rows.Scan(&a.ID, &a.Person, &a.Role); err != nil {
			return nil, fmt.Errorf("scanning assignment row: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignments: %w", err)
	}
	return out, nil
}

// Update replaces person and role in place; position is unchanged.
func (r *SQLiteAssignmentRepo) Update(ctx context.Context, a domain.Assignment) error {
	res, err := r.db.ExecContext(ctx, `UPDATE assignments SET person = ?, role = ? WHERE id = ?`, a.Person, a.Role, a.ID)
	if err != nil {
		return fmt.Errorf("updating assignment: %w", err)
	}
	return checkAffected(res, "assignment", a.ID)
}

func (r *SQLiteAssignmentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting assignment: %w", err)
	}
	return checkAffected(res, "assignment", id)
}

// RenamePerson rewrites every assignment naming oldName, keeping role and
// position, and returns the lists it touched.
func (r *SQLiteAssignmentRepo) RenamePerson(ctx context.Context, oldName, newName string) ([]domain.AssignmentOwner, error) {
	owners, err := r.owners(ctx, `WHERE person = ?`, oldName)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, `UPDATE assignments SET person = ? WHERE person = ?`, newName, oldName); err != nil {
		return nil, fmt.Errorf("renaming assignments: %w", err)
	}
	return owners, nil
}

// DeleteOrphans removes every assignment whose person is not in the
// personnel set and returns the lists touched plus the number removed.
func (r *SQLiteAssignmentRepo) DeleteOrphans(ctx context.Context) ([]domain.AssignmentOwner, int, error) {
	const orphan = `WHERE person NOT IN (SELECT name FROM people)`
	owners, err := r.owners(ctx, orphan)
	if err != nil {
		return nil, 0, err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM assignments `+orphan)
	if err != nil {
		return nil, 0, fmt.Errorf("sweeping orphaned assignments: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, 0, fmt.Errorf("reading rows affected: %w", err)
	}
	return owners, int(n), nil
}

// owners lists the distinct assignment lists matching where, in a stable
// order.
func (r *SQLiteAssignmentRepo) owners(ctx context.Context, where string, args ...any) ([]domain.AssignmentOwner, error) {
	query := `SELECT DISTINCT project_id, subprocess_id FROM assignments ` + where +
		` ORDER BY project_id, subprocess_id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing assignment owners: %w", err)
	}
	defer rows.Close()

	var out []domain.AssignmentOwner
	for rows.Next() {
		var projectID, subID sql.NullString
		if err := rows.Scan(&projectID, &subID); err != nil {
			return nil, fmt.Errorf("scanning assignment owner: %w", err)
		}
		if projectID.Valid {
			out = append(out, domain.ProjectOwner(projectID.String))
		} else {
			out = append(out, domain.SubProcessOwner(subID.String))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignment owners: %w", err)
	}
	return out, nil
}
