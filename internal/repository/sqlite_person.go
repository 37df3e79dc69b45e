package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/projman/internal/db"
	"github.com/alexanderramin/projman/internal/domain"
)

// SQLitePersonRepo implements PersonRepo on the session store.
type SQLitePersonRepo struct {
	db db.DBTX
}

// NewSQLitePersonRepo creates a new SQLitePersonRepo.
func NewSQLitePersonRepo(q db.DBTX) *SQLitePersonRepo {
	return &SQLitePersonRepo{db: q}
}

// Add inserts name, returning a DuplicateError if it is already present.
func (r *SQLitePersonRepo) Add(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO people (name) VALUES (?)`, name)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateError{Name: name}
		}
		return fmt.Errorf("inserting person: %w", err)
	}
	return nil
}

func (r *SQLitePersonRepo) Exists(ctx context.Context, name string) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM people WHERE name = ?`, name).Scan(&n); err != nil {
		return false, fmt.Errorf("checking person: %w", err)
	}
	return n > 0, nil
}

// List returns every name in byte order, matching the workbook's sort.
func (r *SQLitePersonRepo) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM people ORDER BY name COLLATE BINARY`)
	if err != nil {
		return nil, fmt.Errorf("listing people: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning person row: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating people: %w", err)
	}
	return names, nil
}

func (r *SQLitePersonRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM people`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting people: %w", err)
	}
	return n, nil
}

// Rename changes oldName to newName in the personnel set only; assignments
// are rewritten by AssignmentRepo.RenamePerson.
func (r *SQLitePersonRepo) Rename(ctx context.Context, oldName, newName string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE people SET name = ? WHERE name = ?`, newName, oldName)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateError{Name: newName}
		}
		return fmt.Errorf("renaming person: %w", err)
	}
	return checkAffected(res, "person", oldName)
}

func (r *SQLitePersonRepo) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM people WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting person: %w", err)
	}
	return checkAffected(res, "person", name)
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
