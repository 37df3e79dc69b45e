package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/projman/internal/db"
)

// SQLiteStoreRepo implements StoreRepo on the session store.
type SQLiteStoreRepo struct {
	db db.DBTX
}

// NewSQLiteStoreRepo creates a new SQLiteStoreRepo.
func NewSQLiteStoreRepo(q db.DBTX) *SQLiteStoreRepo {
	return &SQLiteStoreRepo{db: q}
}

// Clear empties every table. Child rows go first so the statement order
// does not depend on cascade behavior.
func (r *SQLiteStoreRepo) Clear(ctx context.Context) error {
	for _, table := range []string{"assignments", "subprocesses", "projects", "people"} {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}
