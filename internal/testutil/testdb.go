package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/projman/internal/db"
)

// NewTestDB opens a fresh session store with all migrations applied.
// The store is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB()
	if err != nil {
		t.Fatalf("failed to create test session store: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestUoW creates a UnitOfWork backed by the given test store.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
