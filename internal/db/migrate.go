package db

import (
	"database/sql"
	"fmt"
)

// Migrate creates the session schema. Statements are idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

const statusCheck = `CHECK(status IN ('Not Started','Completed','In Progress','Aborted','Paused'))`

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS people (
		name TEXT PRIMARY KEY
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL CHECK(name != ''),
		status     TEXT NOT NULL ` + statusCheck + `,
		start_date TEXT NOT NULL DEFAULT '',
		end_date   TEXT NOT NULL DEFAULT '',
		position   INTEGER NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_projects_status_position ON projects(status, position)`,

	`CREATE TABLE IF NOT EXISTS subprocesses (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name       TEXT NOT NULL CHECK(name != ''),
		status     TEXT NOT NULL ` + statusCheck + `,
		start_date TEXT NOT NULL DEFAULT '',
		end_date   TEXT NOT NULL DEFAULT '',
		position   INTEGER NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_subprocesses_project ON subprocesses(project_id, position)`,

	// Exactly one of project_id / subprocess_id is set. person is not a
	// foreign key: removing a person runs an explicit orphan sweep.
	`CREATE TABLE IF NOT EXISTS assignments (
		id            TEXT PRIMARY KEY,
		project_id    TEXT REFERENCES projects(id) ON DELETE CASCADE,
		subprocess_id TEXT REFERENCES subprocesses(id) ON DELETE CASCADE,
		person        TEXT NOT NULL CHECK(person != ''),
		role          TEXT NOT NULL DEFAULT '',
		position      INTEGER NOT NULL,
		CHECK((project_id IS NULL) != (subprocess_id IS NULL))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_assignments_project ON assignments(project_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_subprocess ON assignments(subprocess_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_person ON assignments(person)`,
}
