package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/projman/internal/db"
	"github.com/alexanderramin/projman/internal/domain"
)

// notFound maps sql.ErrNoRows onto the domain's NotFoundError.
func notFound(err error, kind, ref string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Kind: kind, Ref: ref}
	}
	return fmt.Errorf("scanning %s: %w", kind, err)
}

// ownerColumn returns the assignments column that references owner.
func ownerColumn(owner domain.AssignmentOwner) (string, error) {
	switch owner.Kind {
	case domain.OwnerProject:
		return "project_id", nil
	case domain.OwnerSubProcess:
		return "subprocess_id", nil
	default:
		return "", fmt.Errorf("unknown assignment owner kind %q", owner.Kind)
	}
}

// collectionClause filters projects to one collection. Membership is
// derived from status, never stored.
func collectionClause(c domain.Collection) string {
	if c == domain.CollectionCompleted {
		return "status = 'Completed'"
	}
	return "status != 'Completed'"
}

// nextPosition returns one past the highest position matched by query.
func nextPosition(ctx context.Context, q db.DBTX, query string, args ...any) (int, error) {
	var top sql.NullInt64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&top); err != nil {
		return 0, fmt.Errorf("reading max position: %w", err)
	}
	return int(top.Int64) + 1, nil
}

// checkAffected returns a NotFoundError when an update or delete touched
// no rows.
func checkAffected(res sql.Result, kind, ref string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return &domain.NotFoundError{Kind: kind, Ref: ref}
	}
	return nil
}
