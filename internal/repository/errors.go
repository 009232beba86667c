package repository

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
)

// isUniqueViolation works for both SQLite and PostgreSQL
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value")
}

// selectIn runs a query containing a single "IN (?)" clause expanded from ids.
// An empty id list yields no rows without touching the database.
func selectIn(ctx context.Context, db sqlx.ExtContext, dest any, query string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	q, args, err := sqlx.In(query, ids)
	if err != nil {
		return err
	}

	return sqlx.SelectContext(ctx, db, dest, db.Rebind(q), args...)
}

func affected(result interface{ RowsAffected() (int64, error) }, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
