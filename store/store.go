// Package store is the persistence layer: plain SQL over database/sql,
// one type per table. Methods take the request context so an abandoned
// request rolls its transaction back instead of committing half a write.
package store

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation pgx error code, see PostgreSQL errcodes appendix.
const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique-constraint failure.
// The message fallback covers the sqlite driver used by the test suite.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint")
}

// rollback swallows the error of a rollback that races a commit.
func rollback(tx *sql.Tx) {
	_ = tx.Rollback()
}
