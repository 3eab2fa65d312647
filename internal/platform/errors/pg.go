package errors

import (
	stderrs "errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	sqlStateUndefinedTable = "42P01"
	sqlStateReadOnly       = "25006"
	sqlStateAdminShutdown  = "57P01"
	sqlStateStartingUp     = "57P03"
)

func sqlState(err error) string {
	var pg *pgconn.PgError
	if stderrs.As(err, &pg) {
		return pg.Code
	}
	return ""
}

// IsUndefinedTable reports a missing relation, usually the kv table before EnsureSchema
func IsUndefinedTable(err error) bool { return sqlState(err) == sqlStateUndefinedTable }

// FromPostgres wraps a database failure; server states that mean the primary is not
// taking writes map to Unavailable, everything else to DB
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	switch sqlState(err) {
	case sqlStateReadOnly, sqlStateAdminShutdown, sqlStateStartingUp:
		return Wrap(err, ErrorCodeUnavailable, msg)
	}
	return Wrap(err, ErrorCodeDB, msg)
}
