package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the repositories translate into domain errors.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeCheckViolation      = "23514"
)

// PgError returns the *pgconn.PgError in err's chain, if any.
func PgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// ConstraintViolation reports the violated constraint name when err carries code.
func ConstraintViolation(err error, code string) (string, bool) {
	pgErr, ok := PgError(err)
	if !ok || pgErr.Code != code {
		return "", false
	}
	return pgErr.ConstraintName, true
}

func IsUniqueViolation(err error) bool {
	_, ok := ConstraintViolation(err, CodeUniqueViolation)
	return ok
}

func IsForeignKeyViolation(err error) bool {
	_, ok := ConstraintViolation(err, CodeForeignKeyViolation)
	return ok
}
