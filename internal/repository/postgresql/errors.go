package postgresql

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgExclusionViolation  = "23P01"
	pgForeignKeyViolation = "23503"
)

// constraintViolation returns the violated constraint name when err is a
// Postgres error with one of the given codes.
func constraintViolation(err error, codes ...string) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	for _, code := range codes {
		if pgErr.Code == code {
			return pgErr.ConstraintName, true
		}
	}
	return "", false
}
