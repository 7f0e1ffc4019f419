package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL class 23 integrity violation for duplicate keys.
const uniqueViolation = "23505"

// MapError converts driver-level errors into the caller's domain
// sentinels: sql.ErrNoRows becomes notFound, a unique-constraint
// violation becomes duplicate. Anything else passes through as is.
func MapError(err, notFound, duplicate error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return duplicate
	}
	return err
}
