package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("record already exists")
	// ErrCapacity is returned when an enrollment would exceed session capacity.
	ErrCapacity = errors.New("capacity exceeded")
	// ErrClosed is returned when an enrollment targets a session that is no
	// longer upcoming.
	ErrClosed = errors.New("session closed")
)

const uniqueViolation = "23505"

// mapPgError translates driver errors into port errors. Anything it does not
// recognise is returned unchanged and treated as a backend failure upstream.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrConflict
	}
	return err
}
