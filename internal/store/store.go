// Package store is the record store of the tracker: named collections over a
// local SQLite database with primary keys, declared secondary indexes and
// atomic multi-collection transactions.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Failure conditions reported by the store. Callers test for them with
// errors.Is; the returned errors wrap them with operation context.
var (
	ErrNotFound            = errors.New("not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrInvalidArgument     = errors.New("invalid argument")
)

// classify maps a database/sql or SQLite error onto the store's failure
// conditions. Anything that is not a missing row or a constraint failure is
// fatal to the enclosing transaction.
func classify(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConstraintViolation),
		errors.Is(err, ErrStorageUnavailable), errors.Is(err, ErrInvalidArgument):
		return err
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
	}

	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}

// invalid builds an ErrInvalidArgument with a formatted reason.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
