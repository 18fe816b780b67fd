// Package repository provides PostgreSQL persistence for users,
// sessions, mood records, daily tasks, and couple spaces.
package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound is returned when a query matches no live row. Soft-deleted
// rows and rows owned by someone else surface as ErrNotFound too.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("duplicate")

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
