package repository

import (
	"errors"

	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const uniqueViolation = "23505"

// IsUniqueViolation reports whether the error is a unique-constraint
// violation, used to surface Conflict instead of a generic store error.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}

func normalizePage(page, size, maxSize int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > maxSize {
		size = 20
	}
	return page, size, (page - 1) * size
}
