package database

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Postgres SQLSTATE codes the repositories translate.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

var (
	// ErrUniqueViolation marks a write rejected by a unique constraint.
	ErrUniqueViolation = errors.New("unique constraint violation")
	// ErrForeignKeyViolation marks a write rejected by a foreign key constraint.
	ErrForeignKeyViolation = errors.New("foreign key violation")
)

// Translate maps driver constraint errors onto package sentinels, keeping the
// original error in the chain. Other errors are returned unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch string(pqErr.Code) {
	case codeUniqueViolation:
		return fmt.Errorf("%w (%s): %w", ErrUniqueViolation, pqErr.Constraint, err)
	case codeForeignKeyViolation:
		return fmt.Errorf("%w (%s): %w", ErrForeignKeyViolation, pqErr.Constraint, err)
	default:
		return err
	}
}

// IsUniqueViolation reports whether err stems from a unique constraint.
func IsUniqueViolation(err error) bool {
	return errors.Is(Translate(err), ErrUniqueViolation)
}

// IsForeignKeyViolation reports whether err stems from a foreign key constraint.
func IsForeignKeyViolation(err error) bool {
	return errors.Is(Translate(err), ErrForeignKeyViolation)
}
