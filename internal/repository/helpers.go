package repository

import (
	"database/sql"
	"fmt"

	"github.com/noah-isme/institute-erp-api/pkg/database"
)

// expectAffected converts a zero-row write into sql.ErrNoRows so services can report not found.
func expectAffected(res sql.Result, err error, op string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, database.Translate(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// wrap annotates err with op after translating constraint violations.
func wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, database.Translate(err))
}
