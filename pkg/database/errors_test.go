package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestTranslateUniqueViolation(t *testing.T) {
	raw := &pq.Error{Code: "23505", Constraint: "enrollments_student_id_batch_id_key"}

	err := Translate(fmt.Errorf("insert enrollment: %w", raw))

	assert.ErrorIs(t, err, ErrUniqueViolation)
	assert.True(t, IsUniqueViolation(raw))
	assert.False(t, IsForeignKeyViolation(raw))
	assert.Contains(t, err.Error(), "enrollments_student_id_batch_id_key")
}

func TestTranslateForeignKeyViolation(t *testing.T) {
	raw := &pq.Error{Code: "23503"}
	assert.True(t, IsForeignKeyViolation(raw))
}

func TestTranslatePassesThroughOtherErrors(t *testing.T) {
	plain := errors.New("boom")
	assert.Equal(t, plain, Translate(plain))
	assert.Nil(t, Translate(nil))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "42P01"}))
}
