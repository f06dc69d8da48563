package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("load receipt: %w", Clone(ErrNotFound, "receipt not found"))

	got := FromError(wrapped)

	assert.Equal(t, http.StatusNotFound, got.Status)
	assert.Equal(t, "receipt not found", got.Message)
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	got := FromError(errors.New("connection reset"))

	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.EqualError(t, got, "internal server error: connection reset")
	assert.Nil(t, FromError(nil))
}

func TestCloneComparesByCode(t *testing.T) {
	clone := Clone(ErrConflict, "student already enrolled in this batch")

	assert.True(t, errors.Is(clone, ErrConflict))
	assert.False(t, errors.Is(clone, ErrNotFound))
	assert.Equal(t, "conflict", ErrConflict.Message)
}

func TestWithFieldsCopies(t *testing.T) {
	fields := map[string]string{"amount": "must be greater than 0"}

	got := WithFields(ErrValidation, fields)
	fields["amount"] = "changed"

	require.NotNil(t, got)
	assert.Equal(t, "must be greater than 0", got.Fields["amount"])
	assert.Nil(t, ErrValidation.Fields)
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("sign in: %w", ErrInactiveAccount)

	assert.True(t, HasCode(err, "ACCOUNT_INACTIVE"))
	assert.False(t, HasCode(err, "UNAUTHORIZED"))
	assert.False(t, HasCode(errors.New("plain"), "ACCOUNT_INACTIVE"))
}
