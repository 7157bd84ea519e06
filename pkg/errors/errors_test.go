package custom_error

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestWrapDBError(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		check func(err error) bool
	}{
		{"unique violation", "23505", func(err error) bool { _, ok := err.(*UniqueViolationError); return ok }},
		{"check violation", "23514", IsValidation},
		{"not null violation", "23502", IsValidation},
		{"other", "40001", func(err error) bool { return !IsValidation(err) && !IsNotFound(err) }},
		{"foreign key violation is uncategorized", "23503", func(err error) bool { return !IsValidation(err) && !IsNotFound(err) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapDBError("asset rejected", tt.code)
			assert.True(t, tt.check(err), "unexpected error type %T", err)
			assert.Contains(t, err.Error(), tt.code)
		})
	}
}

func TestFromDriverErrorPostgres(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pq.Error{Code: "23514", Message: "violates check constraint"})

	err := FromDriverError("asset rejected", wrapped)

	assert.True(t, IsValidation(err))
}

func TestFromDriverErrorPassThrough(t *testing.T) {
	original := errors.New("connection reset")

	assert.Same(t, original, FromDriverError("asset rejected", original))
}

func TestTaxonomyHelpers(t *testing.T) {
	notFound := fmt.Errorf("update: %w", NewNotFoundError("asset", "42"))
	transport := &TransportError{StatusCode: 502, Err: errors.New("bad gateway")}

	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsValidation(notFound))
	assert.True(t, IsTransport(transport))
	assert.Equal(t, `asset "42" not found`, errors.Unwrap(notFound).Error())
	assert.Equal(t, "description: must not be blank", NewValidationError("description", "must not be blank").Error())
}
