package custom_error

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

type CustomError interface {
	Error() string
}

// ValidationError reports a rejected input value. It is raised before any store call
// where possible and also when the schema rejects a row.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// TransportError covers an unreachable service and any non-2xx answer that is not
// mapped to a more specific error.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("transport failure: %v", e.Err)
	}
	return fmt.Sprintf("transport failure (status %d): %v", e.StatusCode, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type UniqueViolationError struct {
	message string
	code    string // database error code (e.g., "23505")
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", e.message, e.code)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsTransport(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

// WrapDBError maps a postgres SQLSTATE onto the error taxonomy.
func WrapDBError(message, code string) CustomError {
	switch code {
	case pgerrcode.UniqueViolation:
		return &UniqueViolationError{
			message: message,
			code:    code,
		}
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		return &ValidationError{
			Message: fmt.Sprintf("%s (code: %s)", message, code),
		}
	default:
		return fmt.Errorf("uncategorized error occurred with code %s: %s", code, message)
	}
}

// FromDriverError translates driver specific errors (lib/pq, go-sqlite3). Errors that are not
// constraint violations are returned unchanged so callers can keep wrapping them.
func FromDriverError(message string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return WrapDBError(message, string(pqErr.Code))
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.Code == sqlite3.ErrConstraint {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return WrapDBError(message, pgerrcode.UniqueViolation)
		case sqlite3.ErrConstraintCheck:
			return WrapDBError(message, pgerrcode.CheckViolation)
		case sqlite3.ErrConstraintNotNull:
			return WrapDBError(message, pgerrcode.NotNullViolation)
		}
	}

	return err
}
