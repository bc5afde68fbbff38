package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation conflicts with the current state of a resource.
var ErrConflict = errors.New("operation conflicts with resource state")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// Domain errors of the accounting core. These abort the unit of work that
// raised them and are not retryable.
var (
	// ErrFutureOperation is returned when an operation carries a timestamp
	// later than the current time (future-dated entry or snapshot).
	ErrFutureOperation = errors.New("operation timestamp is in the future")

	// ErrRetroactiveOperation is returned when an operation would insert data
	// at or before an existing closing or balance snapshot boundary.
	ErrRetroactiveOperation = errors.New("retroactive operation not permitted")

	// ErrArchivedCompany is returned for write operations against an archived company.
	ErrArchivedCompany = errors.New("company is archived")

	// ErrInconsistentData is returned when the books would not balance, e.g.
	// a journal entry whose debits do not equal its credits.
	ErrInconsistentData = errors.New("inconsistent accounting data")

	// ErrInsufficientBalance is reserved for balance-constrained operations.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrNoContraAccount indicates missing setup: the company has no active
	// asset account usable as the contra side of a generated entry.
	ErrNoContraAccount = errors.New("no contra account available")
)

// AppError wraps a lower-level failure with a status code and a message.
// Repositories use it to attach context to infrastructure errors.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError with the given code, message and cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that unwraps to ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
