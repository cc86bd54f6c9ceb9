// Package common defines shared constants and sentinel errors used across
// the lostfound server layers. Callers should use errors.Is to match these
// values; wrapped errors keep the store and operation that produced them.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound            = errors.New("not found")
	ErrDuplicateKey          = errors.New("duplicate key")
	ErrConnectionUnavailable = errors.New("connection unavailable")

	// Saga and read-side errors.
	ErrPersistenceFailed      = errors.New("persistence failed")
	ErrDetailResolutionFailed = errors.New("detail resolution failed")

	// Lifecycle errors. Both specific errors match ErrConflict.
	ErrConflict          = errors.New("conflict")
	ErrAlreadyRecovered  = fmt.Errorf("%w: item already recovered", ErrConflict)
	ErrInvalidTransition = fmt.Errorf("%w: invalid status transition", ErrConflict)

	// Claim preconditions.
	ErrSelfClaim        = errors.New("cannot claim own item")
	ErrItemNotClaimable = errors.New("item is not claimable")

	// Validation errors.
	ErrValidation      = errors.New("validation error")
	ErrPayloadTooLarge = fmt.Errorf("%w: payload too large", ErrValidation)

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// StoreError attaches the failing store and operation to an underlying error
// so that operator-facing messages say where a failure happened.
type StoreError struct {
	Store string
	Op    string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Store, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// WrapStore returns nil for a nil err, otherwise a *StoreError.
func WrapStore(store, op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Store: store, Op: op, Err: err}
}

// Validationf builds an error matching ErrValidation.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
