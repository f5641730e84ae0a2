package service

import (
	"errors"
	"fmt"

	"libraryhub/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

// Error kinds every service returns. Handlers map them to HTTP statuses with
// errors.Is; anything that matches none of them is an internal failure.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid token", ErrUnauthorized)
	ErrExpiredToken       = fmt.Errorf("%w: token has expired", ErrUnauthorized)
	ErrEmailInUse         = fmt.Errorf("%w: email already in use", ErrConflict)
)

// ErrScanIncomplete is returned with the report when some loans could not be flagged.
var ErrScanIncomplete = errors.New("overdue scan incomplete")

// classify turns a repository error into one of the service error kinds.
// what names the entity, e.g. "request 7".
func classify(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case errors.Is(err, repository.ErrRequestNotPending),
		errors.Is(err, repository.ErrLoanNotOpen),
		errors.Is(err, repository.ErrLoanNotDue),
		errors.Is(err, repository.ErrFineNotPending):
		return fmt.Errorf("%w: %s: %w", ErrInvalidState, what, err)
	case errors.Is(err, repository.ErrNoCopiesAvailable),
		errors.Is(err, repository.ErrUserHasOpenLoans),
		errors.Is(err, repository.ErrUserHasPendingFines),
		errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %s: %w", ErrConflict, what, err)
	case errors.Is(err, repository.ErrRequestHasNoBooks):
		return fmt.Errorf("%w: %s: %w", ErrValidation, what, err)
	}
	return fmt.Errorf("%s: %w", what, err)
}
