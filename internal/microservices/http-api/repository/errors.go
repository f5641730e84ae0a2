package repository

import "errors"

// State errors returned from inside repository transactions. Not-found cases
// surface as gorm.ErrRecordNotFound and duplicate keys as gorm.ErrDuplicatedKey.
var (
	ErrRequestNotPending   = errors.New("request is not pending")
	ErrRequestHasNoBooks   = errors.New("request has no books")
	ErrNoCopiesAvailable   = errors.New("no copies available")
	ErrLoanNotOpen         = errors.New("loan is already returned")
	ErrLoanNotDue          = errors.New("loan is not active and past due")
	ErrFineNotPending      = errors.New("fine is not pending")
	ErrUserHasOpenLoans    = errors.New("user has unreturned loans")
	ErrUserHasPendingFines = errors.New("user has pending fines")
)
