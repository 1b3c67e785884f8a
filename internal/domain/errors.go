package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrVersionConflict     = errors.New("account was modified concurrently")

	// Transaction errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrSameAccount         = errors.New("cannot transfer to same account")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidEntryKind    = errors.New("invalid entry kind")
	ErrSelfMatch           = errors.New("transaction cannot match itself")
	ErrAlreadyMatched      = errors.New("transaction is already matched")
	ErrUnbalancedPair      = errors.New("matched entries must have equal amounts")

	// Owner errors
	ErrUserNotFound  = errors.New("user not found")
	ErrCauseNotFound = errors.New("cause not found")
	ErrHandleTaken   = errors.New("handle already taken")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// AccountNotFoundError names the account that does not exist. It matches
// ErrAccountNotFound under errors.Is.
type AccountNotFoundError struct {
	ID string
}

func (e *AccountNotFoundError) Error() string {
	return ErrAccountNotFound.Error() + ": " + e.ID
}

// Is reports whether target is ErrAccountNotFound.
func (e *AccountNotFoundError) Is(target error) bool {
	return target == ErrAccountNotFound
}
