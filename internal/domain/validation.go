package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidHandle   = errors.New("invalid handle")
	ErrInvalidName     = errors.New("invalid name")
	ErrAmountTooLarge  = errors.New("amount exceeds maximum allowed")
	ErrAmountPrecision = errors.New("amount has too many decimal places")
	ErrNoteTooLong     = errors.New("note too long")
)

// Validation constants
const (
	MaxNameLength   = 255
	MaxHandleLength = 64
	MaxNoteLength   = 500
	AmountScale     = 2
	MaxAmount       = "1000000000000"
)

var handleRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateHandle checks a user or cause handle. Handles double as account names.
func ValidateHandle(handle string) error {
	if handle == "" {
		return fmt.Errorf("%w: handle cannot be empty", ErrInvalidHandle)
	}
	if len(handle) > MaxHandleLength {
		return fmt.Errorf("%w: handle exceeds %d characters", ErrInvalidHandle, MaxHandleLength)
	}
	if !handleRegex.MatchString(handle) {
		return fmt.Errorf("%w: use lowercase letters, digits, '-' and '_'", ErrInvalidHandle)
	}
	return nil
}

// ValidateName validates a display or account name
func ValidateName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, MaxNameLength)
	}

	return nil
}

// ValidateAmount rejects zero, negative and oversized amounts and amounts
// finer than the ledger's fixed scale.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	if !amount.Equal(amount.Truncate(AmountScale)) {
		return fmt.Errorf("%w: at most %d decimal places are allowed", ErrAmountPrecision, AmountScale)
	}

	maxAmount := decimal.RequireFromString(MaxAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}

// ValidateNote limits the optional transaction note.
func ValidateNote(note *string) error {
	if note != nil && len(*note) > MaxNoteLength {
		return fmt.Errorf("%w: note exceeds %d characters", ErrNoteTooLong, MaxNoteLength)
	}
	return nil
}
