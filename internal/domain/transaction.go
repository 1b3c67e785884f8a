package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind is the direction of a ledger entry.
type EntryKind string

const (
	EntryKindCredit EntryKind = "credit"
	EntryKindDebit  EntryKind = "debit"
)

// ParseEntryKind parses a kind filter. An empty string yields nil.
func ParseEntryKind(s string) (*EntryKind, error) {
	switch EntryKind(s) {
	case "":
		return nil, nil
	case EntryKindCredit, EntryKindDebit:
		k := EntryKind(s)
		return &k, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidEntryKind, s)
	}
}

// Valid reports whether k is credit or debit.
func (k EntryKind) Valid() bool {
	return k == EntryKindCredit || k == EntryKindDebit
}

// Opposite returns the other side of a pair.
func (k EntryKind) Opposite() EntryKind {
	if k == EntryKindCredit {
		return EntryKindDebit
	}
	return EntryKindCredit
}

// Transaction is one immutable entry against an account. Transfers produce two
// of them, linked to each other through MatchEntryID.
type Transaction struct {
	ID           string
	Amount       decimal.Decimal
	Kind         EntryKind
	Note         *string
	AccountID    string
	MatchEntryID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Signed returns the amount with the sign it contributes to the balance.
func (t *Transaction) Signed() decimal.Decimal {
	if t.Kind == EntryKindDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// IsMatchedWith reports whether t and other point at each other.
func (t *Transaction) IsMatchedWith(other *Transaction) bool {
	return t.MatchEntryID != nil && other.MatchEntryID != nil &&
		*t.MatchEntryID == other.ID && *other.MatchEntryID == t.ID
}

// Link pairs a debit with its credit. Both sides must be unlinked, of opposite
// kinds and equal amounts, and booked against different accounts.
func Link(debit, credit *Transaction) error {
	switch {
	case debit.ID == credit.ID:
		return ErrSelfMatch
	case debit.MatchEntryID != nil || credit.MatchEntryID != nil:
		return ErrAlreadyMatched
	case debit.Kind != EntryKindDebit || credit.Kind != EntryKindCredit:
		return ErrInvalidEntryKind
	case !debit.Amount.Equal(credit.Amount):
		return ErrUnbalancedPair
	case debit.AccountID == credit.AccountID:
		return ErrSameAccount
	}

	debitID, creditID := debit.ID, credit.ID
	debit.MatchEntryID = &creditID
	credit.MatchEntryID = &debitID
	return nil
}

// TransactionFilter scopes a read over one account's entries.
type TransactionFilter struct {
	AccountID string
	Kind      *EntryKind
}
