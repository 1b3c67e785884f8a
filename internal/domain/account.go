package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds a named share balance owned by exactly one user or cause.
type Account struct {
	ID                   string
	Name                 string
	Balance              decimal.Decimal
	Version              int64
	AllowNegativeBalance bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewAccount returns a zero-balance account.
func NewAccount(id, name string, now time.Time) *Account {
	return &Account{
		ID:        id,
		Name:      name,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CanDebit reports whether the account holds enough shares to be debited by amount.
func (a *Account) CanDebit(amount decimal.Decimal) bool {
	return a.AllowNegativeBalance || a.Balance.GreaterThanOrEqual(amount)
}

// ValidateDebit checks if account can be debited by amount.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if !a.CanDebit(amount) {
		return ErrInsufficientBalance
	}
	return nil
}

// Apply moves the balance by the signed amount of t.
func (a *Account) Apply(t *Transaction) {
	a.Balance = a.Balance.Add(t.Signed())
	a.UpdatedAt = t.CreatedAt
}
