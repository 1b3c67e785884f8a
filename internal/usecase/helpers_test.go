package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cofundable/cofundable/internal/domain"
	"github.com/cofundable/cofundable/internal/usecase"
	"github.com/cofundable/cofundable/internal/usecase/memstore"
)

const treasuryID = "treasury"

type ledgerEnv struct {
	store    *memstore.Store
	ledger   *usecase.LedgerUseCase
	accounts *usecase.AccountUseCase
	queries  *usecase.TransactionQueryUseCase
}

func newLedgerEnv(t *testing.T) *ledgerEnv {
	t.Helper()

	s := memstore.New()
	s.SeedAccount(domain.Account{
		ID:                   treasuryID,
		Name:                 "treasury",
		Balance:              decimal.Zero,
		AllowNegativeBalance: true,
		CreatedAt:            time.Now().UTC(),
	})

	ledger := usecase.NewLedgerUseCase(s.Accounts(), s.EntryRepository(), s.Ledger(), s)
	accounts := usecase.NewAccountUseCase(
		s, s.Accounts(), s.Outbox(), ledger, memstore.PassthroughRetrier{}, s, nil, treasuryID,
	)

	return &ledgerEnv{
		store:    s,
		ledger:   ledger,
		accounts: accounts,
		queries:  usecase.NewTransactionQueryUseCase(s.EntryRepository()),
	}
}

// open creates an account and funds it from the treasury.
func (e *ledgerEnv) open(t *testing.T, name, balance string) string {
	t.Helper()
	ctx := context.Background()

	tx, err := e.store.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	acc, err := e.accounts.OpenAccount(ctx, tx, name)
	if err != nil {
		t.Fatalf("open account %s: %v", name, err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if amount := decimal.RequireFromString(balance); amount.IsPositive() {
		if _, _, err := e.accounts.GrantShares(ctx, usecase.GrantSharesInput{ToAccountID: acc.ID, Amount: amount}); err != nil {
			t.Fatalf("fund %s: %v", name, err)
		}
	}
	return acc.ID
}

func (e *ledgerEnv) balance(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	acc, ok := e.store.Account(id)
	if !ok {
		t.Fatalf("account %s missing", id)
	}
	return acc.Balance
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
