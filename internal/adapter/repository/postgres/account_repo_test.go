package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/cofundable/cofundable/internal/domain"
)

var accountColumns = []string{"id", "name", "balance", "version", "allow_negative_balance", "created_at", "updated_at"}

func TestAccountRepositoryGetByID(t *testing.T) {
	pool := newMockPool(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	pool.ExpectQuery("SELECT .* FROM accounts WHERE id").
		WithArgs("acct-1").
		WillReturnRows(pgxmock.NewRows(accountColumns).
			AddRow("acct-1", "alice", "150.25", int64(4), false, now, now))

	account, err := NewAccountRepository(pool).GetByID(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !account.Balance.Equal(decimal.RequireFromString("150.25")) {
		t.Fatalf("expected balance 150.25, got %s", account.Balance)
	}
	if account.Version != 4 || account.Name != "alice" || !account.CreatedAt.Equal(now) {
		t.Fatalf("unexpected account: %+v", account)
	}

	assertExpectations(t, pool)
}

func TestAccountRepositoryGetByIDNotFound(t *testing.T) {
	pool := newMockPool(t)

	pool.ExpectQuery("SELECT .* FROM accounts WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := NewAccountRepository(pool).GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	assertExpectations(t, pool)
}

func TestAccountRepositoryGetByIDsForUpdate(t *testing.T) {
	pool := newMockPool(t)
	now := time.Now().UTC()
	tx := beginTx(t, pool)

	pool.ExpectQuery("FROM accounts WHERE id = ANY.* FOR UPDATE").
		WithArgs([]string{"a", "b"}).
		WillReturnRows(pgxmock.NewRows(accountColumns).
			AddRow("a", "alice", "10.00", int64(1), false, now, now).
			AddRow("b", "bob", "0", int64(0), false, now, now))

	accounts, err := NewAccountRepository(pool).GetByIDsForUpdate(context.Background(), tx, []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(accounts) != 2 || accounts[0].ID != "a" || accounts[1].ID != "b" {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}

	assertExpectations(t, pool)
}

func TestAccountRepositoryUpdateBalance(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "version matches", affected: 1},
		{name: "stale version", affected: 0, wantErr: domain.ErrVersionConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := newMockPool(t)
			tx := beginTx(t, pool)

			pool.ExpectExec("UPDATE accounts").
				WithArgs("acct-1", pgxmock.AnyArg(), int64(3), pgxmock.AnyArg()).
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.affected))

			err := NewAccountRepository(pool).UpdateBalance(
				context.Background(), tx, "acct-1", decimal.NewFromInt(40), 3, time.Now())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			assertExpectations(t, pool)
		})
	}
}

func TestAccountRepositoryCreate(t *testing.T) {
	pool := newMockPool(t)
	now := time.Now().UTC()
	tx := beginTx(t, pool)

	pool.ExpectQuery("INSERT INTO accounts").
		WithArgs("acct-9", "acme", pgxmock.AnyArg(), int64(0), false, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(accountColumns).
			AddRow("acct-9", "acme", "0", int64(0), false, now, now))

	account := domain.NewAccount("acct-9", "acme", now)
	if err := NewAccountRepository(pool).Create(context.Background(), tx, account); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, pool)
}
