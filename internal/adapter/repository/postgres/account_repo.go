package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/cofundable/cofundable/internal/domain"
	"github.com/cofundable/cofundable/internal/infrastructure/postgres/generated"
	"github.com/cofundable/cofundable/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	_, err = queries.CreateAccount(ctx, generated.CreateAccountParams{
		ID:                   account.ID,
		Name:                 account.Name,
		Balance:              decimalToNumeric(account.Balance),
		Version:              account.Version,
		AllowNegativeBalance: account.AllowNegativeBalance,
		CreatedAt:            timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:            timeToPgTimestamptz(account.UpdatedAt),
	})

	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.AccountNotFoundError{ID: id}
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// GetByIDsForUpdate locks the accounts in ascending id order and returns the ones that exist.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	rows, err := queries.GetAccountsByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// UpdateBalance stores balance if the row is still at version.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, version int64, updatedAt time.Time) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	affected, err := queries.UpdateAccountBalance(ctx, generated.UpdateAccountBalanceParams{
		ID:        id,
		Balance:   decimalToNumeric(balance),
		Version:   version,
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}

	if affected == 0 {
		return domain.ErrVersionConflict
	}

	return nil
}

// List lists accounts ordered by id.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, generated.ListAccountsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:                   row.ID,
		Name:                 row.Name,
		Balance:              numericToDecimal(row.Balance),
		Version:              row.Version,
		AllowNegativeBalance: row.AllowNegativeBalance,
		CreatedAt:            row.CreatedAt.Time,
		UpdatedAt:            row.UpdatedAt.Time,
	}
}
