package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/cofundable/cofundable/internal/domain"
	"github.com/cofundable/cofundable/internal/infrastructure/postgres/generated"
	"github.com/cofundable/cofundable/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository over the transactions table.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{queries: generated.New(db)}
}

// Create inserts one side of a pair. The partner row may not exist until commit.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Transaction) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	return queries.CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:           entry.ID,
		Amount:       decimalToNumeric(entry.Amount),
		Kind:         string(entry.Kind),
		Note:         stringPtrToText(entry.Note),
		AccountID:    entry.AccountID,
		MatchEntryID: stringPtrToText(entry.MatchEntryID),
		CreatedAt:    timeToPgTimestamptz(entry.CreatedAt),
		UpdatedAt:    timeToPgTimestamptz(entry.UpdatedAt),
	})
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row, err := r.queries.GetTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	return rowToTransaction(row), nil
}

// Find returns the filtered transactions, newest first.
func (r *TransactionRepository) Find(ctx context.Context, filter domain.TransactionFilter, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListTransactionsByAccount(ctx, generated.ListTransactionsByAccountParams{
		AccountID: filter.AccountID,
		Kind:      kindToText(filter.Kind),
		RowLimit:  int32(limit),
		RowOffset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToTransaction(row))
	}

	return entries, nil
}

// Count returns how many transactions match filter.
func (r *TransactionRepository) Count(ctx context.Context, filter domain.TransactionFilter) (int64, error) {
	return r.queries.CountTransactionsByAccount(ctx, generated.CountTransactionsByAccountParams{
		AccountID: filter.AccountID,
		Kind:      kindToText(filter.Kind),
	})
}

// SumByAccount returns credits minus debits for the account.
func (r *TransactionRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	total, err := r.queries.SumTransactionsByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

func kindToText(kind *domain.EntryKind) pgtype.Text {
	if kind == nil {
		return pgtype.Text{}
	}

	return pgtype.Text{String: string(*kind), Valid: true}
}

func rowToTransaction(row generated.Transaction) *domain.Transaction {
	return &domain.Transaction{
		ID:           row.ID,
		Amount:       numericToDecimal(row.Amount),
		Kind:         domain.EntryKind(row.Kind),
		Note:         textToStringPtr(row.Note),
		AccountID:    row.AccountID,
		MatchEntryID: textToStringPtr(row.MatchEntryID),
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}
}
