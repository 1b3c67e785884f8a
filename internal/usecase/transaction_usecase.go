package usecase

import (
	"context"

	"github.com/cofundable/cofundable/internal/domain"
)

// Paged is one page of an ordered result set plus the total row count.
type Paged[T any] struct {
	Items []T
	Total int64
	Page  domain.Page
}

// TransactionQueryUseCase builds reads over an account's ledger.
type TransactionQueryUseCase struct {
	entryRepo TransactionRepository
}

// NewTransactionQueryUseCase creates a new TransactionQueryUseCase.
func NewTransactionQueryUseCase(entryRepo TransactionRepository) *TransactionQueryUseCase {
	return &TransactionQueryUseCase{entryRepo: entryRepo}
}

// QueryTransactionsByAccount returns an unexecuted query over accountID's
// entries, newest first, optionally narrowed to one kind.
func (uc *TransactionQueryUseCase) QueryTransactionsByAccount(accountID string, kind *domain.EntryKind) TransactionQuery {
	return TransactionQuery{
		repo:   uc.entryRepo,
		filter: domain.TransactionFilter{AccountID: accountID, Kind: kind},
	}
}

// GetTransaction retrieves a single entry.
func (uc *TransactionQueryUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.entryRepo.GetByID(ctx, id)
}

// TransactionQuery is a value describing a read. Narrowing returns a copy;
// nothing touches storage until Find, Count or Paginate runs.
type TransactionQuery struct {
	repo   TransactionRepository
	filter domain.TransactionFilter
}

// Filter exposes the query's scope.
func (q TransactionQuery) Filter() domain.TransactionFilter {
	return q.filter
}

// OfKind narrows the query to one entry kind.
func (q TransactionQuery) OfKind(kind domain.EntryKind) TransactionQuery {
	k := kind
	q.filter.Kind = &k
	return q
}

// Find executes the query over one window of rows.
func (q TransactionQuery) Find(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	return q.repo.Find(ctx, q.filter, limit, offset)
}

// Count returns the number of rows the query matches.
func (q TransactionQuery) Count(ctx context.Context) (int64, error) {
	return q.repo.Count(ctx, q.filter)
}

// Paginate executes the query for one page.
func (q TransactionQuery) Paginate(ctx context.Context, page domain.Page) (*Paged[*domain.Transaction], error) {
	total, err := q.Count(ctx)
	if err != nil {
		return nil, err
	}

	items, err := q.Find(ctx, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}

	return &Paged[*domain.Transaction]{Items: items, Total: total, Page: page}, nil
}
