package postgres

import (
	"context"

	"github.com/cofundable/cofundable/internal/infrastructure/postgres/generated"
	"github.com/cofundable/cofundable/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// Totals sums every balance and every transaction in one statement.
func (r *LedgerRepository) Totals(ctx context.Context) (usecase.LedgerTotals, error) {
	row, err := r.queries.GetLedgerTotals(ctx)
	if err != nil {
		return usecase.LedgerTotals{}, err
	}

	return usecase.LedgerTotals{
		TotalBalance: numericToDecimal(row.TotalBalance),
		TotalCredits: numericToDecimal(row.TotalCredits),
		TotalDebits:  numericToDecimal(row.TotalDebits),
		Unmatched:    row.Unmatched,
	}, nil
}
