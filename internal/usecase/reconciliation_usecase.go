package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationUseCase checks cached balances against the ledger.
type ReconciliationUseCase struct {
	accountRepo AccountRepository
	entryRepo   TransactionRepository
	ledger      *LedgerUseCase
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	accountRepo AccountRepository,
	entryRepo TransactionRepository,
	ledger *LedgerUseCase,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		ledger:      ledger,
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	AccountID         string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	IsReconciled      bool
	LastChecked       time.Time
}

// ReconcileAccount compares an account's balance with the signed sum of its entries.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	calculated, err := uc.entryRepo.SumByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	diff := account.Balance.Sub(calculated)
	return &ReconciliationResult{
		AccountID:         accountID,
		RecordedBalance:   account.Balance,
		CalculatedBalance: calculated,
		Difference:        diff,
		IsReconciled:      diff.IsZero(),
		LastChecked:       time.Now().UTC(),
	}, nil
}

// ReconcileAllAccounts reconciles all accounts in the system
func (uc *ReconciliationUseCase) ReconcileAllAccounts(ctx context.Context) ([]*ReconciliationResult, error) {
	var results []*ReconciliationResult

	for offset := 0; ; offset += reconcileBatchSize {
		accounts, err := uc.accountRepo.List(ctx, reconcileBatchSize, offset)
		if err != nil {
			return nil, err
		}

		for _, account := range accounts {
			result, err := uc.ReconcileAccount(ctx, account.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to reconcile account %s: %w", account.ID, err)
			}
			results = append(results, result)
		}

		if len(accounts) < reconcileBatchSize {
			return results, nil
		}
	}
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	Discrepancies      []*ReconciliationResult
	Ledger             *ConsistencyReport
	CheckedAt          time.Time
}

// GenerateReconciliationReport reconciles every account and checks ledger totals.
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	results, err := uc.ReconcileAllAccounts(ctx)
	if err != nil {
		return nil, err
	}

	ledger, err := uc.ledger.CheckConsistency(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		TotalAccounts: len(results),
		Discrepancies: make([]*ReconciliationResult, 0),
		Ledger:        ledger,
		CheckedAt:     time.Now().UTC(),
	}

	for _, result := range results {
		if result.IsReconciled {
			report.ReconciledAccounts++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	return report, nil
}
