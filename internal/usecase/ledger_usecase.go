package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cofundable/cofundable/internal/domain"
)

var (
	// ErrInconsistentLedger is returned when the ledger is not balanced.
	ErrInconsistentLedger = errors.New("ledger is inconsistent")
)

// LedgerUseCase books entries against accounts and keeps cached balances in step.
type LedgerUseCase struct {
	accountRepo AccountRepository
	entryRepo   TransactionRepository
	ledgerRepo  LedgerRepository
	idGen       IDGenerator
	now         func() time.Time
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	accountRepo AccountRepository,
	entryRepo TransactionRepository,
	ledgerRepo LedgerRepository,
	idGen IDGenerator,
) *LedgerUseCase {
	return &LedgerUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		ledgerRepo:  ledgerRepo,
		idGen:       idGen,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// RecordTransaction books one entry against account and moves its in-memory
// balance. Nothing is written: the caller decides when the entry and the new
// balance become durable. Overdraft is not checked here.
func (uc *LedgerUseCase) RecordTransaction(
	account *domain.Account,
	kind domain.EntryKind,
	amount decimal.Decimal,
	note *string,
) (*domain.Transaction, error) {
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}
	if !kind.Valid() {
		return nil, domain.ErrInvalidEntryKind
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateNote(note); err != nil {
		return nil, err
	}

	now := uc.now()
	entry := &domain.Transaction{
		ID:        uc.idGen.Generate(),
		Amount:    amount,
		Kind:      kind,
		Note:      note,
		AccountID: account.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	account.Apply(entry)

	return entry, nil
}

// RecordTransfer books a debit on from and a credit on to, links them and
// writes both entries and both balances through tx. Both IDs are assigned
// before either row is inserted, so the pair goes in already cross-linked.
func (uc *LedgerUseCase) RecordTransfer(
	ctx context.Context,
	tx Transaction,
	from, to *domain.Account,
	amount decimal.Decimal,
	note *string,
) (*domain.Transaction, *domain.Transaction, error) {
	if from == nil || to == nil {
		return nil, nil, domain.ErrAccountNotFound
	}
	if from.ID == to.ID {
		return nil, nil, domain.ErrSameAccount
	}
	// Reject before touching either balance.
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, nil, err
	}

	fromVersion, toVersion := from.Version, to.Version

	debit, err := uc.RecordTransaction(from, domain.EntryKindDebit, amount, note)
	if err != nil {
		return nil, nil, err
	}

	credit, err := uc.RecordTransaction(to, domain.EntryKindCredit, amount, note)
	if err != nil {
		return nil, nil, err
	}

	if err := domain.Link(debit, credit); err != nil {
		return nil, nil, err
	}

	for _, entry := range []*domain.Transaction{debit, credit} {
		if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
			return nil, nil, fmt.Errorf("insert %s entry: %w", entry.Kind, err)
		}
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, from.ID, from.Balance, fromVersion, from.UpdatedAt); err != nil {
		return nil, nil, fmt.Errorf("update source balance: %w", err)
	}
	from.Version++

	if err := uc.accountRepo.UpdateBalance(ctx, tx, to.ID, to.Balance, toVersion, to.UpdatedAt); err != nil {
		return nil, nil, fmt.Errorf("update destination balance: %w", err)
	}
	to.Version++

	return debit, credit, nil
}

// ConsistencyReport summarizes a ledger-wide check.
type ConsistencyReport struct {
	LedgerTotals
	Consistent bool
}

// CheckConsistency verifies that balances net to zero, every entry has its
// partner and credits equal debits.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	totals, err := uc.ledgerRepo.Totals(ctx)
	if err != nil {
		return nil, err
	}

	return &ConsistencyReport{
		LedgerTotals: totals,
		Consistent: totals.TotalBalance.IsZero() &&
			totals.TotalCredits.Equal(totals.TotalDebits) &&
			totals.Unmatched == 0,
	}, nil
}

// Err returns ErrInconsistentLedger with the offending totals, or nil.
func (r *ConsistencyReport) Err() error {
	if r.Consistent {
		return nil
	}
	return fmt.Errorf(
		"%w: balance=%s credits=%s debits=%s unmatched=%d",
		ErrInconsistentLedger,
		r.TotalBalance, r.TotalCredits, r.TotalDebits, r.Unmatched,
	)
}
