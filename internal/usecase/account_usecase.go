package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/cofundable/cofundable/internal/domain"
	"github.com/cofundable/cofundable/internal/infrastructure/metrics"
)

// AccountUseCase opens accounts and moves shares between them.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	outboxRepo  OutboxRepository
	ledger      *LedgerUseCase
	retrier     Retrier
	idGen       IDGenerator
	metrics     *metrics.Metrics
	treasuryID  string
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	outboxRepo OutboxRepository,
	ledger *LedgerUseCase,
	retrier Retrier,
	idGen IDGenerator,
	m *metrics.Metrics,
	treasuryID string,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		outboxRepo:  outboxRepo,
		ledger:      ledger,
		retrier:     retrier,
		idGen:       idGen,
		metrics:     m,
		treasuryID:  treasuryID,
	}
}

// OpenAccount creates a zero-balance account inside the owner's unit of work.
func (uc *AccountUseCase) OpenAccount(ctx context.Context, tx Transaction, name string) (*domain.Account, error) {
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}

	account := domain.NewAccount(uc.idGen.Generate(), name, time.Now().UTC())
	if err := uc.accountRepo.Create(ctx, tx, account); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsOpened.Inc()
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// TransferSharesInput represents input for a share transfer.
type TransferSharesInput struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Note          *string
}

// TransferShares moves Amount from one account to another as a linked
// debit/credit pair. The source must hold enough shares unless it allows a
// negative balance. Calling it twice moves the shares twice.
func (uc *AccountUseCase) TransferShares(ctx context.Context, input TransferSharesInput) (*domain.Transaction, *domain.Transaction, error) {
	start := time.Now()

	if input.FromAccountID == input.ToAccountID {
		return nil, nil, uc.fail(domain.ErrSameAccount)
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, nil, uc.fail(err)
	}

	var debit, credit *domain.Transaction
	err := uc.retrier.Retry(ctx, func() error {
		var err error
		debit, credit, err = uc.transfer(ctx, input)
		return err
	})
	if err != nil {
		return nil, nil, uc.fail(err)
	}

	if uc.metrics != nil {
		uc.metrics.TransfersCompleted.Inc()
		uc.metrics.TransferDuration.Observe(time.Since(start).Seconds())
		uc.metrics.TransferAmount.Observe(input.Amount.InexactFloat64())
	}

	log.Ctx(ctx).Info().
		Str("debit_id", debit.ID).
		Str("credit_id", credit.ID).
		Str("from_account_id", input.FromAccountID).
		Str("to_account_id", input.ToAccountID).
		Str("amount", input.Amount.String()).
		Msg("shares transferred")

	return debit, credit, nil
}

// GrantSharesInput represents input for issuing shares from the treasury.
type GrantSharesInput struct {
	ToAccountID string
	Amount      decimal.Decimal
	Note        *string
}

// GrantShares transfers shares out of the treasury account.
func (uc *AccountUseCase) GrantShares(ctx context.Context, input GrantSharesInput) (*domain.Transaction, *domain.Transaction, error) {
	if uc.treasuryID == "" {
		return nil, nil, fmt.Errorf("%w: treasury account is not configured", domain.ErrAccountNotFound)
	}
	return uc.TransferShares(ctx, TransferSharesInput{
		FromAccountID: uc.treasuryID,
		ToAccountID:   input.ToAccountID,
		Amount:        input.Amount,
		Note:          input.Note,
	})
}

func (uc *AccountUseCase) transfer(ctx context.Context, input TransferSharesInput) (*domain.Transaction, *domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	// Lock in a stable order so two opposite transfers cannot deadlock.
	ids := []string{input.FromAccountID, input.ToAccountID}
	sort.Strings(ids)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, nil, err
	}

	byID := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	from, to := byID[input.FromAccountID], byID[input.ToAccountID]
	if from == nil {
		return nil, nil, &domain.AccountNotFoundError{ID: input.FromAccountID}
	}
	if to == nil {
		return nil, nil, &domain.AccountNotFoundError{ID: input.ToAccountID}
	}

	if err := from.ValidateDebit(input.Amount); err != nil {
		return nil, nil, err
	}

	debit, credit, err := uc.ledger.RecordTransfer(ctx, tx, from, to, input.Amount, input.Note)
	if err != nil {
		return nil, nil, err
	}

	event := domain.NewSharesTransferredEvent(uc.idGen.Generate(), debit, credit)
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	return debit, credit, nil
}

func (uc *AccountUseCase) fail(err error) error {
	if uc.metrics != nil {
		uc.metrics.TransferErrors.WithLabelValues(errorType(err)).Inc()
	}
	return err
}

func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, domain.ErrSameAccount):
		return "same_account"
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountPrecision),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrNoteTooLong):
		return "invalid_input"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "internal"
	}
}
