package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cofundable/cofundable/internal/domain"
	"github.com/cofundable/cofundable/internal/usecase"
	"github.com/cofundable/cofundable/internal/usecase/memstore"
	"github.com/cofundable/cofundable/internal/usecase/mocks"
)

func TestAccountUseCase_TransferShares(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()

	acme := env.open(t, "acme", "5.00")
	alice := env.open(t, "alice", "10.00")
	before := len(env.store.Entries())

	debit, credit, err := env.accounts.TransferShares(ctx, usecase.TransferSharesInput{
		FromAccountID: alice,
		ToAccountID:   acme,
		Amount:        dec("5.00"),
	})
	require.NoError(t, err)

	assert.True(t, env.balance(t, alice).Equal(dec("5.00")), "alice balance %s", env.balance(t, alice))
	assert.True(t, env.balance(t, acme).Equal(dec("10.00")), "acme balance %s", env.balance(t, acme))
	assert.Len(t, env.store.Entries(), before+2)

	assert.Equal(t, domain.EntryKindDebit, debit.Kind)
	assert.Equal(t, domain.EntryKindCredit, credit.Kind)
	assert.Equal(t, alice, debit.AccountID)
	assert.Equal(t, acme, credit.AccountID)
	assert.True(t, debit.Amount.Equal(credit.Amount))
	require.NotNil(t, debit.MatchEntryID)
	assert.Equal(t, credit.ID, *debit.MatchEntryID)
	assert.Equal(t, debit.ID, *credit.MatchEntryID)
}

func TestAccountUseCase_TransferSharesPairsAreSymmetric(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()

	a := env.open(t, "a", "50")
	b := env.open(t, "b", "50")
	for i := 0; i < 3; i++ {
		_, _, err := env.accounts.TransferShares(ctx, usecase.TransferSharesInput{FromAccountID: a, ToAccountID: b, Amount: dec("1.25")})
		require.NoError(t, err)
		_, _, err = env.accounts.TransferShares(ctx, usecase.TransferSharesInput{FromAccountID: b, ToAccountID: a, Amount: dec("0.50")})
		require.NoError(t, err)
	}

	byID := map[string]domain.Transaction{}
	for _, e := range env.store.Entries() {
		byID[e.ID] = e
	}
	for _, e := range byID {
		require.NotNil(t, e.MatchEntryID, "entry %s is unmatched", e.ID)
		partner, ok := byID[*e.MatchEntryID]
		require.True(t, ok, "partner of %s missing", e.ID)
		assert.NotEqual(t, e.ID, partner.ID)
		require.NotNil(t, partner.MatchEntryID)
		assert.Equal(t, e.ID, *partner.MatchEntryID)
		assert.NotEqual(t, e.Kind, partner.Kind)
		assert.True(t, e.Amount.Equal(partner.Amount))
	}

	report, err := env.ledger.CheckConsistency(ctx)
	require.NoError(t, err)
	assert.True(t, report.Consistent, "%+v", report)
}

func TestAccountUseCase_TransferSharesIsNotIdempotent(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()

	from := env.open(t, "from", "10")
	to := env.open(t, "to", "0")
	input := usecase.TransferSharesInput{FromAccountID: from, ToAccountID: to, Amount: dec("3")}

	d1, _, err := env.accounts.TransferShares(ctx, input)
	require.NoError(t, err)
	d2, _, err := env.accounts.TransferShares(ctx, input)
	require.NoError(t, err)

	assert.NotEqual(t, d1.ID, d2.ID)
	assert.True(t, env.balance(t, from).Equal(dec("4")))
	assert.True(t, env.balance(t, to).Equal(dec("6")))
}

func TestAccountUseCase_TransferSharesRejects(t *testing.T) {
	tests := []struct {
		name        string
		from, to    string
		amount      string
		expectedErr error
	}{
		{name: "insufficient balance", from: "alice", to: "acme", amount: "100", expectedErr: domain.ErrInsufficientBalance},
		{name: "unknown destination", from: "alice", to: "missing", amount: "1", expectedErr: domain.ErrAccountNotFound},
		{name: "unknown source", from: "missing", to: "acme", amount: "1", expectedErr: domain.ErrAccountNotFound},
		{name: "same account", from: "alice", to: "alice", amount: "1", expectedErr: domain.ErrSameAccount},
		{name: "zero amount", from: "alice", to: "acme", amount: "0", expectedErr: domain.ErrInvalidAmount},
		{name: "negative amount", from: "alice", to: "acme", amount: "-2", expectedErr: domain.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newLedgerEnv(t)
			ids := map[string]string{
				"alice":   env.open(t, "alice", "10"),
				"acme":    env.open(t, "acme", "5"),
				"missing": "no-such-account",
			}
			before := len(env.store.Entries())

			_, _, err := env.accounts.TransferShares(context.Background(), usecase.TransferSharesInput{
				FromAccountID: ids[tt.from],
				ToAccountID:   ids[tt.to],
				Amount:        dec(tt.amount),
			})

			require.ErrorIs(t, err, tt.expectedErr)
			assert.True(t, env.balance(t, ids["alice"]).Equal(dec("10")))
			assert.True(t, env.balance(t, ids["acme"]).Equal(dec("5")))
			assert.Len(t, env.store.Entries(), before)
		})
	}
}

func TestAccountUseCase_TransferSharesNamesMissingAccount(t *testing.T) {
	env := newLedgerEnv(t)
	alice := env.open(t, "alice", "10")

	_, _, err := env.accounts.TransferShares(context.Background(), usecase.TransferSharesInput{
		FromAccountID: alice,
		ToAccountID:   "ghost",
		Amount:        dec("1"),
	})

	require.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.Contains(t, err.Error(), "ghost")
}

func TestAccountUseCase_TransferSharesRollsBackOnWriteFailure(t *testing.T) {
	env := newLedgerEnv(t)
	alice := env.open(t, "alice", "10")
	acme := env.open(t, "acme", "5")
	before := len(env.store.Entries())

	boom := errors.New("disk full")
	env.store.OnCreateEntry = func(entry *domain.Transaction) error {
		if entry.Kind == domain.EntryKindCredit {
			return boom
		}
		return nil
	}

	_, _, err := env.accounts.TransferShares(context.Background(), usecase.TransferSharesInput{
		FromAccountID: alice,
		ToAccountID:   acme,
		Amount:        dec("4"),
	})

	require.ErrorIs(t, err, boom)
	assert.True(t, env.balance(t, alice).Equal(dec("10")))
	assert.True(t, env.balance(t, acme).Equal(dec("5")))
	assert.Len(t, env.store.Entries(), before, "no half pair may be left behind")
}

func TestAccountUseCase_ConcurrentTransfersNeverOverdraw(t *testing.T) {
	env := newLedgerEnv(t)
	from := env.open(t, "from", "10")
	to := env.open(t, "to", "0")

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := env.accounts.TransferShares(context.Background(), usecase.TransferSharesInput{
				FromAccountID: from,
				ToAccountID:   to,
				Amount:        dec("1"),
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else if !errors.Is(err, domain.ErrInsufficientBalance) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.True(t, env.balance(t, from).IsZero())
	assert.True(t, env.balance(t, to).Equal(dec("10")))
}

func TestAccountUseCase_GrantSharesDrawsOnTreasury(t *testing.T) {
	env := newLedgerEnv(t)
	alice := env.open(t, "alice", "0")

	_, credit, err := env.accounts.GrantShares(context.Background(), usecase.GrantSharesInput{ToAccountID: alice, Amount: dec("7")})
	require.NoError(t, err)

	assert.Equal(t, alice, credit.AccountID)
	assert.True(t, env.balance(t, treasuryID).Equal(dec("-7")))
	assert.True(t, env.balance(t, alice).Equal(dec("7")))

	events := env.store.Events()
	require.NotEmpty(t, events)
	assert.Equal(t, domain.EventTypeSharesTransferred, events[len(events)-1].EventType)
}

func TestAccountUseCase_TransferSharesCommitFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	txManager := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	accountRepo := mocks.NewMockAccountRepository(ctrl)
	entryRepo := mocks.NewMockTransactionRepository(ctrl)
	outboxRepo := mocks.NewMockOutboxRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)

	commitErr := errors.New("connection reset")

	next := 0
	idGen.EXPECT().Generate().DoAndReturn(func() string {
		next++
		return fmt.Sprintf("id-%d", next)
	}).Times(3)
	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	accountRepo.EXPECT().GetByIDsForUpdate(gomock.Any(), tx, []string{"a", "b"}).Return([]*domain.Account{
		{ID: "a", Balance: dec("10")},
		{ID: "b", Balance: dec("0")},
	}, nil)
	entryRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(nil).Times(2)
	accountRepo.EXPECT().UpdateBalance(gomock.Any(), tx, "a", gomock.Any(), int64(0), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ usecase.Transaction, _ string, balance decimal.Decimal, _ int64, _ time.Time) error {
			assert.True(t, balance.Equal(dec("7")), "source balance %s", balance)
			return nil
		})
	accountRepo.EXPECT().UpdateBalance(gomock.Any(), tx, "b", gomock.Any(), int64(0), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ usecase.Transaction, _ string, balance decimal.Decimal, _ int64, _ time.Time) error {
			assert.True(t, balance.Equal(dec("3")), "destination balance %s", balance)
			return nil
		})
	outboxRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(nil)
	tx.EXPECT().Commit(gomock.Any()).Return(commitErr)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	ledger := usecase.NewLedgerUseCase(accountRepo, entryRepo, nil, idGen)
	uc := usecase.NewAccountUseCase(txManager, accountRepo, outboxRepo, ledger, memstore.PassthroughRetrier{}, idGen, nil, "")

	_, _, err := uc.TransferShares(context.Background(), usecase.TransferSharesInput{
		FromAccountID: "a",
		ToAccountID:   "b",
		Amount:        dec("3"),
	})
	require.ErrorIs(t, err, commitErr)
}

func TestAccountUseCase_TransferSharesRetriesWholeUnitOfWork(t *testing.T) {
	ctrl := gomock.NewController(t)
	retrier := mocks.NewMockRetrier(ctrl)
	env := newLedgerEnv(t)
	from := env.open(t, "from", "5")
	to := env.open(t, "to", "0")

	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, op func() error) error {
		// First attempt fails before commit; the second one must start clean.
		env.store.OnCreateEntry = func(*domain.Transaction) error { return errors.New("serialization failure") }
		if err := op(); err == nil {
			t.Fatal("expected first attempt to fail")
		}
		env.store.OnCreateEntry = nil
		return op()
	})

	uc := usecase.NewAccountUseCase(env.store, env.store.Accounts(), env.store.Outbox(), env.ledger, retrier, env.store, nil, treasuryID)
	_, _, err := uc.TransferShares(context.Background(), usecase.TransferSharesInput{FromAccountID: from, ToAccountID: to, Amount: dec("5")})
	require.NoError(t, err)

	assert.True(t, env.balance(t, from).IsZero())
	assert.True(t, env.balance(t, to).Equal(dec("5")))
}

func TestAccountUseCase_OpenAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	accountRepo := mocks.NewMockAccountRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)
	tx := mocks.NewMockTransaction(ctrl)

	idGen.EXPECT().Generate().Return("acc-1")
	accountRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ usecase.Transaction, a *domain.Account) error {
			if a.ID != "acc-1" || a.Name != "waverly-mutual-aid" || !a.Balance.IsZero() {
				t.Fatalf("unexpected account: %+v", a)
			}
			return nil
		},
	)

	uc := usecase.NewAccountUseCase(nil, accountRepo, nil, nil, nil, idGen, nil, "")
	acc, err := uc.OpenAccount(context.Background(), tx, "waverly-mutual-aid")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", acc.ID)

	_, err = uc.OpenAccount(context.Background(), tx, "  ")
	require.ErrorIs(t, err, domain.ErrInvalidName)
}
