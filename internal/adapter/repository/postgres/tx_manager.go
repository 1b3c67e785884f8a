package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/cofundable/cofundable/internal/infrastructure/postgres/generated"
	"github.com/cofundable/cofundable/internal/usecase"
)

// ErrForeignTransaction is returned when a repository receives a transaction it did not start.
var ErrForeignTransaction = errors.New("transaction was not started by the postgres tx manager")

type pgxPool interface {
	Begin(context.Context) (pgx.Tx, error)
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	pool pgxPool
}

// NewTxManager creates a new TxManager. Both *pgxpool.Pool and pgxmock pools satisfy pool.
func NewTxManager(pool pgxPool) *TxManager {
	return &TxManager{pool: pool}
}

// Begin starts a new unit of work.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}

	return &Tx{tx: tx}, nil
}

// Tx wraps a pgx transaction.
type Tx struct {
	tx pgx.Tx
}

// Commit commits the transaction. The deferred match_entry_id constraint is checked here.
func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction. Rolling back a committed transaction is a no-op.
func (t *Tx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}

	return err
}

// PgxTx returns the underlying pgx.Tx.
func (t *Tx) PgxTx() pgx.Tx {
	return t.tx
}

func txQueries(tx usecase.Transaction) (*generated.Queries, error) {
	pgTx, ok := tx.(*Tx)
	if !ok {
		return nil, ErrForeignTransaction
	}

	return generated.New(pgTx.PgxTx()), nil
}
