package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cofundable/cofundable/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	// UpdateBalance stores the balance if the row is still at version and bumps it.
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, version int64, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// TransactionRepository defines data access for ledger entries.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	Find(ctx context.Context, filter domain.TransactionFilter, limit, offset int) ([]*domain.Transaction, error)
	Count(ctx context.Context, filter domain.TransactionFilter) (int64, error)
	SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// LedgerTotals are ledger-wide aggregates used for consistency checks.
type LedgerTotals struct {
	TotalBalance decimal.Decimal
	TotalCredits decimal.Decimal
	TotalDebits  decimal.Decimal
	Unmatched    int64
}

// LedgerRepository defines data access for ledger-wide operations.
type LedgerRepository interface {
	Totals(ctx context.Context) (LedgerTotals, error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, tx Transaction, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByHandle(ctx context.Context, handle string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// CauseRepository defines data access for causes.
type CauseRepository interface {
	Create(ctx context.Context, tx Transaction, cause *domain.Cause) error
	AttachTags(ctx context.Context, tx Transaction, causeID string, tagIDs []string) error
	GetByID(ctx context.Context, id string) (*domain.Cause, error)
	GetByHandle(ctx context.Context, handle string) (*domain.Cause, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Cause, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
}

// TagRepository defines data access for tags.
type TagRepository interface {
	Create(ctx context.Context, tx Transaction, tag *domain.Tag) error
	GetByNames(ctx context.Context, tx Transaction, names []string) ([]domain.Tag, error)
	List(ctx context.Context, limit, offset int) ([]domain.Tag, error)
	Count(ctx context.Context) (int64, error)
}

// BookmarkRepository defines data access for bookmarks.
type BookmarkRepository interface {
	// Upsert stores the bookmark, or loads the existing one for the same user and cause.
	Upsert(ctx context.Context, bookmark *domain.Bookmark) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Bookmark, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// AccountOpener opens the zero-balance account every user and cause owns.
type AccountOpener interface {
	OpenAccount(ctx context.Context, tx Transaction, name string) (*domain.Account, error)
}

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// CauseFinder resolves causes by handle.
type CauseFinder interface {
	GetCauseByHandle(ctx context.Context, handle string) (*domain.Cause, error)
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops the key so the request can be retried.
	Release(ctx context.Context, key string) error
}
