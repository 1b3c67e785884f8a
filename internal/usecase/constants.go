package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// CauseCacheTTL is how long a cause handle lookup stays cached
	CauseCacheTTL = 5 * time.Minute

	// reconcileBatchSize bounds how many accounts are loaded per reconciliation page
	reconcileBatchSize = 500
)
