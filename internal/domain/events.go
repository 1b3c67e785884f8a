package domain

import "time"

// Event types
const (
	EventTypeSharesTransferred = "shares.transferred"
	EventTypeUserCreated       = "user.created"
	EventTypeCauseCreated      = "cause.created"
)

// Aggregate types
const (
	AggregateTypeTransaction = "transaction"
	AggregateTypeUser        = "user"
	AggregateTypeCause       = "cause"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// NewSharesTransferredEvent builds the event written when a transfer commits.
func NewSharesTransferredEvent(id string, debit, credit *Transaction) *OutboxEvent {
	return &OutboxEvent{
		ID:            id,
		AggregateID:   debit.ID,
		AggregateType: AggregateTypeTransaction,
		EventType:     EventTypeSharesTransferred,
		Payload: map[string]any{
			"debit_id":        debit.ID,
			"credit_id":       credit.ID,
			"from_account_id": debit.AccountID,
			"to_account_id":   credit.AccountID,
			"amount":          debit.Amount.String(),
			"event_at":        debit.CreatedAt.Format(time.RFC3339Nano),
		},
		CreatedAt: debit.CreatedAt,
	}
}

// NewOwnerCreatedEvent builds the event written when a user or cause is created.
func NewOwnerCreatedEvent(id, aggregateType, eventType, ownerID, handle, accountID string, at time.Time) *OutboxEvent {
	return &OutboxEvent{
		ID:            id,
		AggregateID:   ownerID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload: map[string]any{
			"owner_id":   ownerID,
			"handle":     handle,
			"account_id": accountID,
		},
		CreatedAt: at,
	}
}
