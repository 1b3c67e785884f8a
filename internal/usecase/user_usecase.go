package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/cofundable/cofundable/internal/domain"
)

// UserUseCase handles user management operations
type UserUseCase struct {
	txManager  TransactionManager
	userRepo   UserRepository
	accounts   AccountOpener
	outboxRepo OutboxRepository
	idGen      IDGenerator
}

// NewUserUseCase creates a new user use case
func NewUserUseCase(
	txManager TransactionManager,
	userRepo UserRepository,
	accounts AccountOpener,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *UserUseCase {
	return &UserUseCase{
		txManager:  txManager,
		userRepo:   userRepo,
		accounts:   accounts,
		outboxRepo: outboxRepo,
		idGen:      idGen,
	}
}

// CreateUserInput represents input for creating a user
type CreateUserInput struct {
	Handle string
	Name   string
	Bio    *string
}

// CreateUser creates a user and the account it owns in one unit of work.
func (uc *UserUseCase) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	handle := strings.TrimSpace(input.Handle)
	if err := domain.ValidateHandle(handle); err != nil {
		return nil, err
	}
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accounts.OpenAccount(ctx, tx, handle)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:        uc.idGen.Generate(),
		Handle:    handle,
		Name:      strings.TrimSpace(input.Name),
		Bio:       input.Bio,
		AccountID: account.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.userRepo.Create(ctx, tx, user); err != nil {
		return nil, err
	}

	event := domain.NewOwnerCreatedEvent(
		uc.idGen.Generate(),
		domain.AggregateTypeUser, domain.EventTypeUserCreated,
		user.ID, user.Handle, user.AccountID, now,
	)
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return user, nil
}

// GetUser retrieves a user by ID
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// GetUserByHandle retrieves a user by handle
func (uc *UserUseCase) GetUserByHandle(ctx context.Context, handle string) (*domain.User, error) {
	return uc.userRepo.GetByHandle(ctx, handle)
}

// DeleteUser removes a user and its bookmarks. The user's account keeps its
// balance and history so the ledger still nets to zero.
func (uc *UserUseCase) DeleteUser(ctx context.Context, id string) error {
	return uc.userRepo.Delete(ctx, id)
}
