package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/cofundable/cofundable/internal/domain"
	"github.com/cofundable/cofundable/internal/infrastructure/postgres/generated"
	"github.com/cofundable/cofundable/internal/usecase"
)

// UserRepository implements user persistence
type UserRepository struct {
	queries *generated.Queries
}

// NewUserRepository creates a new user repository
func NewUserRepository(db generated.DBTX) *UserRepository {
	return &UserRepository{queries: generated.New(db)}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, tx usecase.Transaction, user *domain.User) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	err = queries.CreateUser(ctx, generated.CreateUserParams{
		ID:        user.ID,
		Handle:    user.Handle,
		Name:      user.Name,
		Bio:       stringPtrToText(user.Bio),
		AccountID: user.AccountID,
		CreatedAt: timeToPgTimestamptz(user.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(user.UpdatedAt),
	})
	if isUniqueViolation(err) {
		return domain.ErrHandleTaken
	}

	return err
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row, err := r.queries.GetUserByID(ctx, id)
	if err != nil {
		return nil, userErr(err)
	}

	return rowToUser(row), nil
}

// GetByHandle retrieves a user by handle
func (r *UserRepository) GetByHandle(ctx context.Context, handle string) (*domain.User, error) {
	row, err := r.queries.GetUserByHandle(ctx, handle)
	if err != nil {
		return nil, userErr(err)
	}

	return rowToUser(row), nil
}

// Delete removes the user and its bookmarks. Its account and causes stay.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	affected, err := r.queries.DeleteUser(ctx, id)
	if err != nil {
		return err
	}

	if affected == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

func userErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrUserNotFound
	}

	return err
}

func rowToUser(row generated.User) *domain.User {
	return &domain.User{
		ID:        row.ID,
		Handle:    row.Handle,
		Name:      row.Name,
		Bio:       textToStringPtr(row.Bio),
		AccountID: row.AccountID,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
