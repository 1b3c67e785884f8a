package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/cofundable/cofundable/internal/usecase"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate runs the struct's validate tags and flattens the failures into
// one readable error.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// CreateUserRequest represents a request to create a user.
type CreateUserRequest struct {
	Name   string  `json:"name" validate:"required,max=255"`
	Handle string  `json:"handle" validate:"required,max=64"`
	Bio    *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateUserRequest) ToUseCaseInput() usecase.CreateUserInput {
	return usecase.CreateUserInput{
		Handle: r.Handle,
		Name:   r.Name,
		Bio:    r.Bio,
	}
}

// CreateCauseRequest represents a request to create a cause.
type CreateCauseRequest struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Handle      string   `json:"handle" validate:"required,max=64"`
	Description string   `json:"description" validate:"max=5000"`
	Tags        []string `json:"tags" validate:"max=20,dive,required,max=64"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCauseRequest) ToUseCaseInput() usecase.CreateCauseInput {
	return usecase.CreateCauseInput{
		Name:        r.Name,
		Handle:      r.Handle,
		Description: r.Description,
		Tags:        r.Tags,
	}
}

// TransferSharesRequest moves shares from the current user to another account.
// Amount accepts a JSON number or a numeric string.
type TransferSharesRequest struct {
	ToAccountID string          `json:"to_account_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Note        *string         `json:"note,omitempty" validate:"omitempty,max=500"`
}

// ToUseCaseInput converts to use case input for a transfer out of fromAccountID.
func (r *TransferSharesRequest) ToUseCaseInput(fromAccountID string) usecase.TransferSharesInput {
	return usecase.TransferSharesInput{
		FromAccountID: fromAccountID,
		ToAccountID:   r.ToAccountID,
		Amount:        r.Amount,
		Note:          r.Note,
	}
}

// GrantSharesRequest issues shares from the treasury.
type GrantSharesRequest struct {
	ToAccountID string          `json:"to_account_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Note        *string         `json:"note,omitempty" validate:"omitempty,max=500"`
}

// ToUseCaseInput converts to use case input.
func (r *GrantSharesRequest) ToUseCaseInput() usecase.GrantSharesInput {
	return usecase.GrantSharesInput{
		ToAccountID: r.ToAccountID,
		Amount:      r.Amount,
		Note:        r.Note,
	}
}
