package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/cofundable/cofundable/internal/adapter/http/dto"
	"github.com/cofundable/cofundable/internal/adapter/http/middleware"
	"github.com/cofundable/cofundable/internal/domain"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   code,
		Message: message,
	})
}

// apiError is how a domain failure is presented to clients.
type apiError struct {
	status  int
	code    string
	message string
}

// mapDomainError maps domain errors to HTTP status codes and client messages.
func mapDomainError(err error) apiError {
	var notFound *domain.AccountNotFoundError
	switch {
	case errors.As(err, &notFound):
		return apiError{http.StatusNotFound, "account_not_found", fmt.Sprintf("No account found with id: %s", notFound.ID)}
	case errors.Is(err, domain.ErrAccountNotFound):
		return apiError{http.StatusNotFound, "account_not_found", "Account not found"}
	case errors.Is(err, domain.ErrInsufficientBalance):
		return apiError{http.StatusBadRequest, "insufficient_balance", "Current user doesn't have enough shares to transfer that amount"}
	case errors.Is(err, domain.ErrCauseNotFound):
		return apiError{http.StatusNotFound, "cause_not_found", "Cause not found"}
	case errors.Is(err, domain.ErrUserNotFound):
		return apiError{http.StatusNotFound, "user_not_found", "User not found"}
	case errors.Is(err, domain.ErrTransactionNotFound):
		return apiError{http.StatusNotFound, "transaction_not_found", "Transaction not found"}
	case errors.Is(err, domain.ErrHandleTaken):
		return apiError{http.StatusConflict, "handle_taken", err.Error()}
	case errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrAmountPrecision),
		errors.Is(err, domain.ErrNoteTooLong),
		errors.Is(err, domain.ErrInvalidHandle),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidEntryKind):
		return apiError{http.StatusBadRequest, "invalid_request", err.Error()}
	case errors.Is(err, domain.ErrVersionConflict):
		return apiError{http.StatusConflict, "conflict", "the account was modified concurrently, retry the request"}
	case errors.Is(err, domain.ErrUnauthorized):
		return apiError{http.StatusUnauthorized, "unauthorized", "Could not validate credentials"}
	case errors.Is(err, domain.ErrForbidden):
		return apiError{http.StatusForbidden, "forbidden", "insufficient permissions"}
	default:
		return apiError{http.StatusInternalServerError, "internal_error", "internal server error"}
	}
}

// respondError logs unexpected failures and writes the mapped error.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	mapped := mapDomainError(err)
	if mapped.status >= http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeError(w, mapped.status, mapped.code, mapped.message)
}

// decodeAndValidate reads a JSON body into T and runs its validate tags.
// On failure it writes the response and returns false.
func decodeAndValidate[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	var req T
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return nil, false
	}
	if err := dto.Validate(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
		return nil, false
	}
	return &req, true
}

// parsePage reads page/size or writes a 422.
func parsePage(w http.ResponseWriter, r *http.Request) (domain.Page, bool) {
	page, err := dto.ParsePage(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid_query", err.Error())
		return domain.Page{}, false
	}
	return page, true
}

// principal returns the caller or writes a 401.
func principal(w http.ResponseWriter, r *http.Request) (middleware.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, http.StatusUnauthorized, "unauthorized", "Could not validate credentials")
		return middleware.Principal{}, false
	}
	return p, true
}

// UserLookup loads users by id.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// currentUser loads the caller's user record or writes the error response.
// A token for a user that no longer exists is treated as bad credentials.
func currentUser(w http.ResponseWriter, r *http.Request, users UserLookup) (*domain.User, bool) {
	p, ok := principal(w, r)
	if !ok {
		return nil, false
	}

	user, err := users.GetUser(r.Context(), p.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusUnauthorized, "unauthorized", "Could not validate credentials")
			return nil, false
		}
		respondError(w, r, err)
		return nil, false
	}
	return user, true
}
