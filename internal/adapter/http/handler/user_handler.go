package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cofundable/cofundable/internal/adapter/http/dto"
	"github.com/cofundable/cofundable/internal/usecase"
)

// UserHandler handles user-related HTTP requests.
type UserHandler struct {
	userUC    *usecase.UserUseCase
	accountUC *usecase.AccountUseCase
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userUC *usecase.UserUseCase, accountUC *usecase.AccountUseCase) *UserHandler {
	return &UserHandler{userUC: userUC, accountUC: accountUC}
}

// Create creates a user and the account it owns.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[dto.CreateUserRequest](w, r)
	if !ok {
		return
	}

	user, err := h.userUC.CreateUser(r.Context(), req.ToUseCaseInput())
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.UserFromDomain(user))
}

// Me returns the current user together with their account balance.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.userUC)
	if !ok {
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), user.AccountID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := dto.UserFromDomain(user)
	resp.Account = dto.AccountFromDomain(account)
	writeJSON(w, http.StatusOK, resp)
}

// GetByHandle looks a user up by handle.
func (h *UserHandler) GetByHandle(w http.ResponseWriter, r *http.Request) {
	user, err := h.userUC.GetUserByHandle(r.Context(), chi.URLParam(r, "handle"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

// Delete removes a user and their bookmarks.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.userUC.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
