package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cofundable/cofundable/internal/adapter/http/dto"
	"github.com/cofundable/cofundable/internal/domain"
	"github.com/cofundable/cofundable/internal/usecase"
)

// TransactionHandler lists ledger entries and moves shares.
type TransactionHandler struct {
	accountUC *usecase.AccountUseCase
	queryUC   *usecase.TransactionQueryUseCase
	userUC    *usecase.UserUseCase
	causeUC   *usecase.CauseUseCase
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(
	accountUC *usecase.AccountUseCase,
	queryUC *usecase.TransactionQueryUseCase,
	userUC *usecase.UserUseCase,
	causeUC *usecase.CauseUseCase,
) *TransactionHandler {
	return &TransactionHandler{
		accountUC: accountUC,
		queryUC:   queryUC,
		userUC:    userUC,
		causeUC:   causeUC,
	}
}

// Transfer moves shares from the current user's account to another account
// and returns the debit/credit pair.
func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.userUC)
	if !ok {
		return
	}

	req, ok := decodeAndValidate[dto.TransferSharesRequest](w, r)
	if !ok {
		return
	}

	debit, credit, err := h.accountUC.TransferShares(r.Context(), req.ToUseCaseInput(user.AccountID))
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromDomain(debit, credit))
}

// ListForUser lists the current user's entries, newest first.
func (h *TransactionHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.userUC)
	if !ok {
		return
	}

	h.list(w, r, user.AccountID)
}

// ListForCause lists a cause's entries, newest first.
func (h *TransactionHandler) ListForCause(w http.ResponseWriter, r *http.Request) {
	cause, err := h.causeUC.GetCauseByHandle(r.Context(), chi.URLParam(r, "cause"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.list(w, r, cause.AccountID)
}

func (h *TransactionHandler) list(w http.ResponseWriter, r *http.Request, accountID string) {
	kind, err := domain.ParseEntryKind(r.URL.Query().Get("kind"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	page, ok := parsePage(w, r)
	if !ok {
		return
	}

	paged, err := h.queryUC.QueryTransactionsByAccount(accountID, kind).Paginate(r.Context(), page)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewPageResponse(paged, r.URL, dto.TransactionFromDomain))
}
