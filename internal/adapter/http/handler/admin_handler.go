package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/cofundable/cofundable/internal/adapter/http/dto"
	"github.com/cofundable/cofundable/internal/usecase"
)

// AdminHandler serves treasury grants and ledger audits.
type AdminHandler struct {
	accountUC        *usecase.AccountUseCase
	ledgerUC         *usecase.LedgerUseCase
	reconciliationUC *usecase.ReconciliationUseCase
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	accountUC *usecase.AccountUseCase,
	ledgerUC *usecase.LedgerUseCase,
	reconciliationUC *usecase.ReconciliationUseCase,
) *AdminHandler {
	return &AdminHandler{
		accountUC:        accountUC,
		ledgerUC:         ledgerUC,
		reconciliationUC: reconciliationUC,
	}
}

// Grant issues shares from the treasury to an account.
func (h *AdminHandler) Grant(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[dto.GrantSharesRequest](w, r)
	if !ok {
		return
	}

	debit, credit, err := h.accountUC.GrantShares(r.Context(), req.ToUseCaseInput())
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromDomain(debit, credit))
}

// Consistency checks that balances net to zero and every entry is paired.
// An inconsistent ledger is reported with 409 so scripts can alert on status.
func (h *AdminHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	status := http.StatusOK
	if err := report.Err(); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("ledger consistency check failed")
		status = http.StatusConflict
	}

	writeJSON(w, status, dto.ConsistencyFromUseCase(report))
}

// Reconcile compares one account's balance with the sum of its entries.
func (h *AdminHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	result, err := h.reconciliationUC.ReconcileAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(result))
}

// Report reconciles every account and checks ledger totals.
func (h *AdminHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciliationUC.GenerateReconciliationReport(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationReportFromUseCase(report))
}
