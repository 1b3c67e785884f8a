package dto

import (
	"time"

	"github.com/cofundable/cofundable/internal/domain"
	"github.com/cofundable/cofundable/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Balance              string    `json:"balance"`
	Version              int64     `json:"version"`
	AllowNegativeBalance bool      `json:"allow_negative_balance"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:                   a.ID,
		Name:                 a.Name,
		Balance:              a.Balance.StringFixed(domain.AmountScale),
		Version:              a.Version,
		AllowNegativeBalance: a.AllowNegativeBalance,
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Handle    string           `json:"handle"`
	Bio       *string          `json:"bio"`
	AccountID string           `json:"account_id"`
	Account   *AccountResponse `json:"account,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// UserFromDomain converts domain user to response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Handle:    u.Handle,
		Bio:       u.Bio,
		AccountID: u.AccountID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// CauseResponse represents a cause in API responses.
type CauseResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Handle      string    `json:"handle"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	AccountID   string    `json:"account_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CauseFromDomain converts domain cause to response.
func CauseFromDomain(c *domain.Cause) *CauseResponse {
	return &CauseResponse{
		ID:          c.ID,
		Name:        c.Name,
		Handle:      c.Handle,
		Description: c.Description,
		Tags:        c.TagNames(),
		AccountID:   c.AccountID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// TagResponse represents a tag in API responses.
type TagResponse struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// TagFromDomain converts domain tag to response.
func TagFromDomain(t domain.Tag) TagResponse {
	return TagResponse{Name: t.Name, Description: t.Description}
}

// BookmarkResponse represents a bookmark in API responses.
type BookmarkResponse struct {
	ID        string         `json:"id"`
	Cause     *CauseResponse `json:"cause"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// BookmarkFromDomain converts domain bookmark to response.
func BookmarkFromDomain(b *domain.Bookmark) *BookmarkResponse {
	resp := &BookmarkResponse{
		ID:        b.ID,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if b.Cause != nil {
		resp.Cause = CauseFromDomain(b.Cause)
	}
	return resp
}

// TransactionResponse represents a ledger entry in API responses.
type TransactionResponse struct {
	ID           string    `json:"id"`
	Amount       string    `json:"amount"`
	Kind         string    `json:"kind"`
	Note         *string   `json:"note"`
	AccountID    string    `json:"account_id"`
	MatchEntryID *string   `json:"match_entry_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TransactionFromDomain converts domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:           t.ID,
		Amount:       t.Amount.StringFixed(domain.AmountScale),
		Kind:         string(t.Kind),
		Note:         t.Note,
		AccountID:    t.AccountID,
		MatchEntryID: t.MatchEntryID,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// TransferResponse is the matched pair a transfer produced.
type TransferResponse struct {
	Debit  *TransactionResponse `json:"debit"`
	Credit *TransactionResponse `json:"credit"`
}

// TransferFromDomain converts a debit/credit pair to response.
func TransferFromDomain(debit, credit *domain.Transaction) *TransferResponse {
	return &TransferResponse{
		Debit:  TransactionFromDomain(debit),
		Credit: TransactionFromDomain(credit),
	}
}

// ConsistencyResponse reports ledger-wide totals.
type ConsistencyResponse struct {
	Consistent   bool   `json:"consistent"`
	TotalBalance string `json:"total_balance"`
	TotalCredits string `json:"total_credits"`
	TotalDebits  string `json:"total_debits"`
	Unmatched    int64  `json:"unmatched"`
}

// ConsistencyFromUseCase converts a consistency report to response.
func ConsistencyFromUseCase(r *usecase.ConsistencyReport) *ConsistencyResponse {
	return &ConsistencyResponse{
		Consistent:   r.Consistent,
		TotalBalance: r.TotalBalance.StringFixed(domain.AmountScale),
		TotalCredits: r.TotalCredits.StringFixed(domain.AmountScale),
		TotalDebits:  r.TotalDebits.StringFixed(domain.AmountScale),
		Unmatched:    r.Unmatched,
	}
}

// ReconciliationResponse compares one account's balance with its entries.
type ReconciliationResponse struct {
	AccountID         string    `json:"account_id"`
	RecordedBalance   string    `json:"recorded_balance"`
	CalculatedBalance string    `json:"calculated_balance"`
	Difference        string    `json:"difference"`
	IsReconciled      bool      `json:"is_reconciled"`
	LastChecked       time.Time `json:"last_checked"`
}

// ReconciliationFromUseCase converts a reconciliation result to response.
func ReconciliationFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		AccountID:         r.AccountID,
		RecordedBalance:   r.RecordedBalance.StringFixed(domain.AmountScale),
		CalculatedBalance: r.CalculatedBalance.StringFixed(domain.AmountScale),
		Difference:        r.Difference.StringFixed(domain.AmountScale),
		IsReconciled:      r.IsReconciled,
		LastChecked:       r.LastChecked,
	}
}

// ReconciliationReportResponse is the full per-account reconciliation.
type ReconciliationReportResponse struct {
	TotalAccounts      int                       `json:"total_accounts"`
	ReconciledAccounts int                       `json:"reconciled_accounts"`
	Discrepancies      []*ReconciliationResponse `json:"discrepancies"`
	Ledger             *ConsistencyResponse      `json:"ledger"`
	CheckedAt          time.Time                 `json:"checked_at"`
}

// ReconciliationReportFromUseCase converts a reconciliation report to response.
func ReconciliationReportFromUseCase(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	discrepancies := make([]*ReconciliationResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = ReconciliationFromUseCase(d)
	}
	return &ReconciliationReportResponse{
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		Discrepancies:      discrepancies,
		Ledger:             ConsistencyFromUseCase(r.Ledger),
		CheckedAt:          r.CheckedAt,
	}
}
