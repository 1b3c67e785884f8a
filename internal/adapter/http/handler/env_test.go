package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/cofundable/cofundable/internal/adapter/http/middleware"
	"github.com/cofundable/cofundable/internal/domain"
	"github.com/cofundable/cofundable/internal/usecase"
	"github.com/cofundable/cofundable/internal/usecase/memstore"
)

const testTreasuryID = "treasury"

// testEnv wires the handlers to use cases over an in-memory store.
type testEnv struct {
	store  *memstore.Store
	router http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	s := memstore.New()
	s.SeedAccount(domain.Account{
		ID:                   testTreasuryID,
		Name:                 "treasury",
		Balance:              decimal.Zero,
		AllowNegativeBalance: true,
		CreatedAt:            time.Now().UTC(),
	})

	ledgerUC := usecase.NewLedgerUseCase(s.Accounts(), s.EntryRepository(), s.Ledger(), s)
	accountUC := usecase.NewAccountUseCase(
		s, s.Accounts(), s.Outbox(), ledgerUC, memstore.PassthroughRetrier{}, s, nil, testTreasuryID,
	)
	userUC := usecase.NewUserUseCase(s, s.Users(), accountUC, s.Outbox(), s)
	tagUC := usecase.NewTagUseCase(s.Tags(), s)
	causeUC := usecase.NewCauseUseCase(s, s.Causes(), tagUC, accountUC, s.Outbox(), s, nil, 0)
	bookmarkUC := usecase.NewBookmarkUseCase(s.Bookmarks(), causeUC, s)
	queryUC := usecase.NewTransactionQueryUseCase(s.EntryRepository())
	reconciliationUC := usecase.NewReconciliationUseCase(s.Accounts(), s.EntryRepository(), ledgerUC)

	users := NewUserHandler(userUC, accountUC)
	causes := NewCauseHandler(causeUC)
	tags := NewTagHandler(tagUC)
	bookmarks := NewBookmarkHandler(bookmarkUC, userUC)
	transactions := NewTransactionHandler(accountUC, queryUC, userUC, causeUC)
	admin := NewAdminHandler(accountUC, ledgerUC, reconciliationUC)

	r := chi.NewRouter()
	r.Use(middleware.HandleAuth(userUC, nil))
	r.Post("/users/", users.Create)
	r.Get("/users/{handle}", users.GetByHandle)
	r.Get("/user/", users.Me)
	r.Get("/user/bookmarks/", bookmarks.List)
	r.Put("/user/bookmarks/{cause_handle}", bookmarks.Put)
	r.Get("/user/transactions", transactions.ListForUser)
	r.Post("/user/transactions/transfer", transactions.Transfer)
	r.Get("/causes/", causes.List)
	r.Post("/causes/", causes.Create)
	r.Get("/causes/{cause}", causes.Get)
	r.Get("/causes/{cause}/transactions", transactions.ListForCause)
	r.Get("/tags/", tags.List)
	r.Post("/admin/grants", admin.Grant)
	r.Get("/admin/ledger/consistency", admin.Consistency)
	r.Get("/admin/accounts/{id}/reconcile", admin.Reconcile)
	r.Get("/admin/reconciliation", admin.Report)
	r.Delete("/admin/causes/{cause}", causes.Delete)
	r.Delete("/admin/users/{id}", users.Delete)

	return &testEnv{store: s, router: r}
}

// do sends a request, optionally as the user with handle, and decodes the
// JSON response into out when it is non-nil.
func (e *testEnv) do(t *testing.T, method, path, handle string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if handle != "" {
		req.Header.Set(middleware.UserHandleHeader, handle)
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)

	if out != nil && rr.Body.Len() > 0 {
		if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s %s response %q: %v", method, path, rr.Body.String(), err)
		}
	}
	return rr
}

// createUser creates a user and returns its account ID.
func (e *testEnv) createUser(t *testing.T, handle string) string {
	t.Helper()

	var resp struct {
		AccountID string `json:"account_id"`
	}
	rr := e.do(t, http.MethodPost, "/users/", "", map[string]any{"name": handle, "handle": handle}, &resp)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create user %s: %d %s", handle, rr.Code, rr.Body.String())
	}
	return resp.AccountID
}

// createCause creates a cause and returns its ID and account ID.
func (e *testEnv) createCause(t *testing.T, handle string, tags ...string) (string, string) {
	t.Helper()

	if tags == nil {
		tags = []string{}
	}
	var resp struct {
		ID        string `json:"id"`
		AccountID string `json:"account_id"`
	}
	rr := e.do(t, http.MethodPost, "/causes/", "", map[string]any{
		"name":        handle,
		"handle":      handle,
		"description": "about " + handle,
		"tags":        tags,
	}, &resp)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create cause %s: %d %s", handle, rr.Code, rr.Body.String())
	}
	return resp.ID, resp.AccountID
}

// grant funds accountID from the treasury.
func (e *testEnv) grant(t *testing.T, accountID, amount string) {
	t.Helper()

	rr := e.do(t, http.MethodPost, "/admin/grants", "", map[string]any{"to_account_id": accountID, "amount": amount}, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("grant %s to %s: %d %s", amount, accountID, rr.Code, rr.Body.String())
	}
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
