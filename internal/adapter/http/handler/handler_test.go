package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cofundable/cofundable/internal/adapter/http/dto"
)

func TestUserHandler(t *testing.T) {
	env := newTestEnv(t)

	t.Run("create", func(t *testing.T) {
		var user dto.UserResponse
		rr := env.do(t, http.MethodPost, "/users/", "", map[string]any{
			"name":   "Alice Williams",
			"handle": "alicewilliams",
			"bio":    "grassroots organizing",
		}, &user)

		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		assert.Equal(t, "alicewilliams", user.Handle)
		assert.NotEmpty(t, user.AccountID)
		require.NotNil(t, user.Bio)
		assert.Equal(t, "grassroots organizing", *user.Bio)
	})

	t.Run("duplicate handle", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/users/", "", map[string]any{"name": "Other", "handle": "alicewilliams"}, nil)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("missing handle fails validation", func(t *testing.T) {
		var body errorBody
		rr := env.do(t, http.MethodPost, "/users/", "", map[string]any{"name": "No Handle"}, &body)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, body.Message, "Handle")
	})

	t.Run("malformed handle", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/users/", "", map[string]any{"name": "Bad", "handle": "Has Spaces"}, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/users/", "", `{"name":"x","handle":"x","admin":true}`, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("lookup by handle", func(t *testing.T) {
		var user dto.UserResponse
		rr := env.do(t, http.MethodGet, "/users/alicewilliams", "", nil, &user)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Alice Williams", user.Name)

		var body errorBody
		rr = env.do(t, http.MethodGet, "/users/nobody", "", nil, &body)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "User not found", body.Message)
	})
}

func TestUserHandler_Me(t *testing.T) {
	env := newTestEnv(t)
	accountID := env.createUser(t, "alice")
	env.grant(t, accountID, "25")

	rr := env.do(t, http.MethodGet, "/user/", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "anonymous callers have no current user")

	var me dto.UserResponse
	rr = env.do(t, http.MethodGet, "/user/", "alice", nil, &me)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.NotNil(t, me.Account)
	assert.Equal(t, accountID, me.Account.ID)
	assert.Equal(t, "25.00", me.Account.Balance)
}

func TestTransactionHandler_Transfer(t *testing.T) {
	env := newTestEnv(t)
	aliceAccount := env.createUser(t, "alice")
	_, causeAccount := env.createCause(t, "waverly-mutual-aid")
	env.grant(t, aliceAccount, "10")

	t.Run("moves shares and returns the pair", func(t *testing.T) {
		var resp dto.TransferResponse
		rr := env.do(t, http.MethodPost, "/user/transactions/transfer", "alice", map[string]any{
			"to_account_id": causeAccount,
			"amount":        "4",
			"note":          "monthly pledge",
		}, &resp)

		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		assert.Equal(t, "debit", resp.Debit.Kind)
		assert.Equal(t, aliceAccount, resp.Debit.AccountID)
		assert.Equal(t, "credit", resp.Credit.Kind)
		assert.Equal(t, causeAccount, resp.Credit.AccountID)
		assert.Equal(t, "4.00", resp.Credit.Amount)
		require.NotNil(t, resp.Debit.MatchEntryID)
		assert.Equal(t, resp.Credit.ID, *resp.Debit.MatchEntryID)

		acc, _ := env.store.Account(aliceAccount)
		assert.Equal(t, "6", acc.Balance.String())
	})

	t.Run("insufficient balance", func(t *testing.T) {
		var body errorBody
		rr := env.do(t, http.MethodPost, "/user/transactions/transfer", "alice", map[string]any{
			"to_account_id": causeAccount,
			"amount":        100,
		}, &body)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Current user doesn't have enough shares to transfer that amount", body.Message)
	})

	t.Run("unknown destination", func(t *testing.T) {
		var body errorBody
		rr := env.do(t, http.MethodPost, "/user/transactions/transfer", "alice", map[string]any{
			"to_account_id": "no-such-account",
			"amount":        "1",
		}, &body)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "No account found with id: no-such-account", body.Message)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/user/transactions/transfer", "alice", map[string]any{
			"to_account_id": causeAccount,
			"amount":        "0",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("requires a current user", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/user/transactions/transfer", "", map[string]any{
			"to_account_id": causeAccount,
			"amount":        "1",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestTransactionHandler_List(t *testing.T) {
	env := newTestEnv(t)
	aliceAccount := env.createUser(t, "alice")
	_, causeAccount := env.createCause(t, "acme")
	env.grant(t, aliceAccount, "10")

	for _, amount := range []string{"1", "2", "3"} {
		rr := env.do(t, http.MethodPost, "/user/transactions/transfer", "alice",
			map[string]any{"to_account_id": causeAccount, "amount": amount}, nil)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}

	t.Run("user ledger newest first", func(t *testing.T) {
		var page dto.PageResponse[dto.TransactionResponse]
		rr := env.do(t, http.MethodGet, "/user/transactions", "alice", nil, &page)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.EqualValues(t, 4, page.Total, "one grant credit and three debits")
		require.Len(t, page.Items, 4)
		assert.Equal(t, "3.00", page.Items[0].Amount)
		assert.Equal(t, "credit", page.Items[3].Kind)
	})

	t.Run("kind filter and paging", func(t *testing.T) {
		var page dto.PageResponse[dto.TransactionResponse]
		rr := env.do(t, http.MethodGet, "/user/transactions?kind=debit&size=2&page=2", "alice", nil, &page)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.EqualValues(t, 3, page.Total)
		assert.Equal(t, 2, page.Pages)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "1.00", page.Items[0].Amount)
		assert.Nil(t, page.Links.Next)
		require.NotNil(t, page.Links.Prev)
		assert.Contains(t, *page.Links.Prev, "kind=debit")
	})

	t.Run("invalid kind", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/user/transactions?kind=refund", "alice", nil, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("size out of range", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/user/transactions?size=500", "alice", nil, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("page past the addressable offset", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/user/transactions?page=30000000&size=100", "alice", nil, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("cause ledger", func(t *testing.T) {
		var page dto.PageResponse[dto.TransactionResponse]
		rr := env.do(t, http.MethodGet, "/causes/acme/transactions?kind=credit", "", nil, &page)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.EqualValues(t, 3, page.Total)
		for _, item := range page.Items {
			assert.Equal(t, causeAccount, item.AccountID)
		}
	})

	t.Run("unknown cause ledger", func(t *testing.T) {
		var body errorBody
		rr := env.do(t, http.MethodGet, "/causes/nope/transactions", "", nil, &body)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Cause not found", body.Message)
	})
}

func TestCauseHandler(t *testing.T) {
	env := newTestEnv(t)
	causeID, _ := env.createCause(t, "waverly-mutual-aid", "mutual-aid", "community-group")
	env.createCause(t, "acme", "community-group")

	t.Run("get", func(t *testing.T) {
		var cause dto.CauseResponse
		rr := env.do(t, http.MethodGet, "/causes/"+causeID, "", nil, &cause)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, []string{"mutual-aid", "community-group"}, cause.Tags)
	})

	t.Run("get unknown", func(t *testing.T) {
		var body errorBody
		rr := env.do(t, http.MethodGet, "/causes/missing", "", nil, &body)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Cause not found", body.Message)
	})

	t.Run("list newest first", func(t *testing.T) {
		var page dto.PageResponse[dto.CauseResponse]
		rr := env.do(t, http.MethodGet, "/causes/", "", nil, &page)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.EqualValues(t, 2, page.Total)
		assert.Equal(t, "acme", page.Items[0].Handle)
		assert.Equal(t, 50, page.Size)
	})

	t.Run("tags are shared", func(t *testing.T) {
		var page dto.PageResponse[dto.TagResponse]
		rr := env.do(t, http.MethodGet, "/tags/", "", nil, &page)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.EqualValues(t, 2, page.Total)
		assert.Equal(t, "community-group", page.Items[0].Name)
	})

	t.Run("delete", func(t *testing.T) {
		rr := env.do(t, http.MethodDelete, "/admin/causes/"+causeID, "", nil, nil)
		require.Equal(t, http.StatusNoContent, rr.Code)

		rr = env.do(t, http.MethodGet, "/causes/"+causeID, "", nil, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)

		rr = env.do(t, http.MethodDelete, "/admin/causes/"+causeID, "", nil, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestBookmarkHandler(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice")
	causeID, _ := env.createCause(t, "acme")

	var first, second dto.BookmarkResponse
	rr := env.do(t, http.MethodPut, "/user/bookmarks/acme", "alice", nil, &first)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.NotNil(t, first.Cause)
	assert.Equal(t, "acme", first.Cause.Handle)

	rr = env.do(t, http.MethodPut, "/user/bookmarks/acme", "alice", nil, &second)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, first.ID, second.ID, "bookmarking twice keeps one bookmark")

	var body errorBody
	rr = env.do(t, http.MethodPut, "/user/bookmarks/missing", "alice", nil, &body)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Cause not found", body.Message)

	var page dto.PageResponse[dto.BookmarkResponse]
	rr = env.do(t, http.MethodGet, "/user/bookmarks/", "alice", nil, &page)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, 1, page.Total)

	rr = env.do(t, http.MethodDelete, "/admin/causes/"+causeID, "", nil, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	page = dto.PageResponse[dto.BookmarkResponse]{}
	env.do(t, http.MethodGet, "/user/bookmarks/", "alice", nil, &page)
	assert.EqualValues(t, 0, page.Total, "deleting a cause removes its bookmarks")
}

func TestUserHandler_Delete(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice")
	causeID, _ := env.createCause(t, "acme")

	rr := env.do(t, http.MethodPut, "/user/bookmarks/acme", "alice", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var user dto.UserResponse
	rr = env.do(t, http.MethodGet, "/users/alice", "", nil, &user)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, http.MethodDelete, "/admin/users/"+user.ID, "", nil, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = env.do(t, http.MethodGet, "/users/alice", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = env.do(t, http.MethodGet, "/causes/"+causeID, "", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code, "causes outlive their bookmarkers")

	var body errorBody
	rr = env.do(t, http.MethodDelete, "/admin/users/"+user.ID, "", nil, &body)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "User not found", body.Message)
}

func TestAdminHandler(t *testing.T) {
	env := newTestEnv(t)
	aliceAccount := env.createUser(t, "alice")
	_, causeAccount := env.createCause(t, "acme")
	env.grant(t, aliceAccount, "10")

	rr := env.do(t, http.MethodPost, "/user/transactions/transfer", "alice",
		map[string]any{"to_account_id": causeAccount, "amount": "2.50"}, nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	t.Run("consistency", func(t *testing.T) {
		var report dto.ConsistencyResponse
		rr := env.do(t, http.MethodGet, "/admin/ledger/consistency", "", nil, &report)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, report.Consistent)
		assert.Equal(t, "0.00", report.TotalBalance)
		assert.Equal(t, "12.50", report.TotalCredits)
		assert.Equal(t, report.TotalCredits, report.TotalDebits)
		assert.Zero(t, report.Unmatched)
	})

	t.Run("reconcile", func(t *testing.T) {
		var result dto.ReconciliationResponse
		rr := env.do(t, http.MethodGet, "/admin/accounts/"+aliceAccount+"/reconcile", "", nil, &result)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, result.IsReconciled)
		assert.Equal(t, "7.50", result.RecordedBalance)
		assert.Equal(t, "7.50", result.CalculatedBalance)
	})

	t.Run("reconcile unknown account", func(t *testing.T) {
		var body errorBody
		rr := env.do(t, http.MethodGet, "/admin/accounts/ghost/reconcile", "", nil, &body)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "No account found with id: ghost", body.Message)
	})

	t.Run("report", func(t *testing.T) {
		var report dto.ReconciliationReportResponse
		rr := env.do(t, http.MethodGet, "/admin/reconciliation", "", nil, &report)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 3, report.TotalAccounts)
		assert.Equal(t, 3, report.ReconciledAccounts)
		assert.Empty(t, report.Discrepancies)
		assert.True(t, report.Ledger.Consistent)
	})

	t.Run("grant to unknown account", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/admin/grants", "", map[string]any{"to_account_id": "ghost", "amount": "1"}, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
