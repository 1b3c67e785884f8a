package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/cofundable/cofundable/internal/infrastructure/metrics"
)

type fakeIdempotencyStore struct {
	checkAndSetFn func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	updateFn      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
	releaseFn     func(ctx context.Context, key string) error
}

func (f *fakeIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if f.checkAndSetFn != nil {
		return f.checkAndSetFn(ctx, key, response, ttl)
	}
	return false, nil, nil
}

func (f *fakeIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, key, response, ttl)
	}
	return nil
}

func (f *fakeIdempotencyStore) Release(ctx context.Context, key string) error {
	if f.releaseFn != nil {
		return f.releaseFn(ctx, key)
	}
	return nil
}

func newTransferRequest(key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/user/transactions/transfer", bytes.NewBufferString(`{}`))
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	return req
}

func storedJSON(t *testing.T, status int, body string) []byte {
	t.Helper()
	b, err := json.Marshal(storedResponse{Status: status, Body: []byte(body)})
	if err != nil {
		t.Fatalf("marshal stored response: %v", err)
	}
	return b
}

func TestIdempotencyMiddleware_FailsClosedOnStoreErrors(t *testing.T) {
	var called bool
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			return false, nil, context.DeadlineExceeded
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Hour, nil)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, newTransferRequest("key-err"))

	if called {
		t.Fatalf("handler should not be called when store errors")
	}
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
}

func TestIdempotencyMiddleware_ReleasesKeyOnFailure(t *testing.T) {
	var updated bool
	var released string
	store := &fakeIdempotencyStore{
		updateFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) error {
			updated = true
			return nil
		},
		releaseFn: func(ctx context.Context, key string) error {
			released = key
			return nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Hour, nil)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})).ServeHTTP(rr, newTransferRequest("key-fail"))

	if updated {
		t.Fatalf("expected error responses not to be cached")
	}
	if !strings.HasSuffix(released, ":key-fail") {
		t.Fatalf("expected key to be released, got %q", released)
	}
}

func TestIdempotencyMiddleware_SkipsNonMutatingRequests(t *testing.T) {
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			t.Fatalf("store should not be consulted for GET")
			return false, nil, nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Hour, nil)

	req := httptest.NewRequest(http.MethodGet, "/user/transactions", nil)
	req.Header.Set(IdempotencyKeyHeader, "key-get")
	rr := httptest.NewRecorder()

	called := false
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, req)

	if !called {
		t.Fatalf("expected next handler to be called")
	}
}

func TestIdempotencyMiddleware_ReplaysStoredResponse(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			return true, storedJSON(t, http.StatusCreated, `{"cached":true}`), nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Hour, m)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not be called when cached response exists")
	})).ServeHTTP(rr, newTransferRequest("key-123"))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected replayed status 201, got %d", rr.Code)
	}
	if rr.Header().Get(IdempotencyReplayHeader) != "true" {
		t.Fatalf("expected %s header to be set", IdempotencyReplayHeader)
	}
	if got := rr.Body.String(); got != `{"cached":true}` {
		t.Fatalf("unexpected cached body: %s", got)
	}
	if got := testutil.ToFloat64(m.IdempotentReplays); got != 1 {
		t.Fatalf("expected one replay recorded, got %v", got)
	}
}

func TestIdempotencyMiddleware_ConflictWhileInFlight(t *testing.T) {
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			return true, nil, nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Hour, nil)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not run while the first request is in flight")
	})).ServeHTTP(rr, newTransferRequest("key-busy"))

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestIdempotencyMiddleware_StoresSuccessfulResponse(t *testing.T) {
	var stored []byte
	var ttlSeen time.Duration
	store := &fakeIdempotencyStore{
		updateFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) error {
			stored = append([]byte(nil), response...)
			ttlSeen = ttl
			return nil
		},
	}
	mw := NewIdempotencyMiddleware(store, 2*time.Hour, nil)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})).ServeHTTP(rr, newTransferRequest("key-456"))

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status code: %d", rr.Code)
	}

	var got storedResponse
	if err := json.Unmarshal(stored, &got); err != nil {
		t.Fatalf("stored value is not a response envelope: %v", err)
	}
	if got.Status != http.StatusCreated || string(got.Body) != `{"ok":true}` {
		t.Fatalf("unexpected stored response: %d %s", got.Status, got.Body)
	}
	if ttlSeen != 2*time.Hour {
		t.Fatalf("expected configured ttl, got %v", ttlSeen)
	}
}

func TestIdempotencyMiddleware_ScopesKeyByCaller(t *testing.T) {
	var keys []string
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			keys = append(keys, key)
			return false, nil, nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Hour, nil)
	h := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for _, user := range []string{"alice-id", "bob-id"} {
		req := newTransferRequest("same-key")
		req = req.WithContext(WithPrincipal(req.Context(), Principal{UserID: user}))
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	if len(keys) != 2 || keys[0] == keys[1] {
		t.Fatalf("expected distinct scoped keys, got %v", keys)
	}
}

func TestIdempotencyMiddleware_RejectsOversizedKey(t *testing.T) {
	mw := NewIdempotencyMiddleware(&fakeIdempotencyStore{}, time.Hour, nil)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not be called")
	})).ServeHTTP(rr, newTransferRequest(strings.Repeat("k", maxIdempotencyKeyLength+1)))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
