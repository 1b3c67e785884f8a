package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cofundable/cofundable/internal/infrastructure/metrics"
	"github.com/cofundable/cofundable/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"

	// IdempotencyReplayHeader marks a response served from the store.
	IdempotencyReplayHeader = "X-Idempotency-Replay"

	maxIdempotencyKeyLength = 255
)

// storedResponse is what the store keeps for a completed request.
type storedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

// IdempotencyMiddleware deduplicates mutating requests that carry an
// Idempotency-Key. The first request claims the key. Retries arriving while it
// runs get 409, retries after it succeeded get the stored response, and a
// failed first attempt frees the key.
type IdempotencyMiddleware struct {
	store   usecase.IdempotencyStore
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration, m *metrics.Metrics) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = usecase.IdempotencyKeyTTL
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl, metrics: m}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			writeJSONError(w, http.StatusBadRequest, "invalid_idempotency_key", "idempotency key too long")
			return
		}

		scoped := scopeKey(r, key)
		exists, cached, err := m.store.CheckAndSet(r.Context(), scoped, nil, m.ttl)
		if err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("idempotency check failed")
			writeJSONError(w, http.StatusInternalServerError, "internal_error", "idempotency check failed")
			return
		}

		if exists {
			if cached == nil {
				writeJSONError(w, http.StatusConflict, "request_in_progress",
					"a request with this idempotency key is still being processed")
				return
			}
			m.replay(w, r, cached)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		// The client may have gone away; the outcome still has to be recorded.
		ctx := context.WithoutCancel(r.Context())
		if recorder.statusCode < 200 || recorder.statusCode >= 300 {
			if err := m.store.Release(ctx, scoped); err != nil {
				log.Ctx(ctx).Warn().Err(err).Msg("release idempotency key")
			}
			return
		}

		stored, err := json.Marshal(storedResponse{Status: recorder.statusCode, Body: recorder.body.Bytes()})
		if err == nil {
			err = m.store.Update(ctx, scoped, stored, m.ttl)
		}
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("store idempotent response")
		}
	})
}

func (m *IdempotencyMiddleware) replay(w http.ResponseWriter, r *http.Request, cached []byte) {
	var stored storedResponse
	if err := json.Unmarshal(cached, &stored); err != nil || stored.Status == 0 {
		log.Ctx(r.Context()).Error().Err(err).Msg("decode stored idempotent response")
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "idempotency check failed")
		return
	}

	if m.metrics != nil {
		m.metrics.IdempotentReplays.Inc()
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(IdempotencyReplayHeader, "true")
	w.WriteHeader(stored.Status)
	_, _ = w.Write(stored.Body)
}

// scopeKey ties a key to the caller and route so two callers, or two
// endpoints, never share a stored response.
func scopeKey(r *http.Request, key string) string {
	caller := "anonymous"
	if p, ok := PrincipalFromContext(r.Context()); ok {
		caller = p.UserID
	}
	return caller + ":" + r.Method + ":" + r.URL.Path + ":" + key
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
