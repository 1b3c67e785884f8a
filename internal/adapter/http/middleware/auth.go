package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/cofundable/cofundable/internal/domain"
	"github.com/cofundable/cofundable/internal/infrastructure/auth"
	"github.com/cofundable/cofundable/internal/infrastructure/metrics"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// PrincipalContextKey is the context key for the authenticated caller
	PrincipalContextKey ContextKey = "principal"

	// UserHandleHeader selects the current user when token auth is disabled.
	UserHandleHeader = "X-User-Handle"
)

// Principal is the caller a request acts on behalf of.
type Principal struct {
	UserID string
	Role   domain.Role
}

// TokenVerifier checks bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// UserResolver looks users up by handle.
type UserResolver interface {
	GetUserByHandle(ctx context.Context, handle string) (*domain.User, error)
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, PrincipalContextKey, p)
}

// PrincipalFromContext extracts the authenticated caller from context
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(PrincipalContextKey).(Principal)
	return p, ok
}

// BearerAuth resolves the caller from an Authorization: Bearer token. Requests
// without the header pass through anonymously. Malformed or invalid tokens are
// rejected.
func BearerAuth(verifier TokenVerifier, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				authFailure(m, "malformed_header")
				writeAuthError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				reason := "invalid_token"
				if errors.Is(err, domain.ErrExpiredToken) {
					reason = "expired_token"
				}
				authFailure(m, reason)
				writeAuthError(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}

			ctx := WithPrincipal(r.Context(), Principal{UserID: claims.UserID(), Role: claims.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// HandleAuth resolves the caller from the X-User-Handle header. It stands in
// for token auth in development.
func HandleAuth(users UserResolver, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handle := strings.TrimSpace(r.Header.Get(UserHandleHeader))
			if handle == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUserByHandle(r.Context(), handle)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					authFailure(m, "unknown_handle")
					writeAuthError(w, http.StatusUnauthorized, "Could not validate credentials")
					return
				}
				log.Ctx(r.Context()).Error().Err(err).Str("handle", handle).Msg("resolve current user")
				writeAuthError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			ctx := WithPrincipal(r.Context(), Principal{UserID: user.ID, Role: domain.RoleMember})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects callers that are anonymous or lack role.
func RequireRole(role domain.Role, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				authFailure(m, "missing_credentials")
				writeAuthError(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}

			if p.Role != role {
				authFailure(m, "insufficient_role")
				writeAuthError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func authFailure(m *metrics.Metrics, reason string) {
	if m != nil {
		m.AuthFailures.WithLabelValues(reason).Inc()
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	writeJSONError(w, status, http.StatusText(status), message)
}
