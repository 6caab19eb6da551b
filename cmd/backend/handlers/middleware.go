package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/securecookie"
	"github.com/hairizuanbinnoorazman/job-board/auth"
	"github.com/hairizuanbinnoorazman/job-board/logger"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// PrincipalKey is the context key for the resolved *auth.Principal.
	PrincipalKey ContextKey = "principal"

	// TokenKey is the context key for the raw access token.
	TokenKey ContextKey = "access_token"

	// AuthMethodKey is the context key for the authentication method.
	AuthMethodKey ContextKey = "auth_method"

	// RejectedCredentialKey marks a request whose credential did not verify.
	RejectedCredentialKey ContextKey = "rejected_credential"
)

// PrincipalResolver turns a raw access token into a principal.
type PrincipalResolver interface {
	Verify(ctx context.Context, token string) (*auth.Principal, error)
}

// AuthMiddleware resolves the caller from a Bearer token or the signed
// session cookie.
type AuthMiddleware struct {
	resolver   PrincipalResolver
	cookies    *securecookie.SecureCookie
	cookieName string
	logger     logger.Logger
}

// NewAuthMiddleware creates a new authentication middleware.
func NewAuthMiddleware(resolver PrincipalResolver, cookies *securecookie.SecureCookie, cookieName string, log logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		resolver:   resolver,
		cookies:    cookies,
		cookieName: cookieName,
		logger:     log,
	}
}

// Resolve attaches the principal to the request context when a credential
// verifies. Requests without one, or with a stale or invalid one, continue
// anonymously so public routes stay open; protected routes reject them in
// Require or in the role check.
func (m *AuthMiddleware) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, method, ok := m.credential(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		p, err := m.resolver.Verify(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrUnauthenticated) {
				m.logger.Warn(r.Context(), "invalid credential", map[string]interface{}{
					"path":   r.URL.Path,
					"method": method,
				})
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), RejectedCredentialKey, method)))
				return
			}
			m.logger.Error(r.Context(), "failed to verify credential", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "authentication failed")
			return
		}

		ctx := context.WithValue(r.Context(), PrincipalKey, p)
		ctx = context.WithValue(ctx, TokenKey, token)
		ctx = context.WithValue(ctx, AuthMethodKey, method)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Require rejects anonymous requests.
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetPrincipal(r.Context()); !ok {
			if _, rejected := r.Context().Value(RejectedCredentialKey).(string); rejected {
				respondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// credential returns the raw token and how it was supplied.
func (m *AuthMiddleware) credential(r *http.Request) (string, string, bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		if strings.HasPrefix(authHeader, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")), "bearer", true
		}
		return "", "bearer", true
	}

	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return "", "", false
	}

	var token string
	if err := m.cookies.Decode(m.cookieName, cookie.Value, &token); err != nil {
		m.logger.Warn(r.Context(), "invalid session cookie", map[string]interface{}{
			"error": err.Error(),
		})
		return "", "cookie", true
	}
	return token, "cookie", true
}

// GetPrincipal extracts the authenticated principal from the request context.
func GetPrincipal(ctx context.Context) (*auth.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(*auth.Principal)
	return p, ok && p != nil
}

// GetToken extracts the raw access token from the request context.
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok && token != ""
}

// RequestLogger logs one entry per request with its status and duration.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if status >= http.StatusInternalServerError {
				log.Error(r.Context(), "request completed", fields)
				return
			}
			log.Info(r.Context(), "request completed", fields)
		})
	}
}
