package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/hairizuanbinnoorazman/job-board/auth"
	"github.com/hairizuanbinnoorazman/job-board/logger"
	"github.com/hairizuanbinnoorazman/job-board/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCookieName = "session"

var errStoreDown = errors.New("store down")

// fakeResolver maps known tokens to principals.
type fakeResolver struct {
	principals map[string]*auth.Principal
}

func (f *fakeResolver) Verify(ctx context.Context, token string) (*auth.Principal, error) {
	if token == "explode" {
		return nil, errStoreDown
	}
	p, ok := f.principals[token]
	if !ok {
		return nil, auth.ErrUnauthenticated
	}
	return p, nil
}

func newTestCookies() *securecookie.SecureCookie {
	return securecookie.New(securecookie.GenerateRandomKey(32), nil)
}

func setupAuthMiddleware(t *testing.T) (*AuthMiddleware, *securecookie.SecureCookie, *auth.Principal) {
	t.Helper()

	p := &auth.Principal{UserID: uuid.New(), Email: "boss@example.com", Role: user.RoleEmployer}
	cookies := newTestCookies()
	resolver := &fakeResolver{principals: map[string]*auth.Principal{"good-token": p}}
	return NewAuthMiddleware(resolver, cookies, testCookieName, logger.NewTestLogger()), cookies, p
}

// capture records what the wrapped handler saw.
type capture struct {
	called    bool
	principal *auth.Principal
	token     string
}

func (c *capture) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.called = true
		c.principal, _ = GetPrincipal(r.Context())
		c.token, _ = GetToken(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_Resolve(t *testing.T) {
	t.Parallel()

	mw, cookies, p := setupAuthMiddleware(t)

	goodCookie, err := cookies.Encode(testCookieName, "good-token")
	require.NoError(t, err)
	foreignCookie, err := newTestCookies().Encode(testCookieName, "good-token")
	require.NoError(t, err)

	tests := []struct {
		name          string
		header        string
		cookie        string
		wantStatus    int
		wantCalled    bool
		wantPrincipal bool
	}{
		{
			name:       "no credential passes anonymously",
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name:          "valid bearer token",
			header:        "Bearer good-token",
			wantStatus:    http.StatusOK,
			wantCalled:    true,
			wantPrincipal: true,
		},
		{
			name:          "valid session cookie",
			cookie:        goodCookie,
			wantStatus:    http.StatusOK,
			wantCalled:    true,
			wantPrincipal: true,
		},
		{
			name:       "unknown bearer token continues anonymously",
			header:     "Bearer nope",
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name:       "non-bearer authorization header continues anonymously",
			header:     "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name:       "cookie signed with another key continues anonymously",
			cookie:     foreignCookie,
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name:       "resolver failure",
			header:     "Bearer explode",
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: testCookieName, Value: tc.cookie})
			}
			w := httptest.NewRecorder()
			c := &capture{}

			mw.Resolve(c.handler()).ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantCalled, c.called)
			if tc.wantPrincipal {
				require.NotNil(t, c.principal)
				assert.Equal(t, p.UserID, c.principal.UserID)
				assert.Equal(t, "good-token", c.token)
			} else {
				assert.Nil(t, c.principal)
			}
		})
	}
}

func TestAuthMiddleware_BearerTakesPrecedence(t *testing.T) {
	t.Parallel()

	mw, cookies, _ := setupAuthMiddleware(t)
	goodCookie, err := cookies.Encode(testCookieName, "good-token")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	req.Header.Set("Authorization", "Bearer nope")
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: goodCookie})
	w := httptest.NewRecorder()
	c := &capture{}

	mw.Resolve(c.handler()).ServeHTTP(w, req)

	// The cookie is not consulted once a bearer header is present.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, c.called)
	assert.Nil(t, c.principal)
}

func TestAuthMiddleware_Require(t *testing.T) {
	t.Parallel()

	mw, _, _ := setupAuthMiddleware(t)
	handler := mw.Resolve(mw.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/jobs/users/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("authenticated", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/jobs/users/me", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("stale credential", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/jobs/users/me", nil)
		req.Header.Set("Authorization", "Bearer nope")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"invalid or expired token"}`, w.Body.String())
	})
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	log := logger.NewTestLogger()
	handler := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.True(t, log.HasEntry("info", "request completed"))
	assert.False(t, log.HasEntry("error", "request completed"))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.True(t, log.HasEntry("error", "request completed"))
}
