package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/hairizuanbinnoorazman/job-board/auth"
	"github.com/hairizuanbinnoorazman/job-board/logger"
	"github.com/hairizuanbinnoorazman/job-board/user"
)

// Authenticator issues and revokes access tokens.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*auth.Token, error)
	Revoke(ctx context.Context, token string) error
}

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	userStore     user.Store
	authenticator Authenticator
	cookies       *securecookie.SecureCookie
	cookieName    string
	cookieSecure  bool
	logger        logger.Logger
}

// NewAuthHandler creates a new authentication handler.
func NewAuthHandler(
	userStore user.Store,
	authenticator Authenticator,
	cookies *securecookie.SecureCookie,
	cookieName string,
	cookieSecure bool,
	log logger.Logger,
) *AuthHandler {
	return &AuthHandler{
		userStore:     userStore,
		authenticator: authenticator,
		cookies:       cookies,
		cookieName:    cookieName,
		cookieSecure:  cookieSecure,
		logger:        log,
	}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string    `json:"email"`
	Username string    `json:"username"`
	Password string    `json:"password"`
	Role     user.Role `json:"role"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	Message     string    `json:"message"`
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Register handles user registration requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Role == "" {
		req.Role = user.RoleCandidate
	}
	if !req.Role.SelfAssignable() {
		respondError(w, http.StatusBadRequest, "role must be employer or candidate")
		return
	}

	newUser := &user.User{
		Email:    strings.TrimSpace(strings.ToLower(req.Email)),
		Username: strings.TrimSpace(req.Username),
		Role:     req.Role,
		IsActive: true,
	}

	if err := newUser.SetPassword(req.Password); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.userStore.Create(r.Context(), newUser); err != nil {
		switch {
		case errors.Is(err, user.ErrDuplicateEmail):
			respondError(w, http.StatusConflict, "email already exists")
		case errors.Is(err, user.ErrInvalidEmail), errors.Is(err, user.ErrInvalidUsername), errors.Is(err, user.ErrInvalidRole):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error(r.Context(), "failed to create user", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	h.logger.Info(r.Context(), "user registered", map[string]interface{}{
		"user_id": newUser.ID.String(),
		"role":    string(newUser.Role),
	})

	respondJSON(w, http.StatusCreated, newUser)
}

// Login handles user login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	token, err := h.authenticator.Authenticate(r.Context(), email, req.Password)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "authentication failed")
		return
	}

	if err := h.setSessionCookie(w, token); err != nil {
		h.logger.Error(r.Context(), "failed to encode session cookie", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	respondJSON(w, http.StatusOK, LoginResponse{
		Message:     "Login successful",
		AccessToken: token.Value,
		TokenType:   "bearer",
		ExpiresAt:   token.ExpiresAt,
	})
}

// Logout revokes the caller's token and clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := GetToken(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.authenticator.Revoke(r.Context(), token); err != nil {
		respondServiceError(w, r, h.logger, err, "failed to log out")
		return
	}

	h.clearSessionCookie(w)
	respondSuccess(w, "logged out successfully")
}

// setSessionCookie stores the signed token in the session cookie.
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token *auth.Token) error {
	encoded, err := h.cookies.Encode(h.cookieName, token.Value)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    encoded,
		Path:     "/",
		Expires:  token.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}

// clearSessionCookie clears the session cookie.
func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}
