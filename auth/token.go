package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hairizuanbinnoorazman/job-board/logger"
	"github.com/hairizuanbinnoorazman/job-board/session"
	"github.com/hairizuanbinnoorazman/job-board/user"
)

const (
	// DefaultTokenTTL is how long an issued access token stays valid.
	DefaultTokenTTL = 7 * 24 * time.Hour

	issuer = "job-board"
)

// ErrWeakSecret is returned when the signing secret is shorter than 32 bytes.
var ErrWeakSecret = errors.New("jwt secret must be at least 32 characters")

// Claims are the JWT claims of an access token. Subject holds the user id and
// ID (jti) identifies the token for revocation.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Token is an issued access token.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Authenticator issues and verifies HS256 access tokens for registered users.
type Authenticator struct {
	users       user.Store
	revocations session.RevocationStore
	secret      []byte
	ttl         time.Duration
	now         func() time.Time
	logger      logger.Logger
}

// NewAuthenticator creates an Authenticator. A zero ttl uses DefaultTokenTTL.
func NewAuthenticator(users user.Store, revocations session.RevocationStore, secret string, ttl time.Duration, log logger.Logger) (*Authenticator, error) {
	if len(secret) < 32 {
		return nil, ErrWeakSecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &Authenticator{
		users:       users,
		revocations: revocations,
		secret:      []byte(secret),
		ttl:         ttl,
		now:         time.Now,
		logger:      log,
	}, nil
}

// Authenticate checks email and password and issues an access token.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (*Token, error) {
	u, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !u.CheckPassword(password) {
		a.logger.Warn(ctx, "invalid password attempt", map[string]interface{}{
			"user_id": u.ID.String(),
		})
		return nil, ErrInvalidCredentials
	}

	return a.issue(u)
}

// Verify resolves a raw token into the principal it was issued to. The user is
// reloaded so role changes and deactivation apply to tokens already issued.
func (a *Authenticator) Verify(ctx context.Context, raw string) (*Principal, error) {
	claims, err := a.parse(raw)
	if err != nil {
		return nil, err
	}

	revoked, err := a.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, ErrUnauthenticated
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	u, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return &Principal{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
	}, nil
}

// Revoke invalidates raw until its natural expiry.
func (a *Authenticator) Revoke(ctx context.Context, raw string) error {
	claims, err := a.parse(raw)
	if err != nil {
		return err
	}
	return a.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (a *Authenticator) issue(u *user.User) (*Token, error) {
	now := a.now()
	expiresAt := now.Add(a.ttl)

	claims := Claims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID.String(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Token{Value: signed, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (a *Authenticator) parse(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrUnauthenticated
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !token.Valid || claims.ID == "" {
		return nil, ErrUnauthenticated
	}

	return claims, nil
}
