// Package auth resolves bearer credentials into principals and gates
// operations on the principal's role.
package auth

import (
	"errors"

	"github.com/google/uuid"
	"github.com/hairizuanbinnoorazman/job-board/user"
)

var (
	// ErrUnauthenticated is returned when the credential is missing, malformed,
	// expired or revoked.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden is returned when the principal's role is not allowed.
	ErrForbidden = errors.New("access denied")

	// ErrInvalidCredentials is returned by Authenticate for an unknown email or
	// a wrong password; the two cases are not distinguished.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// JobManagers are the roles allowed to create, replace and delete job listings.
var JobManagers = []user.Role{user.RoleAdmin, user.RoleEmployer}

// Principal is the identity resolved from a caller's credential.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   user.Role
}

// RequireRole passes p through when its role is one of allowed.
func RequireRole(p *Principal, allowed ...user.Role) (*Principal, error) {
	if p == nil || p.UserID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	for _, role := range allowed {
		if p.Role == role {
			return p, nil
		}
	}
	return nil, ErrForbidden
}
