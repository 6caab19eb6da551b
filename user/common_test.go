package user

import (
	"testing"

	"github.com/hairizuanbinnoorazman/job-board/logger"
	"github.com/hairizuanbinnoorazman/job-board/testutil"
)

// setupTestStore creates an in-memory database and user store.
func setupTestStore(t *testing.T) Store {
	db := testutil.SetupTestDB(t, &User{})
	return NewMySQLStore(db, logger.NewTestLogger())
}

// createTestUser builds an active user with the given role.
func createTestUser(t *testing.T, email, username string, role Role) *User {
	u := &User{
		Email:    email,
		Username: username,
		Role:     role,
		IsActive: true,
	}
	if err := u.SetPassword("password123"); err != nil {
		t.Fatalf("failed to set password: %v", err)
	}
	return u
}
