package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/hairizuanbinnoorazman/job-board/logger"
	"github.com/hairizuanbinnoorazman/job-board/testutil"
	"github.com/hairizuanbinnoorazman/job-board/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserStore(t *testing.T) user.Store {
	t.Helper()

	store := user.NewMySQLStore(testutil.SetupTestDB(t, &user.User{}), logger.NewTestLogger())
	u := &user.User{Email: "kim@example.com", Username: "kim", Role: user.RoleCandidate}
	require.NoError(t, u.SetPassword("password123"))
	require.NoError(t, store.Create(context.Background(), u))
	return store
}

func TestSetUserRole(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		role     string
		wantErr  error
		wantRole user.Role
	}{
		{name: "promote to admin", email: "kim@example.com", role: "admin", wantRole: user.RoleAdmin},
		{name: "email and role are normalized", email: "  KIM@example.com ", role: " Employer", wantRole: user.RoleEmployer},
		{name: "unknown role", email: "kim@example.com", role: "recruiter", wantErr: user.ErrInvalidRole, wantRole: user.RoleCandidate},
		{name: "unknown user", email: "lee@example.com", role: "admin", wantErr: user.ErrUserNotFound, wantRole: user.RoleCandidate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupUserStore(t)
			var out bytes.Buffer

			err := setUserRole(ctx, store, &out, tt.email, tt.role)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, out.String())
			} else {
				require.NoError(t, err)
				assert.Equal(t, "kim@example.com is now "+string(tt.wantRole)+"\n", out.String())
			}

			u, err := store.GetByEmail(ctx, "kim@example.com")
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, u.Role)
		})
	}
}

func TestUpdateUser_ResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("new password replaces the old one", func(t *testing.T) {
		store := setupUserStore(t)
		var out bytes.Buffer

		require.NoError(t, updateUser(ctx, store, &out, "kim@example.com", "password reset", user.SetPassword("n3w-secret!")))
		assert.Equal(t, "kim@example.com password reset\n", out.String())

		u, err := store.GetByEmail(ctx, "kim@example.com")
		require.NoError(t, err)
		assert.True(t, u.CheckPassword("n3w-secret!"))
		assert.False(t, u.CheckPassword("password123"))
	})

	t.Run("short password is refused", func(t *testing.T) {
		store := setupUserStore(t)

		err := updateUser(ctx, store, &bytes.Buffer{}, "kim@example.com", "password reset", user.SetPassword("short"))
		assert.ErrorIs(t, err, user.ErrPasswordTooShort)

		u, err := store.GetByEmail(ctx, "kim@example.com")
		require.NoError(t, err)
		assert.True(t, u.CheckPassword("password123"))
	})
}

func TestUpdateUser_Rename(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		wantErr  error
		want     string
	}{
		{name: "new name", username: "Kim Lee", want: "Kim Lee"},
		{name: "blank name", username: "   ", wantErr: user.ErrInvalidUsername, want: "kim"},
		{name: "empty name", username: "", wantErr: user.ErrInvalidUsername, want: "kim"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupUserStore(t)

			err := updateUser(ctx, store, &bytes.Buffer{}, "kim@example.com", "renamed", user.SetUsername(tt.username))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			u, err := store.GetByEmail(ctx, "kim@example.com")
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.Username)
		})
	}
}

func TestUpdateUser_Deactivate(t *testing.T) {
	ctx := context.Background()
	store := setupUserStore(t)

	require.NoError(t, updateUser(ctx, store, &bytes.Buffer{}, "kim@example.com", "deactivated", user.SetActive(false)))

	_, err := store.GetByEmail(ctx, "kim@example.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
