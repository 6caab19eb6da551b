package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hairizuanbinnoorazman/job-board/logger"
	"github.com/hairizuanbinnoorazman/job-board/user"
	"github.com/spf13/cobra"
)

var (
	userEmail    string
	userRole     string
	userPassword string
	userName     string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "User administration commands",
}

// set-role is the only way to create an admin; registration refuses it.
var usersSetRoleCmd = &cobra.Command{
	Use:   "set-role",
	Short: "Change a user's role",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUserStore(func(ctx context.Context, store user.Store) error {
			return setUserRole(ctx, store, os.Stdout, userEmail, userRole)
		})
	},
}

var usersDeactivateCmd = &cobra.Command{
	Use:   "deactivate",
	Short: "Deactivate a user; their tokens stop working immediately",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUserStore(func(ctx context.Context, store user.Store) error {
			return updateUser(ctx, store, os.Stdout, userEmail, "deactivated", user.SetActive(false))
		})
	},
}

var usersResetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Set a new password for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUserStore(func(ctx context.Context, store user.Store) error {
			return updateUser(ctx, store, os.Stdout, userEmail, "password reset", user.SetPassword(userPassword))
		})
	},
}

var usersRenameCmd = &cobra.Command{
	Use:   "rename",
	Short: "Change a user's display name",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUserStore(func(ctx context.Context, store user.Store) error {
			return updateUser(ctx, store, os.Stdout, userEmail, "renamed", user.SetUsername(strings.TrimSpace(userName)))
		})
	},
}

func init() {
	usersSetRoleCmd.Flags().StringVar(&userEmail, "email", "", "user email")
	usersSetRoleCmd.Flags().StringVar(&userRole, "role", "", "admin, employer or candidate")
	usersSetRoleCmd.MarkFlagRequired("email")
	usersSetRoleCmd.MarkFlagRequired("role")

	usersDeactivateCmd.Flags().StringVar(&userEmail, "email", "", "user email")
	usersDeactivateCmd.MarkFlagRequired("email")

	usersResetPasswordCmd.Flags().StringVar(&userEmail, "email", "", "user email")
	usersResetPasswordCmd.Flags().StringVar(&userPassword, "password", "", "new password, at least 8 characters")
	usersResetPasswordCmd.MarkFlagRequired("email")
	usersResetPasswordCmd.MarkFlagRequired("password")

	usersRenameCmd.Flags().StringVar(&userEmail, "email", "", "user email")
	usersRenameCmd.Flags().StringVar(&userName, "username", "", "new username")
	usersRenameCmd.MarkFlagRequired("email")
	usersRenameCmd.MarkFlagRequired("username")

	usersCmd.AddCommand(usersSetRoleCmd)
	usersCmd.AddCommand(usersDeactivateCmd)
	usersCmd.AddCommand(usersResetPasswordCmd)
	usersCmd.AddCommand(usersRenameCmd)
	rootCmd.AddCommand(usersCmd)
}

func setUserRole(ctx context.Context, store user.Store, out io.Writer, email, rawRole string) error {
	role := user.Role(strings.ToLower(strings.TrimSpace(rawRole)))
	if !role.IsValid() {
		return fmt.Errorf("%w: %q", user.ErrInvalidRole, rawRole)
	}
	return updateUser(ctx, store, out, email, "is now "+string(role), user.SetRole(role))
}

// updateUser looks up an active user by email and applies setters to it.
func updateUser(ctx context.Context, store user.Store, out io.Writer, email, done string, setters ...user.UpdateSetter) error {
	u, err := store.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if err := store.Update(ctx, u.ID, setters...); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %s\n", u.Email, done)
	return nil
}

func withUserStore(fn func(ctx context.Context, store user.Store) error) error {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.NewLogrusLogger(cfg.Log.Level)

	db, err := openDatabase(cfg.Database)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	defer sqlDB.Close()

	return fn(context.Background(), user.NewMySQLStore(db, log))
}
