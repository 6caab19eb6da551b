package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newRegisterCmd() *cobra.Command {
	var req RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getClient(false)
			if err != nil {
				return err
			}

			body, err := client.Post("/users/register", req)
			if err != nil {
				return err
			}

			if flagJSON {
				return printRaw(body)
			}

			var u UserResponse
			if err := json.Unmarshal(body, &u); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
			printMessage(fmt.Sprintf("Registered %s as %s (%s)", u.Email, u.Role, u.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&req.Username, "username", "", "Display name (required)")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password, at least 8 characters (required)")
	cmd.Flags().StringVar(&req.Role, "role", "", "employer or candidate (default candidate)")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newLoginCmd() *cobra.Command {
	var (
		req  LoginRequest
		save bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print an access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getClient(false)
			if err != nil {
				return err
			}

			body, err := client.Post("/users/login", req)
			if err != nil {
				return err
			}

			var resp LoginResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			if save {
				path, err := saveToken(resp.AccessToken)
				if err != nil {
					return err
				}
				printMessage("Token saved to " + path)
			}

			if flagJSON {
				printJSON(resp)
				return nil
			}
			if !save {
				printMessage(resp.AccessToken)
			}
			printMessage(fmt.Sprintf("Expires at %s", resp.ExpiresAt.Format("2006-01-02 15:04:05")))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password (required)")
	cmd.Flags().BoolVar(&save, "save", false, "Store the token in ~/"+configFileName)
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the current access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getClient(true)
			if err != nil {
				return err
			}

			body, err := client.Post("/users/logout", struct{}{})
			if err != nil {
				return err
			}
			return printSuccess(body)
		},
	}
}
