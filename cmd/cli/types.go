package main

import (
	"time"

	"github.com/google/uuid"
)

// DataResponse matches handlers.DataResponse.
type DataResponse[T any] struct {
	Data T `json:"data"`
}

// SuccessResponse matches handlers.SuccessResponse.
type SuccessResponse struct {
	Message string `json:"message"`
}

// RegisterRequest matches handlers.RegisterRequest.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// LoginRequest matches handlers.LoginRequest.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse matches handlers.LoginResponse.
type LoginResponse struct {
	Message     string    `json:"message"`
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// UserResponse is the registered user returned by the server.
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

// JobResponse matches job.Job.
type JobResponse struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	EmploymentType string    `json:"employment_type"`
	Location       string    `json:"location"`
	SalaryMin      float64   `json:"salary_min"`
	SalaryMax      float64   `json:"salary_max"`
	Benefits       string    `json:"benefits"`
	Requirements   string    `json:"requirements"`
	ContactEmail   string    `json:"contact_email"`
	DatePosted     string    `json:"date_posted"`
	FlyerURL       string    `json:"flyer_url"`
	Owner          uuid.UUID `json:"owner"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// GenerateTextRequest matches handlers.GenerateTextRequest.
type GenerateTextRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateTextResponse matches handlers.GenerateTextResponse.
type GenerateTextResponse struct {
	Content string `json:"content"`
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
