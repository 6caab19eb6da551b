package user

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrPasswordTooShort is returned when a password is less than 8 characters.
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")

	// ErrInvalidEmail is returned when an email is empty or malformed.
	ErrInvalidEmail = errors.New("a valid email is required")

	// ErrInvalidUsername is returned when a username is empty.
	ErrInvalidUsername = errors.New("username is required")

	// ErrInvalidRole is returned for roles outside admin, employer and candidate.
	ErrInvalidRole = errors.New("invalid role")
)

// Role is the authorization role carried by a user.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleEmployer  Role = "employer"
	RoleCandidate Role = "candidate"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleEmployer, RoleCandidate:
		return true
	}
	return false
}

// SelfAssignable reports whether a user may pick r when registering.
func (r Role) SelfAssignable() bool {
	return r == RoleEmployer || r == RoleCandidate
}

// User is a registered account on the job board.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex:idx_users_email;not null" validate:"required,email,max=255"`
	Username     string    `json:"username" gorm:"type:varchar(255);not null" validate:"notblank,max=255"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         Role      `json:"role" gorm:"type:varchar(20);not null;default:'candidate'" validate:"oneof=admin employer candidate"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID when none is set.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// SetPassword hashes and stores password with bcrypt.
func (u *User) SetPassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

var userValidator = newUserValidator()

func newUserValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// fieldErrors maps struct fields to the error reported when they fail.
var fieldErrors = map[string]error{
	"Email":    ErrInvalidEmail,
	"Username": ErrInvalidUsername,
	"Role":     ErrInvalidRole,
}

// Validate checks the required fields. An empty role defaults to candidate.
func (u *User) Validate() error {
	if u.Role == "" {
		u.Role = RoleCandidate
	}

	err := userValidator.Struct(u)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if mapped, ok := fieldErrors[fe.StructField()]; ok {
				return mapped
			}
		}
	}
	return err
}
