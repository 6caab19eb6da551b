package job

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Fields are the caller-supplied business fields of a job listing, used for
// both create and full replacement.
type Fields struct {
	Title          string  `json:"title" validate:"required,max=255"`
	Company        string  `json:"company" validate:"required,max=255"`
	Description    string  `json:"description" validate:"required"`
	Category       string  `json:"category" validate:"required,max=100"`
	EmploymentType string  `json:"employment_type" validate:"required,max=100"`
	Location       string  `json:"location" validate:"required,max=255"`
	SalaryMin      float64 `json:"salary_min"`
	SalaryMax      float64 `json:"salary_max"`
	Benefits       string  `json:"benefits" validate:"required"`
	Requirements   string  `json:"requirements" validate:"required"`
	ContactEmail   string  `json:"contact_email" validate:"required,email,max=255"`
	DatePosted     string  `json:"date_posted" validate:"required,max=64"`
}

var fieldValidator = newFieldValidator()

func newFieldValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Normalize trims surrounding whitespace from every field. Field contents
// are otherwise stored exactly as submitted.
func (f Fields) Normalize() Fields {
	for _, v := range []*string{
		&f.Title, &f.Company, &f.Description, &f.Category, &f.EmploymentType,
		&f.Location, &f.Benefits, &f.Requirements, &f.ContactEmail, &f.DatePosted,
	} {
		*v = strings.TrimSpace(*v)
	}
	return f
}

// Validate checks every required field. Salary bounds are not ordered.
func (f Fields) Validate() error {
	return describeValidation(fieldValidator.Struct(f))
}

// validateExceptDescription runs before a missing description is generated.
func (f Fields) validateExceptDescription() error {
	return describeValidation(fieldValidator.StructExcept(f, "Description"))
}

func describeValidation(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "email":
			msgs = append(msgs, fe.Field()+" must be a valid email address")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}
