package job

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrJobNotFound             = errors.New("job not found")
	ErrInvalidIdentifier       = errors.New("invalid job id")
	ErrConflict                = errors.New("a job listing with this title already exists")
	ErrValidation              = errors.New("invalid job listing")
	ErrFlyerResolutionFailed   = errors.New("failed to resolve job flyer")
	ErrContentGenerationFailed = errors.New("failed to generate job description")
)

// Job is a published job listing. Owner is the user that created it and never
// changes; FlyerURL always points at an uploaded image.
type Job struct {
	ID             uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Title          string    `json:"title" gorm:"type:varchar(255);not null;index:idx_jobs_owner_title,priority:2"`
	Company        string    `json:"company" gorm:"type:varchar(255);not null"`
	Description    string    `json:"description" gorm:"type:text;not null"`
	Category       string    `json:"category" gorm:"type:varchar(100);not null"`
	EmploymentType string    `json:"employment_type" gorm:"type:varchar(100);not null"`
	Location       string    `json:"location" gorm:"type:varchar(255);not null"`
	SalaryMin      float64   `json:"salary_min" gorm:"not null"`
	SalaryMax      float64   `json:"salary_max" gorm:"not null"`
	Benefits       string    `json:"benefits" gorm:"type:text;not null"`
	Requirements   string    `json:"requirements" gorm:"type:text;not null"`
	ContactEmail   string    `json:"contact_email" gorm:"type:varchar(255);not null"`
	DatePosted     string    `json:"date_posted" gorm:"type:varchar(64);not null"`
	FlyerURL       string    `json:"flyer_url" gorm:"type:varchar(2048);not null"`
	Owner          uuid.UUID `json:"owner" gorm:"type:char(36);not null;index:idx_jobs_owner;index:idx_jobs_owner_title,priority:1"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID when none is set.
func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// ParseID parses a job id taken from a request.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, ErrInvalidIdentifier
	}
	return id, nil
}

func newJob(f Fields, owner uuid.UUID, flyerURL string) *Job {
	return &Job{
		Title:          f.Title,
		Company:        f.Company,
		Description:    f.Description,
		Category:       f.Category,
		EmploymentType: f.EmploymentType,
		Location:       f.Location,
		SalaryMin:      f.SalaryMin,
		SalaryMax:      f.SalaryMax,
		Benefits:       f.Benefits,
		Requirements:   f.Requirements,
		ContactEmail:   f.ContactEmail,
		DatePosted:     f.DatePosted,
		FlyerURL:       flyerURL,
		Owner:          owner,
	}
}
