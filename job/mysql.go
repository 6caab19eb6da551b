package job

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hairizuanbinnoorazman/job-board/logger"
	"gorm.io/gorm"
)

// likeEscape is understood by both MySQL and SQLite, unlike backslash.
const likeEscape = "!"

// MySQLStore implements the Store interface using GORM and MySQL.
type MySQLStore struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewMySQLStore creates a new MySQL-backed job store.
func NewMySQLStore(db *gorm.DB, log logger.Logger) *MySQLStore {
	return &MySQLStore{
		db:     db,
		logger: log,
	}
}

// Insert stores a new job and sets its ID.
func (s *MySQLStore) Insert(ctx context.Context, j *Job) error {
	if err := s.db.WithContext(ctx).Create(j).Error; err != nil {
		s.logger.Error(ctx, "failed to insert job", map[string]interface{}{
			"error": err.Error(),
			"owner": j.Owner.String(),
		})
		return err
	}

	s.logger.Info(ctx, "job created", map[string]interface{}{
		"job_id": j.ID.String(),
		"owner":  j.Owner.String(),
	})

	return nil
}

// FindMany returns jobs matching filter in storage order.
func (s *MySQLStore) FindMany(ctx context.Context, filter Filter, limit, skip int) ([]*Job, error) {
	var jobs []*Job
	err := applyFilter(s.db.WithContext(ctx).Model(&Job{}), filter).
		Limit(limit).
		Offset(skip).
		Find(&jobs).Error

	if err != nil {
		s.logger.Error(ctx, "failed to find jobs", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	return jobs, nil
}

// FindByID retrieves a job by its ID.
func (s *MySQLStore) FindByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	var j Job
	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&j).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		s.logger.Error(ctx, "failed to get job by ID", map[string]interface{}{
			"error":  err.Error(),
			"job_id": id.String(),
		})
		return nil, err
	}

	return &j, nil
}

// ReplaceWhere overwrites every business field of the job matching both id
// and owner. On a match, j is updated to the stored identity.
func (s *MySQLStore) ReplaceWhere(ctx context.Context, id, owner uuid.UUID, j *Job) (int64, error) {
	now := time.Now()
	result := s.db.WithContext(ctx).
		Model(&Job{}).
		Where("id = ? AND owner = ?", id, owner).
		Updates(map[string]interface{}{
			"title":           j.Title,
			"company":         j.Company,
			"description":     j.Description,
			"category":        j.Category,
			"employment_type": j.EmploymentType,
			"location":        j.Location,
			"salary_min":      j.SalaryMin,
			"salary_max":      j.SalaryMax,
			"benefits":        j.Benefits,
			"requirements":    j.Requirements,
			"contact_email":   j.ContactEmail,
			"date_posted":     j.DatePosted,
			"flyer_url":       j.FlyerURL,
			"updated_at":      now,
		})

	if result.Error != nil {
		s.logger.Error(ctx, "failed to replace job", map[string]interface{}{
			"error":  result.Error.Error(),
			"job_id": id.String(),
		})
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		j.ID = id
		j.Owner = owner
		j.UpdatedAt = now
		s.logger.Info(ctx, "job replaced", map[string]interface{}{
			"job_id": id.String(),
		})
	}

	return result.RowsAffected, nil
}

// DeleteWhere hard-deletes the job matching both id and owner.
func (s *MySQLStore) DeleteWhere(ctx context.Context, id, owner uuid.UUID) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("id = ? AND owner = ?", id, owner).
		Delete(&Job{})

	if result.Error != nil {
		s.logger.Error(ctx, "failed to delete job", map[string]interface{}{
			"error":  result.Error.Error(),
			"job_id": id.String(),
		})
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		s.logger.Info(ctx, "job deleted", map[string]interface{}{
			"job_id": id.String(),
		})
	}

	return result.RowsAffected, nil
}

// CountWhere counts jobs matching filter.
func (s *MySQLStore) CountWhere(ctx context.Context, filter Filter) (int64, error) {
	var count int64
	err := applyFilter(s.db.WithContext(ctx).Model(&Job{}), filter).
		Count(&count).Error

	if err != nil {
		s.logger.Error(ctx, "failed to count jobs", map[string]interface{}{
			"error": err.Error(),
		})
		return 0, err
	}

	return count, nil
}

// ListByOwner returns every job owned by owner.
func (s *MySQLStore) ListByOwner(ctx context.Context, owner uuid.UUID) ([]*Job, error) {
	var jobs []*Job
	err := s.db.WithContext(ctx).
		Where("owner = ?", owner).
		Find(&jobs).Error

	if err != nil {
		s.logger.Error(ctx, "failed to list jobs by owner", map[string]interface{}{
			"error": err.Error(),
			"owner": owner.String(),
		})
		return nil, err
	}

	return jobs, nil
}

func applyFilter(q *gorm.DB, f Filter) *gorm.DB {
	if f.Search != "" {
		pattern := containsPattern(f.Search)
		q = q.Where("(LOWER(title) LIKE ? ESCAPE '"+likeEscape+"' OR LOWER(description) LIKE ? ESCAPE '"+likeEscape+"')", pattern, pattern)
	}

	if len(f.AnyText) > 0 {
		clauses := make([]string, 0, len(f.AnyText))
		args := make([]interface{}, 0, 2*len(f.AnyText))
		for _, probe := range f.AnyText {
			if probe == "" {
				continue
			}
			pattern := containsPattern(probe)
			clauses = append(clauses, "LOWER(title) LIKE ? ESCAPE '"+likeEscape+"' OR LOWER(description) LIKE ? ESCAPE '"+likeEscape+"'")
			args = append(args, pattern, pattern)
		}
		if len(clauses) > 0 {
			q = q.Where("("+strings.Join(clauses, " OR ")+")", args...)
		}
	}

	if f.Category != "" {
		q = q.Where("LOWER(category) = LOWER(?)", f.Category)
	}
	if f.Location != "" {
		q = q.Where("LOWER(location) = LOWER(?)", f.Location)
	}
	if f.Title != "" {
		q = q.Where("title = ?", f.Title)
	}
	if f.Owner != uuid.Nil {
		q = q.Where("owner = ?", f.Owner)
	}

	return q
}

// containsPattern builds a LIKE pattern matching s anywhere, with LIKE
// metacharacters in s taken literally.
func containsPattern(s string) string {
	escaper := strings.NewReplacer(
		likeEscape, likeEscape+likeEscape,
		"%", likeEscape+"%",
		"_", likeEscape+"_",
	)
	return "%" + escaper.Replace(strings.ToLower(s)) + "%"
}
