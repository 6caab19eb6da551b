package job

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hairizuanbinnoorazman/job-board/auth"
	"github.com/hairizuanbinnoorazman/job-board/logger"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// FlyerResolver turns optional uploaded bytes into a public flyer URL,
// generating an image from the title when nothing was uploaded. Discard
// removes a flyer no listing refers to any more.
type FlyerResolver interface {
	Resolve(ctx context.Context, title string, provided []byte) (string, error)
	Discard(ctx context.Context, url string) error
}

// DescriptionWriter drafts a description for a listing submitted without one.
type DescriptionWriter interface {
	WriteDescription(ctx context.Context, f Fields) (string, error)
}

// SearchParams are the public query parameters of a job search.
type SearchParams struct {
	Search   string
	Category string
	Location string
	Limit    int
	Skip     int
}

// Service implements the job listing lifecycle on top of a Store.
type Service struct {
	store  Store
	flyers FlyerResolver
	writer DescriptionWriter
	logger logger.Logger
}

// NewService creates a Service. writer may be nil, in which case a missing
// description fails validation.
func NewService(store Store, flyers FlyerResolver, writer DescriptionWriter, log logger.Logger) *Service {
	return &Service{
		store:  store,
		flyers: flyers,
		writer: writer,
		logger: log,
	}
}

// Create publishes a new listing owned by p. A listing with the same title
// from the same owner is rejected with ErrConflict before any flyer work.
// The check and the insert are separate statements, so two concurrent
// creates can both succeed.
func (s *Service) Create(ctx context.Context, p *auth.Principal, fields Fields, flyer []byte) error {
	p, err := auth.RequireRole(p, auth.JobManagers...)
	if err != nil {
		return err
	}

	fields = fields.Normalize()
	if err := fields.validateExceptDescription(); err != nil {
		return err
	}

	count, err := s.store.CountWhere(ctx, Filter{Title: fields.Title, Owner: p.UserID})
	if err != nil {
		return fmt.Errorf("failed to check for duplicate job: %w", err)
	}
	if count > 0 {
		return ErrConflict
	}

	j, err := s.prepare(ctx, p, fields, flyer)
	if err != nil {
		return err
	}

	if err := s.store.Insert(ctx, j); err != nil {
		s.discardFlyer(ctx, j.FlyerURL)
		return err
	}
	return nil
}

// Get returns the listing with the given id.
func (s *Service) Get(ctx context.Context, rawID string) (*Job, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, id)
}

// Search returns one page of listings matching params. An empty page is not
// an error.
func (s *Service) Search(ctx context.Context, params SearchParams) ([]*Job, error) {
	limit, skip := normalizePage(params.Limit, params.Skip)
	filter := Filter{
		Search:   strings.TrimSpace(params.Search),
		Category: strings.TrimSpace(params.Category),
		Location: strings.TrimSpace(params.Location),
	}

	jobs, err := s.store.FindMany(ctx, filter, limit, skip)
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []*Job{}
	}
	return jobs, nil
}

// Similar returns listings whose title or description contains the seed's
// title or description. The seed itself always matches and is included. A
// missing seed is ErrJobNotFound.
func (s *Service) Similar(ctx context.Context, rawID string, limit, skip int) ([]*Job, error) {
	seed, err := s.Get(ctx, rawID)
	if err != nil {
		return nil, err
	}

	limit, skip = normalizePage(limit, skip)
	jobs, err := s.store.FindMany(ctx, Filter{AnyText: []string{seed.Title, seed.Description}}, limit, skip)
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []*Job{}
	}
	return jobs, nil
}

// Replace overwrites every business field of a listing owned by p. A listing
// that does not exist and one owned by someone else are both ErrJobNotFound.
func (s *Service) Replace(ctx context.Context, p *auth.Principal, rawID string, fields Fields, flyer []byte) error {
	p, err := auth.RequireRole(p, auth.JobManagers...)
	if err != nil {
		return err
	}

	id, err := ParseID(rawID)
	if err != nil {
		return err
	}

	fields = fields.Normalize()
	if err := fields.validateExceptDescription(); err != nil {
		return err
	}

	j, err := s.prepare(ctx, p, fields, flyer)
	if err != nil {
		return err
	}

	previous := s.ownedFlyer(ctx, id, p)
	replaced, err := s.store.ReplaceWhere(ctx, id, p.UserID, j)
	if err != nil || replaced == 0 {
		s.discardFlyer(ctx, j.FlyerURL)
		if err != nil {
			return err
		}
		return ErrJobNotFound
	}

	if previous != j.FlyerURL {
		s.discardFlyer(ctx, previous)
	}
	return nil
}

// Delete removes a listing owned by p.
func (s *Service) Delete(ctx context.Context, p *auth.Principal, rawID string) error {
	p, err := auth.RequireRole(p, auth.JobManagers...)
	if err != nil {
		return err
	}

	id, err := ParseID(rawID)
	if err != nil {
		return err
	}

	previous := s.ownedFlyer(ctx, id, p)
	deleted, err := s.store.DeleteWhere(ctx, id, p.UserID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrJobNotFound
	}

	s.discardFlyer(ctx, previous)
	return nil
}

// MyJobs returns every listing owned by p, unpaginated.
func (s *Service) MyJobs(ctx context.Context, p *auth.Principal) ([]*Job, error) {
	p, err := auth.RequireRole(p, auth.JobManagers...)
	if err != nil {
		return nil, err
	}

	jobs, err := s.store.ListByOwner(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []*Job{}
	}
	return jobs, nil
}

// prepare resolves the flyer and a missing description, then builds the
// record to persist.
func (s *Service) prepare(ctx context.Context, p *auth.Principal, fields Fields, flyer []byte) (*Job, error) {
	url, err := s.flyers.Resolve(ctx, fields.Title, flyer)
	if err != nil {
		s.logger.Error(ctx, "failed to resolve flyer", map[string]interface{}{
			"error": err.Error(),
			"owner": p.UserID.String(),
		})
		return nil, fmt.Errorf("%w: %w", ErrFlyerResolutionFailed, err)
	}

	if fields.Description == "" && s.writer != nil {
		description, err := s.writer.WriteDescription(ctx, fields)
		if err != nil {
			s.logger.Error(ctx, "failed to generate description", map[string]interface{}{
				"error": err.Error(),
				"owner": p.UserID.String(),
			})
			s.discardFlyer(ctx, url)
			return nil, fmt.Errorf("%w: %w", ErrContentGenerationFailed, err)
		}
		fields.Description = strings.TrimSpace(description)
	}

	if err := fields.Validate(); err != nil {
		s.discardFlyer(ctx, url)
		return nil, err
	}

	return newJob(fields, p.UserID, url), nil
}

// ownedFlyer returns the flyer URL of listing id when p owns it, otherwise "".
func (s *Service) ownedFlyer(ctx context.Context, id uuid.UUID, p *auth.Principal) string {
	j, err := s.store.FindByID(ctx, id)
	if err != nil || j.Owner != p.UserID {
		return ""
	}
	return j.FlyerURL
}

// discardFlyer removes a flyer no listing refers to. Failures leave an
// orphaned object behind and are only logged.
func (s *Service) discardFlyer(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.flyers.Discard(ctx, url); err != nil {
		s.logger.Warn(ctx, "failed to discard flyer", map[string]interface{}{
			"error": err.Error(),
			"url":   url,
		})
	}
}

func normalizePage(limit, skip int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if skip < 0 {
		skip = 0
	}
	return limit, skip
}
