package job

import (
	"context"

	"github.com/google/uuid"
)

// Store persists job listings. Replace and delete are single conditional
// statements on (id, owner) and report how many rows matched.
type Store interface {
	Insert(ctx context.Context, j *Job) error
	FindMany(ctx context.Context, filter Filter, limit, skip int) ([]*Job, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Job, error)
	ReplaceWhere(ctx context.Context, id, owner uuid.UUID, j *Job) (int64, error)
	DeleteWhere(ctx context.Context, id, owner uuid.UUID) (int64, error)
	CountWhere(ctx context.Context, filter Filter) (int64, error)
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]*Job, error)
}

// Filter narrows FindMany and CountWhere. Empty fields add no constraint and
// the supplied ones are ANDed.
type Filter struct {
	// Search is a case-insensitive substring of title or description.
	Search string
	// AnyText matches records whose title or description contains any of the
	// probes, case-insensitively.
	AnyText []string
	// Category and Location match the whole value, case-insensitively.
	Category string
	Location string
	// Title and Owner match exactly.
	Title string
	Owner uuid.UUID
}
