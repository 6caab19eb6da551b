package job

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/hairizuanbinnoorazman/job-board/logger"
	"github.com/hairizuanbinnoorazman/job-board/testutil"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates an in-memory database and job store for testing.
func setupTestStore(t *testing.T) *MySQLStore {
	db := testutil.SetupTestDB(t, &Job{})
	return NewMySQLStore(db, logger.NewTestLogger())
}

func validFields(title string) Fields {
	return Fields{
		Title:          title,
		Company:        "Acme",
		Description:    "Build and run the " + title + " services.",
		Category:       "Engineering",
		EmploymentType: "Full-time",
		Location:       "Remote",
		SalaryMin:      90000,
		SalaryMax:      120000,
		Benefits:       "Health insurance",
		Requirements:   "Go experience",
		ContactEmail:   "hr@acme.io",
		DatePosted:     "2024-05-01",
	}
}

func insertJob(t *testing.T, store Store, owner uuid.UUID, title, category string) *Job {
	f := validFields(title)
	f.Category = category
	j := newJob(f, owner, "https://cdn.example.com/flyers/"+title+".png")
	require.NoError(t, store.Insert(context.Background(), j))
	return j
}

var errBoom = errors.New("boom")

type fakeResolver struct {
	mu         sync.Mutex
	calls      []resolveCall
	err        error
	discarded  []string
	discardErr error
}

type resolveCall struct {
	title    string
	provided []byte
}

func (f *fakeResolver) Resolve(ctx context.Context, title string, provided []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, resolveCall{title: title, provided: provided})
	if f.err != nil {
		return "", f.err
	}
	if len(provided) > 0 {
		return "https://cdn.example.com/flyers/uploaded.png", nil
	}
	return "https://cdn.example.com/flyers/generated.png", nil
}

func (f *fakeResolver) Discard(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.discarded = append(f.discarded, url)
	return f.discardErr
}

func (f *fakeResolver) discards() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.discarded...)
}

func (f *fakeResolver) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeWriter struct {
	text  string
	err   error
	calls int
}

func (f *fakeWriter) WriteDescription(ctx context.Context, fields Fields) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}
