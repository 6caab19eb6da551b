package main

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/mux"
	"github.com/hairizuanbinnoorazman/job-board/auth"
	"github.com/hairizuanbinnoorazman/job-board/cmd/backend/handlers"
	"github.com/hairizuanbinnoorazman/job-board/flyer"
	"github.com/hairizuanbinnoorazman/job-board/genai"
	"github.com/hairizuanbinnoorazman/job-board/job"
	"github.com/hairizuanbinnoorazman/job-board/logger"
	"github.com/hairizuanbinnoorazman/job-board/session"
	"github.com/hairizuanbinnoorazman/job-board/storage"
	"github.com/hairizuanbinnoorazman/job-board/testutil"
	"github.com/hairizuanbinnoorazman/job-board/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type stubImages struct{}

func (stubImages) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	return pngBytes, nil
}

type stubText struct{}

func (stubText) GenerateText(ctx context.Context, prompt string) (string, error) {
	return "Generated description", nil
}

func setupRouter(t *testing.T) *mux.Router {
	t.Helper()

	db := testutil.SetupTestDB(t, &user.User{}, &job.Job{})
	sqlDB, err := db.DB()
	require.NoError(t, err)

	log := logger.NewTestLogger()
	users := user.NewMySQLStore(db, log)

	authenticator, err := auth.NewAuthenticator(users, session.NewManager(session.NewMemoryStore(), log),
		"0123456789abcdef0123456789abcdef", time.Hour, log)
	require.NoError(t, err)

	blobs, err := storage.NewLocalStorage(t.TempDir(), "http://jobs.example.test"+filesPrefix)
	require.NoError(t, err)

	var images genai.ImageGenerator = stubImages{}
	service := job.NewService(job.NewMySQLStore(db, log), flyer.NewResolver(blobs, images, log),
		genai.NewDescriptionWriter(stubText{}), log)

	cookies := securecookie.New(securecookie.GenerateRandomKey(32), nil)
	return newRouter(routerDeps{
		log:    log,
		db:     sqlDB,
		authMW: handlers.NewAuthMiddleware(authenticator, cookies, "session", log),
		auth:   handlers.NewAuthHandler(users, authenticator, cookies, "session", false, log),
		jobs:   handlers.NewJobHandler(service, log),
		genai:  handlers.NewGenAIHandler(stubText{}, log),
		files:  handlers.NewFileHandler(blobs, filesPrefix, log),
	})
}

type client struct {
	t      *testing.T
	router http.Handler
}

func (c client) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return w
}

func (c client) json(method, target, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, token)
}

func (c client) form(method, target string, values map[string]string, token string) *httptest.ResponseRecorder {
	c.t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range values {
		require.NoError(c.t, mw.WriteField(k, v))
	}
	require.NoError(c.t, mw.Close())

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, token)
}

// signup registers and logs in, returning the bearer token.
func (c client) signup(email, role string) string {
	c.t.Helper()

	w := c.json(http.MethodPost, "/users/register",
		`{"email":"`+email+`","username":"`+email+`","password":"password123","role":"`+role+`"}`, "")
	require.Equal(c.t, http.StatusCreated, w.Code, w.Body.String())

	w = c.json(http.MethodPost, "/users/login", `{"email":"`+email+`","password":"password123"}`, "")
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())

	var resp handlers.LoginResponse
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.AccessToken
}

func listing(title string) map[string]string {
	return map[string]string{
		"title":           title,
		"company":         "Acme",
		"category":        "Engineering",
		"employment_type": "Full-time",
		"location":        "Remote",
		"salary_min":      "5000",
		"salary_max":      "8000",
		"benefits":        "Health",
		"requirements":    "Go",
		"contact_email":   "hr@acme.example",
		"date_posted":     "2026-01-15",
	}
}

func decodeJobs(t *testing.T, w *httptest.ResponseRecorder) []job.Job {
	t.Helper()
	var resp struct {
		Data []job.Job `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func TestRouter_Health(t *testing.T) {
	c := client{t: t, router: setupRouter(t)}

	w := c.do(httptest.NewRequest(http.MethodGet, "/health", nil), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("Content-Type"))
}

func TestRouter_JobLifecycle(t *testing.T) {
	c := client{t: t, router: setupRouter(t)}

	owner := c.signup("boss@example.com", "employer")
	rival := c.signup("rival@example.com", "employer")
	seeker := c.signup("seeker@example.com", "candidate")

	// Publishing.
	assert.Equal(t, http.StatusUnauthorized, c.form(http.MethodPost, "/jobs", listing("Backend Engineer"), "").Code)
	assert.Equal(t, http.StatusForbidden, c.form(http.MethodPost, "/jobs", listing("Backend Engineer"), seeker).Code)

	w := c.form(http.MethodPost, "/jobs", listing("Backend Engineer"), owner)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"Job listing added successfully"}`, w.Body.String())

	assert.Equal(t, http.StatusConflict, c.form(http.MethodPost, "/jobs", listing("Backend Engineer"), owner).Code)
	require.Equal(t, http.StatusCreated, c.form(http.MethodPost, "/jobs", listing("Backend Engineer"), rival).Code)

	// Searching.
	w = c.do(httptest.NewRequest(http.MethodGet, "/jobs?search=backend&category=engineering", nil), "")
	require.Equal(t, http.StatusOK, w.Code)
	jobs := decodeJobs(t, w)
	require.Len(t, jobs, 2)
	assert.Equal(t, "Generated description", jobs[0].Description)
	assert.True(t, strings.HasPrefix(jobs[0].FlyerURL, "http://jobs.example.test/files/flyers/"), jobs[0].FlyerURL)

	assert.Equal(t, http.StatusBadRequest, c.do(httptest.NewRequest(http.MethodGet, "/jobs?limit=abc", nil), "").Code)

	// The generated flyer is served back.
	flyerPath := strings.TrimPrefix(jobs[0].FlyerURL, "http://jobs.example.test")
	w = c.do(httptest.NewRequest(http.MethodGet, flyerPath, nil), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, pngBytes, w.Body.Bytes())

	// My jobs.
	w = c.do(httptest.NewRequest(http.MethodGet, "/jobs/users/me", nil), owner)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decodeJobs(t, w)
	require.Len(t, mine, 1)
	id := mine[0].ID.String()

	assert.Equal(t, http.StatusForbidden, c.do(httptest.NewRequest(http.MethodGet, "/jobs/users/me", nil), seeker).Code)
	assert.Equal(t, http.StatusUnauthorized, c.do(httptest.NewRequest(http.MethodGet, "/jobs/users/me", nil), "").Code)

	// Fetching.
	assert.Equal(t, http.StatusOK, c.do(httptest.NewRequest(http.MethodGet, "/jobs/"+id, nil), "").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, c.do(httptest.NewRequest(http.MethodGet, "/jobs/not-a-uuid", nil), "").Code)
	assert.Equal(t, http.StatusNotFound, c.do(httptest.NewRequest(http.MethodGet, "/jobs/"+uuid.NewString(), nil), "").Code)

	w = c.do(httptest.NewRequest(http.MethodGet, "/jobs/"+id+"/similar", nil), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeJobs(t, w), 2)

	// Replacing.
	updated := listing("Senior Backend Engineer")
	updated["description"] = "Own the platform"
	assert.Equal(t, http.StatusNotFound, c.form(http.MethodPut, "/jobs/"+id, updated, rival).Code)
	assert.Equal(t, http.StatusForbidden, c.form(http.MethodPut, "/jobs/"+id, updated, seeker).Code)
	require.Equal(t, http.StatusOK, c.form(http.MethodPut, "/jobs/"+id, updated, owner).Code)

	w = c.do(httptest.NewRequest(http.MethodGet, "/jobs/"+id, nil), "")
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Data job.Job `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Senior Backend Engineer", got.Data.Title)
	assert.Equal(t, "Own the platform", got.Data.Description)

	// Deleting.
	assert.Equal(t, http.StatusNotFound, c.do(httptest.NewRequest(http.MethodDelete, "/jobs/"+id, nil), rival).Code)
	require.Equal(t, http.StatusOK, c.do(httptest.NewRequest(http.MethodDelete, "/jobs/"+id, nil), owner).Code)
	assert.Equal(t, http.StatusNotFound, c.do(httptest.NewRequest(http.MethodGet, "/jobs/"+id, nil), "").Code)
	assert.Equal(t, http.StatusNotFound, c.do(httptest.NewRequest(http.MethodDelete, "/jobs/"+id, nil), owner).Code)
}

func TestRouter_GenerateTextAndLogout(t *testing.T) {
	c := client{t: t, router: setupRouter(t)}

	token := c.signup("seeker@example.com", "candidate")

	assert.Equal(t, http.StatusUnauthorized, c.json(http.MethodPost, "/genai/generate-text", `{"prompt":"hi"}`, "").Code)

	w := c.json(http.MethodPost, "/genai/generate-text", `{"prompt":"hi"}`, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"content":"Generated description"}`, w.Body.String())

	require.Equal(t, http.StatusOK, c.json(http.MethodPost, "/users/logout", "", token).Code)

	// A revoked token reads public routes anonymously and is refused elsewhere.
	assert.Equal(t, http.StatusOK, c.do(httptest.NewRequest(http.MethodGet, "/jobs", nil), token).Code)
	assert.Equal(t, http.StatusOK, c.do(httptest.NewRequest(http.MethodGet, "/jobs", nil), "").Code)
	assert.Equal(t, http.StatusUnauthorized, c.do(httptest.NewRequest(http.MethodGet, "/jobs/users/me", nil), token).Code)
	assert.Equal(t, http.StatusUnauthorized, c.json(http.MethodPost, "/users/logout", "", token).Code)
	assert.Equal(t, http.StatusUnauthorized, c.json(http.MethodPost, "/genai/generate-text", `{"prompt":"hi"}`, token).Code)
}

func TestRouter_RegisterRejectsAdmin(t *testing.T) {
	c := client{t: t, router: setupRouter(t)}

	w := c.json(http.MethodPost, "/users/register",
		`{"email":"root@example.com","username":"root","password":"password123","role":"admin"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
