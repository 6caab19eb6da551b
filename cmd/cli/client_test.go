package main

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_AuthorizationHeader(t *testing.T) {
	t.Parallel()

	var (
		mu  sync.Mutex
		got []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL, "", false).Get("/jobs", nil)
	require.NoError(t, err)
	_, err = newClient(srv.URL, "tok", false).Get("/jobs", nil)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"", "Bearer tok"}, got)
}

func TestClient_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/json":
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"error":"a job listing with this title already exists"}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream down"))
		}
	}))
	defer srv.Close()

	c := newClient(srv.URL, "tok", false)

	_, err := c.Delete("/json")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "a job listing with this title already exists", apiErr.Message)

	_, err = c.Get("/plain", nil)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream down", apiErr.Message)
}

func TestClient_SendForm(t *testing.T) {
	t.Parallel()

	flyerPath := filepath.Join(t.TempDir(), "flyer.png")
	require.NoError(t, os.WriteFile(flyerPath, []byte("\x89PNG\r\n\x1a\n"), 0600))

	var (
		mu     sync.Mutex
		method string
		title  string
		salary string
		upload []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		method = r.Method
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		title = r.FormValue("title")
		salary = r.FormValue("salary_min")

		file, _, err := r.FormFile("flyer")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		upload, _ = io.ReadAll(file)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"Job listing added successfully"}`))
	}))
	defer srv.Close()

	body, err := newClient(srv.URL, "tok", false).SendForm(http.MethodPost, "/jobs",
		map[string]string{"title": "Backend Engineer", "salary_min": "5000"}, flyerPath)
	require.NoError(t, err)

	assert.JSONEq(t, `{"message":"Job listing added successfully"}`, string(body))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "Backend Engineer", title)
	assert.Equal(t, "5000", salary)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), upload)
}

func TestClient_SendFormMissingFlyer(t *testing.T) {
	t.Parallel()

	_, err := newClient("http://127.0.0.1:0", "tok", false).SendForm(http.MethodPost, "/jobs", nil, "/does/not/exist.png")
	assert.Error(t, err)
}

func TestJobFlagsForm(t *testing.T) {
	t.Parallel()

	cmd := newJobsCreateCmd()
	require.NoError(t, cmd.Flags().Set("title", "Backend Engineer"))
	require.NoError(t, cmd.Flags().Set("salary_min", "5000.5"))
	require.NoError(t, cmd.Flags().Set("salary_max", "8000"))

	f := &jobFlags{fields: map[string]*string{}}
	for _, name := range jobFieldNames {
		v, err := cmd.Flags().GetString(name)
		require.NoError(t, err)
		f.fields[name] = &v
	}
	f.salaryMin, _ = cmd.Flags().GetFloat64("salary_min")
	f.salaryMax, _ = cmd.Flags().GetFloat64("salary_max")

	form := f.form()
	assert.Equal(t, "Backend Engineer", form["title"])
	assert.Equal(t, "5000.5", form["salary_min"])
	assert.Equal(t, "8000", form["salary_max"])
	assert.Equal(t, "", form["description"])
}

func TestMaskTokenAndTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "(not set)", maskToken(""))
	assert.Equal(t, "****", maskToken("short"))
	assert.Equal(t, "eyJh...wxyz", maskToken("eyJhbGciOi.payload.sig-wxyz"))

	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
