package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/hairizuanbinnoorazman/job-board/auth"
	"github.com/hairizuanbinnoorazman/job-board/job"
	"github.com/hairizuanbinnoorazman/job-board/logger"
)

const (
	// MaxFlyerSize is the largest flyer image accepted.
	MaxFlyerSize = 10 << 20

	// maxFormSize leaves room for the text fields next to the flyer.
	maxFormSize = MaxFlyerSize + 1<<20
)

// JobService is the job listing lifecycle used by JobHandler.
type JobService interface {
	Create(ctx context.Context, p *auth.Principal, fields job.Fields, flyer []byte) error
	Get(ctx context.Context, rawID string) (*job.Job, error)
	Search(ctx context.Context, params job.SearchParams) ([]*job.Job, error)
	Similar(ctx context.Context, rawID string, limit, skip int) ([]*job.Job, error)
	Replace(ctx context.Context, p *auth.Principal, rawID string, fields job.Fields, flyer []byte) error
	Delete(ctx context.Context, p *auth.Principal, rawID string) error
	MyJobs(ctx context.Context, p *auth.Principal) ([]*job.Job, error)
}

// JobHandler handles job listing requests.
type JobHandler struct {
	service JobService
	logger  logger.Logger
}

// NewJobHandler creates a new job handler.
func NewJobHandler(service JobService, log logger.Logger) *JobHandler {
	return &JobHandler{
		service: service,
		logger:  log,
	}
}

// Create handles publishing a job listing from a multipart form.
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requireManager(w, r)
	if !ok {
		return
	}

	fields, flyer, ok := h.parseJobForm(w, r)
	if !ok {
		return
	}

	if err := h.service.Create(r.Context(), p, fields, flyer); err != nil {
		respondServiceError(w, r, h.logger, err, "failed to create job")
		return
	}

	respondJSON(w, http.StatusCreated, SuccessResponse{Message: "Job listing added successfully"})
}

// List handles searching job listings.
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, skip, ok := parsePage(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	jobs, err := h.service.Search(r.Context(), job.SearchParams{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Location: q.Get("location"),
		Limit:    limit,
		Skip:     skip,
	})
	if err != nil {
		respondServiceError(w, r, h.logger, err, "failed to search jobs")
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: jobs})
}

// Mine handles listing the caller's own job listings.
func (h *JobHandler) Mine(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())

	jobs, err := h.service.MyJobs(r.Context(), p)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "failed to list jobs")
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: jobs})
}

// Get handles fetching a single job listing.
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	j, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, r, h.logger, err, "failed to get job")
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: j})
}

// Similar handles listing jobs similar to the one in the path.
func (h *JobHandler) Similar(w http.ResponseWriter, r *http.Request) {
	limit, skip, ok := parsePage(w, r)
	if !ok {
		return
	}

	jobs, err := h.service.Similar(r.Context(), mux.Vars(r)["id"], limit, skip)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "failed to find similar jobs")
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: jobs})
}

// Replace handles a full replacement of a job listing.
func (h *JobHandler) Replace(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requireManager(w, r)
	if !ok {
		return
	}

	rawID := mux.Vars(r)["id"]
	if _, err := job.ParseID(rawID); err != nil {
		respondServiceError(w, r, h.logger, err, "invalid job id")
		return
	}

	fields, flyer, ok := h.parseJobForm(w, r)
	if !ok {
		return
	}

	if err := h.service.Replace(r.Context(), p, rawID, fields, flyer); err != nil {
		respondServiceError(w, r, h.logger, err, "failed to update job")
		return
	}

	respondSuccess(w, "Job listing updated successfully")
}

// Delete handles removing a job listing.
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, _ := GetPrincipal(r.Context())

	if err := h.service.Delete(r.Context(), p, mux.Vars(r)["id"]); err != nil {
		respondServiceError(w, r, h.logger, err, "failed to delete job")
		return
	}

	respondSuccess(w, "Job listing deleted successfully")
}

// requireManager rejects callers who may not write listings before the
// request body is read.
func (h *JobHandler) requireManager(w http.ResponseWriter, r *http.Request) (*auth.Principal, bool) {
	p, _ := GetPrincipal(r.Context())
	p, err := auth.RequireRole(p, auth.JobManagers...)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "authorization failed")
		return nil, false
	}
	return p, true
}

// parseJobForm reads the listing fields and optional flyer from a multipart
// form. Text fields are checked by the service; only the numbers are
// checked here.
func (h *JobHandler) parseJobForm(w http.ResponseWriter, r *http.Request) (job.Fields, []byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)

	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		h.logger.Warn(r.Context(), "failed to parse multipart form", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusBadRequest, "file too large or invalid form data")
		return job.Fields{}, nil, false
	}

	salaryMin, err := formFloat(r, "salary_min")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return job.Fields{}, nil, false
	}
	salaryMax, err := formFloat(r, "salary_max")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return job.Fields{}, nil, false
	}

	fields := job.Fields{
		Title:          r.FormValue("title"),
		Company:        r.FormValue("company"),
		Description:    r.FormValue("description"),
		Category:       r.FormValue("category"),
		EmploymentType: r.FormValue("employment_type"),
		Location:       r.FormValue("location"),
		SalaryMin:      salaryMin,
		SalaryMax:      salaryMax,
		Benefits:       r.FormValue("benefits"),
		Requirements:   r.FormValue("requirements"),
		ContactEmail:   r.FormValue("contact_email"),
		DatePosted:     r.FormValue("date_posted"),
	}

	flyer, err := readFlyer(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return job.Fields{}, nil, false
	}

	return fields, flyer, true
}

func formFloat(r *http.Request, name string) (float64, error) {
	raw := strings.TrimSpace(r.FormValue(name))
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return v, nil
}

// readFlyer returns the uploaded flyer, or nil when none was sent.
func readFlyer(r *http.Request) ([]byte, error) {
	file, _, err := r.FormFile("flyer")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid flyer upload")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxFlyerSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read flyer")
	}
	if len(data) > MaxFlyerSize {
		return nil, fmt.Errorf("flyer must be at most %d MiB", MaxFlyerSize>>20)
	}
	return data, nil
}

func parsePage(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	limit, err := queryInt(r, "limit", job.DefaultLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}
	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}
	return limit, skip, true
}
