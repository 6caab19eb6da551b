package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/hairizuanbinnoorazman/job-board/auth"
	"github.com/hairizuanbinnoorazman/job-board/flyer"
	"github.com/hairizuanbinnoorazman/job-board/job"
	"github.com/hairizuanbinnoorazman/job-board/logger"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a success response with a message.
type SuccessResponse struct {
	Message string `json:"message"`
}

// DataResponse wraps a resource or a list of resources.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response with the given status code.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondSuccess writes a success response with the given message.
func respondSuccess(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusOK, SuccessResponse{Message: message})
}

// parseJSON parses JSON from the request body into the given destination.
func parseJSON(r *http.Request, dest interface{}, log logger.Logger) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		log.Warn(r.Context(), "failed to parse JSON", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	return nil
}

// queryInt reads an optional integer query parameter, falling back to def
// when it is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}

// respondServiceError maps domain errors onto HTTP statuses. Anything
// unrecognised is logged and reported as fallback with a 500.
func respondServiceError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, auth.ErrForbidden):
		respondError(w, http.StatusForbidden, "access denied")
	case errors.Is(err, job.ErrInvalidIdentifier):
		respondError(w, http.StatusUnprocessableEntity, "invalid job id")
	case errors.Is(err, job.ErrJobNotFound):
		respondError(w, http.StatusNotFound, "job not found")
	case errors.Is(err, job.ErrConflict):
		respondError(w, http.StatusConflict, "a job listing with this title already exists")
	case errors.Is(err, flyer.ErrInvalidImage):
		respondError(w, http.StatusBadRequest, flyer.ErrInvalidImage.Error())
	case errors.Is(err, job.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, job.ErrFlyerResolutionFailed):
		respondError(w, http.StatusInternalServerError, "failed to process job flyer")
	case errors.Is(err, job.ErrContentGenerationFailed):
		respondError(w, http.StatusInternalServerError, "failed to generate job description")
	default:
		log.Error(r.Context(), fallback, map[string]interface{}{
			"error": err.Error(),
			"path":  r.URL.Path,
		})
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
