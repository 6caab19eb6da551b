package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/hairizuanbinnoorazman/job-board/logger"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler returns a handler that reports healthy while the database
// answers pings.
func HealthHandler(db Pinger, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			log.Error(r.Context(), "health check failed", map[string]interface{}{
				"error": err.Error(),
			})
			respondJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy"})
			return
		}
		respondJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
	}
}
