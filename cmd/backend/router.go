package main

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	"github.com/hairizuanbinnoorazman/job-board/cmd/backend/handlers"
	"github.com/hairizuanbinnoorazman/job-board/logger"
)

// filesPrefix is where locally stored flyers are served from.
const filesPrefix = "/files"

// routerDeps holds everything the HTTP surface is built from.
type routerDeps struct {
	log    logger.Logger
	db     handlers.Pinger
	authMW *handlers.AuthMiddleware
	auth   *handlers.AuthHandler
	jobs   *handlers.JobHandler
	genai  *handlers.GenAIHandler
	files  *handlers.FileHandler // nil unless storage is local
}

func newRouter(d routerDeps) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestID, handlers.RequestLogger(d.log), middleware.Recoverer, d.authMW.Resolve)

	require := func(h http.HandlerFunc) http.Handler {
		return d.authMW.Require(h)
	}

	r.HandleFunc("/health", handlers.HealthHandler(d.db, d.log)).Methods(http.MethodGet)

	r.HandleFunc("/users/register", d.auth.Register).Methods(http.MethodPost)
	r.HandleFunc("/users/login", d.auth.Login).Methods(http.MethodPost)
	r.Handle("/users/logout", require(d.auth.Logout)).Methods(http.MethodPost)

	r.HandleFunc("/jobs", d.jobs.Create).Methods(http.MethodPost)
	r.HandleFunc("/jobs", d.jobs.List).Methods(http.MethodGet)
	r.Handle("/jobs/users/me", require(d.jobs.Mine)).Methods(http.MethodGet)
	r.HandleFunc("/jobs/{id}", d.jobs.Get).Methods(http.MethodGet)
	r.HandleFunc("/jobs/{id}", d.jobs.Replace).Methods(http.MethodPut)
	r.HandleFunc("/jobs/{id}", d.jobs.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/jobs/{id}/similar", d.jobs.Similar).Methods(http.MethodGet)

	r.Handle("/genai/generate-text", require(d.genai.GenerateText)).Methods(http.MethodPost)

	if d.files != nil {
		r.PathPrefix(filesPrefix + "/").HandlerFunc(d.files.Serve).Methods(http.MethodGet)
	}

	return r
}
