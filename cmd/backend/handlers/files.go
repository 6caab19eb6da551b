package handlers

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/hairizuanbinnoorazman/job-board/logger"
	"github.com/hairizuanbinnoorazman/job-board/storage"
)

// FileReader reads stored blobs by path.
type FileReader interface {
	Download(ctx context.Context, path string) (io.ReadCloser, error)
}

// FileHandler serves blobs from local storage under a URL prefix.
type FileHandler struct {
	files  FileReader
	prefix string
	logger logger.Logger
}

// NewFileHandler creates a handler that strips prefix from request paths.
func NewFileHandler(files FileReader, prefix string, log logger.Logger) *FileHandler {
	return &FileHandler{
		files:  files,
		prefix: prefix,
		logger: log,
	}
}

// Serve handles GET requests for stored files.
func (h *FileHandler) Serve(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, h.prefix)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" {
		respondError(w, http.StatusNotFound, "file not found")
		return
	}

	file, err := h.files.Download(r.Context(), rel)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) || errors.Is(err, storage.ErrInvalidPath) {
			respondError(w, http.StatusNotFound, "file not found")
			return
		}
		h.logger.Error(r.Context(), "failed to read file", map[string]interface{}{
			"error": err.Error(),
			"path":  rel,
		})
		respondError(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	defer file.Close()

	contentType := mime.TypeByExtension(path.Ext(rel))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, file); err != nil {
		h.logger.Warn(r.Context(), "failed to stream file", map[string]interface{}{
			"error": err.Error(),
			"path":  rel,
		})
	}
}
