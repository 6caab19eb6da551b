// Package flyer stores the image shown with a job listing, generating one
// from the listing title when the employer did not upload any.
package flyer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/hairizuanbinnoorazman/job-board/genai"
	"github.com/hairizuanbinnoorazman/job-board/logger"
	"github.com/hairizuanbinnoorazman/job-board/storage"
)

var (
	// ErrResolutionFailed is returned when generating or uploading a flyer fails.
	ErrResolutionFailed = errors.New("flyer resolution failed")

	// ErrInvalidImage is returned when uploaded bytes are not a supported image.
	ErrInvalidImage = errors.New("invalid file content, must be JPEG, PNG, GIF, or WebP")
)

const pathPrefix = "flyers"

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Resolver implements job.FlyerResolver on top of blob storage and an image
// generator.
type Resolver struct {
	storage storage.BlobStorage
	images  genai.ImageGenerator
	logger  logger.Logger
}

// NewResolver creates a Resolver.
func NewResolver(store storage.BlobStorage, images genai.ImageGenerator, log logger.Logger) *Resolver {
	return &Resolver{
		storage: store,
		images:  images,
		logger:  log,
	}
}

// Resolve uploads provided when it is non-empty, otherwise generates a flyer
// for title, and returns the URL of the stored image.
func (r *Resolver) Resolve(ctx context.Context, title string, provided []byte) (string, error) {
	data := provided
	source := "upload"

	if len(data) == 0 {
		if r.images == nil {
			return "", fmt.Errorf("%w: image generation is not configured", ErrResolutionFailed)
		}

		generated, err := r.images.GenerateImage(ctx, genai.FlyerPrompt(title))
		if err != nil {
			return "", fmt.Errorf("%w: generate image: %w", ErrResolutionFailed, err)
		}
		data = generated
		source = "generated"
	}

	ext, err := DetectExtension(data)
	if err != nil {
		if source == "generated" {
			return "", fmt.Errorf("%w: generated %w", ErrResolutionFailed, err)
		}
		return "", err
	}

	path := fmt.Sprintf("%s/%s%s", pathPrefix, uuid.New().String(), ext)
	if err := r.storage.Upload(ctx, path, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("%w: upload: %w", ErrResolutionFailed, err)
	}

	url, err := r.storage.GetURL(ctx, path)
	if err != nil {
		return "", fmt.Errorf("%w: url: %w", ErrResolutionFailed, err)
	}

	r.logger.Info(ctx, "flyer stored", map[string]interface{}{
		"path":   path,
		"source": source,
		"size":   len(data),
	})

	return url, nil
}

// Discard deletes the stored flyer behind url. URLs that do not point at a
// flyer this Resolver stored are ignored.
func (r *Resolver) Discard(ctx context.Context, url string) error {
	path, ok := flyerPath(url)
	if !ok {
		r.logger.Debug(ctx, "flyer not managed here, not discarded", map[string]interface{}{
			"url": url,
		})
		return nil
	}

	err := r.storage.Delete(ctx, path)
	if err != nil && !errors.Is(err, storage.ErrFileNotFound) {
		return fmt.Errorf("delete flyer: %w", err)
	}

	r.logger.Info(ctx, "flyer discarded", map[string]interface{}{
		"path": path,
	})
	return nil
}

// flyerPath recovers the storage path from a URL returned by Resolve.
func flyerPath(url string) (string, bool) {
	i := strings.LastIndex(url, "/"+pathPrefix+"/")
	if i < 0 {
		return "", false
	}
	name := url[i+len(pathPrefix)+2:]
	if name == "" || strings.ContainsAny(name, "/?#") {
		return "", false
	}
	return pathPrefix + "/" + name, true
}

// DetectExtension sniffs the image type of data from its leading bytes.
func DetectExtension(data []byte) (string, error) {
	ext, ok := extensions[http.DetectContentType(data)]
	if !ok {
		return "", ErrInvalidImage
	}
	return ext, nil
}
