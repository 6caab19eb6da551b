// Package genai generates flyer images and listing text with foundation
// models hosted on AWS Bedrock.
package genai

import (
	"context"
	"errors"
)

var (
	// ErrEmptyPrompt is returned when a prompt is blank after sanitization.
	ErrEmptyPrompt = errors.New("prompt is required")

	// ErrEmptyResponse is returned when the model produced no usable output.
	ErrEmptyResponse = errors.New("model returned no content")
)

// ImageGenerator produces a single image for a text prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

// TextGenerator produces text for a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}
