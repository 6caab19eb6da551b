package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/hairizuanbinnoorazman/job-board/genai"
	"github.com/hairizuanbinnoorazman/job-board/logger"
)

// MaxPromptLength caps free-form prompts, in characters.
const MaxPromptLength = 4000

// StatusClientClosedRequest is recorded when the caller goes away before a
// response is ready.
const StatusClientClosedRequest = 499

// GenerateTextRequest is the body of a free-form text generation request.
type GenerateTextRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateTextResponse carries the generated text.
type GenerateTextResponse struct {
	Content string `json:"content"`
}

// TextGenerator produces text for a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GenAIHandler exposes the text model to authenticated users.
type GenAIHandler struct {
	text   TextGenerator
	logger logger.Logger
}

// NewGenAIHandler creates a new generation handler. A nil generator makes
// every request fail with 503.
func NewGenAIHandler(text TextGenerator, log logger.Logger) *GenAIHandler {
	return &GenAIHandler{
		text:   text,
		logger: log,
	}
}

// GenerateText handles free-form text generation.
func (h *GenAIHandler) GenerateText(w http.ResponseWriter, r *http.Request) {
	if h.text == nil {
		respondError(w, http.StatusServiceUnavailable, "text generation is not configured")
		return
	}

	var req GenerateTextRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prompt := genai.SanitizePrompt(req.Prompt, MaxPromptLength+1)
	if strings.TrimSpace(prompt) == "" {
		respondError(w, http.StatusBadRequest, "prompt is required")
		return
	}
	if utf8.RuneCountInString(prompt) > MaxPromptLength {
		respondError(w, http.StatusBadRequest, "prompt is too long")
		return
	}

	content, err := h.text.GenerateText(r.Context(), prompt)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			h.logger.Warn(r.Context(), "text generation cancelled", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, StatusClientClosedRequest, "request cancelled")
			return
		}
		if errors.Is(err, context.DeadlineExceeded) {
			h.logger.Warn(r.Context(), "text generation timed out", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusGatewayTimeout, "content generation timed out")
			return
		}
		h.logger.Error(r.Context(), "text generation failed", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusBadGateway, "failed to generate content")
		return
	}

	respondJSON(w, http.StatusOK, GenerateTextResponse{Content: content})
}
