package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hairizuanbinnoorazman/job-board/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeText struct {
	prompt string
	reply  string
	err    error
}

func (f *fakeText) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func TestGenAIHandler_GenerateText(t *testing.T) {
	t.Parallel()

	t.Run("returns generated content", func(t *testing.T) {
		t.Parallel()

		text := &fakeText{reply: "A great role."}
		h := NewGenAIHandler(text, logger.NewTestLogger())

		w := httptest.NewRecorder()
		h.GenerateText(w, jsonRequest(http.MethodPost, "/genai/generate-text", `{"prompt":"  Describe\na   backend role "}`))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"content":"A great role."}`, w.Body.String())
		assert.Equal(t, "Describe a backend role", text.prompt)
	})

	t.Run("rejects bad prompts", func(t *testing.T) {
		t.Parallel()

		bodies := []string{
			`{"prompt":""}`,
			`{"prompt":"   \n\t "}`,
			`{}`,
			`not json`,
			`{"prompt":"` + strings.Repeat("a", MaxPromptLength+1) + `"}`,
		}
		for _, body := range bodies {
			text := &fakeText{reply: "unused"}
			h := NewGenAIHandler(text, logger.NewTestLogger())

			w := httptest.NewRecorder()
			h.GenerateText(w, jsonRequest(http.MethodPost, "/genai/generate-text", body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, text.prompt)
		}
	})

	t.Run("prompt at the cap is accepted", func(t *testing.T) {
		t.Parallel()

		text := &fakeText{reply: "ok"}
		h := NewGenAIHandler(text, logger.NewTestLogger())

		w := httptest.NewRecorder()
		h.GenerateText(w, jsonRequest(http.MethodPost, "/genai/generate-text", `{"prompt":"`+strings.Repeat("a", MaxPromptLength)+`"}`))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("upstream failure", func(t *testing.T) {
		t.Parallel()

		log := logger.NewTestLogger()
		h := NewGenAIHandler(&fakeText{err: errors.New("throttled")}, log)

		w := httptest.NewRecorder()
		h.GenerateText(w, jsonRequest(http.MethodPost, "/genai/generate-text", `{"prompt":"hello"}`))

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.True(t, log.HasEntry("error", "text generation failed"))
	})

	t.Run("interrupted generation still records a status", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name       string
			err        error
			wantStatus int
			wantLog    string
		}{
			{name: "client went away", err: context.Canceled, wantStatus: StatusClientClosedRequest, wantLog: "text generation cancelled"},
			{name: "wrapped cancel", err: fmt.Errorf("invoke model: %w", context.Canceled), wantStatus: StatusClientClosedRequest, wantLog: "text generation cancelled"},
			{name: "deadline", err: context.DeadlineExceeded, wantStatus: http.StatusGatewayTimeout, wantLog: "text generation timed out"},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				log := logger.NewTestLogger()
				h := NewGenAIHandler(&fakeText{err: tc.err}, log)

				w := httptest.NewRecorder()
				h.GenerateText(w, jsonRequest(http.MethodPost, "/genai/generate-text", `{"prompt":"hello"}`))

				assert.Equal(t, tc.wantStatus, w.Code)
				assert.True(t, log.HasEntry("warn", tc.wantLog))
				assert.False(t, log.HasEntry("error", "text generation failed"))
			})
		}
	})

	t.Run("not configured", func(t *testing.T) {
		t.Parallel()

		h := NewGenAIHandler(nil, logger.NewTestLogger())

		w := httptest.NewRecorder()
		h.GenerateText(w, jsonRequest(http.MethodPost, "/genai/generate-text", `{"prompt":"hello"}`))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
