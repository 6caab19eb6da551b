package genai

import (
	"context"
	"strings"
	"testing"

	"github.com/hairizuanbinnoorazman/job-board/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePrompt(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{name: "plain", in: "Backend Engineer", want: "Backend Engineer"},
		{name: "control characters", in: "Back\x00end\x07 Engineer", want: "Backend Engineer"},
		{name: "whitespace collapsed", in: "  Backend\n\n\tEngineer  ", want: "Backend Engineer"},
		{name: "truncated by rune", in: "héllo wörld", maxLen: 5, want: "héllo"},
		{name: "no cap", in: strings.Repeat("a", 600), want: strings.Repeat("a", 600)},
		{name: "blank", in: "\n\t ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizePrompt(tt.in, tt.maxLen))
		})
	}
}

func TestFlyerPrompt(t *testing.T) {
	p := FlyerPrompt("Backend\nEngineer")
	assert.Contains(t, p, `"Backend Engineer"`)
	assert.NotContains(t, p, "\n")
}

func TestDescriptionPrompt(t *testing.T) {
	p := DescriptionPrompt(job.Fields{
		Title:     "Backend Engineer",
		Company:   "Acme",
		Location:  "Remote\r\n",
		SalaryMin: 90000,
		SalaryMax: 120000,
	})

	assert.Contains(t, p, "<title>Backend Engineer</title>")
	assert.Contains(t, p, "<company>Acme</company>")
	assert.Contains(t, p, "<location>Remote</location>")
	assert.Contains(t, p, "<salary>90000 - 120000</salary>")
}

type fakeText struct {
	prompt string
	reply  string
}

func (f *fakeText) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, nil
}

func TestDescriptionWriter(t *testing.T) {
	gen := &fakeText{reply: "Join Acme."}
	w := NewDescriptionWriter(gen)

	text, err := w.WriteDescription(context.Background(), job.Fields{Title: "Backend Engineer"})
	require.NoError(t, err)
	assert.Equal(t, "Join Acme.", text)
	assert.Contains(t, gen.prompt, "<title>Backend Engineer</title>")
}
