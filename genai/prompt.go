package genai

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/hairizuanbinnoorazman/job-board/job"
)

const maxFieldLength = 500

var whitespace = regexp.MustCompile(`\s+`)

// SanitizePrompt strips control and non-printable characters, collapses
// whitespace and truncates to maxLen runes. A maxLen of zero disables the cap.
func SanitizePrompt(s string, maxLen int) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case unicode.IsControl(r), !unicode.IsPrint(r):
		default:
			b.WriteRune(r)
		}
	}

	out := strings.TrimSpace(whitespace.ReplaceAllString(b.String(), " "))
	if maxLen > 0 {
		if runes := []rune(out); len(runes) > maxLen {
			out = strings.TrimSpace(string(runes[:maxLen]))
		}
	}
	return out
}

// FlyerPrompt is the image prompt for a listing's flyer.
func FlyerPrompt(title string) string {
	title = SanitizePrompt(title, 200)
	return fmt.Sprintf("A clean, modern recruitment flyer for a %q job opening. Professional office style, bright colours, no text.", title)
}

// DescriptionPrompt asks for a listing description. Listing values are
// wrapped in tags so they read as data rather than instructions.
func DescriptionPrompt(f job.Fields) string {
	field := func(name, value string) string {
		return fmt.Sprintf("<%s>%s</%s>\n", name, SanitizePrompt(value, maxFieldLength), name)
	}

	var b strings.Builder
	b.WriteString("Write a concise, engaging job description of two short paragraphs for the job listing below. ")
	b.WriteString("Reply with the description text only, without headings or markdown.\n\n<listing>\n")
	b.WriteString(field("title", f.Title))
	b.WriteString(field("company", f.Company))
	b.WriteString(field("category", f.Category))
	b.WriteString(field("employment_type", f.EmploymentType))
	b.WriteString(field("location", f.Location))
	b.WriteString(fmt.Sprintf("<salary>%.0f - %.0f</salary>\n", f.SalaryMin, f.SalaryMax))
	b.WriteString(field("benefits", f.Benefits))
	b.WriteString(field("requirements", f.Requirements))
	b.WriteString("</listing>")
	return b.String()
}

// DescriptionWriter drafts listing descriptions with a TextGenerator.
type DescriptionWriter struct {
	text TextGenerator
}

// NewDescriptionWriter creates a DescriptionWriter.
func NewDescriptionWriter(text TextGenerator) *DescriptionWriter {
	return &DescriptionWriter{text: text}
}

// WriteDescription generates a description for f.
func (w *DescriptionWriter) WriteDescription(ctx context.Context, f job.Fields) (string, error) {
	return w.text.GenerateText(ctx, DescriptionPrompt(f))
}
