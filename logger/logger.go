package logger

import "context"

// Logger is the structured logger used across the job board.
// Every method takes the request context so request-scoped fields
// (the request id, for one) end up on the entry.
type Logger interface {
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, fields map[string]interface{})

	// WithField returns a child logger that always carries key=value.
	WithField(key string, value interface{}) Logger

	// WithFields returns a child logger that always carries fields.
	WithFields(fields map[string]interface{}) Logger
}
