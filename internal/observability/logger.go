package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	// LogFieldSessionID is the field name for the page session ID.
	LogFieldSessionID = "session_id"
	// LogFieldPage is the field name for the page name.
	LogFieldPage = "page"
	// LogFieldSource is the field name for the content source.
	LogFieldSource = "source"
	// LogFieldDuration is the field name for duration in milliseconds.
	LogFieldDuration = "duration_ms"
	// LogFieldItems is the field name for the rendered item count.
	LogFieldItems = "items"
	// LogFieldErrorCode is the field name for error code.
	LogFieldErrorCode = "error_code"
	// LogFieldState is the field name for the page state.
	LogFieldState = "state"
)

// LoadContext carries the structured logging context of one page load.
type LoadContext struct {
	SessionID string
	Page      string
	StartTime time.Time
	Logger    *slog.Logger
}

// NewLoadContext creates a load context for page within session.
func NewLoadContext(logger *slog.Logger, sessionID, page string) *LoadContext {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoadContext{
		SessionID: sessionID,
		Page:      page,
		StartTime: time.Now(),
		Logger:    logger,
	}
}

// NewSessionID generates a unique session ID.
func NewSessionID() string {
	return uuid.New().String()
}

// Info logs an info message.
func (l *LoadContext) Info(msg string, attrs ...slog.Attr) {
	l.Logger.LogAttrs(context.Background(), slog.LevelInfo, msg, l.withBase(attrs...)...)
}

// Debug logs a debug message.
func (l *LoadContext) Debug(msg string, attrs ...slog.Attr) {
	l.Logger.LogAttrs(context.Background(), slog.LevelDebug, msg, l.withBase(attrs...)...)
}

// Warn logs a warning message.
func (l *LoadContext) Warn(msg string, attrs ...slog.Attr) {
	l.Logger.LogAttrs(context.Background(), slog.LevelWarn, msg, l.withBase(attrs...)...)
}

// Error logs an error message with the error.
func (l *LoadContext) Error(msg string, err error, attrs ...slog.Attr) {
	attrs = append(attrs, slog.String("error", err.Error()))
	l.Logger.LogAttrs(context.Background(), slog.LevelError, msg, l.withBase(attrs...)...)
}

// Duration returns the elapsed time since the load started.
func (l *LoadContext) Duration() time.Duration {
	return time.Since(l.StartTime)
}

// DurationMs returns the elapsed time in milliseconds.
func (l *LoadContext) DurationMs() int64 {
	return l.Duration().Milliseconds()
}

func (l *LoadContext) withBase(attrs ...slog.Attr) []slog.Attr {
	base := []slog.Attr{
		slog.String(LogFieldSessionID, l.SessionID),
		slog.String(LogFieldPage, l.Page),
	}
	return append(base, attrs...)
}

type ctxKey struct{}

// WithLoadContext adds the load context to ctx.
func WithLoadContext(ctx context.Context, lc *LoadContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, lc)
}

// FromContext extracts the load context from ctx.
func FromContext(ctx context.Context) (*LoadContext, bool) {
	lc, ok := ctx.Value(ctxKey{}).(*LoadContext)
	return lc, ok
}
