package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

type ctxKey struct{}

// Initialize sets up the global logger writing to stdout.
// format is "json" or "text"; an unknown level falls back to info.
func Initialize(level, format string) {
	InitializeWithWriter(os.Stdout, level, format)
}

func InitializeWithWriter(w io.Writer, level, format string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

func parseLevel(level string) slog.Level {
	if strings.EqualFold(level, "warning") {
		return slog.LevelWarn
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Get returns the process logger, initializing a text logger at info on first use.
func Get() *slog.Logger {
	if defaultLogger == nil {
		Initialize("info", "text")
	}
	return defaultLogger
}

func Debug(msg string, args ...any) { Get().Debug(msg, args...) }
func Info(msg string, args ...any)  { Get().Info(msg, args...) }
func Warn(msg string, args ...any)  { Get().Warn(msg, args...) }
func Error(msg string, args ...any) { Get().Error(msg, args...) }

// The *Context variants log through the logger stored by WithContext.

func DebugContext(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).DebugContext(ctx, msg, args...)
}

func InfoContext(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).InfoContext(ctx, msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).WarnContext(ctx, msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).ErrorContext(ctx, msg, args...)
}

// WithContext stores a request-scoped logger in ctx.
func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request-scoped logger, or the process logger.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return Get()
}

// trace logs msg at debug, or failMsg at error when err is set.
func trace(msg, failMsg string, err error, attrs []any, args []any) {
	attrs = append(attrs, args...)
	if err != nil {
		Get().Error(failMsg, append(attrs, "error", err)...)
		return
	}
	Get().Debug(msg, attrs...)
}

// Service methods bracket their work with EnterMethod and ExitMethod or ExitMethodWithError.

func EnterMethod(methodName string, args ...any) {
	trace("→ Method entered", "", nil, []any{"method", methodName, "event", "enter"}, args)
}

func ExitMethod(methodName string, args ...any) {
	trace("← Method exited", "", nil, []any{"method", methodName, "event", "exit"}, args)
}

func ExitMethodWithError(methodName string, err error, args ...any) {
	trace("← Method exited", "← Method exited with error", err, []any{"method", methodName, "event", "exit"}, args)
}

// DatabaseCall and DatabaseResult bracket a repository statement; query names the table.

func DatabaseCall(operation, query string, args ...any) {
	trace("→ Database call", "", nil, []any{"operation", operation, "query", query}, args)
}

func DatabaseResult(operation string, rowsAffected int64, err error, args ...any) {
	trace("← Database call succeeded", "← Database call failed", err,
		[]any{"operation", operation, "rows_affected", rowsAffected}, args)
}

func ExternalServiceCall(service, operation string, args ...any) {
	trace("→ External service call", "", nil, []any{"service", service, "operation", operation}, args)
}

func ExternalServiceResult(service, operation string, err error, args ...any) {
	trace("← External service call succeeded", "← External service call failed", err,
		[]any{"service", service, "operation", operation}, args)
}

// Request logs a completed HTTP request: 5xx at error, 4xx at warn, the rest at info.
func Request(ctx context.Context, method, path string, status int, durationMs int64) {
	l := FromContext(ctx)
	args := []any{"http_method", method, "path", path, "status", status, "duration_ms", durationMs}
	switch {
	case status >= 500:
		l.Error("Request failed", args...)
	case status >= 400:
		l.Warn("Request rejected", args...)
	default:
		l.Info("Request handled", args...)
	}
}

// Job logs the outcome of a scheduled job run.
func Job(name string, err error, args ...any) {
	attrs := append([]any{"job", name}, args...)
	if err != nil {
		Get().Error("Job failed", append(attrs, "error", err)...)
		return
	}
	Get().Info("Job finished", attrs...)
}
