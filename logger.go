package aiofile

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with file-operation helpers so every handle logs
// the same field names (path, offset, bytes, size).
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger on top of handler.
// If handler is nil, info-level text is written to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		return NewTextLogger(slog.LevelInfo)
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger writing JSON records to stderr at level and
// above.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger writing logfmt-style records to stderr at
// level and above.
func NewTextLogger(level slog.Level) *Logger {
	return newWriterLogger(os.Stderr, level)
}

func newWriterLogger(w io.Writer, level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))}
}

// NoopLogger creates a Logger that discards everything.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// WithPath returns a Logger that tags records with the file path.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("path", path))}
}

// LogRead logs a completed or failed read. Reads are frequent, so both
// outcomes are debug level; cancellations show up as failures.
func (l *Logger) LogRead(ctx context.Context, offset int64, n int, err error) {
	if err != nil {
		l.LogAttrs(ctx, slog.LevelDebug, "read failed",
			slog.Int64("offset", offset),
			slog.Any("error", err),
		)
		return
	}
	l.LogAttrs(ctx, slog.LevelDebug, "read completed",
		slog.Int64("offset", offset),
		slog.Int("bytes", n),
	)
}

// LogWrite logs a completed or failed write.
func (l *Logger) LogWrite(offset int64, n int, err error) {
	if err != nil {
		l.LogAttrs(context.Background(), slog.LevelError, "write failed",
			slog.Int64("offset", offset),
			slog.Int("bytes", n),
			slog.Any("error", err),
		)
		return
	}
	l.LogAttrs(context.Background(), slog.LevelDebug, "write completed",
		slog.Int64("offset", offset),
		slog.Int("bytes", n),
	)
}

// LogTruncate logs a completed or failed truncate.
func (l *Logger) LogTruncate(size int64, err error) {
	if err != nil {
		l.LogAttrs(context.Background(), slog.LevelError, "truncate failed",
			slog.Int64("size", size),
			slog.Any("error", err),
		)
		return
	}
	l.LogAttrs(context.Background(), slog.LevelDebug, "truncate completed",
		slog.Int64("size", size),
	)
}

// LogClose logs the native close. Close errors are reported here and never
// returned to callers.
func (l *Logger) LogClose(err error) {
	if err != nil {
		l.LogAttrs(context.Background(), slog.LevelWarn, "close reported error (ignored)",
			slog.Any("error", err),
		)
		return
	}
	l.LogAttrs(context.Background(), slog.LevelDebug, "file closed")
}
