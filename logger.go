package slotstore

import (
	"log/slog"
	"os"
)

// Logger is the structured logger used by Store. Helper methods keep the
// attribute keys of store records stable.
type Logger struct {
	*slog.Logger
}

// NewLogger wraps handler. A nil handler logs text at info level to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, leveled(slog.LevelInfo))
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger logs JSON lines to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, leveled(level)))
}

// NewTextLogger logs logfmt-style text to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, leveled(level)))
}

// NoopLogger discards everything.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

func leveled(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{Level: level}
}

// WithSubject returns a logger whose records carry the store subject and ID.
func (l *Logger) WithSubject(subject, id string) *Logger {
	return &Logger{Logger: l.With("subject", subject, "store_id", id)}
}

// LogInsert records an insert. Failures are logged at error level, successful
// publishes at debug level.
func (l *Logger) LogInsert(position int, version uint64, retries int, err error) {
	if err != nil {
		l.Error("insert failed", "position", position, "error", err)
		return
	}
	l.Debug("insert completed", "position", position, "version", version, "cas_retries", retries)
}

// LogTrimmedRead records a snapshot read rejected by the trim watermark.
func (l *Logger) LogTrimmedRead(op string, token Token, watermark uint64) {
	l.Debug("snapshot token trimmed", "op", op, "token", uint64(token), "watermark", watermark)
}

func (l *Logger) LogScan(name string, lo, hi float64, matched int) {
	l.Debug("scan completed", "attribute", name, "lo", lo, "hi", hi, "matched", matched)
}

func (l *Logger) LogTrim(watermark uint64, removed int) {
	l.Info("history trimmed", "watermark", watermark, "removed", removed)
}
