package logger

import (
	"bytes"
	"log/slog"
	"os"
)

// Can be one of:
//   - Prod
//   - Dev
//   - Staging
type Environment int

const (
	_ Environment = iota
	Prod
	Dev
	Staging
)

// NewLogger creates a new slog.Logger writing JSON to stdout.
func NewLogger(env Environment, addSource bool) *slog.Logger {
	var level slog.Level

	switch env {
	case Prod, Staging:
		level = slog.LevelInfo
	case Dev:
		level = slog.LevelDebug
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: addSource,
		Level:     level,
	})
	return slog.New(h)
}

// NewTestLogger returns a debug-level logger writing plain text into the
// returned buffer. Intended for tests.
func NewTestLogger() (*bytes.Buffer, *slog.Logger) {
	b := &bytes.Buffer{}
	h := slog.NewTextHandler(b, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	return b, slog.New(h)
}

// ErrAttr wraps an error into a slog attribute.
func ErrAttr(err error) slog.Attr {
	return slog.String("error", err.Error())
}
