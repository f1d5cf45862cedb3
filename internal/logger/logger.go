// Package logger builds the zerolog logger used by every command and carries
// it through context.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Options configures the logger
type Options struct {
	Level  string
	Format string
	Writer io.Writer
}

// Logger is the project-wide logging type
type Logger = zerolog.Logger

// New builds a logger tagged with a fresh run_id. Format "json" writes one
// JSON object per line; anything else uses the console writer. Output goes to
// stderr unless Writer is set, leaving stdout for progress lines.
func New(opt Options) Logger {
	var w io.Writer = os.Stderr
	if opt.Writer != nil {
		w = opt.Writer
	}
	if strings.ToLower(opt.Format) != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	return zerolog.New(w).
		Level(parseLevel(opt.Level)).
		With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger()
}

// parseLevel supports string-only levels
func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// WithContext attaches l to ctx.
func WithContext(ctx context.Context, l Logger) context.Context {
	return l.WithContext(ctx)
}

// C returns the logger carried by ctx, or a disabled logger when there is none.
func C(ctx context.Context) *Logger {
	return zerolog.Ctx(ctx)
}
