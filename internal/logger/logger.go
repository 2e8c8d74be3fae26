// Package logger builds the zerolog loggers used for diagnostics.
// Diagnostics never share a stream with normalized output.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"agentnorm/internal/config"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// New creates the root logger writing to w.
func New(cfg config.LogConfig, w io.Writer) zerolog.Logger {
	if useConsole(cfg.Format, w) {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.Kitchen,
			NoColor:    !isTerminal(w),
		}
	}
	return zerolog.New(w).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

// For returns a child logger tagged with the package name.
func For(root zerolog.Logger, pkg string) zerolog.Logger {
	return root.With().Str("pkg", pkg).Logger()
}

func useConsole(format string, w io.Writer) bool {
	switch strings.ToLower(format) {
	case "console":
		return true
	case "json":
		return false
	default:
		return isTerminal(w)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "FATAL":
		return zerolog.FatalLevel
	case "PANIC":
		return zerolog.PanicLevel
	case "DISABLED":
		return zerolog.Disabled
	default:
		return zerolog.WarnLevel
	}
}
