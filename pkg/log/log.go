// Package log builds scout's [slog] handlers and carries loggers through
// contexts.
//
// Logs are written to stderr in one of three formats: "text" for people
// (rendered by charmbracelet/log), "logfmt" and "json" for machines.
package log

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"go.opentelemetry.io/otel/trace"

	charmlog "github.com/charmbracelet/log"
)

type (
	Format string
	Level  string

	contextKey struct{}
)

const (
	FormatJSON   Format = "json"
	FormatLogfmt Format = "logfmt"
	FormatText   Format = "text"

	LevelError Level = "error"
	LevelWarn  Level = "warn"
	LevelInfo  Level = "info"
	LevelDebug Level = "debug"

	// traceIDLen is how much of a trace ID is attached to log records.
	traceIDLen = 8
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrUnknownLogLevel  = errors.New("unknown log level")
	ErrUnknownLogFormat = errors.New("unknown log format")

	AllFormats = []string{string(FormatJSON), string(FormatLogfmt), string(FormatText)}
	AllLevels  = []string{string(LevelError), string(LevelWarn), string(LevelInfo), string(LevelDebug)}
)

var levels = map[Level]slog.Level{
	LevelError: slog.LevelError,
	LevelWarn:  slog.LevelWarn,
	"warning":  slog.LevelWarn,
	LevelInfo:  slog.LevelInfo,
	LevelDebug: slog.LevelDebug,
}

// CreateHandlerWithStrings creates a [slog.Handler] writing to w from level
// and format names, as given on the command line.
func CreateHandlerWithStrings(w io.Writer, level, format string) (slog.Handler, error) {
	lvl, err := GetLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	f, err := GetFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return CreateHandler(w, lvl, f), nil
}

// CreateHandler creates a [slog.Handler] writing to w. An unknown format
// yields a text handler.
func CreateHandler(w io.Writer, level slog.Level, format Format) slog.Handler {
	opts := &slog.HandlerOptions{AddSource: true, Level: level}

	switch format {
	case FormatJSON:
		return slog.NewJSONHandler(w, opts)
	case FormatLogfmt:
		return slog.NewTextHandler(w, opts)
	default:
		return newTextHandler(w, level)
	}
}

// GetLevel parses a level name, ignoring case. "warning" is accepted as an
// alias of "warn".
func GetLevel(level string) (slog.Level, error) {
	lvl, ok := levels[Level(strings.ToLower(level))]
	if !ok {
		return 0, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownLogLevel, level,
			strings.Join(AllLevels, ", "))
	}

	return lvl, nil
}

// GetFormat parses a format name, ignoring case.
func GetFormat(format string) (Format, error) {
	f := Format(strings.ToLower(format))
	if !slices.Contains(AllFormats, string(f)) {
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownLogFormat, format,
			strings.Join(AllFormats, ", "))
	}

	return f, nil
}

func newTextHandler(w io.Writer, level slog.Level) *charmlog.Logger {
	logger := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmlog.Level(level), //nolint:gosec // G115: levels come from GetLevel.
		Formatter:       charmlog.TextFormatter,
		ReportTimestamp: true,
		ReportCaller:    true,
		TimeFormat:      time.StampMilli,
	})
	logger.SetColorProfile(termenv.NewOutput(w).EnvColorProfile())

	return logger
}

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// WithContext returns the logger carried by ctx, falling back to the default
// logger. While a span is recording, records are tagged with the first
// characters of its trace ID.
func WithContext(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(contextKey{}).(*slog.Logger)
	if !ok {
		logger = slog.Default()
	}

	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return logger
	}

	return logger.With(slog.String("trace_id", sc.TraceID().String()[:traceIDLen]))
}
