package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel traduce LOG_LEVEL; cualquier valor desconocido es info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	default:
		return FormatText
	}
}

type Logger interface {
	With(fields map[string]any) Logger

	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

// SlogLogger adapta *slog.Logger al contrato Logger (campos como map).
type SlogLogger struct {
	l *slog.Logger
}

type Options struct {
	Level  slog.Level
	Format Format
	App    string
	Output io.Writer // default os.Stdout
}

func New(opts Options) Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	hopts := &slog.HandlerOptions{Level: opts.Level}
	var h slog.Handler
	switch opts.Format {
	case FormatJSON:
		h = slog.NewJSONHandler(out, hopts)
	default:
		h = slog.NewTextHandler(out, hopts)
	}

	l := slog.New(h)
	if app := strings.TrimSpace(opts.App); app != "" {
		l = l.With("app", app)
	}
	return &SlogLogger{l: l}
}

// NewFromEnv crea logger desde env:
// - LOG_LEVEL=debug|info|warn|error (default info)
// - LOG_FORMAT=text|json (default text)
// - APP_NAME=sistpec-api (opcional)
func NewFromEnv() Logger {
	return New(Options{
		Level:  ParseLevel(os.Getenv("LOG_LEVEL")),
		Format: ParseFormat(os.Getenv("LOG_FORMAT")),
		App:    os.Getenv("APP_NAME"),
	})
}

// Nop descarta todo. Útil en tests.
func Nop() Logger {
	return &SlogLogger{l: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func (s *SlogLogger) With(fields map[string]any) Logger {
	if len(fields) == 0 {
		return s
	}
	return &SlogLogger{l: s.l.With(attrs(fields)...)}
}

func (s *SlogLogger) Debug(msg string, fields map[string]any) { s.log(slog.LevelDebug, msg, fields) }
func (s *SlogLogger) Info(msg string, fields map[string]any)  { s.log(slog.LevelInfo, msg, fields) }
func (s *SlogLogger) Warn(msg string, fields map[string]any)  { s.log(slog.LevelWarn, msg, fields) }
func (s *SlogLogger) Error(msg string, fields map[string]any) { s.log(slog.LevelError, msg, fields) }

func (s *SlogLogger) log(lvl slog.Level, msg string, fields map[string]any) {
	s.l.Log(context.Background(), lvl, msg, attrs(fields)...)
}

func attrs(fields map[string]any) []any {
	out := make([]any, 0, len(fields))
	for k, v := range fields {
		if strings.TrimSpace(k) == "" {
			continue
		}
		if err, ok := v.(error); ok && err != nil {
			v = err.Error()
		}
		out = append(out, slog.Any(k, v))
	}
	return out
}

type ctxKey struct{}

// WithContext guarda el logger (normalmente ya enriquecido con request_id) en el contexto.
func WithContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext devuelve el logger del request o un logger por defecto.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok && l != nil {
		return l
	}
	return defaultLogger
}

var defaultLogger = NewFromEnv()
