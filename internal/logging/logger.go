// Package logging is the designer's structured logger. Every call takes the
// request context first, and Warn and above carry the error being reported.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// LogLevel represents different log levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

// slogLevels maps each LogLevel onto slog. Fatal is reported as an error
// record; the process is never terminated from here.
var slogLevels = [...]slog.Level{
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelWarn:  slog.LevelWarn,
	LevelError: slog.LevelError,
	LevelFatal: slog.LevelError,
}

func (l LogLevel) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel maps a configuration string to a LogLevel. Unknown values fall
// back to LevelInfo.
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

// Logger interface for structured logging
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...interface{})
	Info(ctx context.Context, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
	Error(ctx context.Context, err error, msg string, fields ...interface{})
	Fatal(ctx context.Context, err error, msg string, fields ...interface{})

	With(fields ...interface{}) Logger
	WithComponent(component string) Logger
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level     LogLevel
	Format    string // "json" or "text"
	Output    io.Writer
	AddSource bool
	Component string
}

// DefaultConfig returns default logger configuration
func DefaultConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:  LevelInfo,
		Format: "text",
		Output: os.Stderr,
	}
}

// DesignerLogger implements Logger on top of log/slog. Fields given to With
// are bound into the slog logger once; the component is added per record so
// WithComponent replaces it instead of stacking.
type DesignerLogger struct {
	slog      *slog.Logger
	level     LogLevel
	component string
}

// NewLogger creates a new structured logger
func NewLogger(config *LoggerConfig) *DesignerLogger {
	if config == nil {
		config = DefaultConfig()
	}
	output := config.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{AddSource: config.AddSource}
	if config.Level >= 0 && int(config.Level) < len(slogLevels) {
		opts.Level = slogLevels[config.Level]
	}

	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	return &DesignerLogger{
		slog:      slog.New(handler),
		level:     config.Level,
		component: config.Component,
	}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return NewLogger(&LoggerConfig{Level: LevelFatal + 1, Output: io.Discard})
}

func (l *DesignerLogger) Debug(ctx context.Context, msg string, fields ...interface{}) {
	l.emit(ctx, LevelDebug, nil, msg, fields)
}

func (l *DesignerLogger) Info(ctx context.Context, msg string, fields ...interface{}) {
	l.emit(ctx, LevelInfo, nil, msg, fields)
}

func (l *DesignerLogger) Warn(ctx context.Context, err error, msg string, fields ...interface{}) {
	l.emit(ctx, LevelWarn, err, msg, fields)
}

func (l *DesignerLogger) Error(ctx context.Context, err error, msg string, fields ...interface{}) {
	l.emit(ctx, LevelError, err, msg, fields)
}

// Fatal logs at error level and returns.
func (l *DesignerLogger) Fatal(ctx context.Context, err error, msg string, fields ...interface{}) {
	l.emit(ctx, LevelFatal, err, msg, fields)
}

// With returns a logger that adds the given key/value pairs to every record.
// Pairs whose key is not a string are dropped.
func (l *DesignerLogger) With(fields ...interface{}) Logger {
	clone := *l
	if attrs := pairs(fields); len(attrs) > 0 {
		args := make([]any, len(attrs))
		for i, attr := range attrs {
			args[i] = attr
		}
		clone.slog = l.slog.With(args...)
	}
	return &clone
}

// WithComponent returns a logger tagging records with component
func (l *DesignerLogger) WithComponent(component string) Logger {
	clone := *l
	clone.component = component
	return &clone
}

func (l *DesignerLogger) emit(ctx context.Context, level LogLevel, err error, msg string, fields []interface{}) {
	if level < l.level {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	record := slog.NewRecord(time.Now(), slogLevels[level], msg, 0)
	if l.component != "" {
		record.AddAttrs(slog.String("component", l.component))
	}
	if err != nil {
		record.AddAttrs(slog.String("error", err.Error()))
	}
	record.AddAttrs(pairs(fields)...)

	handler := l.slog.Handler()
	if handler.Enabled(ctx, record.Level) {
		_ = handler.Handle(ctx, record)
	}
}

func pairs(fields []interface{}) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		if key, ok := fields[i].(string); ok {
			attrs = append(attrs, slog.Any(key, fields[i+1]))
		}
	}
	return attrs
}

// PerfLogger tracks the duration of one operation
type PerfLogger struct {
	Logger
	started time.Time
}

// StartOperation begins timing an operation
func StartOperation(logger Logger, operation string) *PerfLogger {
	return &PerfLogger{
		Logger:  logger.With("operation", operation),
		started: time.Now(),
	}
}

// End logs how long the operation took at debug level
func (p *PerfLogger) End(ctx context.Context) {
	elapsed := time.Since(p.started)
	p.Debug(ctx, "Operation completed",
		"duration_ms", elapsed.Milliseconds(),
		"duration", elapsed.String(),
	)
}
