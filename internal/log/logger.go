package log

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"docbrowse/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	isDebug = false
	logger  = NewLogger()
)

// Field is a single structured key/value pair.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Option configures a Logger.
type Option func(*Logger)

// WithOutput sends log lines to w.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.base.SetOutput(w)
	}
}

// WithJSON switches to one JSON object per line.
func WithJSON() Option {
	return func(l *Logger) {
		l.base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	}
}

// WithLevel sets the minimum level by name ("warn", "info", ...). Unknown
// names keep the default.
func WithLevel(level string) Option {
	return func(l *Logger) {
		if lvl, err := logrus.ParseLevel(level); err == nil {
			l.base.SetLevel(lvl)
		}
	}
}

// WithFile appends log lines to path, creating parent directories. On
// failure the previous output is kept.
func WithFile(path string) Option {
	return func(l *Logger) {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return
		}
		l.file = f
		l.base.SetOutput(f)
	}
}

// Logger is a leveled, structured logger backed by logrus.
type Logger struct {
	base  *logrus.Logger
	entry *logrus.Entry
	file  *os.File
}

func NewLogger(opts ...Option) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stderr)
	base.SetLevel(logrus.DebugLevel)
	base.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	l := &Logger{base: base}
	for _, opt := range opts {
		opt(l)
	}
	l.entry = logrus.NewEntry(base)
	return l
}

// Configure replaces the package logger.
func Configure(opts ...Option) {
	logger = NewLogger(opts...)
}

// Close releases the log file, if any.
func Close() error {
	if logger.file != nil {
		return logger.file.Close()
	}
	return nil
}

func SetDebug(debug bool) {
	isDebug = debug
}

// With returns a child logger carrying fields.
func (l *Logger) With(fields ...Field) *Logger {
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return &Logger{base: l.base, entry: l.entry.WithFields(data), file: l.file}
}

// WithContext attaches ctx; a request id stored under RequestIDKey is added
// as a field.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	child := &Logger{base: l.base, entry: l.entry.WithContext(ctx), file: l.file}
	if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
		return child.With(F("request_id", id))
	}
	return child
}

func (l *Logger) Info(msg string)                          { l.entry.Info(msg) }
func (l *Logger) Infof(format string, args ...interface{}) { l.entry.Infof(format, args...) }
func (l *Logger) Warn(msg string)                          { l.entry.Warn(msg) }
func (l *Logger) Warnf(format string, args ...interface{}) { l.entry.Warnf(format, args...) }
func (l *Logger) Error(msg string)                         { l.entry.Error(msg) }
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// Debug logs only when debug output is enabled
func (l *Logger) Debug(msg string) {
	if isDebug {
		l.entry.Debug(msg)
	}
}

// Debugf logs a formatted message only when debug output is enabled
func (l *Logger) Debugf(format string, args ...interface{}) {
	if isDebug {
		l.entry.Debugf(format, args...)
	}
}

type contextKey string

// RequestIDKey is the context key under which API calls store their request id.
const RequestIDKey contextKey = "request_id"

// LogWithFields returns the package logger with fields attached.
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithContext returns the package logger bound to ctx.
func LogWithContext(ctx context.Context) *Logger {
	return logger.WithContext(ctx)
}

// LogWithError returns the package logger with the error and its
// classification attached.
func LogWithError(err error) *Logger {
	if err == nil {
		return logger.With(F("error", "<nil>"))
	}
	fields := []Field{F("error", err.Error()), F("error_kind", errors.KindOf(err).String())}

	var apiErr *errors.APIError
	if errors.As(err, &apiErr) {
		fields = append(fields, F("endpoint", apiErr.Endpoint()), F("status", apiErr.Status()))
	}
	var cfgErr *errors.ConfigError
	if errors.As(err, &cfgErr) && cfgErr.Param() != "" {
		fields = append(fields, F("param", cfgErr.Param()))
	}
	return logger.With(fields...)
}

// LogError logs err at error level with msg.
func LogError(err error, msg string) {
	LogWithError(err).Error(msg)
}

func Info(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// Debug logs a message with arguments
func Debug(msg string, args ...interface{}) {
	if len(args) == 0 {
		logger.Debug(msg)
		return
	}
	logger.Debugf(msg+": %v", args...)
}

// Debugf logs a formatted message
func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// Error logs an error message with arguments
func Error(msg string, args ...interface{}) {
	if len(args) == 0 {
		logger.Error(msg)
		return
	}
	logger.Errorf(msg+": %v", args...)
}

// Errorf logs a formatted error message
func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

// Warn logs a warning message with arguments
func Warn(msg string, args ...interface{}) {
	if len(args) == 0 {
		logger.Warn(msg)
		return
	}
	logger.Warnf(msg+": %v", args...)
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}
