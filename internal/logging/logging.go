// Package logging provides a simple leveled logger backed by logrus.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) logrus() logrus.Level {
	switch l {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// ParseLevel parses a log level string.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Fields are structured key/value pairs attached to log lines.
type Fields map[string]interface{}

// Logger is a leveled logger. The zero value is not usable; use New.
type Logger struct {
	base  *logrus.Logger
	entry *logrus.Entry
	sink  *sink
}

// sink holds the file Configure opened. Child loggers share it.
type sink struct {
	mu sync.Mutex
	c  io.Closer
}

func (s *sink) swap(c io.Closer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	if s.c != nil {
		err = s.c.Close()
	}
	s.c = c
	return err
}

// New creates a new logger writing text lines to stderr.
func New(level Level) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stderr)
	base.SetLevel(level.logrus())
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	return &Logger{base: base, entry: logrus.NewEntry(base), sink: &sink{}}
}

// Configure applies format and output settings. Output is "stdout",
// "stderr" or a file path; file output rotates when maxAge (days) > 0.
func (l *Logger) Configure(level, format, output string, maxAge int) error {
	l.SetLevel(ParseLevel(level))

	switch format {
	case "json":
		l.base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	case "text", "":
		l.base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	default:
		return fmt.Errorf("invalid log format %q", format)
	}

	var w io.WriteCloser
	switch output {
	case "stderr", "":
		l.SetOutput(os.Stderr)
	case "stdout":
		l.SetOutput(os.Stdout)
	default:
		if maxAge > 0 {
			w = &lumberjack.Logger{
				Filename: output,
				MaxAge:   maxAge,
				MaxSize:  10,
				Compress: true,
			}
		} else {
			f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log file %q: %w", output, err)
			}
			w = f
		}
		l.SetOutput(w)
	}
	return l.sink.swap(w)
}

// Close releases a log file opened by Configure and sends further lines to
// stderr. It is a no-op for stream outputs.
func (l *Logger) Close() error {
	l.sink.mu.Lock()
	owned := l.sink.c != nil
	l.sink.mu.Unlock()
	if !owned {
		return nil
	}
	l.SetOutput(os.Stderr)
	return l.sink.swap(nil)
}

// SetOutput sets the log output destination.
func (l *Logger) SetOutput(w io.Writer) {
	l.base.SetOutput(w)
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.base.SetLevel(level.logrus())
}

// With returns a child logger that adds fields to every line.
func (l *Logger) With(fields Fields) *Logger {
	return &Logger{base: l.base, entry: l.entry.WithFields(logrus.Fields(fields)), sink: l.sink}
}

// WithComponent tags lines with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return l.With(Fields{"component": name})
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// Discard returns a logger that discards all output.
func Discard() *Logger {
	l := New(LevelError)
	l.SetOutput(io.Discard)
	return l
}
