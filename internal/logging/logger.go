package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Logger provides leveled logging with redaction support.
// The zero value is not usable; construct with New.
type Logger struct {
	out     io.Writer
	debug   bool
	noColor bool
}

// New creates a logger writing to stderr.
func New(debug, noColor bool) *Logger {
	return NewWithWriter(os.Stderr, debug, noColor)
}

// NewWithWriter creates a logger writing to the given writer.
func NewWithWriter(out io.Writer, debug, noColor bool) *Logger {
	return &Logger{out: out, debug: debug, noColor: noColor}
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.emit("\033[32m✓\033[0m", "✓", format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.emit("\033[33m⚠\033[0m", "⚠", format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.emit("\033[31m✗\033[0m", "✗", format, args...)
}

// Debug logs a debug message if debug mode is enabled
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.emit("\033[36m[DEBUG]\033[0m", "[DEBUG]", format, args...)
}

func (l *Logger) emit(colorPrefix, plainPrefix, format string, args ...interface{}) {
	prefix := colorPrefix
	if l.noColor {
		prefix = plainPrefix
	}
	fmt.Fprintf(l.out, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}

// Secret is a string value that must never appear in logs.
// Both Stringer implementations return a redacted placeholder, so a
// Secret passed to a format verb cannot leak its value.
type Secret string

// String implements the Stringer interface, always returning a redacted value
func (s Secret) String() string {
	return "[REDACTED]"
}

// GoString implements the GoStringer interface for %#v formatting
func (s Secret) GoString() string {
	return "[REDACTED]"
}

// Reveal returns the underlying value. Call sites should be the only
// places a credential leaves the redaction wrapper.
func (s Secret) Reveal() string {
	return string(s)
}

// Redact replaces sensitive values in a string with [REDACTED]
func Redact(s string, secrets []string) string {
	result := s
	for _, secret := range secrets {
		if len(secret) > 3 { // Only redact non-trivial values
			result = strings.ReplaceAll(result, secret, "[REDACTED]")
		}
	}
	return result
}
