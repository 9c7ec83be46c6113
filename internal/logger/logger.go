package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log message
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// String returns the level name
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a level name to a Level; unknown names default to Info
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DebugLevel
	case "INFO":
		return InfoLevel
	case "WARN", "WARNING":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	case "FATAL":
		return FatalLevel
	default:
		return InfoLevel
	}
}

// Format selects the output encoding
type Format int

const (
	JSONFormat Format = iota
	TextFormat
)

type entry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Component string                 `json:"component,omitempty"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// Logger is a leveled, component-tagged structured logger
type Logger struct {
	mu        sync.Mutex
	level     Level
	format    Format
	out       io.Writer
	component string
}

// New creates a logger writing to out at the given level and format
func New(level Level, format Format, out io.Writer) *Logger {
	if out == nil {
		out = os.Stdout
	}
	return &Logger{level: level, format: format, out: out}
}

// NewDefault creates an info-level JSON logger on stdout
func NewDefault() *Logger {
	return New(InfoLevel, JSONFormat, os.Stdout)
}

// WithComponent returns a logger tagged with a component name, sharing
// the parent's output and level
func (l *Logger) WithComponent(component string) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &Logger{level: l.level, format: l.format, out: l.out, component: component}
}

// SetLevel sets the minimum level that will be written
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetFormat sets the output encoding
func (l *Logger) SetFormat(format Format) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.format = format
}

func (l *Logger) write(level Level, msg string, fields map[string]interface{}, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	e := entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level.String(),
		Component: l.component,
		Message:   msg,
		Fields:    fields,
	}
	if err != nil {
		e.Error = err.Error()
	}

	switch l.format {
	case JSONFormat:
		b, _ := json.Marshal(e)
		l.out.Write(append(b, '\n'))
	default:
		l.out.Write([]byte(l.text(e)))
	}

	if level == FatalLevel {
		os.Exit(1)
	}
}

func (l *Logger) text(e entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Timestamp, e.Level)
	if e.Component != "" {
		fmt.Fprintf(&b, " [%s]", e.Component)
	}
	b.WriteByte(' ')
	b.WriteString(e.Message)
	for k, v := range e.Fields {
		fmt.Fprintf(&b, " %s=%v", k, v)
	}
	if e.Error != "" {
		fmt.Fprintf(&b, " error=%s", e.Error)
	}
	b.WriteByte('\n')
	return b.String()
}

func first(fields []map[string]interface{}) map[string]interface{} {
	if len(fields) > 0 {
		return fields[0]
	}
	return nil
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	l.write(DebugLevel, msg, first(fields), nil)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	l.write(InfoLevel, msg, first(fields), nil)
}

// Warn logs a warning
func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	l.write(WarnLevel, msg, first(fields), nil)
}

// Error logs an error message with its cause
func (l *Logger) Error(msg string, err error, fields ...map[string]interface{}) {
	l.write(ErrorLevel, msg, first(fields), err)
}

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(msg string, err error, fields ...map[string]interface{}) {
	l.write(FatalLevel, msg, first(fields), err)
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.write(InfoLevel, fmt.Sprintf(format, args...), nil, nil)
}

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.write(DebugLevel, fmt.Sprintf(format, args...), nil, nil)
}

// Warnf logs a formatted warning
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.write(WarnLevel, fmt.Sprintf(format, args...), nil, nil)
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.write(ErrorLevel, fmt.Sprintf(format, args...), nil, nil)
}
