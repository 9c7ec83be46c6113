package logger

import "os"

var globalLogger *Logger

func init() {
	globalLogger = NewDefault()

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		globalLogger.SetLevel(ParseLevel(level))
	}
	if format := os.Getenv("LOG_FORMAT"); format == "text" {
		globalLogger.SetFormat(TextFormat)
	}
}

// GetGlobalLogger returns the process-wide logger
func GetGlobalLogger() *Logger {
	return globalLogger
}

// SetGlobalLogger replaces the process-wide logger
func SetGlobalLogger(l *Logger) {
	globalLogger = l
}

// Info logs an info message on the global logger
func Info(msg string, fields ...map[string]interface{}) {
	globalLogger.Info(msg, fields...)
}

// Warn logs a warning on the global logger
func Warn(msg string, fields ...map[string]interface{}) {
	globalLogger.Warn(msg, fields...)
}

// Error logs an error on the global logger
func Error(msg string, err error, fields ...map[string]interface{}) {
	globalLogger.Error(msg, err, fields...)
}

// Fatal logs a fatal message on the global logger and exits
func Fatal(msg string, err error, fields ...map[string]interface{}) {
	globalLogger.Fatal(msg, err, fields...)
}

// Infof logs a formatted info message on the global logger
func Infof(format string, args ...interface{}) {
	globalLogger.Infof(format, args...)
}

// Debugf logs a formatted debug message on the global logger
func Debugf(format string, args ...interface{}) {
	globalLogger.Debugf(format, args...)
}
