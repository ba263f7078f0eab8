package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu      sync.RWMutex
	output  io.Writer = os.Stdout
	logFile *os.File
	plain   bool
	logger  zerolog.Logger
)

// SetOutputFile sets the logger output to a file
func SetOutputFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	// Open file in append mode
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	output = f
	plain = false
	initLogger()
	return nil
}

// SetOutput redirects log lines to w as newline-delimited JSON.
// Passing nil restores stdout with the console writer.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		output = os.Stdout
		plain = false
	} else {
		output = w
		plain = true
	}
	initLogger()
}

// CloseLogFile closes the log file if it's open
func CloseLogFile() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
		output = os.Stdout
		initLogger()
	}
}

// initLogger must be called with mu held.
func initLogger() {
	if plain {
		logger = zerolog.New(output).With().Timestamp().Logger()
		return
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        output,
		TimeFormat: "15:04:05",
		NoColor:    logFile != nil, // Disable colors when writing to file
	}

	logger = zerolog.New(consoleWriter).With().Timestamp().Logger()
}

func init() {
	initLogger()
}

func current() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

// SetLevel sets the global log level
func SetLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// Debug logs a debug message
func Debug(msg string) {
	current().Debug().Msg(msg)
}

// Debugf logs a debug message with formatting
func Debugf(format string, v ...interface{}) {
	current().Debug().Msgf(format, v...)
}

// Info logs an info message
func Info(msg string) {
	current().Info().Msg(msg)
}

// Infof logs an info message with formatting
func Infof(format string, v ...interface{}) {
	current().Info().Msgf(format, v...)
}

// Warn logs a warning message
func Warn(msg string) {
	current().Warn().Msg(msg)
}

// Warnf logs a warning message with formatting
func Warnf(format string, v ...interface{}) {
	current().Warn().Msgf(format, v...)
}

// Error logs an error message with the error object
func Error(msg string, err error) {
	current().Error().Err(err).Msg(msg)
}

// Errorf logs an error message with formatting and the error object
func Errorf(format string, err error, v ...interface{}) {
	current().Error().Err(err).Msgf(format, v...)
}

// Component returns a child logger tagged with the given component name,
// for call sites that want structured fields instead of formatted text.
func Component(name string) zerolog.Logger {
	return current().With().Str("component", name).Logger()
}
