package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger represents a structured logger
type Logger struct {
	logger zerolog.Logger
}

var (
	// Default is the default logger instance
	Default *Logger
)

// Init initializes the logger writing to stdout
func Init() {
	InitWithWriter(os.Stdout)
}

// InitWithWriter initializes the logger writing human-readable lines to w
func InitWithWriter(w io.Writer) {
	level := getLogLevel()

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(level)

	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    w != os.Stdout,
	}

	Default = &Logger{logger: zerolog.New(output).With().Timestamp().Logger()}

	Default.Debug().
		Str("level", level.String()).
		Msg("Logger initialized")
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

// getLogLevel returns the log level from environment variable
func getLogLevel() zerolog.Level {
	levelStr := os.Getenv("LOG_LEVEL")
	if levelStr == "" {
		if os.Getenv("OFFERWATCH_ENVIRONMENT") == "production" {
			return zerolog.InfoLevel
		}
		return zerolog.DebugLevel
	}

	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// WithField creates a new logger with a single field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{logger: l.logger.With().Interface(key, value).Logger()}
}

// WithStr creates a new logger with a string field
func (l *Logger) WithStr(key, value string) *Logger {
	return &Logger{logger: l.logger.With().Str(key, value).Logger()}
}

// Debug returns a debug event
func (l *Logger) Debug() *zerolog.Event {
	return l.logger.Debug()
}

// Info returns an info event
func (l *Logger) Info() *zerolog.Event {
	return l.logger.Info()
}

// Warn returns a warn event
func (l *Logger) Warn() *zerolog.Event {
	return l.logger.Warn()
}

// Error returns an error event
func (l *Logger) Error() *zerolog.Event {
	return l.logger.Error()
}

// Fatal returns a fatal event
func (l *Logger) Fatal() *zerolog.Event {
	return l.logger.Fatal()
}

func defaultLogger() *Logger {
	if Default == nil {
		Init()
	}
	return Default
}

// Info logs an info message
func Info(format string, v ...interface{}) {
	defaultLogger().Info().Msgf(format, v...)
}

// Warn logs a warning message
func Warn(format string, v ...interface{}) {
	defaultLogger().Warn().Msgf(format, v...)
}

// Error logs an error message
func Error(format string, v ...interface{}) {
	defaultLogger().Error().Msgf(format, v...)
}

// ForKeyword creates a logger for a single search keyword
func ForKeyword(keyword string) *Logger {
	return defaultLogger().WithStr("keyword", keyword)
}

// ForWorker creates a logger for the worker
func ForWorker() *Logger {
	return defaultLogger().WithStr("component", "worker")
}

// ForFetcher creates a logger for the offer fetcher
func ForFetcher() *Logger {
	return defaultLogger().WithStr("component", "fetcher")
}

// ForStore creates a logger for the snapshot store
func ForStore() *Logger {
	return defaultLogger().WithStr("component", "snapshot")
}

// ForNotifier creates a logger for a notifier channel
func ForNotifier(channel string) *Logger {
	return defaultLogger().WithStr("component", "notifier").WithStr("channel", channel)
}

// ForPublisher creates a logger for the publisher
func ForPublisher() *Logger {
	return defaultLogger().WithStr("component", "publisher")
}

// LogError is a convenience method for logging errors with context
func LogError(component string, err error, format string, v ...interface{}) {
	defaultLogger().Error().
		Str("component", component).
		Err(err).
		Msg(fmt.Sprintf(format, v...))
}
