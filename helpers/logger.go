package helpers

import (
	"fmt"
	"os"
	"sync"
	"time"

	"sjsage522/offerwatch/logger"
)

// LoggerInterface defines the interface for logger implementations
type LoggerInterface interface {
	LogError(scope string, err error)
	LogInfo(format string, args ...interface{})
}

// FailureLog writes errors to the structured logger and, when a path is
// configured, appends them to a plain text file that outlives the process.
type FailureLog struct {
	mu        sync.Mutex
	errorFile string
}

// NewFailureLog creates a new failure log. An empty errorFile disables the file.
func NewFailureLog(errorFile string) *FailureLog {
	return &FailureLog{
		errorFile: errorFile,
	}
}

// LogError logs an error with its scope (keyword or channel) and timestamp
func (l *FailureLog) LogError(scope string, err error) {
	logger.ForWorker().Error().Str("scope", scope).Err(err).Msg("Run step failed")

	if l.errorFile == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, fileErr := os.OpenFile(l.errorFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if fileErr != nil {
		logger.Warn("cannot open error log %s: %v", l.errorFile, fileErr)
		return
	}
	defer f.Close()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(f, "[%s] [%s] %s\n", timestamp, scope, err.Error())
}

// LogInfo logs an informational message
func (l *FailureLog) LogInfo(format string, args ...interface{}) {
	logger.ForWorker().Info().Msgf(format, args...)
}
