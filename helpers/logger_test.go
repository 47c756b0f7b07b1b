package helpers

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/offerwatch/logger"
)

func TestFailureLog(t *testing.T) {
	logger.Default = logger.Nop()
	tmpFile := filepath.Join(t.TempDir(), "error.log")

	log := NewFailureLog(tmpFile)
	log.LogError("lachs", errors.New("request timeout"))
	log.LogError("telegram", errors.New("send failed"))

	data, err := os.ReadFile(tmpFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[lachs] request timeout")
	assert.Contains(t, string(data), "[telegram] send failed")

	// Info messages go to the structured logger, not the file
	log.LogInfo("Test info message: %s", "hello")
	after, err := os.ReadFile(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, data, after)
}

func TestFailureLogWithoutFile(t *testing.T) {
	logger.Default = logger.Nop()

	log := NewFailureLog("")
	log.LogError("lachs", errors.New("request timeout"))
}
