package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMessages(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")

	stdoutBuf := &bytes.Buffer{}
	stderrBuf := &bytes.Buffer{}

	logger := NewWithOutput(logFile, false, true, stdoutBuf, stderrBuf)

	readLog := func(t *testing.T) string {
		t.Helper()
		content, err := os.ReadFile(logFile)
		require.NoError(t, err)
		return string(content)
	}

	t.Run("InfoToUser", func(t *testing.T) {
		stdoutBuf.Reset()
		logger.InfoToUser("Test info to user: %s", "message")

		output := stdoutBuf.String()
		assert.Contains(t, output, "ℹ️")
		assert.Contains(t, output, "Test info to user: message")
		assert.Contains(t, readLog(t), "Test info to user: message")
	})

	t.Run("Success", func(t *testing.T) {
		stdoutBuf.Reset()
		logger.Success("Success message: %s", "completed")

		output := stdoutBuf.String()
		assert.Contains(t, output, "✅")
		assert.Contains(t, output, "Success message: completed")
		assert.Contains(t, readLog(t), "Success message: completed")
	})

	t.Run("WarningToUser", func(t *testing.T) {
		stdoutBuf.Reset()
		logger.WarningToUser("Warning to user: %s", "be careful")

		output := stdoutBuf.String()
		assert.Contains(t, output, "⚠️")
		assert.Contains(t, output, "Warning to user: be careful")
		assert.Contains(t, readLog(t), "WARN Warning to user: be careful")
	})

	t.Run("StatusMessage", func(t *testing.T) {
		stdoutBuf.Reset()
		logger.StatusMessage("Status: %s", "in progress")

		assert.Contains(t, stdoutBuf.String(), "Status: in progress")
		assert.NotContains(t, readLog(t), "Status: in progress")
	})

	t.Run("Error", func(t *testing.T) {
		stderrBuf.Reset()
		logger.Error("Error for user: %s", "boom")

		assert.Contains(t, stderrBuf.String(), "❌ Error for user: boom")
		assert.Contains(t, readLog(t), "ERROR Error for user: boom")
	})
}

func TestQuietMode(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "quiet.log")

	stdoutBuf := &bytes.Buffer{}
	stderrBuf := &bytes.Buffer{}
	logger := NewWithOutput(logFile, false, false, stdoutBuf, stderrBuf)

	logger.InfoToUser("Info in quiet mode")
	logger.Success("Success in quiet mode")
	logger.Warning("Warning in quiet mode")
	logger.WarningToUser("Loud warning")
	logger.Error("Loud error")

	output := stdoutBuf.String()
	assert.NotContains(t, output, "Info in quiet mode")
	assert.NotContains(t, output, "Success in quiet mode")
	assert.NotContains(t, output, "Warning in quiet mode")
	assert.Contains(t, output, "Loud warning")
	assert.Contains(t, stderrBuf.String(), "Loud error")

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	for _, msg := range []string{"Info in quiet mode", "Success in quiet mode", "Warning in quiet mode", "Loud warning", "Loud error"} {
		assert.True(t, strings.Contains(string(content), msg), "expected %q in log file", msg)
	}
}
