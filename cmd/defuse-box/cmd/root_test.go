package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/defuse-box/internal/logger"
)

// TestDisplayWriter verifies the countdown leaves stderr to the logs when the report goes to a file.
func TestDisplayWriter(t *testing.T) {
	t.Parallel()

	var (
		stdout bytes.Buffer
		stderr bytes.Buffer
		c      = &cobra.Command{}
	)

	c.SetOut(&stdout)
	c.SetErr(&stderr)

	require.Same(t, &stdout, displayWriter(c, "report.json"))
	require.Same(t, &stderr, displayWriter(c, ""))
}

// TestConfigureLoggerLogFile verifies --log-file moves the logs off the terminal.
//
//nolint:paralleltest // Mutates flag variables and the global logger.
func TestConfigureLoggerLogFile(t *testing.T) {
	dir := t.TempDir()

	t.Cleanup(func() {
		logFile, logLevel, configPath = "", "", ""

		logger.SetLogger(logger.New(nil))
	})

	logFile = filepath.Join(dir, "defuse-box.log")
	logLevel = "info"
	configPath = filepath.Join(dir, "absent.yaml")

	require.NoError(t, configureLogger(nil, nil))

	logger.InfoKV(context.Background(), "Session started", "backend", "sim")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	require.Contains(t, string(data), "Session started")
}

// TestConfigureLoggerRejectsLevel verifies unknown log levels fail the command.
//
//nolint:paralleltest // Mutates flag variables.
func TestConfigureLoggerRejectsLevel(t *testing.T) {
	t.Cleanup(func() {
		logLevel = ""
	})

	logLevel = "loud"

	require.Error(t, configureLogger(nil, nil))
}
