package main

import (
	"testing"

	"ecotrack/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitLoggerHonorsLevelAndFormat(t *testing.T) {
	logger, err := initLogger(config.LoggingConfig{Level: "warn", Format: "json", SampleRate: 1.0})
	require.NoError(t, err)
	defer logger.Sync()

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestInitLoggerConsoleFormat(t *testing.T) {
	logger, err := initLogger(config.LoggingConfig{Level: "debug", Format: "console", SampleRate: 1.0})
	require.NoError(t, err)
	defer logger.Sync()

	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestInitLoggerRejectsBadLevel(t *testing.T) {
	_, err := initLogger(config.LoggingConfig{Level: "loudest", Format: "json", SampleRate: 1.0})
	assert.Error(t, err)
}
