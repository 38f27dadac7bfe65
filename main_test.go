package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thushan/olla-explorer/internal/config"
)

func TestApplyFlagOverrides(t *testing.T) {
	cmd := newRootCommand()
	require.NoError(t, cmd.Flags().Parse([]string{"--port", "8123", "--debug"}))

	cfg := config.DefaultConfig()
	opts := &options{port: 8123, debug: true}
	applyFlagOverrides(cmd, cfg, opts)

	assert.Equal(t, 8123, cfg.Server.Port)
	assert.Equal(t, config.DefaultHost, cfg.Server.Host, "host flag was not passed")
	assert.True(t, cfg.Debug)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Server.RequestLogging)
}

func TestApplyFlagOverrides_NothingPassed(t *testing.T) {
	cmd := newRootCommand()
	require.NoError(t, cmd.Flags().Parse(nil))

	cfg := config.DefaultConfig()
	applyFlagOverrides(cmd, cfg, &options{})

	assert.Equal(t, config.DefaultPort, cfg.Server.Port)
	assert.False(t, cfg.Debug)
}

func TestBuildLoggerConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.FileOutput = true

	lcfg := buildLoggerConfig(cfg)
	assert.Equal(t, cfg.Logging.Level, lcfg.Level)
	assert.Equal(t, cfg.Logging.LogDir, lcfg.LogDir)
	assert.True(t, lcfg.FileOutput)
}
