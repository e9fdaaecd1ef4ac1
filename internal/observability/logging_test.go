package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/skirmish/internal/config"
)

func TestNewLogger_JSON(t *testing.T) {
	cfg := config.LoggingConfig{Level: "info", Format: "json"}
	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewLogger_Console(t *testing.T) {
	cfg := config.LoggingConfig{Level: "debug", Format: "console"}
	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	cfg := config.LoggingConfig{Level: "trace", Format: "json"}
	_, err := NewLogger(cfg)
	assert.Error(t, err)
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	cfg := config.LoggingConfig{Level: "info", Format: "xml"}
	_, err := NewLogger(cfg)
	assert.Error(t, err)
}

func TestNewLogger_AllLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := config.LoggingConfig{Level: level, Format: "json"}
		logger, err := NewLogger(cfg)
		require.NoError(t, err, "level %q should be valid", level)
		assert.NotNil(t, logger)
	}
}

func TestForComponent_NamesChild(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ForComponent(zap.New(core), ComponentDice).Info("rolled")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "dice", logs.All()[0].LoggerName)
}

func TestForComponent_NilLogger(t *testing.T) {
	logger := ForComponent(nil, ComponentAI)
	require.NotNil(t, logger)
	assert.False(t, DebugEnabled(logger))
}

func TestDebugEnabled(t *testing.T) {
	debug, err := NewLogger(config.LoggingConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	assert.True(t, DebugEnabled(debug))

	info, err := NewLogger(config.LoggingConfig{Level: "info", Format: "console"})
	require.NoError(t, err)
	assert.False(t, DebugEnabled(info))
	assert.False(t, DebugEnabled(nil))
}
