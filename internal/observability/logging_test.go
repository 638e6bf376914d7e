package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/spec-kit/helpdesk-dashboard/internal/config"
)

func TestLoggerConfig(t *testing.T) {
	app := config.AppConfig{Name: "helpdesk-dashboard", Version: "1.2.3", Env: "production"}

	t.Run("production json", func(t *testing.T) {
		cfg := loggerConfig(config.LoggerConfig{Level: "WARN", Format: "json"}, app)
		assert.Equal(t, "json", cfg.Encoding)
		assert.Equal(t, zapcore.WarnLevel, cfg.Level.Level())
		assert.False(t, cfg.Development)
		assert.NotNil(t, cfg.Sampling)
		assert.Equal(t, "helpdesk-dashboard", cfg.InitialFields["service"])
		assert.Equal(t, "1.2.3", cfg.InitialFields["version"])
	})

	t.Run("development console with unknown level", func(t *testing.T) {
		cfg := loggerConfig(config.LoggerConfig{Level: "chatty", Format: "console"}, config.AppConfig{Env: "development"})
		assert.Equal(t, "console", cfg.Encoding)
		assert.Equal(t, zapcore.InfoLevel, cfg.Level.Level())
		assert.True(t, cfg.Development)
		assert.Nil(t, cfg.Sampling)
	})

	t.Run("builds", func(t *testing.T) {
		logger, err := NewLogger(config.LoggerConfig{Level: "debug", Format: "json"}, app)
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})
}
