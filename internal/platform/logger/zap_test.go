package logger

import (
	"testing"

	"charity_marketplace_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("WARNING"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.FatalLevel, ParseLevel("silent"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("bogus"))
}

func TestNew(t *testing.T) {
	for _, mode := range []string{"debug", "release"} {
		log, err := New(&config.Config{GinMode: mode, LogLevel: "warn", LogFormat: "json"})
		require.NoError(t, err)
		assert.False(t, log.Core().Enabled(zapcore.InfoLevel), mode)
		assert.True(t, log.Core().Enabled(zapcore.WarnLevel), mode)
	}
}
