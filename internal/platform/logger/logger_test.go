package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestLoggerConfig_ToZapLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for level, want := range cases {
		cfg := &LoggerConfig{Level: level}
		assert.Equal(t, want, cfg.ToZapLevel(), "level %q", level)
	}
}

func TestNewNop_NamedAndWith(t *testing.T) {
	l := NewNop().Named("component")
	assert.NotNil(t, l.Logger)
	assert.NotPanics(t, func() { l.With().Info("discarded") })
}

func TestDefaultConfig_ReadsEnvironment(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "Console")
	t.Setenv("LOG_OUTPUT_FILE", "stderr")

	cfg := DefaultConfig()
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "stderr", cfg.OutputFile)
	assert.Equal(t, zapcore.DebugLevel, cfg.ToZapLevel())
}
