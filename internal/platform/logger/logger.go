package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap so components can take a single concrete dependency.
type Logger struct {
	*zap.Logger
	config *LoggerConfig
}

var (
	globalLogger *Logger
	once         sync.Once
)

// NewLogger builds the process logger from LOG_* environment variables.
// Subsequent calls return the same instance.
func NewLogger() *Logger {
	once.Do(func() {
		globalLogger = build(DefaultConfig())
	})
	return globalLogger
}

// NewNop returns a logger that discards everything. Used in tests.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop(), config: &LoggerConfig{Level: "info", Format: "json"}}
}

func build(cfg *LoggerConfig) *Logger {
	var zapConfig zap.Config
	if cfg.Level == "debug" {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zapConfig.Level = zap.NewAtomicLevelAt(cfg.ToZapLevel())

	switch cfg.OutputFile {
	case "", "stdout", "stderr":
		out := cfg.OutputFile
		if out == "" {
			out = "stdout"
		}
		zapConfig.OutputPaths = []string{out}
		zapConfig.ErrorOutputPaths = []string{"stderr"}
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.OutputFile), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "logger: cannot create log dir for %s, using stdout: %v\n", cfg.OutputFile, err)
			zapConfig.OutputPaths = []string{"stdout"}
		} else {
			zapConfig.OutputPaths = []string{cfg.OutputFile, "stdout"}
		}
		zapConfig.ErrorOutputPaths = []string{"stderr"}
	}

	if cfg.Format == "console" || cfg.Format == "text" {
		zapConfig.Encoding = "console"
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapConfig.Encoding = "json"
	}

	zl, err := zapConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: falling back to zap production defaults: %v\n", err)
		zl, _ = zap.NewProduction()
	}

	l := &Logger{Logger: zl, config: cfg}
	l.Info("Logger initialized", zap.String("level", cfg.Level), zap.String("format", cfg.Format))
	return l
}

// Named adds a path segment to the logger's name.
func (l *Logger) Named(name string) *Logger {
	return &Logger{Logger: l.Logger.Named(name), config: l.config}
}

// With adds structured context to the logger.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...), config: l.config}
}
