// Package logging builds the zap loggers used across driftmesh.
package logging

import (
	"os"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// Logger is the sugared zap logger every package accepts.
type Logger = *zap.SugaredLogger

// NewLoggerConfig returns a console config with ISO8601 times, short
// callers, coloured levels and no stack traces.
func NewLoggerConfig() zap.Config {
	return zap.Config{
		Level:    zap.NewAtomicLevelAt(zap.InfoLevel),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}
}

// NewLogger returns a named Info+ logger writing to stderr.
func NewLogger(name string) Logger {
	return build(name, zap.InfoLevel)
}

// NewDebugLogger returns a named Debug+ logger writing to stderr.
func NewDebugLogger(name string) Logger {
	return build(name, zap.DebugLevel)
}

// NewFileLogger writes Info+ logs to path instead of stderr. The terminal
// view owns the screen, so it logs here.
func NewFileLogger(name, path string) (Logger, error) {
	cfg := NewLoggerConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar().Named(name), nil
}

// NewNopLogger discards everything.
func NewNopLogger() Logger {
	return zap.NewNop().Sugar()
}

// NewTestLogger routes Debug+ logs through tb.
func NewTestLogger(tb testing.TB) Logger {
	return zaptest.NewLogger(tb, zaptest.Level(zap.DebugLevel)).Sugar()
}

func build(name string, level zapcore.Level) Logger {
	cfg := NewLoggerConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	l, err := cfg.Build()
	if err != nil {
		// fall back to a bare stderr core
		l = zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(cfg.EncoderConfig), zapcore.Lock(os.Stderr), level))
	}
	return l.Sugar().Named(name)
}
