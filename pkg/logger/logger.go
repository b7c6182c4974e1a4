// Package logger wraps zap with the project's defaults.
//
// Components take a *Logger and name it after themselves:
//
//	log := root.Named("catalog")
//	log.Infow("themes cached", "count", n)
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a zap.SugaredLogger that remembers its base logger and level.
type Logger struct {
	*zap.SugaredLogger
	base  *zap.Logger
	level zap.AtomicLevel
}

// New creates a Logger writing to stdout.
// level: debug, info, warn, error. format: json or console.
func New(level, format string) *Logger {
	return NewWithOutput(level, format, os.Stdout)
}

// NewWithOutput creates a Logger writing to output. Unknown levels fall back to info.
func NewWithOutput(level, format string, output io.Writer) *Logger {
	atomicLevel := zap.NewAtomicLevel()
	if err := atomicLevel.UnmarshalText([]byte(level)); err != nil {
		atomicLevel.SetLevel(zapcore.InfoLevel)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	switch format {
	case "console", "text":
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(output), atomicLevel)
	base := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	return &Logger{
		SugaredLogger: base.Sugar(),
		base:          base,
		level:         atomicLevel,
	}
}

// Nop returns a Logger that discards everything. Used by tests.
func Nop() *Logger {
	base := zap.NewNop()
	return &Logger{SugaredLogger: base.Sugar(), base: base, level: zap.NewAtomicLevel()}
}

// Named returns a child logger with the given name segment.
func (l *Logger) Named(name string) *Logger {
	named := l.base.Named(name)
	return &Logger{SugaredLogger: named.Sugar(), base: named, level: l.level}
}

// With returns a child logger carrying the given key/value pairs.
func (l *Logger) With(args ...any) *Logger {
	sugared := l.SugaredLogger.With(args...)
	return &Logger{SugaredLogger: sugared, base: sugared.Desugar(), level: l.level}
}

// Level returns the current level name.
func (l *Logger) Level() string {
	return l.level.Level().String()
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.base.Sync()
}
