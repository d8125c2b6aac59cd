package main

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides structured logging, backed by zap. The WithFields/WithError
// chain mirrors how handlers attach request context before emitting.
type Logger struct {
	sugar *zap.SugaredLogger
}

// NewLogger creates a structured logger for the given level and environment.
func NewLogger(level, environment string) (*Logger, error) {
	var cfg zap.Config
	if environment == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLogLevel(level))

	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{sugar: z.Sugar()}, nil
}

func parseLogLevel(level string) zapcore.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "INFO":
		return zapcore.InfoLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	case "FATAL":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// WithFields returns a logger with the fields attached to every entry.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	kv := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return &Logger{sugar: l.sugar.With(kv...)}
}

// WithField returns a logger with a single field attached.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(key, value)}
}

// WithError returns a logger with an error field attached.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{sugar: l.sugar.With("error", err)}
}

func (l *Logger) Debug(message string) { l.sugar.Debug(message) }
func (l *Logger) Info(message string)  { l.sugar.Info(message) }
func (l *Logger) Warn(message string)  { l.sugar.Warn(message) }
func (l *Logger) Error(message string) { l.sugar.Error(message) }
func (l *Logger) Fatal(message string) { l.sugar.Fatal(message) }

// Sync flushes buffered log entries.
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}

// Global logger instance
var AppLogger *Logger

// InitializeLogger initializes the global logger from config.
func InitializeLogger(config *Config) error {
	logger, err := NewLogger(config.LogLevel, config.Environment)
	if err != nil {
		return err
	}
	AppLogger = logger
	return nil
}
