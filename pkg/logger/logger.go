// Package logger provides structured logging for recycler
package logger

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	globalLogger *zap.Logger
	mu           sync.Mutex
)

// contextKey is the type for context keys
type contextKey string

const (
	// PoolKey is the context key for the pool name
	PoolKey contextKey = "pool"
	// WorkerKey is the context key for a workload worker id
	WorkerKey contextKey = "worker"
	// RunIDKey is the context key for a workload run id
	RunIDKey contextKey = "run_id"
)

// Config represents logger configuration
type Config struct {
	Level       string   `yaml:"level" json:"level"`
	Development bool     `yaml:"development" json:"development"`
	Encoding    string   `yaml:"encoding" json:"encoding"` // json or console
	OutputPaths []string `yaml:"output_paths" json:"output_paths"`
}

// DefaultConfig is used when the global logger is requested before Init.
// Pools only log cold-path events, so warn on stderr keeps library users quiet.
func DefaultConfig() Config {
	return Config{
		Level:       "warn",
		Encoding:    "json",
		OutputPaths: []string{"stderr"},
	}
}

// Init initializes the global logger, replacing any previous one.
func Init(cfg Config) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}
	mu.Lock()
	globalLogger = l
	mu.Unlock()
	return nil
}

// New creates a new zap logger from cfg without touching the global one.
func New(cfg Config) (*zap.Logger, error) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Encoding == "" {
		cfg.Encoding = "json"
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
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
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if cfg.Development {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	outputPaths := cfg.OutputPaths
	if len(outputPaths) == 0 {
		outputPaths = []string{"stdout"}
	}

	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      cfg.Development,
		Encoding:         cfg.Encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      outputPaths,
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	if cfg.Development {
		logger = logger.WithOptions(zap.AddStacktrace(zapcore.ErrorLevel))
	}

	return logger, nil
}

// Get returns the global logger
func Get() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()

	if globalLogger == nil {
		logger, err := New(DefaultConfig())
		if err != nil {
			// Fallback to basic logger
			logger, _ = zap.NewProduction()
		}
		globalLogger = logger
	}
	return globalLogger
}

// Set replaces the global logger. Tests use it to route pool logs into
// zaptest.
func Set(l *zap.Logger) {
	mu.Lock()
	globalLogger = l
	mu.Unlock()
}

// Named returns a child of the global logger for one component.
func Named(component string) *zap.Logger {
	return Get().Named(component)
}

// WithContext returns a logger with context values
func WithContext(ctx context.Context) *zap.Logger {
	logger := Get()

	if pool, ok := ctx.Value(PoolKey).(string); ok {
		logger = logger.With(zap.String("pool", pool))
	}

	if worker, ok := ctx.Value(WorkerKey).(int); ok {
		logger = logger.With(zap.Int("worker", worker))
	}

	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		logger = logger.With(zap.String("run_id", runID))
	}

	return logger
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	Get().Debug(msg, fields...)
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	Get().Info(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	Get().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	Get().Error(msg, fields...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	Get().Fatal(msg, fields...)
	os.Exit(1)
}

// With creates a child logger with additional fields
func With(fields ...zap.Field) *zap.Logger {
	return Get().With(fields...)
}

// Sync flushes any buffered log entries
func Sync() error {
	mu.Lock()
	defer mu.Unlock()
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}
