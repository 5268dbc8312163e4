package logger

import (
	"context"
	"fmt"
	"os"
	"time"

	"veloj/pkg/utils/contextkey"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var globalLogger *Logger

// Logger wraps zap logger with context support
type Logger struct {
	zap *zap.Logger
}

// Config holds logger configuration
type Config struct {
	Level      string `yaml:"level"`      // debug, info, warn, error
	Format     string `yaml:"format"`     // json, console
	OutputPath string `yaml:"outputPath"` // file path or "stdout"
}

// Init initializes the global logger
func Init(cfg Config) error {
	logger, err := NewLogger(cfg)
	if err != nil {
		return err
	}
	globalLogger = logger
	return nil
}

// NewLogger creates a new logger instance
func NewLogger(cfg Config) (*Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     rfc3339TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	outputPath := cfg.OutputPath
	if outputPath == "" {
		outputPath = "stdout"
	}

	var writeSyncer zapcore.WriteSyncer
	if outputPath == "stdout" {
		writeSyncer = zapcore.AddSync(os.Stdout)
	} else {
		file, err := os.OpenFile(outputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		writeSyncer = zapcore.AddSync(file)
	}

	core := zapcore.NewCore(encoder, writeSyncer, level)
	zapLogger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))

	return &Logger{zap: zapLogger}, nil
}

func rfc3339TimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format(time.RFC3339))
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

// WithContext extracts fields from context (like trace_id) and returns logger with those fields
func (l *Logger) WithContext(ctx context.Context) *zap.Logger {
	return l.zap.With(extractFieldsFromContext(ctx)...)
}

func extractFieldsFromContext(ctx context.Context) []zap.Field {
	var fields []zap.Field

	if traceID := ctx.Value(contextkey.TraceID); traceID != nil {
		fields = append(fields, zap.String("trace_id", fmt.Sprint(traceID)))
	}
	if requestID := ctx.Value(contextkey.RequestID); requestID != nil {
		fields = append(fields, zap.String("request_id", fmt.Sprint(requestID)))
	}
	if user := ctx.Value(contextkey.User); user != nil {
		fields = append(fields, zap.String("user", fmt.Sprint(user)))
	}
	if entry := ctx.Value(contextkey.Entry); entry != nil {
		fields = append(fields, zap.String("entry", fmt.Sprint(entry)))
	}

	return fields
}

// Global logger convenience functions

// Debug logs a debug message
func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	if globalLogger == nil {
		return
	}
	globalLogger.WithContext(ctx).Debug(msg, fields...)
}

// Info logs an info message
func Info(ctx context.Context, msg string, fields ...zap.Field) {
	if globalLogger == nil {
		return
	}
	globalLogger.WithContext(ctx).Info(msg, fields...)
}

// Warn logs a warning message
func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	if globalLogger == nil {
		return
	}
	globalLogger.WithContext(ctx).Warn(msg, fields...)
}

// Error logs an error message
func Error(ctx context.Context, msg string, fields ...zap.Field) {
	if globalLogger == nil {
		return
	}
	globalLogger.WithContext(ctx).Error(msg, fields...)
}

// WithFields returns a logger with pre-set fields
func WithFields(ctx context.Context, fields ...zap.Field) *zap.Logger {
	if globalLogger == nil {
		return nil
	}
	return globalLogger.WithContext(ctx).With(fields...)
}

// Sync flushes the global logger
func Sync() error {
	if globalLogger == nil {
		return nil
	}
	return globalLogger.Sync()
}
