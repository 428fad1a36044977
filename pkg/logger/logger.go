// Package logger wraps zap with context-aware helpers.
// Request trace fields are attached automatically when present in context.
package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	appcontext "restock/internal/core/context"
)

var log *zap.SugaredLogger

func init() {
	Init("info")
}

// Init configures the global logger. Level is one of debug, info, warn, error.
func Init(level string) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(os.Stdout),
		zapLevel,
	)

	log = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = log.Sync()
}

func withContext(ctx context.Context) *zap.SugaredLogger {
	l := log
	if trace := appcontext.GetTrace(ctx); trace != nil {
		l = l.With(
			"trace_id", trace.TraceID,
			"request_id", trace.RequestID,
		)
	}
	return l
}

// Debug logs a debug message with context fields.
func Debug(ctx context.Context, msg string, keysAndValues ...interface{}) {
	withContext(ctx).Debugw(msg, keysAndValues...)
}

// Info logs an info message with context fields.
func Info(ctx context.Context, msg string, keysAndValues ...interface{}) {
	withContext(ctx).Infow(msg, keysAndValues...)
}

// Warn logs a warning with context fields.
func Warn(ctx context.Context, msg string, keysAndValues ...interface{}) {
	withContext(ctx).Warnw(msg, keysAndValues...)
}

// Error logs an error with context fields.
func Error(ctx context.Context, msg string, keysAndValues ...interface{}) {
	withContext(ctx).Errorw(msg, keysAndValues...)
}

// Fatal logs a fatal message and exits.
func Fatal(ctx context.Context, msg string, keysAndValues ...interface{}) {
	withContext(ctx).Fatalw(msg, keysAndValues...)
}
