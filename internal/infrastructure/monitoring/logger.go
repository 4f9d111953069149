// Package monitoring wires logging, metrics and tracing implementations.
package monitoring

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/promoflow/threshold-service/internal/config"
	"github.com/promoflow/threshold-service/pkg/constants"
	"github.com/promoflow/threshold-service/pkg/logger"
)

// zapLogger implements logger.Logger on top of zap. Request and trace ids
// are pulled from the context on every call so individual call sites never
// have to thread them through.
type zapLogger struct {
	base *zap.Logger
}

// NewLogger builds the production logger from configuration.
func NewLogger(cfg *config.LogConfig) (logger.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Format == "console" {
		zapCfg.Encoding = "console"
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	base, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return &zapLogger{base: base}, nil
}

func (l *zapLogger) Debug(ctx context.Context, msg string, fields ...logger.Field) {
	l.base.Debug(msg, l.zapFields(ctx, fields)...)
}

func (l *zapLogger) Info(ctx context.Context, msg string, fields ...logger.Field) {
	l.base.Info(msg, l.zapFields(ctx, fields)...)
}

func (l *zapLogger) Warn(ctx context.Context, msg string, fields ...logger.Field) {
	l.base.Warn(msg, l.zapFields(ctx, fields)...)
}

func (l *zapLogger) Error(ctx context.Context, msg string, err error, fields ...logger.Field) {
	zf := l.zapFields(ctx, fields)
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	l.base.Error(msg, zf...)
}

func (l *zapLogger) WithFields(fields ...logger.Field) logger.Logger {
	zf := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		zf = append(zf, zap.Any(f.Key, f.Value))
	}
	return &zapLogger{base: l.base.With(zf...)}
}

func (l *zapLogger) WithComponent(component string) logger.Logger {
	return &zapLogger{base: l.base.With(zap.String("component", component))}
}

func (l *zapLogger) zapFields(ctx context.Context, fields []logger.Field) []zap.Field {
	zf := make([]zap.Field, 0, len(fields)+2)
	if requestID, ok := ctx.Value(constants.ContextKeyRequestID).(string); ok && requestID != "" {
		zf = append(zf, zap.String("request_id", requestID))
	}
	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		zf = append(zf, zap.String("trace_id", span.SpanContext().TraceID().String()))
	}
	for _, f := range fields {
		zf = append(zf, zap.Any(f.Key, f.Value))
	}
	return zf
}

// Sync flushes buffered log entries. Call on shutdown.
func Sync(l logger.Logger) {
	if zl, ok := l.(*zapLogger); ok {
		_ = zl.base.Sync()
	}
}
