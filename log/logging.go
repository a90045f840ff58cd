package log

// Reasoning for log pkg
// 1. Logger should not be set as a command attribute as it is not invocation-scoped
// 2. stdout belongs to rendered responses, so records always go to stderr

import (
	"context"
	"strings"

	// Using zap instead of go-kit/log because go-kit/log/level requires a go-kit/log logger,
	// and a logger struct would be overkill just to recreate the zap methods
	// (zap provides no interfaces).
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxLogKey struct{}

var logger *zap.Logger
var cfg zap.Config

func init() {
	cfg = zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.DisableStacktrace = true

	l, err := cfg.Build(zap.AddCaller())
	if err != nil {
		panic(err.Error())
	}

	logger = l.Named("dictl")
}

// Log writes log to output.
func Log() *zap.SugaredLogger {
	return logger.Sugar()
}

// SetLevel sets the level of the logger. Unknown levels are ignored.
func SetLevel(lvl string) {
	switch strings.ToUpper(strings.TrimSpace(lvl)) {
	case "DEBUG":
		cfg.Level.SetLevel(zap.DebugLevel)
	case "INFO":
		cfg.Level.SetLevel(zap.InfoLevel)
	case "WARN":
		cfg.Level.SetLevel(zap.WarnLevel)
	case "ERROR":
		cfg.Level.SetLevel(zap.ErrorLevel)
	}
}

// Level returns the current level.
func Level() zapcore.Level {
	return cfg.Level.Level()
}

// Sync triggers a sync of the underlying zap Logger.
func Sync(ctx context.Context) {
	_ = FromContext(ctx).Sync()
}

// WithCtx is a convenience method for logging with contexts using a SugaredLogger
func WithCtx(ctx context.Context) *zap.SugaredLogger {
	return FromContext(ctx).Sugar()
}

// FromContext returns a zap.Logger with additional optional fields.
func FromContext(ctx context.Context, fields ...zap.Field) *zap.Logger {
	if ctx == nil {
		ctx = context.Background()
	}

	l, ok := ctx.Value(ctxLogKey{}).(*zap.Logger)
	if !ok || l == nil {
		l = logger
	}

	if len(fields) > 0 {
		return l.With(fields...)
	}

	return l
}

// ToContext pushes a new logger, with additional optional fields, into the context.
func ToContext(ctx context.Context, base *zap.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, ctxLogKey{}, base)
}

// AddFields is sugar for updating the in-context logger with additional fields.
func AddFields(ctx context.Context, fields ...zap.Field) context.Context {
	l := FromContext(ctx, fields...)
	return ToContext(ctx, l)
}
