package logger

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const EnvVar = "REINO_ENV"

func New() *zap.SugaredLogger {
	var (
		logger *zap.Logger
		err    error
	)
	opts := []zap.Option{
		zap.AddStacktrace(zap.ErrorLevel),
	}

	switch strings.ToLower(os.Getenv(EnvVar)) {
	case "dev", "test":
		logger, err = zap.NewDevelopment(opts...)
	default:
		opts = append(opts, zap.Fields(zap.Field{
			Key:    EnvVar,
			Type:   zapcore.StringType,
			String: os.Getenv(EnvVar),
		}))
		logger, err = zap.NewProduction(opts...)
	}

	if err != nil {
		panic(fmt.Errorf("failed to initialize logger: %w", err))
	}

	return logger.Sugar()
}

// Nop is used by components constructed without a logger, mostly in tests.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

type contextKey struct{}

func WithLogger(ctx context.Context, log *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, contextKey{}, log)
}

func FromContext(ctx context.Context) *zap.SugaredLogger {
	log, ok := ctx.Value(contextKey{}).(*zap.SugaredLogger)
	if !ok {
		log = zap.S()
		log.Warn("no logger found in ctx - using global")
	}
	return log
}

func init() {
	logger := New()
	zap.ReplaceGlobals(logger.Desugar())
}
