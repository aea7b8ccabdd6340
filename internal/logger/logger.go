package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kailas-cloud/geofeed/internal/version"
)

// Environments with a config file under config/.
const (
	EnvLocal = "local"
	EnvProd  = "prod"
)

// NewLogger creates the zap logger for a geofeed binary.
// prod writes JSON at info, local writes colored console output at debug.
// level, if non-empty, overrides the default: debug, info, warn, error.
// Every entry carries the service name and build version.
func NewLogger(env, level, service string, opts ...zap.Option) (*zap.Logger, error) {
	var cfg zap.Config
	switch env {
	case EnvProd:
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		// Loader progress lines repeat the same message and must not be sampled away.
		cfg.Sampling = nil
	case EnvLocal:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("unknown environment %q for logger (want %s or %s)", env, EnvLocal, EnvProd)
	}

	if level != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	opts = append([]zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}, opts...)
	l, err := cfg.Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l.With(zap.String("service", service), zap.String("version", version.Version)), nil
}
