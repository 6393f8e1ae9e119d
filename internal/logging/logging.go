package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelEnv overrides the level chosen from the CLI flags.
const LevelEnv = "VINSTALL_LOG_LEVEL"

type Options struct {
	Verbose bool
	Quiet   bool
	JSON    bool
}

// New builds the diagnostic logger. Diagnostics always go to w (stderr in
// the CLI) so stdout stays reserved for events.
func New(w io.Writer, opts Options) *zap.Logger {
	level := zapcore.WarnLevel
	switch {
	case opts.Verbose:
		level = zapcore.DebugLevel
	case opts.Quiet:
		level = zapcore.ErrorLevel
	}
	if raw := strings.TrimSpace(os.Getenv(LevelEnv)); raw != "" {
		level = parseLevel(raw, level)
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	encoderConfig.CallerKey = ""
	var encoder zapcore.Encoder
	if opts.JSON {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zap.NewAtomicLevelAt(level))
	return zap.New(core)
}

func parseLevel(raw string, fallback zapcore.Level) zapcore.Level {
	switch strings.ToUpper(raw) {
	case "TRACE", "DEBUG":
		return zapcore.DebugLevel
	case "INFO":
		return zapcore.InfoLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return fallback
	}
}
