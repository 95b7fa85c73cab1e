// Package logging constructs the run's zap.Logger, matching the level
// discipline spec §7 names: Debug for clamp-and-log numeric snapping,
// Info for per-file/per-tree progress, Warn for recoverable per-tree
// skips, Error/Fatal for ConfigError/MissingDataFile.
package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level mirrors zap's levels so callers outside this package don't need
// to import zapcore directly.
type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

// New builds a logger: a human console encoder when stderr is a TTY,
// JSON otherwise (batch runs piped into log aggregation), at the given
// minimum level.
func New(level Level) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if isatty.IsTerminal(os.Stderr.Fd()) {
		consoleCfg := zap.NewDevelopmentEncoderConfig()
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(consoleCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	return zap.New(core)
}

// Quiet returns a logger that discards everything below Error, for the
// CLI's --quiet flag.
func Quiet() *zap.Logger { return New(LevelError) }

// Verbose returns a logger at Debug level, for the CLI's --verbose
// flag.
func Verbose() *zap.Logger { return New(LevelDebug) }
