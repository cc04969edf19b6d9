// Where: internal/infra/logging/logging.go
// What: Console logger construction.
// Why: Diagnostics go to stderr so stdout stays readable for workflow output.
package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	Out     io.Writer
	Verbose bool
	// Level overrides the verbosity derived level when set (debug, info, warn, error).
	Level string
}

// New returns a console logger. Warnings and errors are logged by default;
// Verbose lowers the threshold to debug.
func New(opts Options) *zap.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(EncoderConfig()),
		zapcore.Lock(zapcore.AddSync(out)),
		ResolveLevel(opts.Level, opts.Verbose),
	)
	return zap.New(core, zap.AddStacktrace(zapcore.DPanicLevel))
}

// EncoderConfig is the console encoder layout.
func EncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = "T"
	cfg.LevelKey = "L"
	cfg.NameKey = "N"
	cfg.CallerKey = ""
	cfg.MessageKey = "M"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

// ResolveLevel maps a level name to a zap level. Unknown names fall back to
// warn, or debug when verbose is set.
func ResolveLevel(name string, verbose bool) zapcore.Level {
	if level, ok := parseLevel(name); ok {
		return level
	}
	if verbose {
		return zapcore.DebugLevel
	}
	return zapcore.WarnLevel
}

// KnownLevel reports whether name is accepted by ResolveLevel.
func KnownLevel(name string) bool {
	_, ok := parseLevel(name)
	return ok
}

func parseLevel(name string) (zapcore.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug", "trace":
		return zapcore.DebugLevel, true
	case "info":
		return zapcore.InfoLevel, true
	case "warn", "warning":
		return zapcore.WarnLevel, true
	case "error":
		return zapcore.ErrorLevel, true
	}
	return zapcore.WarnLevel, false
}
