// Package logger provides process-wide logging for chaptermap.
// Warnings are always printed; debug and info messages only when verbose
// mode is enabled via the --verbose flag. Output goes to stderr.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.RWMutex
	verbose bool
	level   = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	sugar   = build(os.Stderr)
)

func build(w io.Writer) *zap.SugaredLogger {
	cfg := zapcore.EncoderConfig{
		LevelKey:         "level",
		MessageKey:       "msg",
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		ConsoleSeparator: " ",
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(w), level)
	return zap.New(core).Sugar()
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		level.SetLevel(zapcore.DebugLevel)
	} else {
		level.SetLevel(zapcore.WarnLevel)
	}
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	sugar = build(w)
}

// L returns the structured logger.
func L() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	L().Debugf(format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	if IsVerbose() {
		L().Info(fmt.Sprintf("=== %s ===", name))
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	L().Infof(format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	L().Warnf(format, args...)
}

// Sync flushes buffered log entries.
func Sync() {
	_ = L().Sync()
}
