// Package logger provides leveled logging for askdoc.
// Debug, Info and section headers are printed only when verbose mode is
// enabled via the --verbose flag; warnings and errors are always printed.
// Output goes to stderr by default so it never mixes with answers on stdout.
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
	output  io.Writer = os.Stderr
	level             = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	sugar             = build(os.Stderr)
)

// build creates a console logger writing "[LEVEL] message" lines to w.
func build(w io.Writer) *zap.SugaredLogger {
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         "level",
		EncodeLevel:      bracketLevel,
		ConsoleSeparator: " ",
	})
	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(w)), level)
	return zap.New(core).Sugar()
}

func bracketLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + l.CapitalString() + "]")
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
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
	output = w
	sugar = build(w)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	current().Debugf(format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	current().Infof(format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	current().Warnf(format, args...)
}

// Error prints an error message.
func Error(format string, args ...any) {
	current().Errorf(format, args...)
}
