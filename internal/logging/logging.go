// Package logging wraps zap into the console line style spec.md §7
// requires ([info]/[warn]/[error]/[debug] prefixes) while keeping
// structured fields available for anything running as a long-lived
// service, like the relay.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger satisfies both scenario.Logger and relay.Logger: Infof,
// Warnf, Errorf, Debugf, each formatting its arguments before handing
// the resulting line to zap as a single message field.
type Logger struct {
	zap *zap.Logger
}

// New builds a console logger at InfoLevel, or DebugLevel when
// verbose is set. It writes to stderr, matching the teacher's own
// log.Printf-to-stderr default.
func New(verbose bool) (*Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build zap logger: %w", err)
	}
	return &Logger{zap: z}, nil
}

// Nop returns a logger that discards everything, for tests.
func Nop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.zap.Info("[info] " + fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.zap.Warn("[warn] " + fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.zap.Error("[error] " + fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.zap.Debug("[debug] " + fmt.Sprintf(format, args...))
}

// Sync flushes any buffered log entries. Callers should defer it in
// main; the error is expected and ignored when stderr is a tty (a
// long-standing zap quirk on some platforms).
func (l *Logger) Sync() {
	_ = l.zap.Sync()
}
