package logging

import (
	"io"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides optional verbose logging and lightweight timing helpers
// on top of a zap sugared logger.
type Logger struct {
	Sugar   *zap.SugaredLogger
	Verbose bool
}

// New builds a console-encoded logger writing to writer. Debug level is
// enabled when verbose is set.
func New(writer io.Writer, verbose bool) Logger {
	if writer == nil {
		return Nop()
	}
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(writer),
		level,
	)
	return Logger{Sugar: zap.New(core).Sugar(), Verbose: verbose}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return Logger{Sugar: zap.NewNop().Sugar()}
}

// FromZap wraps an existing zap logger, e.g. one built by zaptest.
func FromZap(z *zap.Logger, verbose bool) Logger {
	return Logger{Sugar: z.Sugar(), Verbose: verbose}
}

func (l Logger) sugar() *zap.SugaredLogger {
	if l.Sugar == nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar
}

func (l Logger) Infof(format string, args ...any) {
	l.sugar().Infof(format, args...)
}

func (l Logger) Warnf(format string, args ...any) {
	l.sugar().Warnf(format, args...)
}

func (l Logger) Verbosef(format string, args ...any) {
	if !l.Verbose {
		return
	}
	l.sugar().Debugf(format, args...)
}

// With returns a logger carrying the given key/value pairs.
func (l Logger) With(args ...any) Logger {
	return Logger{Sugar: l.sugar().With(args...), Verbose: l.Verbose}
}

// Sync flushes buffered entries.
func (l Logger) Sync() {
	_ = l.sugar().Sync()
}

// Measure returns a stop function that logs the elapsed time when called.
func (l Logger) Measure(label string) func() {
	if !l.Verbose {
		return func() {}
	}
	start := time.Now()
	return func() {
		elapsed := time.Since(start).Round(time.Millisecond)
		l.Verbosef("%s took %s", label, elapsed)
	}
}
