// Package trust is the scheduler's logging collaborator: a small,
// leveled wrapper (Fatalf/Errorf/Warnf/Infof/Debugf/Statsf, mask-based
// SetLevel) backed by zerolog.
package trust

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// MaskLevel is a bitmask level control: callers can pass combinations
// like ErrorMask|DebugMask to SetLevel to control exactly what gets
// written.
type MaskLevel int

const (
	Nothing   MaskLevel = 0x0
	ErrorMask MaskLevel = 0x1
	WarnMask  MaskLevel = 0x2
	InfoMask  MaskLevel = 0x4
	DebugMask MaskLevel = 0x8
	StatsMask MaskLevel = 0x10
)

var (
	mu     sync.Mutex
	level  = ErrorMask | WarnMask | InfoMask | DebugMask | StatsMask
	logger = newConsoleLogger(os.Stdout)

	// statsLimiter throttles Statsf, which is typically driven from the
	// preemption timer handler and would otherwise emit once per tick.
	statsLimiter = rate.NewLimiter(rate.Limit(50), 50)
)

func newConsoleLogger(w io.Writer) zerolog.Logger {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000"}
	return zerolog.New(cw).With().Timestamp().Logger()
}

// SetOutput redirects all subsequent log lines to w. Tests use this to
// capture output instead of a stdout console writer.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = newConsoleLogger(w)
}

// SetLevel sets the active mask directly and returns the previous one.
func SetLevel(mask MaskLevel) MaskLevel {
	mu.Lock()
	defer mu.Unlock()
	prev := level
	if mask&0x1f == 0 {
		fmt.Fprintln(os.Stderr, "trust.SetLevel is turning off log messages")
	}
	level = mask & 0x1f
	return prev
}

func Level() MaskLevel {
	mu.Lock()
	defer mu.Unlock()
	return level
}

func enabled(mask MaskLevel) bool {
	mu.Lock()
	defer mu.Unlock()
	return level&mask != 0
}

// Fatalf logs at panic severity and then panics, mirroring
// CLogger::Write(..., LogPanic, ...) aborting the process in the
// original. Not maskable: fatal conditions are never suppressed.
func Fatalf(source string, format string, params ...interface{}) {
	logger.Panic().Str("source", source).Msg(fmt.Sprintf(format, params...))
}

func Errorf(format string, params ...interface{}) {
	if !enabled(ErrorMask) {
		return
	}
	logger.Error().Msg(fmt.Sprintf(format, params...))
}

func Warnf(format string, params ...interface{}) {
	if !enabled(WarnMask) {
		return
	}
	logger.Warn().Msg(fmt.Sprintf(format, params...))
}

func Infof(format string, params ...interface{}) {
	if !enabled(InfoMask) {
		return
	}
	logger.Info().Msg(fmt.Sprintf(format, params...))
}

func Debugf(format string, params ...interface{}) {
	if !enabled(DebugMask) {
		return
	}
	logger.Debug().Msg(fmt.Sprintf(format, params...))
}

// Statsf reports a rate-limited diagnostic under the given category. The
// limiter keeps a misbehaving preemption timer from flooding the sink.
func Statsf(category string, format string, params ...interface{}) {
	if !enabled(StatsMask) {
		return
	}
	if !statsLimiter.Allow() {
		return
	}
	logger.Info().Str("category", category).Msg(fmt.Sprintf(format, params...))
}
