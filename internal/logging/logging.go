// Package logging holds the process-wide diagnostic logger. It stays
// disabled until Setup runs so library code can log unconditionally without
// polluting output in tests or when the CLI wants quiet mode.
package logging

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.Mutex
	logger zerolog.Logger
	ready  bool
)

// Setup enables console logging to stderr. With verbose set, debug events
// are emitted as well.
func Setup(verbose bool) {
	mu.Lock()
	defer mu.Unlock()

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	w := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}
	logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
	ready = true
}

func Debugf(format string, args ...any) {
	if ready {
		logger.Debug().Msg(fmt.Sprintf(format, args...))
	}
}

func Infof(format string, args ...any) {
	if ready {
		logger.Info().Msg(fmt.Sprintf(format, args...))
	}
}

func Warnf(format string, args ...any) {
	if ready {
		logger.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func Errorf(format string, args ...any) {
	if ready {
		logger.Error().Msg(fmt.Sprintf(format, args...))
	}
}
