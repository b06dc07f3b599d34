// Package debug provides conditional debug logging for cpulse.
//
// Debug logging is enabled by setting the CPULSE_DEBUG environment
// variable:
//
//	CPULSE_DEBUG=1 cpulse
//
// When enabled, debug messages are written to stderr with timestamps.
// When disabled (default), all debug functions are no-ops. The TUI owns
// the terminal, so stderr-under-flag is the only place diagnostics are
// allowed to go — notably the status-poll failures that are logged but
// never surfaced to the user.
package debug

import (
	"log"
	"os"
	"time"
)

var (
	enabled bool
	logger  *log.Logger
)

func init() {
	if os.Getenv("CPULSE_DEBUG") != "" {
		enabled = true
		logger = log.New(os.Stderr, "[CPULSE_DEBUG] ", log.Ltime|log.Lmicroseconds)
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled
}

// SetEnabled allows programmatic control of debug logging.
func SetEnabled(e bool) {
	enabled = e
	if e && logger == nil {
		logger = log.New(os.Stderr, "[CPULSE_DEBUG] ", log.Ltime|log.Lmicroseconds)
	}
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if !enabled {
		return
	}
	logger.Printf("%s took %v", name, d)
}

// LogErr logs a labeled error, if any. Used for fire-and-forget
// failures that must never reach the user.
func LogErr(context string, err error) {
	if !enabled || err == nil {
		return
	}
	logger.Printf("%s: %v", context, err)
}
