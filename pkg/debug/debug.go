// Package debug provides conditional debug logging for fsglow.
//
// Debug logging is enabled by setting the FSGLOW_DEBUG environment variable:
//
//	FSGLOW_DEBUG=1 fsglow ~/projects
//
// When enabled, debug messages are written to stderr with timestamps.
// When disabled (default), all debug functions are no-ops with zero overhead.
// Stderr is a safe sink even while the TUI owns the terminal: the program
// runs in the alternate screen, so output surfaces after exit or when stderr
// is redirected to a file.
package debug

import (
	"log"
	"os"
	"time"
)

var (
	// enabled is true when FSGLOW_DEBUG env var is set
	enabled bool
	// logger writes to stderr with [FSGLOW] prefix
	logger *log.Logger
)

func init() {
	if os.Getenv("FSGLOW_DEBUG") != "" {
		enabled = true
		logger = log.New(os.Stderr, "[FSGLOW] ", log.Ltime|log.Lmicroseconds)
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
		logger = log.New(os.Stderr, "[FSGLOW] ", log.Ltime|log.Lmicroseconds)
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

// LogEnterExit logs function entry and exit with timing.
// Usage:
//
//	func buildTree() {
//	    defer debug.LogEnterExit("buildTree")()
//	    // ...
//	}
func LogEnterExit(name string) func() {
	if !enabled {
		return func() {}
	}
	logger.Printf("-> %s", name)
	start := time.Now()
	return func() {
		logger.Printf("<- %s (%v)", name, time.Since(start))
	}
}
