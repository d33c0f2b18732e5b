// Package debug provides conditional debug logging for lx.
//
// Debug logging is enabled by setting the LX_DEBUG environment variable:
//
//	LX_DEBUG=1 lx -atlas demo.yaml
//
// When enabled, debug messages are written to stderr with timestamps.
// When disabled (default), all debug functions are no-ops with zero
// overhead. The interaction engine logs its silent no-ops (terminal-node
// zooms, dangling references, input during a locked transition) through
// here; they are expected inputs, never user-facing errors.
package debug

import (
	"log"
	"os"
	"time"
)

var (
	// enabled is true when the LX_DEBUG env var is set
	enabled bool
	// logger writes to stderr with [LX_DEBUG] prefix
	logger *log.Logger
)

func init() {
	if os.Getenv("LX_DEBUG") != "" {
		enabled = true
		logger = log.New(os.Stderr, "[LX_DEBUG] ", log.Ltime|log.Lmicroseconds)
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
		logger = log.New(os.Stderr, "[LX_DEBUG] ", log.Ltime|log.Lmicroseconds)
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

// LogIf writes a debug message only if the condition is true.
func LogIf(cond bool, format string, args ...any) {
	if !enabled || !cond {
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
//	func myFunc() {
//	    defer debug.LogEnterExit("myFunc")()
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

// Dump logs a value with its type for debugging complex structures.
func Dump(name string, v any) {
	if !enabled {
		return
	}
	logger.Printf("%s: %T = %+v", name, v, v)
}

// Section logs a section header for visual organization in debug output.
func Section(name string) {
	if !enabled {
		return
	}
	logger.Printf("=== %s ===", name)
}
