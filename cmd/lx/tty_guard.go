package main

import (
	"os"
	"strings"
)

// init runs before Bubble Tea acquires the terminal (and before any TUI
// starts).
//
// In some PTY capture environments, terminal background detection can emit
// OSC/DSR control sequences to stdout. Those sequences are harmless in a
// real terminal but corrupt the JSON that -robot-state consumers parse.
//
// Robot-mode invocations are treated as non-interactive by setting CI=1
// early; termenv uses CI to disable TTY probing.
func init() {
	if os.Getenv("CI") != "" {
		return
	}

	if !shouldSuppressTTYQueries(os.Args, os.Getenv("LX_ROBOT") == "1") {
		return
	}

	_ = os.Setenv("CI", "1")
}

func shouldSuppressTTYQueries(args []string, envRobot bool) bool {
	if envRobot {
		return true
	}

	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		switch strings.TrimLeft(arg, "-") {
		case "robot-state", "version", "help":
			return true
		}
	}

	return false
}
