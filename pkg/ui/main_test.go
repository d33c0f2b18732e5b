package ui

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	// A stray auto-close timer or forced-poll watcher in the developer's
	// shell would change test behavior; strip them up front.
	os.Unsetenv("LX_TUI_AUTOCLOSE_MS")
	os.Unsetenv("LX_FORCE_POLL")
	os.Unsetenv("LX_DEBUG")

	os.Exit(m.Run())
}
