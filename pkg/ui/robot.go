package ui

import (
	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/layerlens/pkg/nav"
)

// RobotState encodes a snapshot as indented JSON: the -robot-state output,
// machine-readable for scripted inspection.
func RobotState(snap nav.Snapshot) ([]byte, error) {
	return json.MarshalIndent(snap, "", "  ")
}
