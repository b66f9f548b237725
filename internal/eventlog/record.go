// Package eventlog persists the warnings and errors raised during
// monitoring passes, so degraded collections remain visible after the
// pass that logged them. Entries are written by a logrus hook during the
// pass and inspected with the events subcommands.
//
// Storage is backed by a SQLite database under the user config directory
// (shared with internal/database).
package eventlog

import "time"

// Severity labels stored with each event.
const (
	LevelWarning = "warning"
	LevelError   = "error"
)

// Event represents one persisted warning or error.
type Event struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Level      string    `json:"level"`
	Component  string    `json:"component,omitempty"`
	Repository string    `json:"repository,omitempty"`
	Server     string    `json:"server,omitempty"`
	Message    string    `json:"message"`
}
