// Package logging configures the process-wide logrus logger. Output goes
// to stderr; when a log file is configured, entries are duplicated there
// so warnings survive the terminal session.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Setup configures the standard logger. logFile may be empty, in which
// case entries only go to stderr. The returned closer is nil when no
// file was opened.
func Setup(logFile string, verbose bool) (io.Closer, error) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if logFile == "" {
		return nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return nil, fmt.Errorf("logging: failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: failed to open %s: %w", logFile, err)
	}

	logrus.SetOutput(io.MultiWriter(os.Stderr, f))
	return f, nil
}

// Component returns a logger entry tagged with a component name, the
// field the event log hook picks up.
func Component(name string) *logrus.Entry {
	return logrus.WithField("component", name)
}
