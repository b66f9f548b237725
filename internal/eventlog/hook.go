package eventlog

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Hook mirrors logrus entries at warning level and above into the event
// repository. A failed save is reported once to stderr via logrus itself
// but never propagates: persistence problems must not break logging.
type Hook struct {
	repo       Repository
	repository string
}

// NewHook returns a hook writing to repo, tagging every event with the
// repository under monitoring.
func NewHook(repo Repository, repository string) *Hook {
	return &Hook{repo: repo, repository: repository}
}

// Levels implements logrus.Hook.
func (h *Hook) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
		logrus.WarnLevel,
	}
}

// Fire implements logrus.Hook.
func (h *Hook) Fire(entry *logrus.Entry) error {
	level := LevelWarning
	if entry.Level <= logrus.ErrorLevel {
		level = LevelError
	}

	event := &Event{
		Timestamp:  entry.Time.UTC(),
		Level:      level,
		Repository: h.repository,
		Message:    entry.Message,
	}
	if v, ok := entry.Data["component"]; ok {
		event.Component = fmt.Sprint(v)
	}
	if v, ok := entry.Data["server"]; ok {
		event.Server = fmt.Sprint(v)
	}
	if v, ok := entry.Data[logrus.ErrorKey]; ok {
		event.Message = fmt.Sprintf("%s: %v", event.Message, v)
	}

	// Intentionally swallow the error: see type comment.
	_ = h.repo.Save(event)
	return nil
}
