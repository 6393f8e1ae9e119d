package output

import "time"

type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

type EventName string

const (
	EventInstallStarted  EventName = "install_started"
	EventWarning         EventName = "warning"
	EventStateChanged    EventName = "state_changed"
	EventProgress        EventName = "progress"
	EventCommandStarted  EventName = "command_started"
	EventCommandFinished EventName = "command_finished"
	EventEntryExtracted  EventName = "entry_extracted"
	EventInstallFinished EventName = "install_finished"
	EventInstallFailed   EventName = "install_failed"
)

type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     Level          `json:"level"`
	Event     EventName      `json:"event"`
	RunID     string         `json:"run_id,omitempty"`
	State     string         `json:"state,omitempty"`
	Progress  int            `json:"progress"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}

// Terminal reports whether no further events follow for the run.
func (e Event) Terminal() bool {
	return e.Event == EventInstallFinished || e.Event == EventInstallFailed
}
