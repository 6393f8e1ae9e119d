package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestJSONEmitterSerializesEvent(t *testing.T) {
	buf := &bytes.Buffer{}
	emitter := NewJSONEmitter(buf)

	event := Event{
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:     LevelInfo,
		Event:     EventStateChanged,
		RunID:     "run-1",
		State:     "formatting",
		Progress:  10,
		Message:   "Formatting",
		Details: map[string]any{
			"device": "/dev/fd0",
		},
	}

	if err := emitter.Emit(event); err != nil {
		t.Fatalf("emit: %v", err)
	}

	line := strings.TrimSpace(buf.String())
	var decoded map[string]any
	if err := json.Unmarshal([]byte(line), &decoded); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}

	if decoded["event"] != string(EventStateChanged) {
		t.Fatalf("unexpected event name: %v", decoded["event"])
	}
	if decoded["message"] != "Formatting" {
		t.Fatalf("unexpected message: %v", decoded["message"])
	}
	if decoded["progress"] != float64(10) {
		t.Fatalf("unexpected progress: %v", decoded["progress"])
	}
	if decoded["state"] != "formatting" {
		t.Fatalf("unexpected state: %v", decoded["state"])
	}
}

func TestHumanEmitterRoutesByLevel(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	emitter := NewHumanEmitter(stdout, stderr, false, false, true)

	events := []Event{
		{Level: LevelInfo, Event: EventStateChanged, Message: "Formatting"},
		{Level: LevelInfo, Event: EventProgress, Message: "progress 10%"},
		{Level: LevelInfo, Event: EventEntryExtracted, Message: "Extracting: boot/kernel.bin"},
		{Level: LevelWarn, Event: EventWarning, Message: "you should run this installer as root"},
		{Level: LevelError, Event: EventInstallFailed, Message: "Installation failed."},
	}
	for _, event := range events {
		if err := emitter.Emit(event); err != nil {
			t.Fatalf("emit: %v", err)
		}
	}

	if !strings.Contains(stdout.String(), "Formatting") {
		t.Fatalf("expected state line on stdout, got: %q", stdout.String())
	}
	if strings.Contains(stdout.String(), "progress 10%") || strings.Contains(stdout.String(), "Extracting") {
		t.Fatalf("expected progress and entry lines to be hidden, got: %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "WARN: you should run this installer as root") {
		t.Fatalf("expected warning on stderr, got: %q", stderr.String())
	}
	if !strings.Contains(stderr.String(), "ERROR: Installation failed.") {
		t.Fatalf("expected error on stderr, got: %q", stderr.String())
	}
}

func TestHumanEmitterVerboseShowsEntries(t *testing.T) {
	stdout := &bytes.Buffer{}
	emitter := NewHumanEmitter(stdout, &bytes.Buffer{}, false, true, true)

	if err := emitter.Emit(Event{Level: LevelInfo, Event: EventEntryExtracted, Message: "Extracting: boot/kernel.bin"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if !strings.Contains(stdout.String(), "Extracting: boot/kernel.bin") {
		t.Fatalf("expected entry line in verbose mode, got: %q", stdout.String())
	}
}

func TestHumanEmitterQuietKeepsSummary(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	emitter := NewHumanEmitter(stdout, stderr, true, false, true)

	_ = emitter.Emit(Event{Level: LevelInfo, Event: EventStateChanged, Message: "Formatting"})
	_ = emitter.Emit(Event{Level: LevelWarn, Event: EventWarning, Message: "unmount failed"})
	_ = emitter.Emit(Event{Level: LevelInfo, Event: EventInstallFinished, Message: "Installation complete."})

	if strings.Contains(stdout.String(), "Formatting") || stderr.Len() != 0 {
		t.Fatalf("expected quiet mode to drop status and warnings, stdout=%q stderr=%q", stdout.String(), stderr.String())
	}
	if !strings.Contains(stdout.String(), "Installation complete.") {
		t.Fatalf("expected summary line, got: %q", stdout.String())
	}
}

func TestMultiEmitterFansOut(t *testing.T) {
	var got []EventName
	record := EmitterFunc(func(event Event) error {
		got = append(got, event.Event)
		return nil
	})
	multi := NewMultiEmitter(record, record)
	if err := multi.Emit(Event{Event: EventInstallStarted}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected both emitters to receive the event, got %v", got)
	}
}
