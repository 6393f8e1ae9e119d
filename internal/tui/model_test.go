package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jaa/vinstall/internal/output"
)

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func TestModelTracksEvents(t *testing.T) {
	m := New("Linux", "/dev/fd0", nil)
	require.Contains(t, m.View(), "Ready to install.")
	require.Contains(t, m.View(), "Visopsys installer (Linux)")

	m, _ = update(t, m, EventMsg{Event: output.EventStateChanged, Message: "Formatting"})
	m, _ = update(t, m, EventMsg{Event: output.EventProgress, Progress: 10})
	m, _ = update(t, m, EventMsg{Event: output.EventStateChanged, Message: "Copying files", Progress: 10})
	m, _ = update(t, m, EventMsg{Event: output.EventEntryExtracted, Message: "boot/kernel.bin", Progress: 36})
	m, _ = update(t, m, EventMsg{Event: output.EventWarning, Message: "you should run this installer as root"})

	require.Equal(t, 36, m.Percent())
	require.Equal(t, "Copying files", m.Status())
	view := m.View()
	require.Contains(t, view, "Extracting: boot/kernel.bin")
	require.Contains(t, view, "you should run this installer as root")
	require.Contains(t, view, " 36%")
}

func TestModelProgressNeverMovesBackwards(t *testing.T) {
	m := New("", "A:", nil)
	m, _ = update(t, m, EventMsg{Event: output.EventProgress, Progress: 50})
	m, _ = update(t, m, EventMsg{Event: output.EventStateChanged, Progress: 0, Message: "Writing boot sector"})
	require.Equal(t, 50, m.Percent())
}

func TestModelCtrlCCancelsOnce(t *testing.T) {
	calls := 0
	m := New("Linux", "/dev/fd0", func() { calls++ })

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.Nil(t, cmd)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.Equal(t, 1, calls)
	require.Equal(t, "Cancelling...", m.Status())

	m, _ = update(t, m, EventMsg{Event: output.EventStateChanged, Message: "Unmounting"})
	require.Equal(t, "Cancelling...", m.Status())
}

func TestModelQuitsWhenDone(t *testing.T) {
	m := New("Linux", "/dev/fd0", nil)
	m, _ = update(t, m, EventMsg{Event: output.EventInstallFailed, Message: "Installation failed. unable to format the device"})
	m, cmd := update(t, m, DoneMsg{Err: errors.New("installation failed at step format")})
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())

	view := m.View()
	require.Contains(t, view, "Installation failed.")
	require.Contains(t, view, "installation failed at step format")
	require.False(t, strings.Contains(view, "ctrl+c to cancel"))
}

func TestProgramEmitterSends(t *testing.T) {
	var got []tea.Msg
	emitter := ProgramEmitter{Send: func(msg tea.Msg) { got = append(got, msg) }}
	require.NoError(t, emitter.Emit(output.Event{Event: output.EventProgress, Progress: 10}))
	require.Len(t, got, 1)
	require.Equal(t, 10, got[0].(EventMsg).Progress)
}

func TestRunReturnsInstallError(t *testing.T) {
	var out bytes.Buffer
	want := errors.New("boom")
	err := Run(context.Background(), Options{
		OSName: "Linux",
		Device: "/dev/fd0",
		Input:  strings.NewReader(""),
		Output: &out,
	}, func(ctx context.Context, emitter output.EventEmitter) error {
		_ = emitter.Emit(output.Event{Event: output.EventStateChanged, Message: "Formatting"})
		return want
	})
	require.ErrorIs(t, err, want)
}
