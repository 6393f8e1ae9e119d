package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jaa/vinstall/internal/output"
)

// ProgramEmitter forwards events to a running program.
type ProgramEmitter struct {
	Send func(tea.Msg)
}

func (e ProgramEmitter) Emit(event output.Event) error {
	if e.Send != nil {
		e.Send(EventMsg(event))
	}
	return nil
}

type Options struct {
	OSName string
	Device string
	Input  io.Reader
	Output io.Writer
}

// InstallFunc performs the installation, publishing progress through emitter.
type InstallFunc func(ctx context.Context, emitter output.EventEmitter) error

// Run shows the window while install runs on a single background goroutine.
// It returns install's error once both the installation and the window have
// finished.
func Run(ctx context.Context, opts Options, install InstallFunc) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	programOptions := []tea.ProgramOption{}
	if opts.Input != nil {
		programOptions = append(programOptions, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		programOptions = append(programOptions, tea.WithOutput(opts.Output))
	}
	program := tea.NewProgram(New(opts.OSName, opts.Device, cancel), programOptions...)

	result := make(chan error, 1)
	go func() {
		err := install(runCtx, ProgramEmitter{Send: program.Send})
		result <- err
		program.Send(DoneMsg{Err: err})
	}()

	if _, err := program.Run(); err != nil {
		// The window failed; stop the installation and report its outcome.
		cancel()
		if installErr := <-result; installErr != nil {
			return installErr
		}
		return err
	}
	return <-result
}
