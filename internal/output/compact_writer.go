package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/jaa/vinstall/internal/output/compact"
	"golang.org/x/term"
)

type CompactOptions struct {
	Interactive bool
	Width       int
}

// CompactProgressEmitter keeps a single in-place progress line on
// interactive terminals and forwards every other event to next. The active
// line is cleared before next writes so persistent lines never interleave
// with it.
type CompactProgressEmitter struct {
	dst         io.Writer
	next        EventEmitter
	interactive bool
	width       int

	mu         sync.Mutex
	machine    *compact.StateMachine
	activeLine string
}

func NewCompactProgressEmitter(dst io.Writer, next EventEmitter) *CompactProgressEmitter {
	return NewCompactProgressEmitterWithOptions(dst, next, CompactOptions{
		Interactive: SupportsInPlaceUpdates(dst),
	})
}

func NewCompactProgressEmitterWithOptions(dst io.Writer, next EventEmitter, opts CompactOptions) *CompactProgressEmitter {
	width := opts.Width
	if width <= 0 {
		width = 24
	}
	return &CompactProgressEmitter{
		dst:         dst,
		next:        next,
		interactive: opts.Interactive,
		width:       width,
		machine:     compact.NewStateMachine(),
	}
}

// SupportsInPlaceUpdates reports whether dst is a terminal.
func SupportsInPlaceUpdates(dst io.Writer) bool {
	file, ok := dst.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func (e *CompactProgressEmitter) Emit(event Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.observeLocked(event)

	if event.Event != EventProgress && e.next != nil {
		if err := e.clearActiveLineLocked(); err != nil {
			return err
		}
		if err := e.next.Emit(event); err != nil {
			return err
		}
	}
	if event.Terminal() {
		return nil
	}
	return e.renderLocked()
}

// Snapshot exposes the folded progress state.
func (e *CompactProgressEmitter) Snapshot() compact.ProgressModel {
	return e.machine.Snapshot()
}

func (e *CompactProgressEmitter) observeLocked(event Event) {
	switch event.Event {
	case EventInstallStarted:
		e.machine.Reset()
		e.machine.Begin()
	case EventStateChanged:
		e.machine.SetState(event.State, event.Message)
	case EventEntryExtracted:
		if path, ok := event.Details["path"].(string); ok {
			e.machine.SetEntry(path)
		}
	case EventWarning:
		e.machine.AddWarning()
	case EventInstallFinished:
		e.machine.Finish(false, event.Message)
	case EventInstallFailed:
		e.machine.Finish(true, event.Message)
	}
	e.machine.SetPercent(event.Progress)
}

func (e *CompactProgressEmitter) renderLocked() error {
	if !e.interactive {
		return nil
	}
	line := compact.RenderStatusLine(e.machine.Snapshot(), e.width)
	if line == e.activeLine {
		return nil
	}
	e.activeLine = line
	_, err := fmt.Fprintf(e.dst, "\r\033[2K%s", line)
	return err
}

func (e *CompactProgressEmitter) clearActiveLineLocked() error {
	if !e.interactive || e.activeLine == "" {
		return nil
	}
	e.activeLine = ""
	_, err := fmt.Fprint(e.dst, "\r\033[2K")
	return err
}
