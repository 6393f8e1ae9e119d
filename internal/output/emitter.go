package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

type EventEmitter interface {
	Emit(event Event) error
}

// EmitterFunc adapts a function to EventEmitter.
type EmitterFunc func(event Event) error

func (f EmitterFunc) Emit(event Event) error {
	return f(event)
}

type JSONEmitter struct {
	enc *json.Encoder
	mu  sync.Mutex
}

func NewJSONEmitter(w io.Writer) *JSONEmitter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONEmitter{enc: enc}
}

func (e *JSONEmitter) Emit(event Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enc.Encode(event)
}

type HumanEmitter struct {
	stdout  io.Writer
	stderr  io.Writer
	quiet   bool
	verbose bool

	errorLabel *color.Color
	warnLabel  *color.Color
	doneLabel  *color.Color
}

func NewHumanEmitter(stdout, stderr io.Writer, quiet, verbose, noColor bool) *HumanEmitter {
	e := &HumanEmitter{
		stdout:     stdout,
		stderr:     stderr,
		quiet:      quiet,
		verbose:    verbose,
		errorLabel: color.New(color.FgRed, color.Bold),
		warnLabel:  color.New(color.FgYellow),
		doneLabel:  color.New(color.FgGreen),
	}
	if noColor {
		e.errorLabel.DisableColor()
		e.warnLabel.DisableColor()
		e.doneLabel.DisableColor()
	}
	return e
}

func (e *HumanEmitter) Emit(event Event) error {
	line := event.Message
	if line == "" {
		line = string(event.Event)
	}

	switch event.Level {
	case LevelError:
		_, err := fmt.Fprintln(e.stderr, e.errorLabel.Sprint("ERROR:"), line)
		return err
	case LevelWarn:
		if e.quiet {
			return nil
		}
		_, err := fmt.Fprintln(e.stderr, e.warnLabel.Sprint("WARN:"), line)
		return err
	}

	switch event.Event {
	case EventProgress:
		return nil
	case EventInstallFinished:
		_, err := fmt.Fprintln(e.stdout, e.doneLabel.Sprint(line))
		return err
	case EventCommandStarted, EventCommandFinished, EventEntryExtracted:
		if !e.verbose || e.quiet {
			return nil
		}
	default:
		if e.quiet {
			return nil
		}
	}
	_, err := fmt.Fprintln(e.stdout, line)
	return err
}

type MultiEmitter struct {
	emitters []EventEmitter
}

func NewMultiEmitter(emitters ...EventEmitter) *MultiEmitter {
	return &MultiEmitter{emitters: emitters}
}

func (e *MultiEmitter) Emit(event Event) error {
	for _, emitter := range e.emitters {
		if err := emitter.Emit(event); err != nil {
			return err
		}
	}
	return nil
}
