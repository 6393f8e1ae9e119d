package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jaa/vinstall/internal/engine"
	"github.com/jaa/vinstall/internal/exitcode"
)

type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

func mapExitCode(err error) int {
	if err == nil {
		return exitcode.Success
	}
	var coded *ExitError
	if errors.As(err, &coded) {
		return coded.Code
	}
	message := err.Error()
	if strings.Contains(message, "unknown command") || strings.Contains(message, "unknown flag") {
		return exitcode.InvalidUsage
	}
	return exitcode.RuntimeFailure
}

var kindExitCodes = map[engine.ErrorKind]int{
	engine.FormatFailed:          exitcode.FormatFailed,
	engine.DeviceNotFound:        exitcode.DeviceNotFound,
	engine.PermissionDenied:      exitcode.PermissionDenied,
	engine.MountFailed:           exitcode.MountFailed,
	engine.ExtractionFailed:      exitcode.ExtractionFailed,
	engine.BootSectorWriteFailed: exitcode.BootSectorFailed,
}

// installFailure maps an installer error to its exit code. The installer has
// already reported the details as an event, so the returned message is brief.
func installFailure(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, engine.ErrInterrupted) {
		return withExitCode(exitcode.Interrupted, err)
	}
	var stepErr *engine.StepError
	if errors.As(err, &stepErr) {
		code, ok := kindExitCodes[stepErr.Kind]
		if !ok {
			code = exitcode.RuntimeFailure
		}
		return withExitCode(code, fmt.Errorf("installation failed at step %s (%s)", stepErr.Step, stepErr.Kind))
	}
	return withExitCode(exitcode.RuntimeFailure, err)
}
