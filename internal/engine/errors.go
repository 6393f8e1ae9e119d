package engine

import (
	"errors"
	"strings"

	"github.com/jaa/vinstall/internal/platform"
)

var ErrInterrupted = errors.New("installation interrupted")

type ErrorKind string

const (
	FormatFailed          ErrorKind = "format_failed"
	DeviceNotFound        ErrorKind = "device_not_found"
	PermissionDenied      ErrorKind = "permission_denied"
	MountFailed           ErrorKind = "mount_failed"
	ExtractionFailed      ErrorKind = "extraction_failed"
	UnmountFailed         ErrorKind = "unmount_failed"
	BootSectorWriteFailed ErrorKind = "boot_sector_write_failed"
	UnknownPlatform       ErrorKind = "unknown_platform"
	NotSuperuser          ErrorKind = "not_superuser"
)

// Fatal reports whether an error of this kind stops the installation.
func (k ErrorKind) Fatal() bool {
	switch k {
	case UnmountFailed, UnknownPlatform, NotSuperuser:
		return false
	default:
		return true
	}
}

// StepError is the single user-facing message produced by a failed step.
type StepError struct {
	Kind    ErrorKind
	Step    platform.Step
	Device  string
	Message string
	Stderr  string
	Err     error
}

func (e *StepError) Error() string {
	message := e.Message
	if message == "" {
		message = string(e.Kind)
	}
	if e.Err != nil {
		message += ": " + e.Err.Error()
	}
	if line := firstLine(e.Stderr); line != "" {
		message += " (" + line + ")"
	}
	return message
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first StepError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr.Kind, true
	}
	return "", false
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if index := strings.IndexByte(text, '\n'); index >= 0 {
		text = text[:index]
	}
	return strings.TrimSpace(text)
}
