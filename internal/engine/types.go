package engine

import (
	"time"

	"github.com/jaa/vinstall/internal/platform"
)

type ExecSpec struct {
	Bin            string
	Args           []string
	Dir            string
	Timeout        time.Duration
	DisplayCommand string
}

type ExecResult struct {
	ExitCode    int
	Duration    time.Duration
	Interrupted bool
	TimedOut    bool
	StdoutTail  string
	StderrTail  string
	Err         error
}

// Failed reports whether the command should be treated as a step failure.
// Launch failures and non-zero exits are not distinguished.
func (r ExecResult) Failed() bool {
	return r.ExitCode != 0 || r.Err != nil
}

type State string

const (
	StateIdle              State = "idle"
	StateFormatting        State = "formatting"
	StateMounting          State = "mounting"
	StateExtracting        State = "extracting"
	StateUnmounting        State = "unmounting"
	StateWritingBootSector State = "writing_boot_sector"
	StateDone              State = "done"
	StateFailed            State = "failed"
)

// Progress budget per step, in percent. Mount and unmount contribute nothing.
const (
	BudgetFormat     = 10
	BudgetExtract    = 80
	BudgetBootSector = 10
)

const (
	StatusReady      = "Ready to install."
	StatusFormatting = "Formatting"
	StatusMounting   = "Mounting"
	StatusCopying    = "Copying files"
	StatusUnmounting = "Unmounting"
	StatusBootSector = "Writing boot sector"
	StatusComplete   = "Installation complete."
	StatusFailed     = "Installation failed."
)

// Bundle locates the files shipped with the installer.
type Bundle struct {
	Archive     string
	BootSector  string
	DOSUtilDir  string
	UnixUtilDir string
}

type Request struct {
	Platform       platform.Platform
	OSName         string
	Device         string
	Bundle         Bundle
	MountPoint     *MountPoint
	MetadataPrefix string
	Timeout        time.Duration
	DryRun         bool
	Superuser      bool
}

type Result struct {
	RunID       string
	State       State
	Progress    int
	Status      string
	Commands    [][]string
	Entries     int
	Files       int
	Directories int
	Skipped     int
	Warnings    error
}
