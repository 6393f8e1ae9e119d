package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/jaa/vinstall/internal/archive"
	"github.com/jaa/vinstall/internal/output"
	"github.com/jaa/vinstall/internal/platform"
)

// Installer runs the installation pipeline:
//
//	format -> [device checks, mount] -> extract -> [unmount] -> boot sector
//
// Bracketed steps only run on platforms that copy files through a mount.
// One Installer may be reused, but Install calls must not overlap.
type Installer struct {
	Runner        ExecRunner
	OpenArchive   archive.Opener
	Emitter       output.EventEmitter
	Logger        *zap.Logger
	StatDevice    func(path string) error
	CheckWritable func(path string) error
	Now           func() time.Time
	NewRunID      func() string
}

func NewInstaller(runner ExecRunner, emitter output.EventEmitter, logger *zap.Logger) *Installer {
	if emitter == nil {
		emitter = noOpEmitter{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Installer{
		Runner:        runner,
		OpenArchive:   archive.OpenZip,
		Emitter:       emitter,
		Logger:        logger,
		StatDevice:    statDevice,
		CheckWritable: platform.CheckWritable,
		Now:           time.Now,
		NewRunID:      uuid.NewString,
	}
}

type noOpEmitter struct{}

func (noOpEmitter) Emit(event output.Event) error {
	return nil
}

func statDevice(path string) error {
	_, err := os.Stat(path)
	return err
}

// run is the state of one installation attempt.
type run struct {
	installer *Installer
	req       Request
	logger    *zap.Logger
	vars      platform.Vars
	progress  progressTracker
	result    Result
	warnings  *multierror.Error
}

// Install executes the pipeline once. The returned error is nil on success,
// ErrInterrupted when ctx is cancelled, or a *StepError for the first fatal
// step. Non-fatal problems are collected in Result.Warnings.
func (i *Installer) Install(ctx context.Context, req Request) (Result, error) {
	i.applyDefaults()

	if req.MountPoint == nil && req.Platform.UsesMount() {
		req.MountPoint = NewMountPoint("")
		defer func() {
			if err := req.MountPoint.Remove(); err != nil {
				i.Logger.Warn("mount point cleanup failed", zap.Error(err))
			}
		}()
	}
	if req.MetadataPrefix == "" {
		req.MetadataPrefix = archive.MetadataPrefix
	}

	r := &run{
		installer: i,
		req:       req,
		result: Result{
			RunID:  i.NewRunID(),
			State:  StateIdle,
			Status: StatusReady,
		},
	}
	r.logger = i.Logger.With(zap.String("run_id", r.result.RunID), zap.String("platform", req.Platform.String()))
	r.vars = platform.Vars{
		Device:      req.Device,
		BootImage:   req.Bundle.BootSector,
		DOSUtilDir:  req.Bundle.DOSUtilDir,
		UnixUtilDir: req.Bundle.UnixUtilDir,
	}
	if req.MountPoint != nil {
		r.vars.MountPoint = req.MountPoint.Planned()
	}
	r.progress.onChange = func(value int) {
		r.emit(output.LevelInfo, output.EventProgress, "", nil)
	}

	r.start()
	err := r.execute(ctx)
	return r.finish(err)
}

func (i *Installer) applyDefaults() {
	if i.Emitter == nil {
		i.Emitter = noOpEmitter{}
	}
	if i.Logger == nil {
		i.Logger = zap.NewNop()
	}
	if i.OpenArchive == nil {
		i.OpenArchive = archive.OpenZip
	}
	if i.StatDevice == nil {
		i.StatDevice = statDevice
	}
	if i.CheckWritable == nil {
		i.CheckWritable = platform.CheckWritable
	}
	if i.Now == nil {
		i.Now = time.Now
	}
	if i.NewRunID == nil {
		i.NewRunID = uuid.NewString
	}
}

func (r *run) start() {
	r.emit(output.LevelInfo, output.EventInstallStarted, fmt.Sprintf("installing to %s (%s)", r.req.Device, r.req.Platform), map[string]any{
		"device":   r.req.Device,
		"platform": r.req.Platform.String(),
		"os_name":  r.req.OSName,
		"archive":  r.req.Bundle.Archive,
		"dry_run":  r.req.DryRun,
	})

	for _, notice := range platform.StartupNotices(r.req.Platform, r.req.OSName, r.req.Superuser) {
		var warning error
		switch notice.Code {
		case platform.NoticeUnknownPlatform:
			warning = &StepError{Kind: UnknownPlatform, Message: notice.Message}
		case platform.NoticeNotSuperuser:
			warning = &StepError{Kind: NotSuperuser, Message: notice.Message}
		default:
			warning = errors.New(notice.Message)
		}
		r.warn(warning, map[string]any{"code": string(notice.Code), "title": notice.Title})
	}
}

func (r *run) execute(ctx context.Context) error {
	if err := r.format(ctx); err != nil {
		return err
	}

	if r.req.Platform.UsesMount() {
		if err := r.checkDevice(); err != nil {
			return err
		}
		if err := r.mount(ctx); err != nil {
			return err
		}
	}

	extractErr := r.extract(ctx)

	// The device must not stay mounted, whatever happened during extraction.
	if r.req.Platform.UsesMount() {
		r.unmount(context.WithoutCancel(ctx))
	}
	if extractErr != nil {
		return extractErr
	}

	return r.writeBootSector(ctx)
}

func (r *run) format(ctx context.Context) error {
	r.setState(StateFormatting, StatusFormatting)
	argv, err := platform.Command(r.req.Platform, platform.StepFormat, r.vars)
	if err != nil {
		return r.stepError(FormatFailed, platform.StepFormat, r.deviceMessage("unable to format the device %q"), err)
	}
	if err := r.runCommand(ctx, platform.StepFormat, argv, FormatFailed, r.deviceMessage("unable to format the device %q")); err != nil {
		return err
	}
	r.progress.Add(BudgetFormat)
	return nil
}

func (r *run) checkDevice() error {
	if r.req.DryRun {
		return nil
	}
	if err := r.installer.StatDevice(r.req.Device); err != nil {
		return r.stepError(DeviceNotFound, platform.StepMount, r.deviceMessage("the device %q does not exist"), err)
	}
	if err := r.installer.CheckWritable(r.req.Device); err != nil {
		return r.stepError(PermissionDenied, platform.StepMount, r.deviceMessage("you don't have permission to write to the device %q"), err)
	}
	return nil
}

func (r *run) mount(ctx context.Context) error {
	r.setState(StateMounting, StatusMounting)
	if !r.req.DryRun {
		path, err := r.req.MountPoint.Ensure()
		if err != nil {
			return r.stepError(MountFailed, platform.StepMount, r.deviceMessage("unable to mount the device %q"), err)
		}
		r.vars.MountPoint = path
	}

	argv, err := platform.Command(r.req.Platform, platform.StepMount, r.vars)
	if err != nil {
		return r.stepError(MountFailed, platform.StepMount, r.deviceMessage("unable to mount the device %q"), err)
	}
	return r.runCommand(ctx, platform.StepMount, argv, MountFailed, r.deviceMessage("unable to mount the device %q"))
}

func (r *run) unmount(ctx context.Context) {
	r.setState(StateUnmounting, StatusUnmounting)
	argv, err := platform.Command(r.req.Platform, platform.StepUnmount, r.vars)
	if err == nil {
		err = r.runCommand(ctx, platform.StepUnmount, argv, UnmountFailed, r.deviceMessage("unable to unmount the device %q"))
	}
	if err != nil {
		var stepErr *StepError
		if !errors.As(err, &stepErr) {
			err = &StepError{Kind: UnmountFailed, Step: platform.StepUnmount, Device: r.req.Device, Message: r.deviceMessage("unable to unmount the device %q"), Err: err}
		}
		r.warn(err, map[string]any{"kind": string(UnmountFailed)})
	}
}

func (r *run) writeBootSector(ctx context.Context) error {
	if ctx.Err() != nil {
		return ErrInterrupted
	}
	r.setState(StateWritingBootSector, StatusBootSector)
	// Accounted before the command runs.
	r.progress.Add(BudgetBootSector)

	argv, err := platform.BootSectorCommand(r.req.Platform, r.vars)
	if errors.Is(err, platform.ErrNoSuchDevice) {
		return r.stepError(DeviceNotFound, platform.StepBootSector, r.deviceMessage("the device %q does not exist"), err)
	}
	if err != nil {
		return r.stepError(BootSectorWriteFailed, platform.StepBootSector, r.deviceMessage("unable to write the boot sector on device %q"), err)
	}
	return r.runCommand(ctx, platform.StepBootSector, argv, BootSectorWriteFailed, r.deviceMessage("unable to write the boot sector on device %q"))
}

func (r *run) runCommand(ctx context.Context, step platform.Step, argv []string, kind ErrorKind, message string) error {
	if ctx.Err() != nil {
		return ErrInterrupted
	}
	if len(argv) == 0 {
		return r.stepError(kind, step, message, errors.New("empty command"))
	}

	display := DisplayCommand(argv)
	r.result.Commands = append(r.result.Commands, append([]string(nil), argv...))
	r.emit(output.LevelInfo, output.EventCommandStarted, fmt.Sprintf("running %s", display), map[string]any{
		"step":    string(step),
		"command": display,
		"argv":    argv,
	})
	if r.req.DryRun {
		return nil
	}

	res := r.installer.Runner.Run(ctx, ExecSpec{
		Bin:            argv[0],
		Args:           argv[1:],
		Timeout:        r.req.Timeout,
		DisplayCommand: display,
	})
	r.emit(output.LevelInfo, output.EventCommandFinished, fmt.Sprintf("%s exited with %d", display, res.ExitCode), map[string]any{
		"step":        string(step),
		"exit_code":   res.ExitCode,
		"duration_ms": res.Duration.Milliseconds(),
		"timed_out":   res.TimedOut,
	})

	if res.Interrupted {
		return ErrInterrupted
	}
	if !res.Failed() {
		return nil
	}

	cause := res.Err
	if cause == nil {
		cause = fmt.Errorf("exit status %d", res.ExitCode)
	}
	if res.TimedOut {
		cause = fmt.Errorf("timed out after %s: %w", r.req.Timeout, cause)
	}
	stepErr := &StepError{
		Kind:    kind,
		Step:    step,
		Device:  r.req.Device,
		Message: message,
		Stderr:  res.StderrTail,
		Err:     cause,
	}
	r.logger.Debug("step failed", zap.String("step", string(step)), zap.Int("exit_code", res.ExitCode), zap.String("stderr", firstLine(res.StderrTail)))
	return stepErr
}

func (r *run) finish(err error) (Result, error) {
	r.result.Progress = r.progress.Value()
	r.result.Warnings = r.warnings.ErrorOrNil()

	if err == nil {
		r.result.State = StateDone
		r.result.Status = StatusComplete
		r.emit(output.LevelInfo, output.EventInstallFinished, StatusComplete, map[string]any{
			"files":       r.result.Files,
			"directories": r.result.Directories,
			"skipped":     r.result.Skipped,
			"warnings":    len(r.warnings.WrappedErrors()),
		})
		r.logger.Info("installation complete", zap.Int("progress", r.result.Progress))
		return r.result, nil
	}

	r.result.State = StateFailed
	r.result.Status = StatusFailed
	details := map[string]any{"error": err.Error()}
	if kind, ok := KindOf(err); ok {
		details["kind"] = string(kind)
	}
	r.emit(output.LevelError, output.EventInstallFailed, fmt.Sprintf("%s %v", StatusFailed, err), details)
	r.logger.Info("installation failed", zap.Error(err), zap.Int("progress", r.result.Progress))
	return r.result, err
}

func (r *run) setState(state State, status string) {
	r.result.State = state
	r.result.Status = status
	r.logger.Debug("state changed", zap.String("state", string(state)))
	r.emit(output.LevelInfo, output.EventStateChanged, status, nil)
}

func (r *run) warn(err error, details map[string]any) {
	r.warnings = multierror.Append(r.warnings, err)
	r.emit(output.LevelWarn, output.EventWarning, err.Error(), details)
}

func (r *run) stepError(kind ErrorKind, step platform.Step, message string, err error) error {
	if errors.Is(err, context.Canceled) {
		return ErrInterrupted
	}
	return &StepError{Kind: kind, Step: step, Device: r.req.Device, Message: message, Err: err}
}

func (r *run) deviceMessage(format string) string {
	return fmt.Sprintf(format, r.req.Device)
}

func (r *run) emit(level output.Level, name output.EventName, message string, details map[string]any) {
	_ = r.installer.Emitter.Emit(output.Event{
		Timestamp: r.installer.Now(),
		Level:     level,
		Event:     name,
		RunID:     r.result.RunID,
		State:     string(r.result.State),
		Progress:  r.progress.Value(),
		Message:   message,
		Details:   details,
	})
}
