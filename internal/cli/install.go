package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jaa/vinstall/internal/engine"
	"github.com/jaa/vinstall/internal/exitcode"
	"github.com/jaa/vinstall/internal/output"
	"github.com/jaa/vinstall/internal/tui"
)

// confirmFunc asks a yes/no question on the terminal.
var confirmFunc = func(app *AppContext, title string, description string) (bool, error) {
	confirmed := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	)
	form.WithProgramOptions(tea.WithOutput(app.IO.ErrOut))
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return confirmed, nil
}

type installFlags struct {
	target targetFlags
	yes    bool
	useTUI bool
}

func newInstallCommand(app *AppContext) *cobra.Command {
	flags := installFlags{}

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Format the target floppy and install Visopsys onto it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.useTUI && app.Opts.JSON {
				return withExitCode(exitcode.InvalidUsage, fmt.Errorf("--tui cannot be combined with --json"))
			}

			cfg, err := loadValidConfig(app)
			if err != nil {
				return withExitCode(exitcode.InvalidConfig, err)
			}
			target, err := resolveTarget(cfg, flags.target)
			if err != nil {
				return withExitCode(exitcode.InvalidUsage, err)
			}

			if app.Opts.DryRun {
				return runPlan(cmd.Context(), app, target)
			}

			if !flags.yes {
				if app.Opts.NoInput || app.Opts.JSON || !isTTY(app.IO.In) {
					return withExitCode(exitcode.Declined, fmt.Errorf("refusing to erase %s without --yes", target.Device))
				}
				confirmed, err := confirmFunc(app,
					fmt.Sprintf("Install Visopsys on %s?", target.Device),
					"All data on the disk will be erased.")
				if err != nil {
					return withExitCode(exitcode.RuntimeFailure, err)
				}
				if !confirmed {
					return withExitCode(exitcode.Declined, fmt.Errorf("installation canceled"))
				}
			}

			return runInstall(cmd.Context(), app, target, flags.useTUI)
		},
	}

	addTargetFlags(cmd, &flags.target)
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Do not ask for confirmation before erasing the device")
	cmd.Flags().BoolVar(&flags.useTUI, "tui", false, "Show the full-screen installer window")
	return cmd
}

func addTargetFlags(cmd *cobra.Command, flags *targetFlags) {
	cmd.Flags().StringVar(&flags.Platform, "platform", "", "Override platform detection: linux, windows, solaris, unknown")
	cmd.Flags().StringVarP(&flags.Device, "device", "d", "", "Target device (default depends on the platform)")
	cmd.Flags().StringVar(&flags.MountDir, "mount-dir", "", "Mount point directory (default: a temporary directory)")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "Per-command timeout, e.g. 2m (default: none)")
}

func runInstall(parent context.Context, app *AppContext, target installTarget, useTUI bool) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, interruptSignals()...)
	defer stop()

	logger := app.Logger()
	mountPoint := engine.NewMountPoint(target.MountDir)
	defer func() {
		if err := mountPoint.Remove(); err != nil {
			logger.Warn("mount point cleanup failed", zap.Error(err))
		}
	}()

	runnerOut := io.Discard
	if app.Opts.Verbose && !useTUI {
		runnerOut = app.IO.ErrOut
	}
	runner := engine.NewSubprocessRunner(runnerOut, runnerOut, logger)
	request := target.request(mountPoint, false)

	if useTUI {
		err := tui.Run(ctx, tui.Options{
			OSName: target.OSName,
			Device: target.Device,
			Input:  app.IO.In,
			Output: app.IO.Out,
		}, func(ctx context.Context, emitter output.EventEmitter) error {
			_, err := engine.NewInstaller(runner, emitter, logger).Install(ctx, request)
			return err
		})
		return installFailure(err)
	}

	installer := engine.NewInstaller(runner, newEmitter(app), logger)
	_, err := installer.Install(ctx, request)
	return installFailure(err)
}

// newEmitter picks the event sink for the global output flags.
func newEmitter(app *AppContext) output.EventEmitter {
	if app.Opts.JSON {
		return output.NewJSONEmitter(app.IO.Out)
	}
	human := output.NewHumanEmitter(app.IO.Out, app.IO.ErrOut, app.Opts.Quiet, app.Opts.Verbose, app.Opts.NoColor)
	if app.Opts.Quiet || app.Opts.Verbose || !output.SupportsInPlaceUpdates(app.IO.Out) {
		return human
	}
	return output.NewCompactProgressEmitter(app.IO.Out, human)
}
