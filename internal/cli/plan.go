package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jaa/vinstall/internal/engine"
	"github.com/jaa/vinstall/internal/exitcode"
)

func newPlanCommand(app *AppContext) *cobra.Command {
	flags := targetFlags{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the commands an installation would run, without touching the device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadValidConfig(app)
			if err != nil {
				return withExitCode(exitcode.InvalidConfig, err)
			}
			target, err := resolveTarget(cfg, flags)
			if err != nil {
				return withExitCode(exitcode.InvalidUsage, err)
			}
			return runPlan(cmd.Context(), app, target)
		},
	}

	addTargetFlags(cmd, &flags)
	return cmd
}

type planReport struct {
	Platform   string     `json:"platform"`
	OSName     string     `json:"os_name"`
	Device     string     `json:"device"`
	Archive    string     `json:"archive"`
	BootSector string     `json:"boot_sector"`
	Entries    int        `json:"entries"`
	Commands   [][]string `json:"commands"`
	Warnings   []string   `json:"warnings,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// runPlan walks the pipeline in dry-run mode. The archive is still read so
// the entry count is real.
func runPlan(ctx context.Context, app *AppContext, target installTarget) error {
	if ctx == nil {
		ctx = context.Background()
	}
	installer := engine.NewInstaller(nil, nil, app.Logger())
	result, runErr := installer.Install(ctx, target.request(engine.NewMountPoint(target.MountDir), true))

	report := planReport{
		Platform:   target.Platform.String(),
		OSName:     target.OSName,
		Device:     target.Device,
		Archive:    target.Bundle.Archive,
		BootSector: target.Bundle.BootSector,
		Entries:    result.Entries,
		Commands:   result.Commands,
	}
	if report.Commands == nil {
		report.Commands = [][]string{}
	}
	for _, warning := range warningList(result.Warnings) {
		report.Warnings = append(report.Warnings, warning.Error())
	}
	if runErr != nil {
		report.Error = runErr.Error()
	}

	if app.Opts.JSON {
		if err := json.NewEncoder(app.IO.Out).Encode(report); err != nil {
			return withExitCode(exitcode.RuntimeFailure, err)
		}
	} else {
		printPlan(app, report)
	}
	return installFailure(runErr)
}

func printPlan(app *AppContext, report planReport) {
	out := app.IO.Out
	fmt.Fprintf(out, "Platform: %s (%s)\n", report.Platform, report.OSName)
	fmt.Fprintf(out, "Device:   %s\n", report.Device)
	fmt.Fprintf(out, "Archive:  %s (%d entries)\n", report.Archive, report.Entries)
	if !app.Opts.Quiet {
		for _, warning := range report.Warnings {
			fmt.Fprintf(out, "Warning:  %s\n", warning)
		}
	}
	fmt.Fprintln(out, "Commands:")
	for i, argv := range report.Commands {
		fmt.Fprintf(out, "  %d. %s\n", i+1, engine.DisplayCommand(argv))
	}
	if report.Error != "" {
		fmt.Fprintf(out, "Stops with: %s\n", strings.TrimSpace(report.Error))
	}
}
