package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jaa/vinstall/internal/doctor"
	"github.com/jaa/vinstall/internal/exitcode"
)

func newDoctorCommand(app *AppContext) *cobra.Command {
	flags := targetFlags{}

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check tools, bundle files and the target device",
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

			report := doctor.NewChecker().Check(cmd.Context(), doctor.Target{
				Platform: target.Platform,
				OSName:   target.OSName,
				Device:   target.Device,
				Bundle:   target.Bundle,
			})

			if app.Opts.JSON {
				encoder := json.NewEncoder(app.IO.Out)
				if err := encoder.Encode(report); err != nil {
					return withExitCode(exitcode.RuntimeFailure, err)
				}
			} else {
				printReport(app, report)
			}

			if report.HasErrors() {
				return withExitCode(exitcode.MissingDependency, fmt.Errorf("doctor found %d error(s)", report.ErrorCount()))
			}
			return nil
		},
	}

	addTargetFlags(cmd, &flags)
	return cmd
}

func printReport(app *AppContext, report doctor.Report) {
	labels := map[doctor.Severity]*color.Color{
		doctor.SeverityInfo:  color.New(color.FgGreen),
		doctor.SeverityWarn:  color.New(color.FgYellow),
		doctor.SeverityError: color.New(color.FgRed, color.Bold),
	}
	if app.Opts.NoColor {
		for _, label := range labels {
			label.DisableColor()
		}
	}

	checks := append([]doctor.Check{}, report.Checks...)
	sort.SliceStable(checks, func(i, j int) bool {
		return checks[i].Name < checks[j].Name
	})
	for _, check := range checks {
		if app.Opts.Quiet && check.Severity == doctor.SeverityInfo {
			continue
		}
		label := labels[check.Severity].Sprintf("[%s]", check.Severity)
		fmt.Fprintf(app.IO.Out, "%s %s: %s\n", label, check.Name, check.Message)
	}
}
