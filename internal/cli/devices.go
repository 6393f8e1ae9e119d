package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jaa/vinstall/internal/doctor"
	"github.com/jaa/vinstall/internal/exitcode"
	"github.com/jaa/vinstall/internal/platform"
)

func newDevicesCommand(app *AppContext) *cobra.Command {
	platformFlag := ""

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List candidate target devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _ := platform.Detect()
			if strings.TrimSpace(platformFlag) != "" {
				parsed, err := platform.ParsePlatform(platformFlag)
				if err != nil {
					return withExitCode(exitcode.InvalidUsage, err)
				}
				p = parsed
			}

			devices, err := doctor.NewChecker().Devices(cmd.Context(), p)
			if err != nil {
				return withExitCode(exitcode.RuntimeFailure, err)
			}

			if app.Opts.JSON {
				if err := json.NewEncoder(app.IO.Out).Encode(map[string]any{"devices": devices}); err != nil {
					return withExitCode(exitcode.RuntimeFailure, err)
				}
				return nil
			}

			w := tabwriter.NewWriter(app.IO.Out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DEVICE\tMOUNTPOINT\tFSTYPE\tSIZE\tNOTE")
			for _, device := range devices {
				note := ""
				switch {
				case device.Default && device.Present:
					note = "default"
				case device.Default:
					note = "default, not found"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", device.Path, dash(device.Mountpoint), dash(device.Fstype), formatSize(device.TotalBytes), note)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&platformFlag, "platform", "", "Override platform detection: linux, windows, solaris, unknown")
	return cmd
}

func dash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func formatSize(bytes uint64) string {
	const unit = 1024
	if bytes == 0 {
		return "-"
	}
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
